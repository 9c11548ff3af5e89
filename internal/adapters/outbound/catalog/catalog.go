package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/fatih/camelcase"
	"github.com/ordercraft/ordercraft/internal/domain"
	"github.com/shopspring/decimal"
)

// Weight of a query token by where it matched.
const (
	nameWeight        = 1.0
	categoryWeight    = 0.5
	descriptionWeight = 0.4
)

// maxUnitPrice guards against data-entry mistakes in the catalog file.
var maxUnitPrice = decimal.NewFromInt(50000)

// Store is a read-only product catalog backed by a JSON file. Lookups are
// lexical: names, categories and descriptions are tokenized once at load
// time and scored against query tokens per request.
type Store struct {
	products []domain.ProductReference
	byID     map[string]int
	nameToks []map[string]bool
	catToks  []map[string]bool
	descToks []map[string]bool
}

// Load reads and validates the catalog file.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	var entries []domain.ProductReference
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	return New(entries), nil
}

// New builds a Store from already loaded entries. Invalid and duplicate
// entries are skipped with a warning so one bad row cannot take the whole
// catalog down.
func New(entries []domain.ProductReference) *Store {
	s := &Store{byID: make(map[string]int)}
	for _, p := range entries {
		p.ProductID = strings.ToUpper(strings.TrimSpace(p.ProductID))
		if err := checkEntry(p); err != nil {
			slog.Warn("skipping catalog entry", "product_id", p.ProductID, "reason", err.Error())
			continue
		}
		if _, dup := s.byID[p.ProductID]; dup {
			slog.Warn("skipping duplicate catalog entry", "product_id", p.ProductID)
			continue
		}
		p.Score = 0
		s.byID[p.ProductID] = len(s.products)
		s.products = append(s.products, p)
		s.nameToks = append(s.nameToks, tokenize(p.Name))
		s.catToks = append(s.catToks, tokenize(p.Category))
		s.descToks = append(s.descToks, tokenize(p.Description))
	}
	return s
}

func checkEntry(p domain.ProductReference) error {
	if p.ProductID == "" {
		return fmt.Errorf("product_id must not be empty")
	}
	if p.Name == "" || len(p.Name) > 200 {
		return fmt.Errorf("name must be 1 to 200 characters")
	}
	if !p.UnitPrice.IsPositive() {
		return fmt.Errorf("unit_price must be positive")
	}
	if p.UnitPrice.GreaterThan(maxUnitPrice) {
		return fmt.Errorf("unit_price exceeds %s", maxUnitPrice)
	}
	if !p.StockState.Valid() {
		return fmt.Errorf("unknown stock_state %q", p.StockState)
	}
	return nil
}

// Search scores every product against the query and returns matches ranked
// best first. Ties break by product id so ordering is stable across calls.
func (s *Store) Search(ctx context.Context, q domain.CatalogQuery) ([]domain.ProductReference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	qToks := queryTokens(q.Text)
	if len(qToks) == 0 {
		return nil, nil
	}

	type scored struct {
		idx   int
		score float64
	}
	var hits []scored
	for i, p := range s.products {
		if q.Category != "" && !strings.EqualFold(q.Category, p.Category) {
			continue
		}
		if q.MaxPrice.IsPositive() && p.UnitPrice.GreaterThan(q.MaxPrice) {
			continue
		}
		if sc := s.score(i, qToks, q.Text); sc > 0 {
			hits = append(hits, scored{idx: i, score: sc})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].score != hits[b].score {
			return hits[a].score > hits[b].score
		}
		return s.products[hits[a].idx].ProductID < s.products[hits[b].idx].ProductID
	})

	limit := q.Limit
	if limit <= 0 || limit > len(hits) {
		limit = len(hits)
	}
	out := make([]domain.ProductReference, 0, limit)
	for _, h := range hits[:limit] {
		p := s.products[h.idx]
		p.Score = h.score
		out = append(out, p)
	}
	return out, nil
}

// Lookup returns the product with the given id.
func (s *Store) Lookup(ctx context.Context, productID string) (*domain.ProductReference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i, ok := s.byID[strings.ToUpper(strings.TrimSpace(productID))]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}
	p := s.products[i]
	return &p, nil
}

// Len reports the number of valid products loaded.
func (s *Store) Len() int { return len(s.products) }

// List returns every product in catalog order.
func (s *Store) List(ctx context.Context) ([]domain.ProductReference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.ProductReference, len(s.products))
	copy(out, s.products)
	return out, nil
}

// Categories returns the distinct categories in first-seen order.
func (s *Store) Categories() []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range s.products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}

// score rates one product against the query tokens. A query that is
// exactly the product id always scores 1. Otherwise each query token adds
// the weight of its best hit and the sum is normalised by query length.
func (s *Store) score(i int, qToks []string, rawQuery string) float64 {
	if strings.EqualFold(strings.TrimSpace(rawQuery), s.products[i].ProductID) {
		return 1
	}
	var total float64
	for _, tok := range qToks {
		switch {
		case s.nameToks[i][tok]:
			total += nameWeight
		case s.catToks[i][tok]:
			total += categoryWeight
		case s.descToks[i][tok]:
			total += descriptionWeight
		}
	}
	return total / float64(len(qToks))
}

var wordPattern = regexp.MustCompile(`[A-Za-z0-9]+`)

// tokenize lowercases text into a token set. CamelCase words contribute
// their parts as well as the whole word, so "MacBook" is findable by
// "macbook" and by "mac book". Single-character fragments are dropped.
func tokenize(s string) map[string]bool {
	set := make(map[string]bool)
	add := func(tok string) {
		if len(tok) > 1 {
			set[strings.ToLower(tok)] = true
		}
	}
	for _, w := range wordPattern.FindAllString(s, -1) {
		add(w)
		for _, part := range camelcase.Split(w) {
			add(part)
		}
	}
	return set
}

// queryTokens returns the distinct query tokens in order of appearance.
func queryTokens(s string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(tok string) {
		tok = strings.ToLower(tok)
		if len(tok) > 1 && !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	for _, w := range wordPattern.FindAllString(s, -1) {
		add(w)
		for _, part := range camelcase.Split(w) {
			add(part)
		}
	}
	return out
}
