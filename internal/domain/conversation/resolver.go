package conversation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fatih/camelcase"
	"github.com/ordercraft/ordercraft/internal/domain"
)

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one conversation entry as supplied by the caller. Products holds
// the catalog candidates that were surfaced to the user on that turn; the
// resolver treats them as the concrete products "discussed" there.
type Turn struct {
	Role     Role                      `json:"role"`
	Text     string                    `json:"text"`
	Products []domain.ProductReference `json:"products,omitempty"`
}

// ItemHint is one partially specified product request taken from tool-call
// arguments. Any of ProductID, Name or Query identifies the product; a
// hint carrying none of them contributes only its quantity.
type ItemHint struct {
	ProductID string
	Name      string
	Query     string
	Quantity  int
}

// PartialRequest is the engine-boundary form of a create-order call. It
// may be incomplete: "I'll take it" arrives with no items at all.
type PartialRequest struct {
	Items     []ItemHint
	Quantity  int    // top-level quantity when no per-item quantity is given
	Utterance string // the triggering user text
	Customer  *domain.CustomerInfo
	Notes     string
}

// ResolvedItem names one product to normalize plus its quantity. ProductID
// is set when the product is already concrete; otherwise Query carries the
// text to search the catalog with.
type ResolvedItem struct {
	Query     string
	ProductID string
	Quantity  int
}

// ResolvedRequest is a fully specified request ready for normalization.
// Items preserve the order the user mentioned the products in.
type ResolvedRequest struct {
	Items    []ResolvedItem
	Customer *domain.CustomerInfo
	Notes    string
}

// Clarification asks the user to resolve what the history could not. It is
// a terminal outcome the caller surfaces as a question, never an error.
type Clarification struct {
	Reason string
}

// Resolve fills in the fields the caller omitted from the conversation
// history. Hints are used verbatim. Without a hint the resolver considers
// every distinct product discussed across the history: exactly one
// resolves directly, none or several yield a Clarification, unless the
// triggering utterance names exactly one of them. Customer fields come
// only from the triggering call, never from earlier history. The function
// is pure and reads nothing but its arguments, so identical input always
// gives an identical result.
func Resolve(history []Turn, req PartialRequest) (*ResolvedRequest, *Clarification) {
	identified, bareQty := splitHints(req.Items)
	if req.Quantity == 0 {
		req.Quantity = bareQty
	}
	if len(identified) > 0 {
		return resolveExplicit(identified, req), nil
	}

	candidates := discussedProducts(history)
	if len(candidates) == 0 {
		return nil, &Clarification{Reason: "no product discussed"}
	}
	if len(candidates) > 1 {
		named := namedCandidates(req.Utterance, candidates)
		if len(named) != 1 {
			return nil, &Clarification{
				Reason: fmt.Sprintf("ambiguous: %d products discussed", len(candidates)),
			}
		}
		candidates = named
	}

	p := candidates[0]
	qty := req.Quantity
	if qty == 0 {
		qty = quantityIn(req.Utterance, tokenSet(p.Name))
	}
	if qty == 0 {
		qty = 1
	}
	return &ResolvedRequest{
		Items:    []ResolvedItem{{Query: p.Name, ProductID: p.ProductID, Quantity: qty}},
		Customer: req.Customer,
		Notes:    req.Notes,
	}, nil
}

// splitHints separates hints that identify a product from bare
// quantity-only hints, returning the first bare quantity found.
func splitHints(hints []ItemHint) ([]ItemHint, int) {
	var identified []ItemHint
	bareQty := 0
	for _, h := range hints {
		if h.ProductID != "" || h.Name != "" || h.Query != "" {
			identified = append(identified, h)
		} else if bareQty == 0 && h.Quantity > 0 {
			bareQty = h.Quantity
		}
	}
	return identified, bareQty
}

func resolveExplicit(hints []ItemHint, req PartialRequest) *ResolvedRequest {
	items := make([]ResolvedItem, 0, len(hints))
	for _, h := range hints {
		query := h.Query
		if query == "" {
			query = h.Name
		}
		qty := h.Quantity
		if qty == 0 {
			qty = req.Quantity
		}
		// An utterance-level number applies only to a single-product
		// request; with several products it is not attributable.
		if qty == 0 && len(hints) == 1 {
			qty = quantityIn(req.Utterance, tokenSet(query+" "+h.ProductID))
		}
		if qty == 0 {
			qty = 1
		}
		items = append(items, ResolvedItem{Query: query, ProductID: h.ProductID, Quantity: qty})
	}
	return &ResolvedRequest{Items: items, Customer: req.Customer, Notes: req.Notes}
}

// discussedProducts collects the distinct products surfaced across the
// history, in first-mention order.
func discussedProducts(history []Turn) []domain.ProductReference {
	var out []domain.ProductReference
	seen := make(map[string]bool)
	for _, turn := range history {
		for _, p := range turn.Products {
			if p.ProductID == "" || seen[p.ProductID] {
				continue
			}
			seen[p.ProductID] = true
			out = append(out, p)
		}
	}
	return out
}

// namedCandidates returns the candidates the utterance singles out. A
// candidate counts as named when the text contains a token that occurs in
// that candidate's name and in no other candidate's name, so a shared word
// like "Pro" never disambiguates.
func namedCandidates(text string, candidates []domain.ProductReference) []domain.ProductReference {
	textTokens := tokenSet(text)
	nameTokens := make([]map[string]bool, len(candidates))
	counts := make(map[string]int)
	for i, c := range candidates {
		nameTokens[i] = tokenSet(c.Name)
		for tok := range nameTokens[i] {
			counts[tok]++
		}
	}

	var named []domain.ProductReference
	for i, c := range candidates {
		for tok := range nameTokens[i] {
			if counts[tok] == 1 && textTokens[tok] {
				named = append(named, c)
				break
			}
		}
	}
	return named
}

var wordPattern = regexp.MustCompile(`[A-Za-z0-9]+`)

// tokenSet lowercases and splits text into word tokens. CamelCase words
// contribute their parts as well as the whole word, so "MacBook" matches
// "macbook" and also "mac book". Single-character fragments are dropped.
func tokenSet(s string) map[string]bool {
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

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// quantityIn extracts an explicit quantity from the utterance, or 0 when
// none is present. Tokens belonging to the product name are excluded so
// the "15" in "iPhone 15 Pro" is never read as a quantity.
func quantityIn(text string, nameTokens map[string]bool) int {
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if nameTokens[w] {
			continue
		}
		if n, ok := numberWords[w]; ok {
			return n
		}
		if w[0] >= '0' && w[0] <= '9' && len(w) <= 4 {
			if n, err := strconv.Atoi(w); err == nil && n > 0 {
				return n
			}
		}
	}
	return 0
}
