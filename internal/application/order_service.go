package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/ordercraft/ordercraft/internal/domain"
	"github.com/ordercraft/ordercraft/internal/domain/conversation"
)

// validate checks the shape of boundary payloads before any business rule
// runs. Business rules live in the domain, not in tags.
var validate = validatorv10.New()

// ItemInput is one requested product as it arrives from a caller. Any of
// ProductID, Name or Query identifies the product.
type ItemInput struct {
	ProductID string `json:"product_id" validate:"omitempty,max=64"`
	Name      string `json:"name"       validate:"omitempty,max=200"`
	Query     string `json:"query"      validate:"omitempty,max=200"`
	Quantity  int    `json:"quantity"   validate:"min=0,max=100000"`
}

// CreateOrderInput is the boundary payload of CreateOrder. Everything but
// the triggering utterance is optional; missing pieces are resolved from
// the conversation history.
type CreateOrderInput struct {
	History   []conversation.Turn  `json:"history"`
	Items     []ItemInput          `json:"items"     validate:"max=50,dive"`
	Quantity  int                  `json:"quantity"  validate:"min=0,max=100000"`
	Utterance string               `json:"utterance" validate:"max=2000"`
	Customer  *domain.CustomerInfo `json:"customer"`
	Notes     string               `json:"notes"     validate:"max=2000"`

	// Clamp caps oversized quantities at the per-line maximum instead of
	// rejecting. Callers set it after surfacing a QuantityExceeded
	// rejection and getting the user's consent.
	Clamp bool `json:"clamp"`
}

// OrderService is the order construction engine:
// resolve -> normalize -> validate -> assemble -> persist.
// It holds no per-request state; every call is independent and the same
// input yields the same outcome, so callers may retry freely.
type OrderService struct {
	catalog   domain.CatalogSearcher
	store     domain.OrderStore
	assembler *domain.Assembler
	cfg       domain.CatalogConfig
}

func NewOrderService(
	catalog domain.CatalogSearcher,
	store domain.OrderStore,
	cfg domain.CatalogConfig,
) *OrderService {
	return &OrderService{
		catalog:   catalog,
		store:     store,
		assembler: domain.NewAssembler(),
		cfg:       cfg,
	}
}

// CreateOrder turns a partial, conversational request into a persisted
// order or a typed refusal. Rejections and clarifications are outcomes,
// not errors; the error return carries only infrastructure failures, with
// timeouts wrapped as domain.ErrExternalTimeout. The caller bounds the
// whole call through ctx.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Outcome, error) {
	// 1. Shape check on the raw payload
	if err := validate.Struct(in); err != nil {
		slog.InfoContext(ctx, "order rejected", "kind", domain.RejectInvalidRequest)
		return domain.Rejected(&domain.Rejection{
			Kind:    domain.RejectInvalidRequest,
			Message: validationMessage(err),
		}), nil
	}

	// 2. Resolve omitted fields from the conversation
	resolved, clar := conversation.Resolve(in.History, conversation.PartialRequest{
		Items:     toHints(in.Items),
		Quantity:  in.Quantity,
		Utterance: in.Utterance,
		Customer:  in.Customer,
		Notes:     in.Notes,
	})
	if clar != nil {
		slog.InfoContext(ctx, "clarification needed", "reason", clar.Reason)
		return domain.NeedsClarification(clar.Reason), nil
	}

	// 3. Normalize: one catalog lookup per reference
	lines, rej, err := s.normalize(ctx, resolved.Items)
	if err != nil {
		return nil, err
	}
	if rej != nil {
		slog.InfoContext(ctx, "order rejected", "kind", rej.Kind, "query", rej.Query)
		return domain.Rejected(rej), nil
	}

	if in.Clamp {
		for i := range lines {
			if lines[i].Quantity > domain.MaxLineQuantity {
				lines[i].Quantity = domain.MaxLineQuantity
			}
		}
	}

	// 4. Validate the normalized line set
	if rej := domain.ValidateOrder(lines, resolved.Customer); rej != nil {
		slog.InfoContext(ctx, "order rejected", "kind", rej.Kind, "product_id", rej.ProductID)
		return domain.Rejected(rej), nil
	}

	// 5. Assemble and persist, regenerating the id once on collision
	order := s.assembler.Assemble(lines, resolved.Customer, resolved.Notes)
	if err := s.store.Put(ctx, order); err != nil {
		if !errors.Is(err, domain.ErrKeyConflict) {
			return nil, wrapExternal("storing order", err)
		}
		slog.WarnContext(ctx, "order id collision, regenerating", "order_id", order.OrderID)
		order = s.assembler.Assemble(lines, resolved.Customer, resolved.Notes)
		if err := s.store.Put(ctx, order); err != nil {
			if errors.Is(err, domain.ErrKeyConflict) {
				return nil, fmt.Errorf("storing order %s: %w", order.OrderID, domain.ErrIDCollisionExhausted)
			}
			return nil, wrapExternal("storing order", err)
		}
	}

	slog.InfoContext(ctx, "order created",
		"order_id", order.OrderID,
		"items", len(order.Items),
		"total", order.TotalAmount.String(),
	)
	return domain.OrderCreated(order), nil
}

// GetOrder fetches one stored order.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	o, err := s.store.Get(ctx, orderID)
	if err != nil {
		return nil, wrapExternal("loading order", err)
	}
	return o, nil
}

// ListOrders returns recent orders, optionally filtered by status.
func (s *OrderService) ListOrders(ctx context.Context, status domain.OrderStatus, limit int) ([]*domain.Order, error) {
	var (
		orders []*domain.Order
		err    error
	)
	if status == "" {
		orders, err = s.store.ListRecent(ctx, limit)
	} else {
		if !status.Valid() {
			return nil, fmt.Errorf("listing orders: unknown status %q", status)
		}
		orders, err = s.store.ListByStatus(ctx, status)
	}
	if err != nil {
		return nil, wrapExternal("listing orders", err)
	}
	return orders, nil
}

// UpdateStatus confirms or rejects a pending order.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("updating %s: unknown status %q", orderID, status)
	}
	if err := s.store.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, wrapExternal("updating order status", err)
	}
	slog.InfoContext(ctx, "order status updated", "order_id", orderID, "status", string(status))
	return s.GetOrder(ctx, orderID)
}

// OrderStats summarises the stored orders.
func (s *OrderService) OrderStats(ctx context.Context) (*domain.OrderStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, wrapExternal("computing order stats", err)
	}
	return stats, nil
}

// normalize maps each resolved item to exactly one catalog product. The
// first unresolvable item aborts with a rejection; infrastructure errors
// abort with an error.
func (s *OrderService) normalize(ctx context.Context, items []conversation.ResolvedItem) ([]domain.RequestedLine, *domain.Rejection, error) {
	lines := make([]domain.RequestedLine, 0, len(items))
	for _, it := range items {
		var p *domain.ProductReference
		if it.ProductID != "" {
			ref, err := s.catalog.Lookup(ctx, it.ProductID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, &domain.Rejection{
						Kind:      domain.RejectProductNotFound,
						Message:   fmt.Sprintf("product %s is not in the catalog", it.ProductID),
						ProductID: it.ProductID,
						Query:     it.Query,
					}, nil
				}
				return nil, nil, wrapExternal("catalog lookup", err)
			}
			p = ref
		} else {
			matches, err := s.catalog.Search(ctx, domain.CatalogQuery{Text: it.Query, Limit: s.cfg.MaxResults})
			if err != nil {
				return nil, nil, wrapExternal("catalog search", err)
			}
			match, rej := s.pickMatch(it.Query, matches)
			if rej != nil {
				return nil, rej, nil
			}
			p = match
		}
		lines = append(lines, domain.RequestedLine{Product: *p, Quantity: it.Quantity})
	}
	return lines, nil, nil
}

// pickMatch selects the single best catalog candidate for a query. No
// candidate above the score threshold means the product is unknown;
// several candidates within the ambiguity margin of the top score are
// equally ranked and force an AmbiguousProduct rejection listing them.
func (s *OrderService) pickMatch(query string, matches []domain.ProductReference) (*domain.ProductReference, *domain.Rejection) {
	var eligible []domain.ProductReference
	for _, m := range matches {
		if m.Score >= s.cfg.ScoreThreshold {
			eligible = append(eligible, m)
		}
	}
	if len(eligible) == 0 {
		return nil, &domain.Rejection{
			Kind:    domain.RejectProductNotFound,
			Message: fmt.Sprintf("no product matches %q", query),
			Query:   query,
		}
	}

	top := eligible[0]
	var contenders []domain.ProductReference
	for _, m := range eligible {
		if top.Score-m.Score <= s.cfg.AmbiguityMargin {
			contenders = append(contenders, m)
		}
	}
	if len(contenders) > 1 {
		names := make([]string, len(contenders))
		for i, c := range contenders {
			names[i] = c.Name
		}
		return nil, &domain.Rejection{
			Kind:       domain.RejectAmbiguousProduct,
			Message:    fmt.Sprintf("%q matches several products: %s", query, strings.Join(names, ", ")),
			Query:      query,
			Candidates: contenders,
		}
	}
	return &top, nil
}

func toHints(items []ItemInput) []conversation.ItemHint {
	hints := make([]conversation.ItemHint, 0, len(items))
	for _, it := range items {
		hints = append(hints, conversation.ItemHint{
			ProductID: it.ProductID,
			Name:      it.Name,
			Query:     it.Query,
			Quantity:  it.Quantity,
		})
	}
	return hints
}

// validationMessage flattens validator errors into one line a caller can
// show to the user.
func validationMessage(err error) string {
	var verrs validatorv10.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s fails %q", fe.StructNamespace(), fe.Tag()))
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

// wrapExternal tags timeouts from the catalog or the store so callers can
// distinguish a slow dependency from a hard failure.
func wrapExternal(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, domain.ErrExternalTimeout)
	}
	return fmt.Errorf("%s: %w", op, err)
}
