package domain

// RejectionKind identifies why an order request was refused.
type RejectionKind string

const (
	RejectInvalidRequest     RejectionKind = "invalid_request"
	RejectProductNotFound    RejectionKind = "product_not_found"
	RejectAmbiguousProduct   RejectionKind = "ambiguous_product"
	RejectEmptyOrder         RejectionKind = "empty_order"
	RejectQuantityExceeded   RejectionKind = "quantity_exceeded"
	RejectOutOfStock         RejectionKind = "out_of_stock"
	RejectInvalidCatalogData RejectionKind = "invalid_catalog_data"
	RejectTooManyItems       RejectionKind = "too_many_items"
	RejectDuplicateProduct   RejectionKind = "duplicate_product"
)

// Rejection is a typed refusal. Each kind carries enough detail for the
// caller to phrase a specific prompt instead of a generic failure.
type Rejection struct {
	Kind        RejectionKind      `json:"kind"`
	Message     string             `json:"message"`
	ProductID   string             `json:"product_id,omitempty"`
	Query       string             `json:"query,omitempty"`
	Quantity    int                `json:"quantity,omitempty"`
	MaxQuantity int                `json:"max_quantity,omitempty"`
	Candidates  []ProductReference `json:"candidates,omitempty"`
}

// OutcomeKind discriminates the engine's answer to a create-order request.
type OutcomeKind string

const (
	OutcomeOrderCreated  OutcomeKind = "order_created"
	OutcomeClarification OutcomeKind = "clarification_needed"
	OutcomeRejected      OutcomeKind = "rejected"
)

// Outcome is the single result type of the engine entry point. Exactly one
// of Order, Clarification or Rejection is set, matching Kind. A
// clarification is a request for more user input, not a failure.
type Outcome struct {
	Kind          OutcomeKind `json:"kind"`
	Order         *Order      `json:"order,omitempty"`
	Clarification string      `json:"clarification,omitempty"`
	Rejection     *Rejection  `json:"rejection,omitempty"`
}

func OrderCreated(o *Order) *Outcome {
	return &Outcome{Kind: OutcomeOrderCreated, Order: o}
}

func NeedsClarification(reason string) *Outcome {
	return &Outcome{Kind: OutcomeClarification, Clarification: reason}
}

func Rejected(r *Rejection) *Outcome {
	return &Outcome{Kind: OutcomeRejected, Rejection: r}
}
