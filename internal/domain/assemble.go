package domain

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Assembler turns a validated line set into a persistable Order. The clock
// and suffix source are injectable so tests can pin ids and timestamps.
type Assembler struct {
	now       func() time.Time
	newSuffix func() string
}

func NewAssembler() *Assembler {
	return &Assembler{now: time.Now, newSuffix: newSuffixSequence()}
}

// NewAssemblerForTest pins the clock and the id suffix source.
func NewAssemblerForTest(now func() time.Time, newSuffix func() string) *Assembler {
	return &Assembler{now: now, newSuffix: newSuffix}
}

// newSuffixSequence returns a source of 8-character hex suffixes that never
// repeats within one process run: a random 32-bit start point, advanced
// atomically per id. A purely random suffix would hit the birthday bound
// well before 100k ids in the same second.
func newSuffixSequence() func() string {
	u := uuid.New()
	var ctr atomic.Uint32
	ctr.Store(binary.BigEndian.Uint32(u[:4]))
	return func() string {
		return fmt.Sprintf("%08X", ctr.Add(1))
	}
}

// NewOrderID generates an id of the form ORD-<UTC timestamp>-<8 hex chars>.
// The timestamp has second precision; the suffix is seeded from a v4 UUID
// and never repeats within the process, so uniqueness holds by construction
// and the store's primary key is only a backstop for concurrent instances.
func (a *Assembler) NewOrderID() string {
	return "ORD-" + a.now().UTC().Format("20060102150405") + "-" + a.newSuffix()
}

// Assemble builds the final Order: exact decimal total, fresh id, pending
// status. It assumes the lines already passed validation and cannot fail
// on business grounds; the only failure mode left is an id collision at
// the store, which the caller handles by regenerating the id.
func (a *Assembler) Assemble(lines []RequestedLine, customer *CustomerInfo, notes string) *Order {
	items := make([]OrderLine, 0, len(lines))
	total := decimal.Zero
	for _, l := range lines {
		line := NewOrderLine(l.Product, l.Quantity)
		items = append(items, line)
		total = total.Add(line.TotalPrice)
	}
	if customer != nil && customer.Empty() {
		customer = nil
	}
	return &Order{
		OrderID:     a.NewOrderID(),
		Items:       items,
		Customer:    customer,
		TotalAmount: total,
		Status:      StatusPending,
		CreatedAt:   a.now().UTC(),
		Notes:       notes,
	}
}
