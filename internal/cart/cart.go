package cart

import (
	"sync"

	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/domain"

	"github.com/google/uuid"
)

// Line pairs a product snapshot with a positive quantity. A product appears
// at most once per cart; repeated adds merge into the existing line.
type Line struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// AddOutcome distinguishes a fresh line from a quantity merge so the caller
// can phrase the notification accordingly.
type AddOutcome int

const (
	OutcomeAdded AddOutcome = iota
	OutcomeQuantityUpdated
)

// Cart holds the selected products for one session. All reads of the totals
// rescan the line list; nothing is cached. Operations never fail on
// malformed input: unknown ids and non-positive quantities resolve to the
// documented no-op or removal behavior.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// AddItem inserts a line for the product or, if one already exists,
// increments its quantity by quantity. Returns whether a new line was
// created or an existing one updated.
func (c *Cart) AddItem(product domain.Product, quantity int) AddOutcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].Product.ID == product.ID {
			c.lines[i].Quantity += quantity
			return OutcomeQuantityUpdated
		}
	}

	c.lines = append(c.lines, Line{Product: product, Quantity: quantity})
	return OutcomeAdded
}

// RemoveItem deletes the line for productID if present. The returned name is
// the removed product's name; found is false when no line matched, which is
// not an error.
func (c *Cart) RemoveItem(productID uuid.UUID) (name string, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.removeLocked(productID)
}

func (c *Cart) removeLocked(productID uuid.UUID) (string, bool) {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			name := c.lines[i].Product.Name
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return name, true
		}
	}
	return "", false
}

// UpdateQuantity sets the line's quantity to the given absolute value. A
// quantity of zero or less removes the line, exactly as RemoveItem would.
// An unknown productID is a silent no-op.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		c.removeLocked(productID)
		return
	}

	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
}

// Lines returns a copy of the current line list.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// TotalItems is the sum of all line quantities, recomputed on every call.
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice is the sum of price times quantity over all lines, recomputed
// on every call.
func (c *Cart) TotalPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0.0
	for _, line := range c.lines {
		total += line.Product.Price * float64(line.Quantity)
	}
	return total
}
