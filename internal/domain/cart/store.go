// internal/domain/cart/store.go
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrLineNotFound is returned when a cart line does not exist
	ErrLineNotFound = errors.New("cart line not found")
	// ErrInvalidQuantity is returned when a line is added with a quantity below one
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Backend persists cart lines. Anonymous carts live in Redis, user carts in Postgres.
type Backend interface {
	Load(ctx context.Context) ([]Line, error)
	// Insert stores a new line and returns it with its line id set
	Insert(ctx context.Context, line Line) (Line, error)
	SetQuantity(ctx context.Context, lineID string, quantity int) error
	Delete(ctx context.Context, lineID string) error
	Clear(ctx context.Context) error
}

// Store is a cart bound to one backend for the lifetime of a request.
// In-memory lines change only after the backend write succeeds, so a failed
// operation leaves the cart as it was.
type Store struct {
	backend Backend
	lines   []Line
}

// Open loads the cart held by backend
func Open(ctx context.Context, backend Backend) (*Store, error) {
	lines, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return &Store{backend: backend, lines: lines}, nil
}

// Lines returns a copy of the cart lines
func (s *Store) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Add merges line into the cart. A line for a product already in the cart has
// its quantity increased; otherwise the line is appended.
func (s *Store) Add(ctx context.Context, line Line) error {
	if line.Quantity < 1 {
		return ErrInvalidQuantity
	}

	for i := range s.lines {
		if s.lines[i].ProductID != line.ProductID {
			continue
		}
		quantity := s.lines[i].Quantity + line.Quantity
		if err := s.backend.SetQuantity(ctx, s.lines[i].LineID, quantity); err != nil {
			return fmt.Errorf("failed to update cart line: %w", err)
		}
		s.lines[i].Quantity = quantity
		return nil
	}

	line.LineID = ""
	saved, err := s.backend.Insert(ctx, line)
	if err != nil {
		return fmt.Errorf("failed to add cart line: %w", err)
	}
	s.lines = append(s.lines, saved)
	return nil
}

// UpdateQuantity sets a line's quantity. Quantities below one are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	if quantity < 1 {
		return nil
	}

	i := s.indexOf(lineID)
	if i < 0 {
		return ErrLineNotFound
	}

	if err := s.backend.SetQuantity(ctx, lineID, quantity); err != nil {
		return fmt.Errorf("failed to update cart line: %w", err)
	}
	s.lines[i].Quantity = quantity
	return nil
}

// Remove deletes a line
func (s *Store) Remove(ctx context.Context, lineID string) error {
	if err := s.backend.Delete(ctx, lineID); err != nil {
		return fmt.Errorf("failed to remove cart line: %w", err)
	}
	if i := s.indexOf(lineID); i >= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	}
	return nil
}

// Clear empties the cart and its backing storage
func (s *Store) Clear(ctx context.Context) error {
	if err := s.backend.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	s.lines = nil
	return nil
}

// Subtotal sums the effective price of every line times its quantity
func (s *Store) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// Total adds a shipping estimate to the subtotal. It is for display only;
// checkout recomputes the payable total.
func (s *Store) Total(shippingEstimate decimal.Decimal) decimal.Decimal {
	return s.Subtotal().Add(shippingEstimate)
}

// ItemCount sums the quantities of all lines
func (s *Store) ItemCount() int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// View summarises the cart with a shipping estimate
func (s *Store) View(shippingEstimate decimal.Decimal) View {
	lines := s.Lines()
	if lines == nil {
		lines = []Line{}
	}
	return View{
		Lines:             lines,
		ItemCount:         s.ItemCount(),
		Subtotal:          s.Subtotal(),
		EstimatedShipping: shippingEstimate,
		Total:             s.Total(shippingEstimate),
	}
}

func (s *Store) indexOf(lineID string) int {
	for i := range s.lines {
		if s.lines[i].LineID == lineID {
			return i
		}
	}
	return -1
}
