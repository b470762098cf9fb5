// internal/domain/cart/local_store.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LocalStore keeps an anonymous cart as one JSON blob per session.
// A line's id is its product id, so re-adding a product merges quantities.
type LocalStore struct {
	client    *redis.Client
	sessionID string
	key       string
	ttl       time.Duration
}

// NewLocalStore creates a Redis backend for the given session
func NewLocalStore(client *redis.Client, keyPrefix, sessionID string, ttl time.Duration) *LocalStore {
	return &LocalStore{
		client:    client,
		sessionID: sessionID,
		key:       keyPrefix + sessionID,
		ttl:       ttl,
	}
}

// Load returns the session's lines, or none when the session has no cart
func (s *LocalStore) Load(ctx context.Context) ([]Line, error) {
	sc, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return sc.Lines, nil
}

// Insert appends a line keyed by its product id
func (s *LocalStore) Insert(ctx context.Context, line Line) (Line, error) {
	sc, err := s.get(ctx)
	if err != nil {
		return Line{}, err
	}

	line.LineID = line.ProductID
	sc.Lines = append(sc.Lines, line)
	if err := s.save(ctx, sc); err != nil {
		return Line{}, err
	}
	return line, nil
}

// SetQuantity changes the quantity of a line
func (s *LocalStore) SetQuantity(ctx context.Context, lineID string, quantity int) error {
	sc, err := s.get(ctx)
	if err != nil {
		return err
	}

	for i := range sc.Lines {
		if sc.Lines[i].LineID == lineID {
			sc.Lines[i].Quantity = quantity
			return s.save(ctx, sc)
		}
	}
	return ErrLineNotFound
}

// Delete removes a line. Removing an absent line is not an error.
func (s *LocalStore) Delete(ctx context.Context, lineID string) error {
	sc, err := s.get(ctx)
	if err != nil {
		return err
	}

	kept := sc.Lines[:0]
	for _, l := range sc.Lines {
		if l.LineID != lineID {
			kept = append(kept, l)
		}
	}
	sc.Lines = kept

	if len(sc.Lines) == 0 {
		return s.Clear(ctx)
	}
	return s.save(ctx, sc)
}

// Clear removes the session's cart
func (s *LocalStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to delete session cart: %w", err)
	}
	return nil
}

func (s *LocalStore) get(ctx context.Context) (*SessionCart, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return &SessionCart{SessionID: s.sessionID, Lines: []Line{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session cart: %w", err)
	}

	var sc SessionCart
	if err := json.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("failed to decode session cart: %w", err)
	}
	return &sc, nil
}

func (s *LocalStore) save(ctx context.Context, sc *SessionCart) error {
	sc.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("failed to encode session cart: %w", err)
	}
	if err := s.client.Set(ctx, s.key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session cart: %w", err)
	}
	return nil
}
