package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Append adds a fully-formed order to the ledger.
	Append(ctx context.Context, order Order) (Order, error)
	Get(ctx context.Context, id string) (Order, error)
	List(ctx context.Context) []Order
	Delete(ctx context.Context, id string) error

	// Advance moves status forward only. A repeat of the current status is a
	// silent no-op; a backward target is a no-op recorded at WARNING.
	Advance(ctx context.Context, id string, target Status) (Order, error)

	// SetStatus is the unguarded manual correction path. Every call is
	// recorded at WARNING.
	SetStatus(ctx context.Context, id string, target Status) (Order, error)

	// UpdateItems replaces the order's lines and recomputes totalAmount.
	// A nil note leaves the existing note untouched.
	UpdateItems(ctx context.Context, id string, items []OrderItem, note *string) (Order, error)

	// Replace overwrites the whole ledger; used by backup import.
	Replace(ctx context.Context, orders []Order) error
}

var (
	ErrNotFound        = errors.New("order_not_found")
	ErrInvalidStatus   = errors.New("invalid_order_status")
	ErrInvalidQuantity = errors.New("invalid_item_quantity")
)
