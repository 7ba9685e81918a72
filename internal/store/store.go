package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"elbuensabor/internal/models"
)

var (
	ErrNotFound = errors.New("order not found")
)

// PaymentUpdate is the mutation the webhook verifier applies once a gateway
// event has been authenticated.
type PaymentUpdate struct {
	Status        string
	PaymentStatus string
	TransactionID string
	ProcessedAt   time.Time
}

// Orders is the order store consumed by checkout, the kitchen console, the
// stats endpoints and the webhook verifier. It is always passed in as an
// explicit dependency, never reached through package state. Implementations
// hand out orders with normalized time.Time timestamps; callers never see
// raw database time values.
type Orders interface {
	Insert(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	// ListSince returns orders created at or after since (all orders when
	// since is zero), newest first, optionally filtered by branch.
	ListSince(ctx context.Context, branch string, since time.Time) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, newStatus string) (models.Order, error)
	// ApplyPaymentUpdate locates the order by its payment reference and
	// applies the mapped gateway outcome. Re-applying the same update is a
	// no-op in effect.
	ApplyPaymentUpdate(ctx context.Context, reference string, update PaymentUpdate) (models.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// Watch emits a full snapshot of the filtered order list whenever it
	// changes, newest first. The first snapshot arrives immediately. The
	// channel closes when ctx is done.
	Watch(ctx context.Context, branch string) (<-chan []models.Order, error)
}
