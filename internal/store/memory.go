package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"elbuensabor/internal/models"
)

type memorySubscriber struct {
	branch string
	ch     chan []models.Order
}

// MemoryOrders keeps orders in memory. It backs the tests and the demo mode
// the service falls back to when no MONGO_URI is configured.
type MemoryOrders struct {
	mu      sync.RWMutex
	orders  []models.Order
	subs    map[int]memorySubscriber
	nextSub int
}

func NewMemoryOrders() *MemoryOrders {
	return &MemoryOrders{subs: make(map[int]memorySubscriber)}
}

func (s *MemoryOrders) Insert(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	s.orders = append(s.orders, *order)
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *MemoryOrders) GetByID(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Order{}, ErrNotFound
}

func (s *MemoryOrders) ListSince(_ context.Context, branch string, since time.Time) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked(branch, since), nil
}

func (s *MemoryOrders) snapshotLocked(branch string, since time.Time) []models.Order {
	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if branch != "" && o.Branch != branch {
			continue
		}
		if !since.IsZero() && o.CreatedAt.Before(since) {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *MemoryOrders) UpdateStatus(_ context.Context, id primitive.ObjectID, newStatus string) (models.Order, error) {
	s.mu.Lock()
	var updated *models.Order
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = newStatus
			s.orders[i].UpdatedAt = time.Now()
			updated = &s.orders[i]
			break
		}
	}
	s.mu.Unlock()

	if updated == nil {
		return models.Order{}, ErrNotFound
	}
	s.notify()
	return *updated, nil
}

func (s *MemoryOrders) ApplyPaymentUpdate(_ context.Context, reference string, upd PaymentUpdate) (models.Order, error) {
	s.mu.Lock()
	var updated *models.Order
	for i := range s.orders {
		if s.orders[i].WompiReference == reference {
			s.orders[i].Status = upd.Status
			s.orders[i].PaymentStatus = upd.PaymentStatus
			s.orders[i].TransactionID = upd.TransactionID
			s.orders[i].UpdatedAt = upd.ProcessedAt
			processedAt := upd.ProcessedAt
			s.orders[i].WebhookProcessedAt = &processedAt
			updated = &s.orders[i]
			break
		}
	}
	s.mu.Unlock()

	if updated == nil {
		return models.Order{}, ErrNotFound
	}
	s.notify()
	return *updated, nil
}

func (s *MemoryOrders) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	found := false
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return ErrNotFound
	}
	s.notify()
	return nil
}

func (s *MemoryOrders) Watch(ctx context.Context, branch string) (<-chan []models.Order, error) {
	ch := make(chan []models.Order, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = memorySubscriber{branch: branch, ch: ch}
	ch <- s.snapshotLocked(branch, time.Time{})
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		close(ch)
		s.mu.Unlock()
	}()

	return ch, nil
}

// notify pushes a fresh snapshot to every subscriber. A subscriber that has
// not drained its previous snapshot only ever misses intermediate states,
// never the latest one.
func (s *MemoryOrders) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.subs {
		snapshot := s.snapshotLocked(sub.branch, time.Time{})
		select {
		case sub.ch <- snapshot:
		default:
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- snapshot:
			default:
			}
		}
	}
}
