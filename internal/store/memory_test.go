package store

import (
	"context"
	"testing"
	"time"

	"elbuensabor/internal/models"
)

func TestMemoryOrdersInsertAndGet(t *testing.T) {
	s := NewMemoryOrders()
	order := models.Order{
		CustomerName: "Ana Torres",
		Branch:       models.BranchNorte,
		Status:       models.StatusPending,
		TotalAmount:  9900,
		CreatedAt:    time.Now(),
	}
	if err := s.Insert(context.Background(), &order); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if order.ID.IsZero() {
		t.Fatalf("Insert should assign an id")
	}

	got, err := s.GetByID(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.CustomerName != "Ana Torres" {
		t.Errorf("CustomerName = %q", got.CustomerName)
	}
}

func TestMemoryOrdersListSinceFiltersAndSorts(t *testing.T) {
	s := NewMemoryOrders()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	insert := func(branch string, at time.Time) {
		o := models.Order{Branch: branch, Status: models.StatusPending, CreatedAt: at}
		if err := s.Insert(context.Background(), &o); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	insert(models.BranchNorte, now.Add(-2*time.Hour))
	insert(models.BranchSur, now.Add(-1*time.Hour))
	insert(models.BranchNorte, now)
	insert(models.BranchNorte, now.Add(-48*time.Hour))

	got, err := s.ListSince(context.Background(), models.BranchNorte, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("ListSince: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if !got[0].CreatedAt.After(got[1].CreatedAt) {
		t.Errorf("expected newest-first ordering")
	}
}

func TestMemoryOrdersApplyPaymentUpdate(t *testing.T) {
	s := NewMemoryOrders()
	order := models.Order{
		WompiReference: "ref-123",
		Status:         models.StatusPending,
		PaymentStatus:  models.PaymentStatusPending,
		CreatedAt:      time.Now(),
	}
	if err := s.Insert(context.Background(), &order); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	processedAt := time.Now()
	got, err := s.ApplyPaymentUpdate(context.Background(), "ref-123", PaymentUpdate{
		Status:        models.StatusConfirmed,
		PaymentStatus: models.PaymentStatusApproved,
		TransactionID: "tx-9",
		ProcessedAt:   processedAt,
	})
	if err != nil {
		t.Fatalf("ApplyPaymentUpdate: %v", err)
	}
	if got.Status != models.StatusConfirmed || got.PaymentStatus != models.PaymentStatusApproved {
		t.Errorf("got status %q / payment %q", got.Status, got.PaymentStatus)
	}
	if got.WebhookProcessedAt == nil {
		t.Errorf("WebhookProcessedAt should be set")
	}

	if _, err := s.ApplyPaymentUpdate(context.Background(), "missing", PaymentUpdate{}); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryOrdersWatchDeliversSnapshots(t *testing.T) {
	s := NewMemoryOrders()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.Watch(ctx, models.BranchNorte)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	// Initial snapshot is empty.
	select {
	case snap := <-ch:
		if len(snap) != 0 {
			t.Fatalf("initial snapshot len = %d, want 0", len(snap))
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for initial snapshot")
	}

	order := models.Order{Branch: models.BranchNorte, Status: models.StatusPending, CreatedAt: time.Now()}
	if err := s.Insert(context.Background(), &order); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	select {
	case snap := <-ch:
		if len(snap) != 1 {
			t.Fatalf("snapshot len = %d, want 1", len(snap))
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for update snapshot")
	}

	// Orders for the other branch do not reach this subscriber.
	other := models.Order{Branch: models.BranchSur, Status: models.StatusPending, CreatedAt: time.Now()}
	if err := s.Insert(context.Background(), &other); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	select {
	case snap := <-ch:
		if len(snap) != 1 {
			t.Errorf("branch-scoped snapshot len = %d, want 1", len(snap))
		}
	case <-time.After(200 * time.Millisecond):
	}
}
