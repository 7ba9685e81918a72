package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"elbuensabor/internal/models"
	"elbuensabor/internal/store"
)

func webhookRouter(t *testing.T, orders store.Orders, secret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Any("/webhook", NewWebhook(orders, secret).Handle())
	return r
}

func seedCardOrder(t *testing.T, orders *store.MemoryOrders, reference string) {
	t.Helper()
	o := models.Order{
		CustomerName:   "Ana",
		PaymentMethod:  models.PaymentMethodCard,
		PaymentStatus:  models.PaymentStatusPending,
		WompiReference: reference,
		Status:         models.StatusPending,
		TotalAmount:    8399,
		CreatedAt:      time.Now(),
	}
	if err := orders.Insert(context.Background(), &o); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}
}

func postEvent(r *gin.Engine, body, signature, timestamp string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	if signature != "" {
		req.Header.Set(HeaderSignature, signature)
	}
	if timestamp != "" {
		req.Header.Set(HeaderTimestamp, timestamp)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookRejectsNonPost(t *testing.T) {
	r := webhookRouter(t, store.NewMemoryOrders(), testSecret)

	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestWebhookRejectsMissingTransaction(t *testing.T) {
	r := webhookRouter(t, store.NewMemoryOrders(), testSecret)

	w := postEvent(r, `{"event":"transaction.updated","data":{}}`, "sig", "ts")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestWebhookRejectsMissingHeaders(t *testing.T) {
	r := webhookRouter(t, store.NewMemoryOrders(), testSecret)

	w := postEvent(r, testBody, "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestWebhookFailsWhenSecretMissing(t *testing.T) {
	r := webhookRouter(t, store.NewMemoryOrders(), "")

	w := postEvent(r, testBody, testSignature, testTimestamp)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for unconfigured secret, got %d", w.Code)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	orders := store.NewMemoryOrders()
	seedCardOrder(t, orders, "ref-abc")
	r := webhookRouter(t, orders, testSecret)

	w := postEvent(r, testBody, strings.Repeat("0", 64), testTimestamp)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad signature, got %d", w.Code)
	}
}

func TestWebhookUnknownReference(t *testing.T) {
	r := webhookRouter(t, store.NewMemoryOrders(), testSecret)

	w := postEvent(r, testBody, testSignature, testTimestamp)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown reference, got %d", w.Code)
	}
}

func TestWebhookAppliesApprovedUpdate(t *testing.T) {
	orders := store.NewMemoryOrders()
	seedCardOrder(t, orders, "ref-abc")
	r := webhookRouter(t, orders, testSecret)

	w := postEvent(r, testBody, testSignature, testTimestamp)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	listed, err := orders.ListSince(context.Background(), "", time.Time{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	got := listed[0]
	if got.Status != models.StatusConfirmed {
		t.Fatalf("expected status confirmed, got %s", got.Status)
	}
	if got.PaymentStatus != models.PaymentStatusApproved {
		t.Fatalf("expected paymentStatus approved, got %s", got.PaymentStatus)
	}
	if got.TransactionID != "tx-123" {
		t.Fatalf("expected transactionId tx-123, got %s", got.TransactionID)
	}
	if got.WebhookProcessedAt == nil {
		t.Fatal("expected webhookProcessedAt to be stamped")
	}
}

func TestWebhookIsIdempotent(t *testing.T) {
	orders := store.NewMemoryOrders()
	seedCardOrder(t, orders, "ref-abc")
	r := webhookRouter(t, orders, testSecret)

	first := postEvent(r, testBody, testSignature, testTimestamp)
	second := postEvent(r, testBody, testSignature, testTimestamp)
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("expected both deliveries to succeed, got %d and %d", first.Code, second.Code)
	}

	listed, _ := orders.ListSince(context.Background(), "", time.Time{})
	if listed[0].Status != models.StatusConfirmed {
		t.Fatalf("expected status to stay confirmed, got %s", listed[0].Status)
	}
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	orders := store.NewMemoryOrders()
	seedCardOrder(t, orders, "ref-abc")
	r := webhookRouter(t, orders, testSecret)

	body := `{"event":"transaction.created","data":{"transaction":{"id":"tx-9","status":"APPROVED","reference":"ref-abc"}}}`
	sig := Signature(testSecret, testTimestamp, []byte(body))

	w := postEvent(r, body, sig, testTimestamp)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for ignored event, got %d", w.Code)
	}

	listed, _ := orders.ListSince(context.Background(), "", time.Time{})
	if listed[0].Status != models.StatusPending {
		t.Fatalf("expected order untouched, got %s", listed[0].Status)
	}
}
