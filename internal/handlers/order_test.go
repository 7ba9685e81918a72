package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"elbuensabor/internal/models"
	"elbuensabor/internal/store"
)

func baseOrderRequest() createOrderRequest {
	return createOrderRequest{
		CustomerName:  "Carlos Pérez",
		Contact:       "3001234567",
		Address:       "Calle 45 #12-34",
		DeliveryType:  models.DeliveryTypeDelivery,
		Branch:        models.BranchNorte,
		PaymentMethod: models.PaymentMethodCash,
		Items: []createOrderItemRequest{
			{Name: "Empanada de Pollo", Price: 2500, Quantity: 3},
			{Name: "Jugo de Lulo", Price: 4000, Quantity: 1},
		},
	}
}

func TestBuildOrderFromRequestAddsDeliveryFee(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	order, err := buildOrderFromRequest(baseOrderRequest(), 3000, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.TotalAmount != 2500*3+4000+3000 {
		t.Errorf("TotalAmount = %d, want %d", order.TotalAmount, 2500*3+4000+3000)
	}
	if order.Status != models.StatusPending {
		t.Errorf("Status = %q, want %q", order.Status, models.StatusPending)
	}
	if !order.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", order.CreatedAt, now)
	}
}

func TestBuildOrderFromRequestPickupSkipsFee(t *testing.T) {
	req := baseOrderRequest()
	req.DeliveryType = models.DeliveryTypePickup
	req.Address = ""

	order, err := buildOrderFromRequest(req, 3000, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.TotalAmount != 2500*3+4000 {
		t.Errorf("TotalAmount = %d, want %d", order.TotalAmount, 2500*3+4000)
	}
}

func TestBuildOrderFromRequestValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*createOrderRequest)
	}{
		{"no items", func(r *createOrderRequest) { r.Items = nil }},
		{"bad delivery type", func(r *createOrderRequest) { r.DeliveryType = "teleport" }},
		{"delivery without address", func(r *createOrderRequest) { r.Address = " " }},
		{"bad branch", func(r *createOrderRequest) { r.Branch = "oeste" }},
		{"bad payment method", func(r *createOrderRequest) { r.PaymentMethod = "cheque" }},
		{"zero quantity", func(r *createOrderRequest) { r.Items[0].Quantity = 0 }},
		{"negative price", func(r *createOrderRequest) { r.Items[0].Price = -100 }},
		{"bad menuItemId", func(r *createOrderRequest) { r.Items[0].MenuItemID = "not-hex" }},
		{"nameless item without id", func(r *createOrderRequest) { r.Items[0].Name = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := baseOrderRequest()
			tc.mutate(&req)
			if _, err := buildOrderFromRequest(req, 3000, time.Now()); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func newOrderRouter(orders store.Orders) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/orders", CreateOrder(orders, nil, "test-secret", 3000))
	r.GET("/orders/:id", GetOrder(orders))
	return r
}

func postOrder(t *testing.T, r *gin.Engine, req createOrderRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	w := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, httpReq)
	return w
}

func TestCreateOrderCashGuest(t *testing.T) {
	orders := store.NewMemoryOrders()
	w := postOrder(t, newOrderRouter(orders), baseOrderRequest())

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp struct {
		OrderID        string `json:"orderId"`
		TotalAmount    int64  `json:"totalAmount"`
		WompiReference string `json:"wompiReference"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.TotalAmount != 14500 {
		t.Errorf("totalAmount = %d, want 14500", resp.TotalAmount)
	}
	if resp.WompiReference != "" {
		t.Errorf("cash order should not carry a gateway reference, got %q", resp.WompiReference)
	}

	stored, err := orders.ListSince(context.Background(), "", time.Time{})
	if err != nil {
		t.Fatalf("ListSince: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("stored orders = %d, want 1", len(stored))
	}
	if stored[0].CustomerID != nil {
		t.Errorf("guest order should have nil customerId")
	}
}

func TestCreateOrderCardGetsWompiReference(t *testing.T) {
	orders := store.NewMemoryOrders()
	req := baseOrderRequest()
	req.PaymentMethod = models.PaymentMethodCard

	w := postOrder(t, newOrderRouter(orders), req)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp struct {
		OrderID        string `json:"orderId"`
		WompiReference string `json:"wompiReference"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.WompiReference == "" {
		t.Fatalf("card order must carry a gateway reference")
	}

	stored, err := orders.ListSince(context.Background(), "", time.Time{})
	if err != nil {
		t.Fatalf("ListSince: %v", err)
	}
	if stored[0].PaymentStatus != models.PaymentStatusPending {
		t.Errorf("paymentStatus = %q, want %q", stored[0].PaymentStatus, models.PaymentStatusPending)
	}
	if stored[0].WompiReference != resp.WompiReference {
		t.Errorf("stored reference %q does not match response %q", stored[0].WompiReference, resp.WompiReference)
	}
}

func TestCreateOrderRejectsMalformedToken(t *testing.T) {
	orders := store.NewMemoryOrders()
	r := newOrderRouter(orders)

	body, _ := json.Marshal(baseOrderRequest())
	w := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, httpReq)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestGetOrderTracking(t *testing.T) {
	orders := store.NewMemoryOrders()
	r := newOrderRouter(orders)

	created := postOrder(t, r, baseOrderRequest())
	var resp struct {
		OrderID string `json:"orderId"`
	}
	if err := json.Unmarshal(created.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/"+resp.OrderID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var order models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &order); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if order.Status != models.StatusPending {
		t.Errorf("status = %q, want %q", order.Status, models.StatusPending)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/ffffffffffffffffffffffff", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown order status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
