package payments

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"elbuensabor/internal/logging"
	"elbuensabor/internal/store"
)

var webhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "wompi_webhook_events_total",
	Help: "Wompi webhook deliveries by outcome.",
}, []string{"outcome"})

// Webhook authenticates and applies asynchronous payment callbacks. The
// store and secret are constructor dependencies; the handler keeps no state
// between requests, so concurrent deliveries only contend inside the store.
type Webhook struct {
	orders store.Orders
	secret string
	now    func() time.Time
	log    *slog.Logger
}

func NewWebhook(orders store.Orders, secret string) *Webhook {
	return &Webhook{
		orders: orders,
		secret: secret,
		now:    time.Now,
		log:    logging.New("payments"),
	}
}

// Handle processes POST /webhook. Mount it with router.Any so other methods
// reach the 405 branch instead of gin's 404.
func (h *Webhook) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			webhookEvents.WithLabelValues("bad_method").Inc()
			c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			webhookEvents.WithLabelValues("bad_payload").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}

		var event Event
		if err := json.Unmarshal(body, &event); err != nil {
			webhookEvents.WithLabelValues("bad_payload").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event payload"})
			return
		}
		if event.Event == "" || event.Data.Transaction == nil {
			webhookEvents.WithLabelValues("bad_payload").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing event or transaction"})
			return
		}

		signature := c.GetHeader(HeaderSignature)
		timestamp := c.GetHeader(HeaderTimestamp)
		if signature == "" || timestamp == "" {
			webhookEvents.WithLabelValues("unauthorized").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing signature headers"})
			return
		}

		// A missing secret is our misconfiguration, not a client fault.
		if h.secret == "" {
			webhookEvents.WithLabelValues("misconfigured").Inc()
			h.log.Error("webhook events secret not configured")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "events secret not configured"})
			return
		}

		if !VerifySignature(h.secret, timestamp, body, signature) {
			webhookEvents.WithLabelValues("unauthorized").Inc()
			h.log.Warn("webhook signature mismatch")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}

		if event.Event != EventTransactionUpdated {
			webhookEvents.WithLabelValues("ignored").Inc()
			c.JSON(http.StatusOK, gin.H{"success": true})
			return
		}

		tx := event.Data.Transaction
		orderStatus, paymentStatus := MapGatewayStatus(tx.Status)

		order, err := h.orders.ApplyPaymentUpdate(c.Request.Context(), tx.Reference, store.PaymentUpdate{
			Status:        orderStatus,
			PaymentStatus: paymentStatus,
			TransactionID: tx.ID,
			ProcessedAt:   h.now(),
		})
		if errors.Is(err, store.ErrNotFound) {
			webhookEvents.WithLabelValues("unknown_reference").Inc()
			h.log.Warn("webhook for unknown reference", "reference", tx.Reference)
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			// Signature already checked; this is a server-side fault.
			webhookEvents.WithLabelValues("error").Inc()
			h.log.Error("webhook apply failed", "reference", tx.Reference, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		webhookEvents.WithLabelValues("applied").Inc()
		h.log.Info("payment update applied",
			"reference", tx.Reference,
			"transactionId", tx.ID,
			"status", order.Status,
			"paymentStatus", order.PaymentStatus,
		)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
