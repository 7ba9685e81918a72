package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"elbuensabor/internal/models"
)

// Wompi event envelope headers.
const (
	HeaderSignature = "x-wompi-signature"
	HeaderTimestamp = "x-wompi-timestamp"
)

// EventTransactionUpdated is the only event type that mutates orders.
const EventTransactionUpdated = "transaction.updated"

// Transaction is the gateway's view of a payment attempt. Reference matches
// the wompiReference stored on the order at checkout.
type Transaction struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Reference string `json:"reference"`
}

// Event is the gateway's JSON event envelope.
type Event struct {
	Event string `json:"event"`
	Data  struct {
		Transaction *Transaction `json:"transaction"`
	} `json:"data"`
}

// Signature computes the event signature: hex HMAC-SHA256 over
// "{timestamp}.{body}" with the merchant's events secret.
func Signature(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the expected signature and compares in
// constant time.
func VerifySignature(secret, timestamp string, body []byte, signature string) bool {
	expected := Signature(secret, timestamp, body)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// MapGatewayStatus translates a gateway transaction status into the order
// status and payment status pair. Unrecognized values keep the order
// pending and store the gateway value lowercased.
func MapGatewayStatus(gatewayStatus string) (orderStatus, paymentStatus string) {
	switch gatewayStatus {
	case "APPROVED":
		return models.StatusConfirmed, models.PaymentStatusApproved
	case "DECLINED":
		return models.StatusCancelled, models.PaymentStatusDeclined
	case "VOIDED":
		return models.StatusCancelled, models.PaymentStatusVoided
	case "ERROR":
		return models.StatusCancelled, models.PaymentStatusError
	default:
		return models.StatusPending, strings.ToLower(gatewayStatus)
	}
}
