package payments

import (
	"testing"

	"elbuensabor/internal/models"
)

const (
	testSecret    = "test-secret"
	testTimestamp = "1700000000"
	testBody      = `{"event":"transaction.updated","data":{"transaction":{"id":"tx-123","status":"APPROVED","reference":"ref-abc"}}}`
	// hex(HMAC_SHA256(testSecret, testTimestamp + "." + testBody))
	testSignature = "dbb4a0097351b60b04b0ab522e222e4fc1b88645db6213f2d0bdb19db1260ee2"
)

func TestSignatureKnownVector(t *testing.T) {
	got := Signature(testSecret, testTimestamp, []byte(testBody))
	if got != testSignature {
		t.Fatalf("signature mismatch:\n got %s\nwant %s", got, testSignature)
	}
}

func TestVerifySignatureRejectsAlteredBody(t *testing.T) {
	if !VerifySignature(testSecret, testTimestamp, []byte(testBody), testSignature) {
		t.Fatal("expected valid signature to verify")
	}

	altered := []byte(testBody)
	altered[len(altered)/2] ^= 0x01
	if VerifySignature(testSecret, testTimestamp, altered, testSignature) {
		t.Fatal("expected altered body to fail verification")
	}
}

func TestVerifySignatureRejectsWrongTimestamp(t *testing.T) {
	if VerifySignature(testSecret, "1700000001", []byte(testBody), testSignature) {
		t.Fatal("expected wrong timestamp to fail verification")
	}
}

func TestVerifySignatureAcceptsUppercaseHex(t *testing.T) {
	upper := "DBB4A0097351B60B04B0AB522E222E4FC1B88645DB6213F2D0BDB19DB1260EE2"
	if !VerifySignature(testSecret, testTimestamp, []byte(testBody), upper) {
		t.Fatal("expected uppercase hex signature to verify")
	}
}

func TestMapGatewayStatus(t *testing.T) {
	cases := []struct {
		gateway       string
		orderStatus   string
		paymentStatus string
	}{
		{"APPROVED", models.StatusConfirmed, models.PaymentStatusApproved},
		{"DECLINED", models.StatusCancelled, models.PaymentStatusDeclined},
		{"VOIDED", models.StatusCancelled, models.PaymentStatusVoided},
		{"ERROR", models.StatusCancelled, models.PaymentStatusError},
		{"PENDING", models.StatusPending, "pending"},
		{"SOMETHING_NEW", models.StatusPending, "something_new"},
	}
	for _, tc := range cases {
		orderStatus, paymentStatus := MapGatewayStatus(tc.gateway)
		if orderStatus != tc.orderStatus || paymentStatus != tc.paymentStatus {
			t.Fatalf("MapGatewayStatus(%s) = (%s, %s), want (%s, %s)",
				tc.gateway, orderStatus, paymentStatus, tc.orderStatus, tc.paymentStatus)
		}
	}
}
