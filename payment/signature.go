package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign returns the hex HMAC-SHA256 of "orderID|paymentID" keyed by secret
func Sign(secret, gatewayOrderID, gatewayPaymentID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySignature compares the expected signature with the one the client sent
func VerifySignature(secret, gatewayOrderID, gatewayPaymentID, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected := Sign(secret, gatewayOrderID, gatewayPaymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
