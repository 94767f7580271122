package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	svc := NewRazorpayService("key", "secret", "")

	valid := sign("secret", "order_123", "pay_456")
	assert.True(t, svc.VerifySignature("order_123", "pay_456", valid))
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
	svc := NewRazorpayService("key", "secret", "")
	valid := sign("secret", "order_123", "pay_456")

	// Flip one hex character.
	tampered := []byte(valid)
	if tampered[0] == 'a' {
		tampered[0] = 'b'
	} else {
		tampered[0] = 'a'
	}
	assert.False(t, svc.VerifySignature("order_123", "pay_456", string(tampered)))

	// Signature computed with another secret.
	wrongSecret := sign("other-secret", "order_123", "pay_456")
	assert.False(t, svc.VerifySignature("order_123", "pay_456", wrongSecret))

	// Signature for a different order.
	otherOrder := sign("secret", "order_999", "pay_456")
	assert.False(t, svc.VerifySignature("order_123", "pay_456", otherOrder))

	assert.False(t, svc.VerifySignature("order_123", "pay_456", ""))
}

func TestCreateOrder(t *testing.T) {
	var gotBody createOrderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(createOrderResponse{
			ID: "order_abc", Amount: gotBody.Amount, Currency: gotBody.Currency, Status: "created",
		})
	}))
	defer server.Close()

	svc := NewRazorpayService("key", "secret", server.URL)
	orderID, err := svc.CreateOrder(context.Background(), 49900, "INR", "sub_user1", map[string]string{"plan_id": "monthly"})
	require.NoError(t, err)
	assert.Equal(t, "order_abc", orderID)
	assert.Equal(t, int64(49900), gotBody.Amount)
	assert.Equal(t, "INR", gotBody.Currency)
	assert.Equal(t, "monthly", gotBody.Notes["plan_id"])
}

func TestCreateOrderGatewayRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	svc := NewRazorpayService("key", "wrong", server.URL)
	_, err := svc.CreateOrder(context.Background(), 100, "INR", "", nil)
	assert.Error(t, err)
}

func TestCreateOrderEmptyOrderID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(createOrderResponse{})
	}))
	defer server.Close()

	svc := NewRazorpayService("key", "secret", server.URL)
	_, err := svc.CreateOrder(context.Background(), 100, "INR", "", nil)
	assert.Error(t, err)
}
