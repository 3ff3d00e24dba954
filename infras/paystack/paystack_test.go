package paystack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consultly/config"
	"consultly/infras/otel/mocks"
	"consultly/infras/paystack"
	"consultly/shared/failure"
)

func newClient(t *testing.T, handler http.Handler) (paystack.Paystack, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.Paystack.BaseURL = server.URL
	cfg.Paystack.SecretKey = "sk_test_secret"
	cfg.Paystack.TimeoutSeconds = 5

	return paystack.New(cfg, mocks.NewOtel()), server
}

func TestInitializeTransaction(t *testing.T) {
	t.Run("successful initialization", func(t *testing.T) {
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/transaction/initialize", r.URL.Path)
			assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))

			var req paystack.InitializeRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, int64(500000), req.Amount)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"status": true,
				"message": "Authorization URL created",
				"data": {
					"authorization_url": "https://checkout.example.com/abc123",
					"access_code": "abc123",
					"reference": "` + req.Reference + `"
				}
			}`))
		}))

		res, err := client.InitializeTransaction(context.Background(), paystack.InitializeRequest{
			Email:     "client@example.com",
			Amount:    500000,
			Reference: "ref-001",
		})

		require.NoError(t, err)
		assert.Equal(t, "https://checkout.example.com/abc123", res.AuthorizationURL)
		assert.Equal(t, "ref-001", res.Reference)
	})

	t.Run("duplicate reference", func(t *testing.T) {
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"status": false, "message": "Duplicate Transaction Reference"}`))
		}))

		_, err := client.InitializeTransaction(context.Background(), paystack.InitializeRequest{
			Email:     "client@example.com",
			Amount:    500000,
			Reference: "ref-001",
		})

		assert.ErrorIs(t, err, paystack.ErrDuplicateReference)
	})

	t.Run("gateway decline", func(t *testing.T) {
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"status": false, "message": "Invalid email address"}`))
		}))

		_, err := client.InitializeTransaction(context.Background(), paystack.InitializeRequest{
			Email:  "not-an-email",
			Amount: 500000,
		})

		require.Error(t, err)
		assert.Equal(t, http.StatusBadGateway, failure.GetCode(err))
	})

	t.Run("server error with html body", func(t *testing.T) {
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`<html><body>502 Bad Gateway</body></html>`))
		}))

		_, err := client.InitializeTransaction(context.Background(), paystack.InitializeRequest{
			Email:  "client@example.com",
			Amount: 500000,
		})

		require.Error(t, err)
		assert.Equal(t, http.StatusBadGateway, failure.GetCode(err))
		assert.ErrorContains(t, err, "payment gateway error")
	})

	t.Run("gateway unreachable", func(t *testing.T) {
		client, server := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		_, err := client.InitializeTransaction(context.Background(), paystack.InitializeRequest{
			Email:  "client@example.com",
			Amount: 500000,
		})

		require.Error(t, err)
		assert.Equal(t, http.StatusBadGateway, failure.GetCode(err))
	})
}

func TestVerifyTransaction(t *testing.T) {
	t.Run("successful verification", func(t *testing.T) {
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/transaction/verify/ref-001", r.URL.Path)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"status": true,
				"message": "Verification successful",
				"data": {
					"status": "success",
					"reference": "ref-001",
					"amount": 500000,
					"gateway_response": "Successful",
					"paid_at": "2025-01-15T10:30:00.000Z",
					"channel": "card",
					"currency": "NGN"
				}
			}`))
		}))

		res, err := client.VerifyTransaction(context.Background(), "ref-001")

		require.NoError(t, err)
		assert.Equal(t, paystack.TransactionStatusSuccess, res.Status)
		assert.Equal(t, "ref-001", res.Reference)
		assert.Equal(t, int64(500000), res.Amount)
	})

	t.Run("failed transaction still decodes", func(t *testing.T) {
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"status": true,
				"message": "Verification successful",
				"data": {
					"status": "failed",
					"reference": "ref-002",
					"amount": 500000,
					"gateway_response": "Declined"
				}
			}`))
		}))

		res, err := client.VerifyTransaction(context.Background(), "ref-002")

		require.NoError(t, err)
		assert.Equal(t, paystack.TransactionStatusFailed, res.Status)
	})

	t.Run("unknown reference", func(t *testing.T) {
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"status": false, "message": "Transaction reference not found"}`))
		}))

		_, err := client.VerifyTransaction(context.Background(), "missing-ref")

		require.Error(t, err)
		assert.Equal(t, http.StatusBadGateway, failure.GetCode(err))
	})
}
