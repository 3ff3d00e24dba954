package paystack

//go:generate go run go.uber.org/mock/mockgen -source=./paystack.go -destination=./mocks/paystack_mock.go -package=mocks

import (
	"bytes"
	"consultly/config"
	"consultly/infras/otel"
	"consultly/shared/constant"
	"consultly/shared/failure"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrDuplicateReference is returned when the gateway rejects a transaction
// reference it has already seen.
var ErrDuplicateReference = errors.New("duplicate transaction reference")

const (
	pathInitialize = "/transaction/initialize"
	pathVerify     = "/transaction/verify/"
)

// TransactionStatus values reported by the gateway on verification.
const (
	TransactionStatusSuccess   = "success"
	TransactionStatusFailed    = "failed"
	TransactionStatusAbandoned = "abandoned"
)

type InitializeRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type InitializeResult struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type VerifyResult struct {
	Status          string `json:"status"`
	Reference       string `json:"reference"`
	Amount          int64  `json:"amount"`
	GatewayResponse string `json:"gateway_response"`
	PaidAt          string `json:"paid_at"`
	Channel         string `json:"channel"`
	Currency        string `json:"currency"`
}

// envelope is the gateway's standard response wrapper.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Paystack interface {
	InitializeTransaction(ctx context.Context, req InitializeRequest) (InitializeResult, error)
	VerifyTransaction(ctx context.Context, reference string) (VerifyResult, error)
}

type clientImpl struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	otel       otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) Paystack {
	return &clientImpl{
		baseURL:   strings.TrimRight(cfg.Paystack.BaseURL, "/"),
		secretKey: cfg.Paystack.SecretKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Paystack.TimeoutSeconds) * time.Second,
		},
		otel: otl,
	}
}

func (c *clientImpl) InitializeTransaction(ctx context.Context, req InitializeRequest) (res InitializeResult, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".InitializeTransaction")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("paystack.reference", req.Reference)

	payload, err := json.Marshal(req)
	if err != nil {
		return res, fmt.Errorf("failed to encode initialize request: %w", err)
	}

	env, err := c.do(ctx, http.MethodPost, pathInitialize, bytes.NewReader(payload))
	if err != nil {
		return res, err
	}

	if !env.Status {
		if isDuplicateReference(env.Message) {
			return res, ErrDuplicateReference
		}

		log.Error().Str("message", env.Message).Msg("gateway declined transaction initialization")

		return res, failure.Gateway(env.Message) // nolint:wrapcheck
	}

	if err = json.Unmarshal(env.Data, &res); err != nil {
		return res, fmt.Errorf("failed to decode initialize response: %w", err)
	}

	return res, nil
}

func (c *clientImpl) VerifyTransaction(ctx context.Context, reference string) (res VerifyResult, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".VerifyTransaction")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("paystack.reference", reference)

	env, err := c.do(ctx, http.MethodGet, pathVerify+reference, nil)
	if err != nil {
		return res, err
	}

	if !env.Status {
		log.Error().Str("message", env.Message).Str("reference", reference).Msg("gateway could not verify transaction")

		return res, failure.Gateway(env.Message) // nolint:wrapcheck
	}

	if err = json.Unmarshal(env.Data, &res); err != nil {
		return res, fmt.Errorf("failed to decode verify response: %w", err)
	}

	return res, nil
}

func (c *clientImpl) do(ctx context.Context, method, path string, body io.Reader) (envelope, error) {
	var env envelope

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return env, fmt.Errorf("failed to build gateway request: %w", err)
	}

	request.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+c.secretKey)
	request.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	resp, err := c.httpClient.Do(request)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("gateway request failed")

		return env, failure.Gateway("payment gateway unreachable") // nolint:wrapcheck
	}
	defer resp.Body.Close()

	// A 5xx body is not guaranteed to be JSON, so the status check must
	// come before decoding.
	if resp.StatusCode >= http.StatusInternalServerError {
		log.Error().Int("status", resp.StatusCode).Str("path", path).Msg("gateway returned server error")

		return env, failure.Gateway("payment gateway error") // nolint:wrapcheck
	}

	if err = json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return env, failure.Gateway("invalid payment gateway response") // nolint:wrapcheck
	}

	return env, nil
}

func isDuplicateReference(message string) bool {
	return strings.Contains(strings.ToLower(message), "duplicate")
}
