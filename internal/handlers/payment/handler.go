package payment

import (
	"net/http"

	"consultly/infras/otel"
	"consultly/internal/domains/payment/model/dto"
	"consultly/internal/domains/payment/service"
	"consultly/shared/constant"
	"consultly/shared/validator"
	"consultly/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/payments", func(routerGroup chi.Router) {
		routerGroup.Post("/initialize", handler.InitializePayment)
		routerGroup.Get("/verify", handler.VerifyPayment)
	})
}

// InitializePayment starts the checkout flow for a booking.
// @Summary Initialize a payment
// @Description Initialize a gateway transaction for a pending booking and return the checkout URL.
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.InitializePaymentRequest true "Initialize Payment Request"
// @Success 200 {object} response.Data[dto.InitializePaymentResponse] "Payment initialized successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/payments/initialize [post]
// @Security BearerAuth
func (handler *Handler) InitializePayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".InitializePayment")
	defer scope.End()

	req := dto.InitializePaymentRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Initialize(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to initialize payment")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Payment initialized successfully by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}

// VerifyPayment handles the gateway's verification callback.
// @Summary Verify a payment
// @Description Verify a transaction by reference with the gateway. On first success the payment settles and the booking confirms; repeat calls are no-ops.
// @Tags Payment
// @Accept json
// @Produce json
// @Param reference query string true "Payment reference"
// @Success 200 {object} response.Data[dto.VerifyPaymentResponse] "Verification result"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/payments/verify [get]
func (handler *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".VerifyPayment")
	defer scope.End()

	reference := r.URL.Query().Get(constant.RequestParamReference)

	res, err := handler.service.Verify(ctx, reference)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to verify payment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment verified for reference " + reference)

	response.WithJSON(w, http.StatusOK, res)
}
