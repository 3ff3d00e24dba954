package review

import (
	"net/http"

	"consultly/infras/otel"
	"consultly/internal/domains/review/model/dto"
	"consultly/internal/domains/review/service"
	"consultly/shared/constant"
	"consultly/shared/validator"
	"consultly/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Review
	otel    otel.Otel
}

func New(service service.Review, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reviews", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.SubmitReview)
	})
}

// SubmitReview records the caller's review of a booking.
// @Summary Submit a review
// @Description Submit a rating and comment for a booking. A booking carries at most one review.
// @Tags Review
// @Accept json
// @Produce json
// @Param request body dto.SubmitReviewRequest true "Submit Review Request"
// @Success 201 {object} response.Data[dto.ReviewResponse] "Review submitted successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reviews [post]
// @Security BearerAuth
func (handler *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SubmitReview")
	defer scope.End()

	req := dto.SubmitReviewRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Submit(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to submit review")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Review submitted successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}
