package consultant

import (
	"net/http"

	"consultly/infras/otel"
	"consultly/internal/domains/consultant/model"
	"consultly/internal/domains/consultant/model/dto"
	"consultly/internal/domains/consultant/service"
	reviewService "consultly/internal/domains/review/service"
	"consultly/shared/constant"
	gDto "consultly/shared/dto"
	"consultly/shared/validator"
	"consultly/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service       service.Consultant
	reviewService reviewService.Review
	otel          otel.Otel
}

func New(service service.Consultant, reviewService reviewService.Review, otel otel.Otel) Handler {
	return Handler{
		service:       service,
		reviewService: reviewService,
		otel:          otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/consultants", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetConsultants)
		routerGroup.Get("/me", handler.GetMyProfile)
		routerGroup.Patch("/me", handler.UpdateMyProfile)
		routerGroup.Get("/{id}", handler.GetConsultantByID)
		routerGroup.Get("/{id}/reviews", handler.GetConsultantReviews)
	})
}

// GetConsultants retrieves consultant profiles based on query parameters.
// @Summary Get consultant profiles
// @Description Retrieve consultant profiles with optional filtering and pagination.
// @Tags Consultant
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param specialization query string false "Filter by specialization"
// @Success 200 {object} response.Data[dto.GetProfilesResponse] "List of consultant profiles"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/consultants [get]
// @Security BearerAuth
func (handler *Handler) GetConsultants(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetConsultants")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	specialization := r.URL.Query().Get(model.FieldSpecialization)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldIsActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    model.TableName,
			},
		},
	}

	if specialization != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldSpecialization,
			Operator: gDto.FilterOperatorLike,
			Value:    specialization,
			Table:    model.TableName,
		})
	}

	consultants, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get consultant profiles")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Consultant profiles retrieved successfully")

	response.WithJSON(w, http.StatusOK, consultants)
}

// GetMyProfile retrieves the authenticated consultant's profile.
// @Summary Get my consultant profile
// @Description Retrieve the authenticated consultant's profile, creating it on first access.
// @Tags Consultant
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[dto.ProfileResponse] "Consultant profile"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/consultants/me [get]
// @Security BearerAuth
func (handler *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyProfile")
	defer scope.End()

	profile, err := handler.service.GetMine(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get consultant profile")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Consultant profile retrieved successfully")

	response.WithJSON(w, http.StatusOK, profile)
}

// UpdateMyProfile updates the authenticated consultant's profile.
// @Summary Update my consultant profile
// @Description Update the authenticated consultant's profile details.
// @Tags Consultant
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Update Profile Request"
// @Success 200 {object} response.Message "Consultant profile updated successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/consultants/me [patch]
// @Security BearerAuth
func (handler *Handler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateMyProfile")
	defer scope.End()

	req := dto.UpdateProfileRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateMine(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update consultant profile")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Consultant profile updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Consultant profile updated successfully")
}

// GetConsultantByID retrieves a consultant profile by its ID.
// @Summary Get a consultant profile by ID
// @Description Retrieve a consultant profile by its unique identifier.
// @Tags Consultant
// @Accept json
// @Produce json
// @Param id path string true "Consultant Profile ID"
// @Success 200 {object} response.Data[dto.ProfileResponse] "Consultant profile details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/consultants/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetConsultantByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetConsultantByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	profile, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get consultant profile by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Consultant profile retrieved successfully")

	response.WithJSON(w, http.StatusOK, profile)
}

// GetConsultantReviews retrieves the reviews left for a consultant.
// @Summary Get consultant reviews
// @Description Retrieve the reviews submitted for a consultant with pagination.
// @Tags Consultant
// @Accept json
// @Produce json
// @Param id path string true "Consultant Profile ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[reviewDto.GetReviewsResponse] "List of reviews"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/consultants/{id}/reviews [get]
// @Security BearerAuth
func (handler *Handler) GetConsultantReviews(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetConsultantReviews")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	reviews, err := handler.reviewService.GetForConsultant(ctx, id, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get consultant reviews")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Consultant reviews retrieved successfully")

	response.WithJSON(w, http.StatusOK, reviews)
}
