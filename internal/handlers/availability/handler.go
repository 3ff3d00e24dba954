package availability

import (
	"net/http"

	"consultly/infras/otel"
	"consultly/internal/domains/availability/model/dto"
	"consultly/internal/domains/availability/service"
	"consultly/shared/constant"
	gDto "consultly/shared/dto"
	"consultly/shared/validator"
	"consultly/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Availability
	otel    otel.Otel
}

func New(service service.Availability, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/availability", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.PublishSlot)
		routerGroup.Get("/upcoming", handler.GetUpcomingSlots)
		routerGroup.Get("/mine", handler.GetMySlots)
		routerGroup.Get("/{id}", handler.GetSlotByID)
		routerGroup.Get("/{id}/full", handler.GetSlotFullness)
		routerGroup.Delete("/{id}", handler.DeleteSlot)
	})
}

// PublishSlot publishes a new availability slot for the authenticated consultant.
// @Summary Publish an availability slot
// @Description Publish a new availability slot for a calendar date with a capacity.
// @Tags Availability
// @Accept json
// @Produce json
// @Param request body dto.PublishSlotRequest true "Publish Slot Request"
// @Success 201 {object} response.Data[dto.SlotResponse] "Slot published successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability [post]
// @Security BearerAuth
func (handler *Handler) PublishSlot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".PublishSlot")
	defer scope.End()

	req := dto.PublishSlotRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	slot, err := handler.service.Publish(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to publish slot")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Slot published successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, slot)
}

// GetUpcomingSlots retrieves upcoming availability across consultants.
// @Summary Get upcoming availability
// @Description Retrieve upcoming availability slots, one entry per consultant.
// @Tags Availability
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.UpcomingSlotsResponse] "Upcoming slots"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/upcoming [get]
// @Security BearerAuth
func (handler *Handler) GetUpcomingSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUpcomingSlots")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	slots, err := handler.service.GetUpcoming(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get upcoming slots")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Upcoming slots retrieved successfully")

	response.WithJSON(w, http.StatusOK, slots)
}

// GetMySlots retrieves the authenticated consultant's slots.
// @Summary Get my availability slots
// @Description Retrieve the authenticated consultant's availability slots with pagination.
// @Tags Availability
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetSlotsResponse] "Consultant's slots"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMySlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMySlots")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	slots, err := handler.service.GetMine(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get consultant slots")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Consultant slots retrieved successfully")

	response.WithJSON(w, http.StatusOK, slots)
}

// GetSlotByID retrieves an availability slot by its ID.
// @Summary Get a slot by ID
// @Description Retrieve an availability slot by its unique identifier.
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} response.Data[dto.SlotResponse] "Slot details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetSlotByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlotByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	slot, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get slot by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Slot retrieved successfully")

	response.WithJSON(w, http.StatusOK, slot)
}

// GetSlotFullness reports whether a slot has reached its confirmed capacity.
// @Summary Check whether a slot is full
// @Description Report whether confirmed bookings have reached the slot's capacity.
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} response.Data[bool] "Slot fullness"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/{id}/full [get]
// @Security BearerAuth
func (handler *Handler) GetSlotFullness(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlotFullness")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	full, err := handler.service.IsFull(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check slot fullness")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Slot fullness checked successfully")

	response.WithJSON(w, http.StatusOK, full)
}

// DeleteSlot deletes an availability slot owned by the authenticated consultant.
// @Summary Delete a slot by ID
// @Description Delete an availability slot using its unique identifier.
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} response.Message "Slot deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteSlot")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete slot")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Slot deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Slot deleted successfully")
}
