package service

import (
	"consultly/config"
	"consultly/infras/otel"
	availabilityModel "consultly/internal/domains/availability/model"
	availabilityRepo "consultly/internal/domains/availability/repository"
	"consultly/internal/domains/booking/model"
	"consultly/internal/domains/booking/model/dto"
	"consultly/internal/domains/booking/repository"
	consultantModel "consultly/internal/domains/consultant/model"
	consultantRepo "consultly/internal/domains/consultant/repository"
	"consultly/shared"
	"consultly/shared/cache"
	"consultly/shared/constant"
	gDto "consultly/shared/dto"
	"consultly/shared/failure"
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetMine(ctx context.Context, params gDto.QueryParams) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	TransitionStatus(ctx context.Context, id string, req dto.TransitionStatusRequest) error
	AttachMeetingLink(ctx context.Context, id string, req dto.AttachMeetingLinkRequest) error
}

type serviceImpl struct {
	repo           repository.Booking
	slotRepo       availabilityRepo.Availability
	consultantRepo consultantRepo.Consultant
	cfg            *config.Config
	cache          cache.RedisCache
	otel           otel.Otel
}

func New(
	repo repository.Booking,
	slotRepo availabilityRepo.Availability,
	consultantRepo consultantRepo.Consultant,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:           repo,
		slotRepo:       slotRepo,
		consultantRepo: consultantRepo,
		cfg:            cfg,
		cache:          cache,
		otel:           otel,
	}
}

func confirmedBookingsFilter(slotID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldSlotID,
				Operator: gDto.FilterOperatorEq,
				Value:    slotID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    constant.BookingStatusConfirmed,
				Table:    model.TableName,
			},
		},
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	clientID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	slot, err := s.slotRepo.Get(ctx, shared.FilterByID(req.SlotID, availabilityModel.FieldID, availabilityModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get slot")

		return res, fmt.Errorf("failed to get slot: %w", err)
	}

	if slot.ID == constant.Empty {
		return res, failure.BadRequestFromString("slot does not exist") // nolint:wrapcheck
	}

	confirmed, err := s.repo.Count(ctx, confirmedBookingsFilter(slot.ID))
	if err != nil {
		log.Error().Err(err).Msg("failed to count confirmed bookings")

		return res, fmt.Errorf("failed to count confirmed bookings: %w", err)
	}

	if confirmed >= slot.Capacity {
		return res, failure.Conflict("slot is fully booked") // nolint:wrapcheck
	}

	booking := req.ToModel(clientID, slot.ConsultantID)

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter, err := s.callerFilter(ctx)
	if err != nil {
		return res, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

// callerFilter narrows booking listings to the caller: clients see their own
// bookings, consultants see bookings held against their slots.
func (s *serviceImpl) callerFilter(ctx context.Context) (gDto.FilterGroup, error) {
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if role == constant.RoleConsultant {
		profile, err := s.consultantProfile(ctx, userID)
		if err != nil {
			return gDto.FilterGroup{}, err
		}

		return gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    model.FieldConsultantID,
					Operator: gDto.FilterOperatorEq,
					Value:    profile.ID,
					Table:    model.TableName,
				},
			},
		}, nil
	}

	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldClientID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    model.TableName,
			},
		},
	}, nil
}

func (s *serviceImpl) consultantProfile(ctx context.Context, userID string) (consultantModel.Profile, error) {
	profile, err := s.consultantRepo.Get(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    consultantModel.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    consultantModel.TableName,
			},
		},
	})
	if err != nil {
		return profile, fmt.Errorf("failed to get consultant profile: %w", err)
	}

	return profile, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.ownedBooking(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

// ownedBooking fetches a booking and hides it behind NotFound unless the
// caller participates in it.
func (s *serviceImpl) ownedBooking(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if role == constant.RoleConsultant {
		profile, err := s.consultantProfile(ctx, userID)
		if err != nil {
			return booking, err
		}

		if booking.ConsultantID != profile.ID {
			return booking, failure.NotFound("booking not found") // nolint:wrapcheck
		}

		return booking, nil
	}

	if booking.ClientID != userID {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) TransitionStatus(ctx context.Context, id string, req dto.TransitionStatusRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".TransitionStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !model.IsValidStatus(req.Status) {
		return failure.BadRequestFromString("unknown booking status: " + req.Status) // nolint:wrapcheck
	}

	// Confirmation happens only inside payment settlement, where the
	// confirmed count is re-checked against slot capacity in the same
	// transaction. Allowing it here would bypass that check.
	if req.Status == constant.BookingStatusConfirmed {
		return failure.BadRequestFromString("bookings are confirmed through payment settlement") // nolint:wrapcheck
	}

	booking, err := s.ownedBooking(ctx, id)
	if err != nil {
		return err
	}

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role == constant.RoleClient && req.Status != constant.BookingStatusCancelled {
		return failure.Forbidden("clients may only cancel bookings") // nolint:wrapcheck
	}

	if !model.CanTransition(booking.Status, req.Status) {
		return failure.BadRequestFromString(
			fmt.Sprintf("cannot transition booking from %s to %s", booking.Status, req.Status),
		) // nolint:wrapcheck
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	updatedFields := shared.TransformFields(dto.UpdateStatusFields{Status: req.Status}, userID)

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	return nil
}

func (s *serviceImpl) AttachMeetingLink(ctx context.Context, id string, req dto.AttachMeetingLinkRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AttachMeetingLink")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	profile, err := s.consultantProfile(ctx, userID)
	if err != nil {
		return err
	}

	if profile.ID == constant.Empty || booking.ConsultantID != profile.ID {
		return failure.Forbidden("only the booking's consultant can set the meeting link") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(dto.UpdateMeetingLinkFields{MeetingLink: req.MeetingLink}, userID)

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to attach meeting link")

		return fmt.Errorf("failed to attach meeting link: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
	}()

	return nil
}
