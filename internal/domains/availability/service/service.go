package service

import (
	"consultly/config"
	"consultly/infras/otel"
	"consultly/internal/domains/availability/model"
	"consultly/internal/domains/availability/model/dto"
	"consultly/internal/domains/availability/repository"
	bookingModel "consultly/internal/domains/booking/model"
	bookingRepo "consultly/internal/domains/booking/repository"
	consultantDto "consultly/internal/domains/consultant/model/dto"
	consultantModel "consultly/internal/domains/consultant/model"
	consultantRepo "consultly/internal/domains/consultant/repository"
	"consultly/shared"
	"consultly/shared/cache"
	"consultly/shared/constant"
	gDto "consultly/shared/dto"
	"consultly/shared/failure"
	"consultly/shared/timezone"
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetSlot      = "availability:get"
	cacheGetAllSlots  = "availability:gets"
	cacheCountSlots   = "availability:count"
	cacheUpcomingSlot = "availability:upcoming"
)

type Availability interface {
	Publish(ctx context.Context, req dto.PublishSlotRequest) (dto.SlotResponse, error)
	GetUpcoming(ctx context.Context, params gDto.QueryParams) (dto.UpcomingSlotsResponse, error)
	GetMine(ctx context.Context, params gDto.QueryParams) (dto.GetSlotsResponse, error)
	Get(ctx context.Context, id string) (dto.SlotResponse, error)
	IsFull(ctx context.Context, slotID string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo           repository.Availability
	consultantRepo consultantRepo.Consultant
	bookingRepo    bookingRepo.Booking
	cfg            *config.Config
	cache          cache.RedisCache
	otel           otel.Otel
}

func New(
	repo repository.Availability,
	consultantRepo consultantRepo.Consultant,
	bookingRepo bookingRepo.Booking,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Availability {
	return &serviceImpl{
		repo:           repo,
		consultantRepo: consultantRepo,
		bookingRepo:    bookingRepo,
		cfg:            cfg,
		cache:          cache,
		otel:           otel,
	}
}

// callerProfile resolves the caller's consultant profile, creating it on first access.
func (s *serviceImpl) callerProfile(ctx context.Context) (consultantModel.Profile, error) {
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    consultantModel.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    consultantModel.TableName,
			},
		},
	}

	profile, err := s.consultantRepo.Get(ctx, filter)
	if err != nil {
		return profile, fmt.Errorf("failed to get consultant profile: %w", err)
	}

	if profile.ID == constant.Empty {
		profile = consultantDto.NewProfileModel(userID)

		if err = s.consultantRepo.Insert(ctx, profile); err != nil {
			return profile, fmt.Errorf("failed to create consultant profile: %w", err)
		}
	}

	return profile, nil
}

func (s *serviceImpl) Publish(ctx context.Context, req dto.PublishSlotRequest) (res dto.SlotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Publish")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	profile, err := s.callerProfile(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve consultant profile")

		return res, err
	}

	slot, err := req.ToModel(profile.ID, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse slot request")

		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
	}

	duplicateFilter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldConsultantID,
				Operator: gDto.FilterOperatorEq,
				Value:    profile.ID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldDate,
				Operator: gDto.FilterOperatorEq,
				Value:    slot.Date,
				Table:    model.TableName,
			},
		},
	}

	exists, err := s.repo.Exist(ctx, duplicateFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check for duplicate slot")

		return res, fmt.Errorf("failed to check for duplicate slot: %w", err)
	}

	if exists {
		return res, failure.Conflict("a slot for this date already exists") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, slot); err != nil {
		log.Error().Err(err).Msg("failed to publish slot")

		return res, fmt.Errorf("failed to publish slot: %w", err)
	}

	res.FromModel(slot)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllSlots)
		shared.InvalidateCaches(c, s.cache, cacheCountSlots)
		shared.InvalidateCaches(c, s.cache, cacheUpcomingSlot)
	}()

	return res, nil
}

func (s *serviceImpl) GetUpcoming(ctx context.Context, params gDto.QueryParams) (res dto.UpcomingSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetUpcoming")
	defer scope.End()
	defer scope.TraceIfError(err)

	params.SortBy = model.FieldDate
	params.SortDir = gDto.SortDirAsc

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldDate,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    timezone.Today(),
				Table:    model.TableName,
			},
		},
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheUpcomingSlot, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for upcoming slots")

		return res, nil
	}

	// The listing keeps one slot per consultant, so pagination must run on
	// the deduplicated list. Paging in SQL would let a consultant's later
	// dates consume page slots and push other consultants off the page.
	listParams := params
	listParams.Page = 0
	listParams.Limit = 0

	models, err := s.repo.GetAll(ctx, listParams, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get upcoming slots")

		return res, fmt.Errorf("failed to get upcoming slots: %w", err)
	}

	res.FromModels(models, params.Page, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save upcoming slots to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams) (res dto.GetSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	profile, err := s.callerProfile(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve consultant profile")

		return res, err
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldConsultantID,
				Operator: gDto.FilterOperatorEq,
				Value:    profile.ID,
				Table:    model.TableName,
			},
		},
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count slots")

		return res, fmt.Errorf("failed to count slots: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get slots")

		return res, fmt.Errorf("failed to get slots: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.SlotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetSlot, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for slot")

		return res, nil
	}

	slot, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get slot")

		return res, fmt.Errorf("failed to get slot: %w", err)
	}

	if slot.ID == constant.Empty {
		return res, failure.NotFound("slot not found") // nolint:wrapcheck
	}

	res.FromModel(slot)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save slot to cache")
		}
	}()

	return res, nil
}

// IsFull compares the slot's capacity against its confirmed booking count.
func (s *serviceImpl) IsFull(ctx context.Context, slotID string) (full bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IsFull")
	defer scope.End()
	defer scope.TraceIfError(err)

	slot, err := s.repo.Get(ctx, shared.FilterByID(slotID, model.FieldID, model.TableName))
	if err != nil {
		return false, fmt.Errorf("failed to get slot: %w", err)
	}

	if slot.ID == constant.Empty {
		return false, failure.NotFound("slot not found") // nolint:wrapcheck
	}

	confirmed, err := s.bookingRepo.Count(ctx, ConfirmedBookingsFilter(slotID))
	if err != nil {
		return false, fmt.Errorf("failed to count confirmed bookings: %w", err)
	}

	return confirmed >= slot.Capacity, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	slot, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get slot")

		return fmt.Errorf("failed to get slot: %w", err)
	}

	if slot.ID == constant.Empty {
		return failure.NotFound("slot not found") // nolint:wrapcheck
	}

	profile, err := s.callerProfile(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve consultant profile")

		return err
	}

	if slot.ConsultantID != profile.ID {
		return failure.Forbidden("only the slot owner can delete it") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete slot")

		return fmt.Errorf("failed to delete slot: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetSlot, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete slot from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllSlots)
		shared.InvalidateCaches(c, s.cache, cacheCountSlots)
		shared.InvalidateCaches(c, s.cache, cacheUpcomingSlot)
	}()

	return nil
}

// ConfirmedBookingsFilter matches confirmed bookings held against a slot.
func ConfirmedBookingsFilter(slotID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldSlotID,
				Operator: gDto.FilterOperatorEq,
				Value:    slotID,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    constant.BookingStatusConfirmed,
				Table:    bookingModel.TableName,
			},
		},
	}
}
