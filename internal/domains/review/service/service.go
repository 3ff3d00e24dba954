package service

import (
	"consultly/config"
	"consultly/infras/otel"
	bookingModel "consultly/internal/domains/booking/model"
	bookingRepo "consultly/internal/domains/booking/repository"
	"consultly/internal/domains/review/model"
	"consultly/internal/domains/review/model/dto"
	"consultly/internal/domains/review/repository"
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
	cacheGetAllReviews = "review:gets"
	cacheCountReviews  = "review:count"
)

type Review interface {
	Submit(ctx context.Context, req dto.SubmitReviewRequest) (dto.ReviewResponse, error)
	GetForConsultant(ctx context.Context, consultantID string, params gDto.QueryParams) (dto.GetReviewsResponse, error)
}

type serviceImpl struct {
	repo        repository.Review
	bookingRepo bookingRepo.Booking
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Review,
	bookingRepo bookingRepo.Booking,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Review {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func reviewByBookingFilter(bookingID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldBookingID,
				Operator: gDto.FilterOperatorEq,
				Value:    bookingID,
				Table:    model.TableName,
			},
		},
	}
}

func reviewsByConsultantFilter(consultantID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldConsultantID,
				Operator: gDto.FilterOperatorEq,
				Value:    consultantID,
				Table:    model.TableName,
			},
		},
	}
}

// Submit records the caller's review of a booking. A booking carries at most
// one review, and only the booking's client may write it.
func (s *serviceImpl) Submit(ctx context.Context, req dto.SubmitReviewRequest) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Submit")
	defer scope.End()
	defer scope.TraceIfError(err)

	clientID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(req.BookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if booking.ClientID != clientID {
		return res, failure.Forbidden("only the booking's client can submit a review") // nolint:wrapcheck
	}

	if booking.Status != constant.BookingStatusCompleted {
		return res, failure.BadRequestFromString("only completed bookings can be reviewed") // nolint:wrapcheck
	}

	exists, err := s.repo.Exist(ctx, reviewByBookingFilter(booking.ID))
	if err != nil {
		log.Error().Err(err).Msg("failed to check existing review")

		return res, fmt.Errorf("failed to check existing review: %w", err)
	}

	if exists {
		return res, failure.Conflict("booking already reviewed") // nolint:wrapcheck
	}

	review := req.ToModel(clientID, booking.ConsultantID)

	if err = s.repo.Insert(ctx, review); err != nil {
		log.Error().Err(err).Msg("failed to create review")

		return res, fmt.Errorf("failed to create review: %w", err)
	}

	res.FromModel(review)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllReviews)
		shared.InvalidateCaches(c, s.cache, cacheCountReviews)
	}()

	return res, nil
}

func (s *serviceImpl) GetForConsultant(ctx context.Context, consultantID string, params gDto.QueryParams) (res dto.GetReviewsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetForConsultant")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := reviewsByConsultantFilter(consultantID)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReviews, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for consultant reviews")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reviews")

		return res, fmt.Errorf("failed to count reviews: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reviews")

		return res, fmt.Errorf("failed to get reviews: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save consultant reviews to cache")
		}
	}()

	return res, nil
}
