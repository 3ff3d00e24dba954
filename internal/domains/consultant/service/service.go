package service

import (
	"consultly/config"
	"consultly/infras/otel"
	"consultly/internal/domains/consultant/model"
	"consultly/internal/domains/consultant/model/dto"
	"consultly/internal/domains/consultant/repository"
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
	cacheGetProfile     = "consultant:get"
	cacheGetAllProfiles = "consultant:gets"
	cacheCountProfiles  = "consultant:count"
)

type Consultant interface {
	GetMine(ctx context.Context) (dto.ProfileResponse, error)
	UpdateMine(ctx context.Context, req dto.UpdateProfileRequest) error
	Get(ctx context.Context, id string) (dto.ProfileResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetProfilesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
}

type serviceImpl struct {
	repo  repository.Consultant
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Consultant, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Consultant {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func filterByUserID(userID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    model.TableName,
			},
		},
	}
}

// GetMine returns the caller's profile, creating an empty active one on first access.
func (s *serviceImpl) GetMine(ctx context.Context) (res dto.ProfileResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	profile, err := s.repo.Get(ctx, filterByUserID(userID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get consultant profile")

		return res, fmt.Errorf("failed to get consultant profile: %w", err)
	}

	if profile.ID == constant.Empty {
		profile = dto.NewProfileModel(userID)

		if err = s.repo.Insert(ctx, profile); err != nil {
			log.Error().Err(err).Msg("failed to create consultant profile")

			return res, fmt.Errorf("failed to create consultant profile: %w", err)
		}
	}

	res.FromModel(profile)

	return res, nil
}

func (s *serviceImpl) UpdateMine(ctx context.Context, req dto.UpdateProfileRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateProfileRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := filterByUserID(userID)

	profile, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get consultant profile")

		return fmt.Errorf("failed to get consultant profile: %w", err)
	}

	if profile.ID == constant.Empty {
		profile = dto.NewProfileModel(userID)

		if err = s.repo.Insert(ctx, profile); err != nil {
			log.Error().Err(err).Msg("failed to create consultant profile")

			return fmt.Errorf("failed to create consultant profile: %w", err)
		}
	}

	updatedFields := shared.TransformFields(req, userID)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update consultant profile")

		return fmt.Errorf("failed to update consultant profile: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetProfile, profile.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete consultant profile from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllProfiles)
		shared.InvalidateCaches(c, s.cache, cacheCountProfiles)
	}()

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ProfileResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetProfile, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for consultant profile")

		return res, nil
	}

	profile, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get consultant profile")

		return res, fmt.Errorf("failed to get consultant profile: %w", err)
	}

	if profile.ID == constant.Empty {
		return res, failure.NotFound("consultant profile not found") // nolint:wrapcheck
	}

	res.FromModel(profile)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save consultant profile to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetProfilesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllProfiles, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for consultant profiles")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count consultant profiles")

		return res, fmt.Errorf("failed to count consultant profiles: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get consultant profiles")

		return res, fmt.Errorf("failed to get consultant profiles: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save consultant profiles to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountProfiles, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for consultant profile count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count consultant profiles")

		return res, fmt.Errorf("failed to count consultant profiles: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save consultant profile count to cache")
		}
	}()

	return res, nil
}
