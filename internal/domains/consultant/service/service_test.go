package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"consultly/config"
	"consultly/infras/otel/mocks"
	consultantMocks "consultly/internal/domains/consultant/mocks"
	"consultly/internal/domains/consultant/model"
	"consultly/internal/domains/consultant/service"
	cacheMocks "consultly/shared/cache/mocks"
	"consultly/shared/constant"
	"consultly/internal/domains/consultant/model/dto"
	"consultly/shared/failure"
)

func contextWithUser(userID string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
}

func TestConsultantService_GetMine(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := consultantMocks.NewMockConsultant(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, &config.Config{}, mockCache, mockOtel)

	t.Run("existing profile returned", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Profile{ID: "profile-1", UserID: "consultant-1", Specialization: "tax law"}, nil)

		res, err := svc.GetMine(contextWithUser("consultant-1"))

		assert.NoError(t, err)
		assert.Equal(t, "profile-1", res.ID)
		assert.Equal(t, "tax law", res.Specialization)
	})

	t.Run("profile created on first access", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Profile{}, nil)

		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, profile model.Profile) error {
				assert.Equal(t, "consultant-1", profile.UserID)
				assert.True(t, profile.IsActive)
				assert.NotEmpty(t, profile.ID)

				return nil
			})

		res, err := svc.GetMine(contextWithUser("consultant-1"))

		assert.NoError(t, err)
		assert.Equal(t, "consultant-1", res.UserID)
		assert.True(t, res.IsActive)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Profile{}, errors.New("db down"))

		_, err := svc.GetMine(contextWithUser("consultant-1"))

		assert.Error(t, err)
	})
}

func TestConsultantService_UpdateMine(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := consultantMocks.NewMockConsultant(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, &config.Config{}, mockCache, mockOtel)

	t.Run("empty update rejected", func(t *testing.T) {
		err := svc.UpdateMine(contextWithUser("consultant-1"), dto.UpdateProfileRequest{})

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("successful update", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Profile{ID: "profile-1", UserID: "consultant-1"}, nil)

		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.UpdateMine(contextWithUser("consultant-1"), dto.UpdateProfileRequest{Specialization: "tax law"})

		assert.NoError(t, err)
	})
}

func TestConsultantService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := consultantMocks.NewMockConsultant(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, &config.Config{}, mockCache, mockOtel)

	t.Run("profile not found", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Profile{}, nil)

		_, err := svc.Get(context.Background(), "missing-profile")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}
