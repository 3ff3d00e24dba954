package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"consultly/config"
	"consultly/infras/otel/mocks"
	availabilityMocks "consultly/internal/domains/availability/mocks"
	"consultly/internal/domains/availability/model"
	"consultly/internal/domains/availability/model/dto"
	"consultly/internal/domains/availability/service"
	bookingMocks "consultly/internal/domains/booking/mocks"
	consultantMocks "consultly/internal/domains/consultant/mocks"
	consultantModel "consultly/internal/domains/consultant/model"
	cacheMocks "consultly/shared/cache/mocks"
	"consultly/shared/constant"
	gDto "consultly/shared/dto"
	"consultly/shared/failure"
	"consultly/shared/timezone"
)

type fixtures struct {
	repo           *availabilityMocks.MockAvailability
	consultantRepo *consultantMocks.MockConsultant
	bookingRepo    *bookingMocks.MockBooking
	cache          *cacheMocks.MockRedisCache
	svc            service.Availability
}

func setup(t *testing.T) fixtures {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := fixtures{
		repo:           availabilityMocks.NewMockAvailability(ctrl),
		consultantRepo: consultantMocks.NewMockConsultant(ctrl),
		bookingRepo:    bookingMocks.NewMockBooking(ctrl),
		cache:          cacheMocks.NewMockRedisCache(ctrl),
	}

	f.svc = service.New(f.repo, f.consultantRepo, f.bookingRepo, &config.Config{}, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func contextWithUser(userID string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
}

func TestAvailabilityService_Publish(t *testing.T) {
	profile := consultantModel.Profile{ID: "profile-1", UserID: "consultant-1"}

	t.Run("successful publish", func(t *testing.T) {
		f := setup(t)

		f.consultantRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(profile, nil)

		f.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, slot model.Slot) error {
				assert.Equal(t, "profile-1", slot.ConsultantID)
				assert.Equal(t, model.DefaultCapacity, slot.Capacity)

				return nil
			})

		res, err := f.svc.Publish(contextWithUser("consultant-1"), dto.PublishSlotRequest{Date: "2026-09-15"})

		assert.NoError(t, err)
		assert.Equal(t, "2026-09-15", res.Date)
	})

	t.Run("duplicate date rejected", func(t *testing.T) {
		f := setup(t)

		f.consultantRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(profile, nil)

		f.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		_, err := f.svc.Publish(contextWithUser("consultant-1"), dto.PublishSlotRequest{Date: "2026-09-15"})

		assert.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("invalid date rejected", func(t *testing.T) {
		f := setup(t)

		f.consultantRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(profile, nil)

		_, err := f.svc.Publish(contextWithUser("consultant-1"), dto.PublishSlotRequest{Date: "15-09-2026"})

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("profile created lazily", func(t *testing.T) {
		f := setup(t)

		f.consultantRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(consultantModel.Profile{}, nil)

		f.consultantRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(nil)

		f.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(nil)

		_, err := f.svc.Publish(contextWithUser("consultant-1"), dto.PublishSlotRequest{Date: "2026-09-15", Capacity: 3})

		assert.NoError(t, err)
	})
}

func TestAvailabilityService_GetUpcoming(t *testing.T) {
	today := timezone.Today()

	slots := []model.Slot{
		{ID: "slot-1", ConsultantID: "profile-1", Date: today},
		{ID: "slot-2", ConsultantID: "profile-1", Date: today.AddDate(0, 0, 1)},
		{ID: "slot-3", ConsultantID: "profile-2", Date: today.AddDate(0, 0, 2)},
		{ID: "slot-4", ConsultantID: "profile-3", Date: today.AddDate(0, 0, 3)},
	}

	expectListing := func(f fixtures) {
		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(assert.AnError)

		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Slot, error) {
				assert.Equal(t, model.FieldDate, params.SortBy)
				assert.Equal(t, gDto.SortDirAsc, params.SortDir)
				assert.Zero(t, params.Page)
				assert.Zero(t, params.Limit)

				return slots, nil
			})
	}

	t.Run("keeps earliest slot per consultant", func(t *testing.T) {
		f := setup(t)
		expectListing(f)

		res, err := f.svc.GetUpcoming(context.Background(), gDto.QueryParams{Page: 1, Limit: 10})

		assert.NoError(t, err)
		assert.Len(t, res.Slots, 3)
		assert.Equal(t, "slot-1", res.Slots[0].ID)
		assert.Equal(t, "slot-3", res.Slots[1].ID)
		assert.Equal(t, "slot-4", res.Slots[2].ID)
	})

	t.Run("pages over deduplicated consultants", func(t *testing.T) {
		f := setup(t)
		expectListing(f)

		res, err := f.svc.GetUpcoming(context.Background(), gDto.QueryParams{Page: 2, Limit: 2})

		assert.NoError(t, err)
		assert.Len(t, res.Slots, 1)
		assert.Equal(t, "slot-4", res.Slots[0].ID)
	})
}

func TestAvailabilityService_IsFull(t *testing.T) {
	slot := model.Slot{ID: "slot-1", ConsultantID: "profile-1", Date: time.Now(), Capacity: 2}

	tests := []struct {
		name      string
		confirmed int
		want      bool
	}{
		{name: "below capacity", confirmed: 1, want: false},
		{name: "at capacity", confirmed: 2, want: true},
		{name: "over capacity", confirmed: 3, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)

			f.repo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(slot, nil)

			f.bookingRepo.EXPECT().
				Count(gomock.Any(), gomock.Any()).
				Return(tt.confirmed, nil)

			full, err := f.svc.IsFull(context.Background(), "slot-1")

			assert.NoError(t, err)
			assert.Equal(t, tt.want, full)
		})
	}

	t.Run("missing slot", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Slot{}, nil)

		_, err := f.svc.IsFull(context.Background(), "missing")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestAvailabilityService_Delete(t *testing.T) {
	slot := model.Slot{ID: "slot-1", ConsultantID: "profile-1", Date: time.Now(), Capacity: 5}

	t.Run("owner deletes slot", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(slot, nil)

		f.consultantRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(consultantModel.Profile{ID: "profile-1", UserID: "consultant-1"}, nil)

		f.repo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		err := f.svc.Delete(contextWithUser("consultant-1"), "slot-1")

		assert.NoError(t, err)
	})

	t.Run("non-owner forbidden", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(slot, nil)

		f.consultantRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(consultantModel.Profile{ID: "profile-2", UserID: "other-consultant"}, nil)

		err := f.svc.Delete(contextWithUser("other-consultant"), "slot-1")

		assert.Error(t, err)
		assert.Equal(t, 403, failure.GetCode(err))
	})
}
