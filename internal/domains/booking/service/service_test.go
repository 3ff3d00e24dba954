package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"consultly/config"
	"consultly/infras/otel/mocks"
	availabilityMocks "consultly/internal/domains/availability/mocks"
	availabilityModel "consultly/internal/domains/availability/model"
	bookingMocks "consultly/internal/domains/booking/mocks"
	"consultly/internal/domains/booking/model"
	"consultly/internal/domains/booking/model/dto"
	"consultly/internal/domains/booking/service"
	consultantMocks "consultly/internal/domains/consultant/mocks"
	consultantModel "consultly/internal/domains/consultant/model"
	cacheMocks "consultly/shared/cache/mocks"
	"consultly/shared/constant"
	"consultly/shared/failure"
	"consultly/shared/timezone"
)

type fixtures struct {
	repo           *bookingMocks.MockBooking
	slotRepo       *availabilityMocks.MockAvailability
	consultantRepo *consultantMocks.MockConsultant
	cache          *cacheMocks.MockRedisCache
	svc            service.Booking
}

func setup(t *testing.T) fixtures {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := fixtures{
		repo:           bookingMocks.NewMockBooking(ctrl),
		slotRepo:       availabilityMocks.NewMockAvailability(ctrl),
		consultantRepo: consultantMocks.NewMockConsultant(ctrl),
		cache:          cacheMocks.NewMockRedisCache(ctrl),
	}

	f.svc = service.New(f.repo, f.slotRepo, f.consultantRepo, &config.Config{}, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func clientContext(userID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleClient)
}

func consultantContext(userID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleConsultant)
}

func TestBookingService_Create(t *testing.T) {
	slot := availabilityModel.Slot{
		ID:           "slot-1",
		ConsultantID: "profile-1",
		Date:         timezone.Today().AddDate(0, 0, 7),
		Capacity:     2,
	}

	t.Run("successful booking starts pending", func(t *testing.T) {
		f := setup(t)

		f.slotRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(slot, nil)

		f.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(1, nil)

		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, booking model.Booking) error {
				assert.Equal(t, constant.BookingStatusPending, booking.Status)
				assert.Equal(t, "client-1", booking.ClientID)
				assert.Equal(t, "profile-1", booking.ConsultantID)
				assert.Equal(t, "slot-1", booking.SlotID)

				return nil
			})

		res, err := f.svc.Create(clientContext("client-1"), dto.CreateBookingRequest{
			SlotID: "slot-1",
			Reason: "contract review",
		})

		assert.NoError(t, err)
		assert.Equal(t, constant.BookingStatusPending, res.Status)
	})

	t.Run("missing slot rejected", func(t *testing.T) {
		f := setup(t)

		f.slotRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(availabilityModel.Slot{}, nil)

		_, err := f.svc.Create(clientContext("client-1"), dto.CreateBookingRequest{
			SlotID: "missing",
			Reason: "contract review",
		})

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("full slot rejected", func(t *testing.T) {
		f := setup(t)

		f.slotRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(slot, nil)

		f.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(2, nil)

		_, err := f.svc.Create(clientContext("client-1"), dto.CreateBookingRequest{
			SlotID: "slot-1",
			Reason: "contract review",
		})

		assert.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})
}

func TestBookingService_TransitionStatus(t *testing.T) {
	booking := model.Booking{
		ID:           "booking-1",
		ClientID:     "client-1",
		ConsultantID: "profile-1",
		SlotID:       "slot-1",
		Status:       constant.BookingStatusPending,
	}

	consultantProfile := consultantModel.Profile{ID: "profile-1", UserID: "consultant-1"}

	tests := []struct {
		name     string
		from     string
		to       string
		wantErr  bool
		wantCode int
	}{
		{name: "pending to cancelled", from: constant.BookingStatusPending, to: constant.BookingStatusCancelled},
		{name: "confirmed to completed", from: constant.BookingStatusConfirmed, to: constant.BookingStatusCompleted},
		{name: "confirmed to cancelled", from: constant.BookingStatusConfirmed, to: constant.BookingStatusCancelled},
		{name: "pending to completed rejected", from: constant.BookingStatusPending, to: constant.BookingStatusCompleted, wantErr: true, wantCode: 400},
		{name: "completed is terminal", from: constant.BookingStatusCompleted, to: constant.BookingStatusCancelled, wantErr: true, wantCode: 400},
		{name: "cancelled is terminal", from: constant.BookingStatusCancelled, to: constant.BookingStatusCompleted, wantErr: true, wantCode: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)

			current := booking
			current.Status = tt.from

			f.repo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(current, nil)

			f.consultantRepo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(consultantProfile, nil)

			if !tt.wantErr {
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						assert.Equal(t, tt.to, fields[model.FieldStatus])

						return nil
					})
			}

			err := f.svc.TransitionStatus(consultantContext("consultant-1"), "booking-1", dto.TransitionStatusRequest{Status: tt.to})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("unknown status rejected", func(t *testing.T) {
		f := setup(t)

		err := f.svc.TransitionStatus(consultantContext("consultant-1"), "booking-1", dto.TransitionStatusRequest{Status: "archived"})

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("manual confirmation rejected", func(t *testing.T) {
		f := setup(t)

		err := f.svc.TransitionStatus(consultantContext("consultant-1"), "booking-1", dto.TransitionStatusRequest{Status: constant.BookingStatusConfirmed})

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("client may only cancel", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		err := f.svc.TransitionStatus(clientContext("client-1"), "booking-1", dto.TransitionStatusRequest{Status: constant.BookingStatusCompleted})

		assert.Error(t, err)
		assert.Equal(t, 403, failure.GetCode(err))
	})

	t.Run("client cancels own booking", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		err := f.svc.TransitionStatus(clientContext("client-1"), "booking-1", dto.TransitionStatusRequest{Status: constant.BookingStatusCancelled})

		assert.NoError(t, err)
	})
}

func TestBookingService_AttachMeetingLink(t *testing.T) {
	booking := model.Booking{
		ID:           "booking-1",
		ClientID:     "client-1",
		ConsultantID: "profile-1",
		SlotID:       "slot-1",
		Status:       constant.BookingStatusConfirmed,
	}

	t.Run("owning consultant attaches link", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		f.consultantRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(consultantModel.Profile{ID: "profile-1", UserID: "consultant-1"}, nil)

		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, "https://meet.example.com/session-1", fields[model.FieldMeetingLink])

				return nil
			})

		err := f.svc.AttachMeetingLink(consultantContext("consultant-1"), "booking-1", dto.AttachMeetingLinkRequest{
			MeetingLink: "https://meet.example.com/session-1",
		})

		assert.NoError(t, err)
	})

	t.Run("other consultant forbidden", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		f.consultantRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(consultantModel.Profile{ID: "profile-2", UserID: "other-consultant"}, nil)

		err := f.svc.AttachMeetingLink(consultantContext("other-consultant"), "booking-1", dto.AttachMeetingLinkRequest{
			MeetingLink: "https://meet.example.com/session-1",
		})

		assert.Error(t, err)
		assert.Equal(t, 403, failure.GetCode(err))
	})

	t.Run("missing booking", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)

		err := f.svc.AttachMeetingLink(consultantContext("consultant-1"), "missing", dto.AttachMeetingLinkRequest{
			MeetingLink: "https://meet.example.com/session-1",
		})

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestBookingService_Get(t *testing.T) {
	booking := model.Booking{
		ID:           "booking-1",
		ClientID:     "client-1",
		ConsultantID: "profile-1",
		SlotID:       "slot-1",
		Status:       constant.BookingStatusPending,
	}

	t.Run("owner sees booking", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		res, err := f.svc.Get(clientContext("client-1"), "booking-1")

		assert.NoError(t, err)
		assert.Equal(t, "booking-1", res.ID)
	})

	t.Run("stranger gets not found", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		_, err := f.svc.Get(clientContext("client-2"), "booking-1")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}
