package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"consultly/config"
	"consultly/infras/otel/mocks"
	"consultly/infras/paystack"
	paystackMocks "consultly/infras/paystack/mocks"
	availabilityMocks "consultly/internal/domains/availability/mocks"
	availabilityModel "consultly/internal/domains/availability/model"
	bookingMocks "consultly/internal/domains/booking/mocks"
	bookingModel "consultly/internal/domains/booking/model"
	paymentMocks "consultly/internal/domains/payment/mocks"
	"consultly/internal/domains/payment/model"
	"consultly/internal/domains/payment/model/dto"
	"consultly/internal/domains/payment/service"
	userMocks "consultly/internal/domains/user/mocks"
	userModel "consultly/internal/domains/user/model"
	"consultly/shared/constant"
	"consultly/shared/failure"
)

type fixtures struct {
	repo        *paymentMocks.MockPayment
	bookingRepo *bookingMocks.MockBooking
	slotRepo    *availabilityMocks.MockAvailability
	userRepo    *userMocks.MockUser
	gateway     *paystackMocks.MockPaystack
	svc         service.Payment
}

func setup(t *testing.T) fixtures {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := fixtures{
		repo:        paymentMocks.NewMockPayment(ctrl),
		bookingRepo: bookingMocks.NewMockBooking(ctrl),
		slotRepo:    availabilityMocks.NewMockAvailability(ctrl),
		userRepo:    userMocks.NewMockUser(ctrl),
		gateway:     paystackMocks.NewMockPaystack(ctrl),
	}

	cfg := &config.Config{}
	cfg.Consultation.FeeAmount = 500000
	cfg.Paystack.CallbackURL = "https://consultly.example.com/payments/verify"

	f.svc = service.New(f.repo, f.bookingRepo, f.slotRepo, f.userRepo, f.gateway, cfg, mocks.NewOtel())

	return f
}

// runTx makes the mocked transaction runner execute the closure directly.
func runTx(f fixtures) {
	f.repo.EXPECT().
		WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
			return fn(nil)
		})
}

func clientContext(userID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleClient)
}

func pendingBooking() bookingModel.Booking {
	return bookingModel.Booking{
		ID:           "booking-1",
		ClientID:     "client-1",
		ConsultantID: "profile-1",
		SlotID:       "slot-1",
		Status:       constant.BookingStatusPending,
	}
}

func pendingPayment() model.Payment {
	return model.Payment{
		ID:        "payment-1",
		BookingID: "booking-1",
		Amount:    500000,
		Reference: "ref-001",
		Status:    constant.PaymentStatusPending,
	}
}

func TestPaymentService_Initialize(t *testing.T) {
	client := userModel.User{ID: "client-1", Email: "client@example.com", Role: constant.RoleClient}

	t.Run("creates payment on first call", func(t *testing.T) {
		f := setup(t)

		f.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pendingBooking(), nil)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Payment{}, nil)

		var created model.Payment

		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, payment model.Payment) error {
				created = payment

				assert.Equal(t, int64(500000), payment.Amount)
				assert.Equal(t, constant.PaymentStatusPending, payment.Status)
				assert.NotEmpty(t, payment.Reference)

				return nil
			})

		f.userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(client, nil)

		f.gateway.EXPECT().
			InitializeTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req paystack.InitializeRequest) (paystack.InitializeResult, error) {
				assert.Equal(t, "client@example.com", req.Email)
				assert.Equal(t, int64(500000), req.Amount)
				assert.Equal(t, created.Reference, req.Reference)

				return paystack.InitializeResult{
					AuthorizationURL: "https://checkout.example.com/abc",
					Reference:        req.Reference,
				}, nil
			})

		res, err := f.svc.Initialize(clientContext("client-1"), dto.InitializePaymentRequest{BookingID: "booking-1"})

		assert.NoError(t, err)
		assert.Equal(t, created.Reference, res.Reference)
		assert.Equal(t, "https://checkout.example.com/abc", res.AuthorizationURL)
		assert.Equal(t, constant.PaymentStatusPending, res.Status)
	})

	t.Run("reuses existing payment", func(t *testing.T) {
		f := setup(t)

		f.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pendingBooking(), nil)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pendingPayment(), nil)

		f.userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(client, nil)

		f.gateway.EXPECT().
			InitializeTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req paystack.InitializeRequest) (paystack.InitializeResult, error) {
				assert.Equal(t, "ref-001", req.Reference)

				return paystack.InitializeResult{AuthorizationURL: "https://checkout.example.com/abc"}, nil
			})

		res, err := f.svc.Initialize(clientContext("client-1"), dto.InitializePaymentRequest{BookingID: "booking-1"})

		assert.NoError(t, err)
		assert.Equal(t, "ref-001", res.Reference)
	})

	t.Run("foreign booking reads as absent", func(t *testing.T) {
		f := setup(t)

		f.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(bookingModel.Booking{}, nil)

		_, err := f.svc.Initialize(clientContext("client-2"), dto.InitializePaymentRequest{BookingID: "booking-1"})

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("already paid short-circuits", func(t *testing.T) {
		f := setup(t)

		paid := pendingPayment()
		paid.Status = constant.PaymentStatusSuccess

		f.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pendingBooking(), nil)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(paid, nil)

		_, err := f.svc.Initialize(clientContext("client-1"), dto.InitializePaymentRequest{BookingID: "booking-1"})

		assert.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("duplicate reference retried once with persisted reference", func(t *testing.T) {
		f := setup(t)

		f.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pendingBooking(), nil)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pendingPayment(), nil)

		f.userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(client, nil)

		f.gateway.EXPECT().
			InitializeTransaction(gomock.Any(), gomock.Any()).
			Return(paystack.InitializeResult{}, paystack.ErrDuplicateReference)

		var rotated string

		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				reference, ok := fields[model.FieldReference].(string)
				assert.True(t, ok)
				assert.NotEqual(t, "ref-001", reference)
				rotated = reference

				return nil
			})

		f.gateway.EXPECT().
			InitializeTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req paystack.InitializeRequest) (paystack.InitializeResult, error) {
				assert.Equal(t, rotated, req.Reference)

				return paystack.InitializeResult{AuthorizationURL: "https://checkout.example.com/retry"}, nil
			})

		res, err := f.svc.Initialize(clientContext("client-1"), dto.InitializePaymentRequest{BookingID: "booking-1"})

		assert.NoError(t, err)
		assert.Equal(t, rotated, res.Reference)
		assert.Equal(t, constant.PaymentStatusPending, res.Status)
	})

	t.Run("gateway failure leaves status untouched", func(t *testing.T) {
		f := setup(t)

		f.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pendingBooking(), nil)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pendingPayment(), nil)

		f.userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(client, nil)

		f.gateway.EXPECT().
			InitializeTransaction(gomock.Any(), gomock.Any()).
			Return(paystack.InitializeResult{}, failure.Gateway("payment gateway unreachable"))

		_, err := f.svc.Initialize(clientContext("client-1"), dto.InitializePaymentRequest{BookingID: "booking-1"})

		assert.Error(t, err)
		assert.Equal(t, 502, failure.GetCode(err))
	})
}

func TestPaymentService_Verify(t *testing.T) {
	slot := availabilityModel.Slot{ID: "slot-1", ConsultantID: "profile-1", Capacity: 5}

	t.Run("empty reference rejected", func(t *testing.T) {
		f := setup(t)

		_, err := f.svc.Verify(context.Background(), "")

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("unknown reference", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Payment{}, nil)

		_, err := f.svc.Verify(context.Background(), "missing-ref")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("successful verification settles payment and booking", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pendingPayment(), nil)

		f.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pendingBooking(), nil)

		f.gateway.EXPECT().
			VerifyTransaction(gomock.Any(), "ref-001").
			Return(paystack.VerifyResult{Status: paystack.TransactionStatusSuccess, Reference: "ref-001", Amount: 500000}, nil)

		runTx(f)

		f.repo.EXPECT().
			UpdateCountTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) (int64, error) {
				assert.Equal(t, constant.PaymentStatusSuccess, fields[model.FieldStatus])
				assert.NotNil(t, fields[model.FieldPaidAt])

				return 1, nil
			})

		f.slotRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(slot, nil)

		f.bookingRepo.EXPECT().
			CountTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(2, nil)

		f.bookingRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
				assert.Equal(t, constant.BookingStatusConfirmed, fields[bookingModel.FieldStatus])

				return nil
			})

		res, err := f.svc.Verify(context.Background(), "ref-001")

		assert.NoError(t, err)
		assert.Equal(t, constant.PaymentStatusSuccess, res.PaymentStatus)
		assert.Equal(t, constant.BookingStatusConfirmed, res.BookingStatus)
		assert.NotNil(t, res.PaidAt)
	})

	t.Run("second verification is a no-op", func(t *testing.T) {
		f := setup(t)

		paidAt := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
		settled := pendingPayment()
		settled.Status = constant.PaymentStatusSuccess
		settled.PaidAt = &paidAt

		confirmed := pendingBooking()
		confirmed.Status = constant.BookingStatusConfirmed

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(settled, nil)

		f.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(confirmed, nil)

		f.gateway.EXPECT().
			VerifyTransaction(gomock.Any(), "ref-001").
			Return(paystack.VerifyResult{Status: paystack.TransactionStatusSuccess, Reference: "ref-001"}, nil)

		runTx(f)

		// The conditional update matches no row, so nothing else runs.
		f.repo.EXPECT().
			UpdateCountTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(int64(0), nil)

		res, err := f.svc.Verify(context.Background(), "ref-001")

		assert.NoError(t, err)
		assert.Equal(t, constant.PaymentStatusSuccess, res.PaymentStatus)
		assert.NotNil(t, res.PaidAt)
	})

	t.Run("failed gateway report leaves state untouched", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pendingPayment(), nil)

		f.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pendingBooking(), nil)

		f.gateway.EXPECT().
			VerifyTransaction(gomock.Any(), "ref-001").
			Return(paystack.VerifyResult{Status: paystack.TransactionStatusFailed, Reference: "ref-001"}, nil)

		res, err := f.svc.Verify(context.Background(), "ref-001")

		assert.NoError(t, err)
		assert.Equal(t, constant.PaymentStatusPending, res.PaymentStatus)
		assert.Equal(t, constant.BookingStatusPending, res.BookingStatus)
	})

	t.Run("capacity exhausted at settlement", func(t *testing.T) {
		f := setup(t)

		full := availabilityModel.Slot{ID: "slot-1", ConsultantID: "profile-1", Capacity: 2}

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pendingPayment(), nil)

		f.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pendingBooking(), nil)

		f.gateway.EXPECT().
			VerifyTransaction(gomock.Any(), "ref-001").
			Return(paystack.VerifyResult{Status: paystack.TransactionStatusSuccess, Reference: "ref-001"}, nil)

		f.repo.EXPECT().
			WithTx(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
				// Mirror the real runner: the closure's error aborts the transaction.
				return fn(nil)
			})

		f.repo.EXPECT().
			UpdateCountTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(int64(1), nil)

		f.slotRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(full, nil)

		f.bookingRepo.EXPECT().
			CountTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(2, nil)

		_, err := f.svc.Verify(context.Background(), "ref-001")

		assert.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("gateway fault surfaces without state change", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pendingPayment(), nil)

		f.bookingRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pendingBooking(), nil)

		f.gateway.EXPECT().
			VerifyTransaction(gomock.Any(), "ref-001").
			Return(paystack.VerifyResult{}, failure.Gateway("payment gateway unreachable"))

		_, err := f.svc.Verify(context.Background(), "ref-001")

		assert.Error(t, err)
		assert.Equal(t, 502, failure.GetCode(err))
	})
}
