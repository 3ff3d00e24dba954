package service

import (
	"consultly/config"
	"consultly/infras/otel"
	"consultly/infras/paystack"
	availabilityModel "consultly/internal/domains/availability/model"
	availabilityRepo "consultly/internal/domains/availability/repository"
	bookingDto "consultly/internal/domains/booking/model/dto"
	bookingModel "consultly/internal/domains/booking/model"
	bookingRepo "consultly/internal/domains/booking/repository"
	"consultly/internal/domains/payment/model"
	"consultly/internal/domains/payment/model/dto"
	"consultly/internal/domains/payment/repository"
	userModel "consultly/internal/domains/user/model"
	userRepo "consultly/internal/domains/user/repository"
	"consultly/shared"
	"consultly/shared/constant"
	gDto "consultly/shared/dto"
	"consultly/shared/failure"
	"consultly/shared/timezone"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Payment interface {
	Initialize(ctx context.Context, req dto.InitializePaymentRequest) (dto.InitializePaymentResponse, error)
	Verify(ctx context.Context, reference string) (dto.VerifyPaymentResponse, error)
}

type serviceImpl struct {
	repo        repository.Payment
	bookingRepo bookingRepo.Booking
	slotRepo    availabilityRepo.Availability
	userRepo    userRepo.User
	gateway     paystack.Paystack
	cfg         *config.Config
	otel        otel.Otel
}

func New(
	repo repository.Payment,
	bookingRepo bookingRepo.Booking,
	slotRepo availabilityRepo.Availability,
	userRepo userRepo.User,
	gateway paystack.Paystack,
	cfg *config.Config,
	otel otel.Otel,
) Payment {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		cfg:         cfg,
		otel:        otel,
	}
}

func paymentByBookingFilter(bookingID string) gDto.FilterGroup {
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

func paymentByReferenceFilter(reference string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldReference,
				Operator: gDto.FilterOperatorEq,
				Value:    reference,
				Table:    model.TableName,
			},
		},
	}
}

// pendingBookingFilter narrows the booking lookup to the caller's own pending
// booking so foreign or settled bookings read as absent.
func pendingBookingFilter(bookingID, clientID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    bookingID,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				Field:    bookingModel.FieldClientID,
				Operator: gDto.FilterOperatorEq,
				Value:    clientID,
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    constant.BookingStatusPending,
				Table:    bookingModel.TableName,
			},
		},
	}
}

func confirmedBookingsFilter(slotID string) gDto.FilterGroup {
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

func (s *serviceImpl) Initialize(ctx context.Context, req dto.InitializePaymentRequest) (res dto.InitializePaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Initialize")
	defer scope.End()
	defer scope.TraceIfError(err)

	clientID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.bookingRepo.Get(ctx, pendingBookingFilter(req.BookingID, clientID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	payment, err := s.repo.Get(ctx, paymentByBookingFilter(booking.ID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment")

		return res, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID == constant.Empty {
		payment = dto.NewPaymentModel(booking.ID, s.cfg.Consultation.FeeAmount, clientID)

		if err = s.repo.Insert(ctx, payment); err != nil {
			log.Error().Err(err).Msg("failed to create payment")

			return res, fmt.Errorf("failed to create payment: %w", err)
		}
	}

	if payment.Status == constant.PaymentStatusSuccess {
		return res, failure.Conflict("booking is already paid") // nolint:wrapcheck
	}

	client, err := s.userRepo.Get(ctx, shared.FilterByID(clientID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get client")

		return res, fmt.Errorf("failed to get client: %w", err)
	}

	gwRes, err := s.gateway.InitializeTransaction(ctx, paystack.InitializeRequest{
		Email:       client.Email,
		Amount:      payment.Amount,
		Reference:   payment.Reference,
		CallbackURL: s.cfg.Paystack.CallbackURL,
	})

	if errors.Is(err, paystack.ErrDuplicateReference) {
		payment.Reference, err = s.rotateReference(ctx, payment, clientID)
		if err != nil {
			return res, err
		}

		gwRes, err = s.gateway.InitializeTransaction(ctx, paystack.InitializeRequest{
			Email:       client.Email,
			Amount:      payment.Amount,
			Reference:   payment.Reference,
			CallbackURL: s.cfg.Paystack.CallbackURL,
		})
		if errors.Is(err, paystack.ErrDuplicateReference) {
			return res, failure.Conflict("payment reference already used") // nolint:wrapcheck
		}
	}

	if err != nil {
		log.Error().Err(err).Str("reference", payment.Reference).Msg("failed to initialize transaction")

		return res, err
	}

	res = dto.InitializePaymentResponse{
		Reference:        payment.Reference,
		AuthorizationURL: gwRes.AuthorizationURL,
		Amount:           payment.Amount,
		Status:           payment.Status,
	}

	return res, nil
}

// rotateReference persists a freshly generated reference before the retry so a
// crash between retry and response cannot orphan the gateway transaction.
func (s *serviceImpl) rotateReference(ctx context.Context, payment model.Payment, userID string) (string, error) {
	newReference := uuid.NewString()

	updatedFields := shared.TransformFields(dto.UpdateReferenceFields{Reference: newReference}, userID)

	if err := s.repo.Update(ctx, updatedFields, shared.FilterByID(payment.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to rotate payment reference")

		return "", fmt.Errorf("failed to rotate payment reference: %w", err)
	}

	log.Info().Str("payment_id", payment.ID).Str("reference", newReference).Msg("rotated duplicate payment reference")

	return newReference, nil
}

func (s *serviceImpl) Verify(ctx context.Context, reference string) (res dto.VerifyPaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Verify")
	defer scope.End()
	defer scope.TraceIfError(err)

	if reference == constant.Empty {
		return res, failure.BadRequestFromString("reference is required") // nolint:wrapcheck
	}

	payment, err := s.repo.Get(ctx, paymentByReferenceFilter(reference))
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment")

		return res, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID == constant.Empty {
		return res, failure.NotFound("payment not found") // nolint:wrapcheck
	}

	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(payment.BookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	gwRes, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		log.Error().Err(err).Str("reference", reference).Msg("failed to verify transaction")

		return res, err
	}

	if gwRes.Status != paystack.TransactionStatusSuccess {
		log.Info().Str("reference", reference).Str("gateway_status", gwRes.Status).Msg("gateway did not report success, leaving state untouched")

		return dto.VerifyPaymentResponse{
			Reference:     reference,
			PaymentStatus: payment.Status,
			BookingStatus: booking.Status,
		}, nil
	}

	paidAt, err := s.settle(ctx, payment, booking)
	if err != nil {
		return res, err
	}

	return dto.VerifyPaymentResponse{
		Reference:     reference,
		PaymentStatus: constant.PaymentStatusSuccess,
		BookingStatus: constant.BookingStatusConfirmed,
		PaidAt:        paidAt,
	}, nil
}

// settle flips the payment to SUCCESS and the booking to CONFIRMED in one
// transaction. The conditional update keeps a concurrent double verification
// from confirming twice: only the caller whose update matched a row proceeds.
func (s *serviceImpl) settle(ctx context.Context, payment model.Payment, booking bookingModel.Booking) (paidAt *string, err error) {
	now := timezone.Now()

	markPaid := shared.TransformFields(dto.MarkPaidFields{
		Status: constant.PaymentStatusSuccess,
		PaidAt: now,
	}, booking.ClientID)

	notYetPaid := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldReference,
				Operator: gDto.FilterOperatorEq,
				Value:    payment.Reference,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorNotEq,
				Value:    constant.PaymentStatusSuccess,
				Table:    model.TableName,
			},
		},
	}

	err = s.repo.WithTx(ctx, func(sqltx *sqlx.Tx) error {
		updated, txErr := s.repo.UpdateCountTx(ctx, sqltx, markPaid, notYetPaid)
		if txErr != nil {
			log.Error().Err(txErr).Msg("failed to mark payment as paid")

			return fmt.Errorf("failed to mark payment as paid: %w", txErr)
		}

		if updated == 0 {
			// Another verification already settled this payment.
			log.Info().Str("reference", payment.Reference).Msg("payment already settled, verification is a no-op")

			if payment.PaidAt != nil {
				formatted := timezone.Format(*payment.PaidAt, constant.DateFormat)
				paidAt = &formatted
			}

			return nil
		}

		slot, txErr := s.slotRepo.Get(ctx, shared.FilterByID(booking.SlotID, availabilityModel.FieldID, availabilityModel.TableName))
		if txErr != nil {
			log.Error().Err(txErr).Msg("failed to get slot")

			return fmt.Errorf("failed to get slot: %w", txErr)
		}

		confirmed, txErr := s.bookingRepo.CountTx(ctx, sqltx, confirmedBookingsFilter(booking.SlotID))
		if txErr != nil {
			log.Error().Err(txErr).Msg("failed to count confirmed bookings")

			return fmt.Errorf("failed to count confirmed bookings: %w", txErr)
		}

		if confirmed >= slot.Capacity {
			return failure.Conflict("slot is fully booked") // nolint:wrapcheck
		}

		confirmBooking := shared.TransformFields(bookingDto.UpdateStatusFields{
			Status: constant.BookingStatusConfirmed,
		}, booking.ClientID)

		if txErr = s.bookingRepo.UpdateTx(ctx, sqltx, confirmBooking, shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName)); txErr != nil {
			log.Error().Err(txErr).Msg("failed to confirm booking")

			return fmt.Errorf("failed to confirm booking: %w", txErr)
		}

		formatted := timezone.Format(now, constant.DateFormat)
		paidAt = &formatted

		return nil
	})
	if err != nil {
		return nil, err
	}

	return paidAt, nil
}
