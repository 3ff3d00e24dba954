package dto

import (
	"consultly/internal/domains/payment/model"
	"consultly/shared/constant"
	gModel "consultly/shared/model"
	"consultly/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type InitializePaymentRequest struct {
	BookingID string `json:"booking_id" validate:"required"`
}

// NewPaymentModel builds the pending payment created on first initialization.
func NewPaymentModel(bookingID string, amount int64, userID string) model.Payment {
	return model.Payment{
		ID:        uuid.NewString(),
		BookingID: bookingID,
		Amount:    amount,
		Reference: uuid.NewString(),
		Status:    constant.PaymentStatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  userID,
			ModifiedBy: userID,
		},
	}
}

type InitializePaymentResponse struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	Amount           int64  `json:"amount"`
	Status           string `json:"status"`
}

type UpdateReferenceFields struct {
	Reference string `db:"reference" json:"reference"`
}

type MarkPaidFields struct {
	Status string    `db:"status"  json:"status"`
	PaidAt time.Time `db:"paid_at" json:"paid_at"`
}

type VerifyPaymentResponse struct {
	Reference     string  `json:"reference"`
	PaymentStatus string  `json:"payment_status"`
	BookingStatus string  `json:"booking_status"`
	PaidAt        *string `json:"paid_at,omitempty"`
}

type PaymentResponse struct {
	ID        string  `json:"id"`
	BookingID string  `json:"booking_id"`
	Amount    int64   `json:"amount"`
	Reference string  `json:"reference"`
	Status    string  `json:"status"`
	PaidAt    *string `json:"paid_at,omitempty"`
}

func (r *PaymentResponse) FromModel(mod model.Payment) {
	r.ID = mod.ID
	r.BookingID = mod.BookingID
	r.Amount = mod.Amount
	r.Reference = mod.Reference
	r.Status = mod.Status

	if mod.PaidAt != nil {
		paidAt := timezone.Format(*mod.PaidAt, constant.DateFormat)
		r.PaidAt = &paidAt
	}
}
