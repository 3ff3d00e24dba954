package dto

import (
	"consultly/internal/domains/availability/model"
	"consultly/shared"
	"consultly/shared/constant"
	gDto "consultly/shared/dto"
	gModel "consultly/shared/model"
	"consultly/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type PublishSlotRequest struct {
	Date     string `json:"date"     validate:"required"`
	Capacity int    `json:"capacity" validate:"omitempty,gte=1"`
}

func (p *PublishSlotRequest) ToModel(consultantID string, userID string) (model.Slot, error) {
	date, err := time.Parse(constant.DateOnlyFormat, p.Date)
	if err != nil {
		return model.Slot{}, err
	}

	capacity := p.Capacity
	if capacity == 0 {
		capacity = model.DefaultCapacity
	}

	return model.Slot{
		ID:           uuid.NewString(),
		ConsultantID: consultantID,
		Date:         date,
		Capacity:     capacity,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  userID,
			ModifiedBy: userID,
		},
	}, nil
}

type SlotResponse struct {
	ID           string `json:"id"`
	ConsultantID string `json:"consultant_id"`
	Date         string `json:"date"`
	Capacity     int    `json:"capacity"`
	gDto.Metadata
}

func (r *SlotResponse) FromModel(mod model.Slot) {
	r.ID = mod.ID
	r.ConsultantID = mod.ConsultantID
	r.Date = mod.Date.Format(constant.DateOnlyFormat)
	r.Capacity = mod.Capacity
	r.Metadata.FromModel(mod.Metadata)
}

type GetSlotsResponse struct {
	Slots     []SlotResponse `json:"slots"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetSlotsResponse) FromModels(models []model.Slot, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Slots = make([]SlotResponse, len(models))
	for i, mod := range models {
		r.Slots[i].FromModel(mod)
	}
}

type UpcomingSlotsResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// FromModels keeps the earliest slot per consultant, relying on ascending date
// order, then pages over the deduplicated list.
func (r *UpcomingSlotsResponse) FromModels(models []model.Slot, page, limit int) {
	seen := make(map[string]bool, len(models))
	deduped := make([]model.Slot, 0, len(models))

	for _, mod := range models {
		if seen[mod.ConsultantID] {
			continue
		}

		seen[mod.ConsultantID] = true
		deduped = append(deduped, mod)
	}

	if page > 0 && limit > 0 {
		start := (page - 1) * limit
		if start >= len(deduped) {
			deduped = nil
		} else if end := start + limit; end < len(deduped) {
			deduped = deduped[start:end]
		} else {
			deduped = deduped[start:]
		}
	}

	r.Slots = make([]SlotResponse, len(deduped))
	for i, mod := range deduped {
		r.Slots[i].FromModel(mod)
	}
}
