package dto

import (
	"consultly/internal/domains/user/model"
	gDto "consultly/shared/dto"
)

type UserResponse struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	FullName *string `json:"full_name,omitempty"`
	Active   bool    `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(mod model.User) {
	r.ID = mod.ID
	r.Email = mod.Email
	r.Role = mod.Role
	r.FullName = mod.FullName
	r.Active = mod.Active
	r.Metadata.FromModel(mod.Metadata)
}
