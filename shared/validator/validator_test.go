package validator_test

import (
	"strings"
	"testing"

	"consultly/shared/validator"
)

type reviewPayload struct {
	Reviewer string `validate:"required"                json:"reviewer"`
	Email    string `validate:"required,email"          json:"email"`
	Rating   int    `validate:"gte=1,lte=5"             json:"rating"`
	Role     string `validate:"oneof=client consultant" json:"role"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		data        *reviewPayload
		expectError bool
	}{
		{
			name: "valid struct",
			data: &reviewPayload{
				Reviewer: "Ada",
				Email:    "ada@example.com",
				Rating:   4,
				Role:     "client",
			},
			expectError: false,
		},
		{
			name: "missing required field",
			data: &reviewPayload{
				Email:  "ada@example.com",
				Rating: 4,
				Role:   "client",
			},
			expectError: true,
		},
		{
			name: "invalid email",
			data: &reviewPayload{
				Reviewer: "Ada",
				Email:    "not-an-email",
				Rating:   4,
				Role:     "client",
			},
			expectError: true,
		},
		{
			name: "rating above upper bound",
			data: &reviewPayload{
				Reviewer: "Ada",
				Email:    "ada@example.com",
				Rating:   6,
				Role:     "client",
			},
			expectError: true,
		},
		{
			name: "rating below lower bound",
			data: &reviewPayload{
				Reviewer: "Ada",
				Email:    "ada@example.com",
				Rating:   0,
				Role:     "client",
			},
			expectError: true,
		},
		{
			name: "invalid role",
			data: &reviewPayload{
				Reviewer: "Ada",
				Email:    "ada@example.com",
				Rating:   4,
				Role:     "admin",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(tt.data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name        string
		field       interface{}
		tag         string
		expectError bool
	}{
		{
			name:        "valid required string",
			field:       "slot-id",
			tag:         "required",
			expectError: false,
		},
		{
			name:        "empty required string",
			field:       "",
			tag:         "required",
			expectError: true,
		},
		{
			name:        "valid email",
			field:       "client@example.com",
			tag:         "email",
			expectError: false,
		},
		{
			name:        "invalid email",
			field:       "invalid-email",
			tag:         "email",
			expectError: true,
		},
		{
			name:        "rating in range",
			field:       3,
			tag:         "gte=1,lte=5",
			expectError: false,
		},
		{
			name:        "rating out of range",
			field:       9,
			tag:         "gte=1,lte=5",
			expectError: true,
		},
		{
			name:        "valid status",
			field:       "confirmed",
			tag:         "oneof=pending confirmed completed cancelled",
			expectError: false,
		},
		{
			name:        "invalid status",
			field:       "archived",
			tag:         "oneof=pending confirmed completed cancelled",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		jsonBody    string
		expectError bool
	}{
		{
			name:        "valid JSON",
			jsonBody:    `{"reviewer":"Ada","email":"ada@example.com","rating":5,"role":"client"}`,
			expectError: false,
		},
		{
			name:        "valid JSON failing validation",
			jsonBody:    `{"reviewer":"Ada","email":"not-an-email","rating":5,"role":"client"}`,
			expectError: true,
		},
		{
			name:        "malformed JSON",
			jsonBody:    `{"reviewer":"Ada","email":}`,
			expectError: true,
		},
		{
			name:        "empty JSON",
			jsonBody:    `{}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := strings.NewReader(tt.jsonBody)

			var data reviewPayload

			err := validator.Validate(reader, &data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidationMessages(t *testing.T) {
	data := &reviewPayload{}

	err := validator.ValidateStruct(data)
	if err == nil {
		t.Fatal("expected validation error for empty struct")
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "required") || errorMsg == "" {
		t.Errorf("expected descriptive error message containing 'required', got: %s", errorMsg)
	}
}
