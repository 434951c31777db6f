package types

import "github.com/go-playground/validator/v10"

// AnswerRequest represents a single submitted answer for the current question.
type AnswerRequest struct {
	Value string `json:"value" validate:"required"`
}

// Validate validates the AnswerRequest using the validator.
func (r *AnswerRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
