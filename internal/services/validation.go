package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/speakwell-backend/internal/platform/apierr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// validateInput runs struct tags and converts failures into a 400 listing each field.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apierr.Validation("invalid input: %v", err)
	}
	fields := make([]FieldError, 0, len(verrs))
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Namespace(), Rule: fe.Tag()})
		names = append(names, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
	}
	return apierr.Validation("invalid input: %s", strings.Join(names, ", ")).
		WithDetails(map[string]any{"fields": fields})
}
