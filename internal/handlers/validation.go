package handlers

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared across handlers. validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = validator.New()

// validationMessage flattens validator errors into one client-facing line.
func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return "invalid request"
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", strings.ToLower(fe.Field())))
		case "email":
			parts = append(parts, "a valid email is required")
		case "uuid":
			parts = append(parts, fmt.Sprintf("%s must be a valid UUID", strings.ToLower(fe.Field())))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s characters", strings.ToLower(fe.Field()), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field())))
		}
	}
	return strings.Join(parts, "; ")
}
