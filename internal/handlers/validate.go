package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"newsdesk/internal/httperr"
)

// maxBodyBytes caps JSON request bodies. Article content is the largest
// legitimate payload; anything past this is rejected before decoding.
const maxBodyBytes = 1 << 20 // 1 MB

// validate is the shared validator instance. It is safe for concurrent
// use and caches struct metadata across requests.
var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeJSON reads the request body into dst and runs struct validation.
// Unknown fields are rejected so typos in request payloads surface as
// 400s instead of being silently dropped.
func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return httperr.Validation("Invalid request body: " + err.Error())
	}

	if err := validate.Struct(dst); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return httperr.Validation("Invalid request body")
		}
		return httperr.Validation(validationMessage(verrs))
	}
	return nil
}

// validationMessage turns the first validation error into a message a
// client can act on without knowing validator tag names.
func validationMessage(verrs validator.ValidationErrors) string {
	if len(verrs) == 0 {
		return "Invalid request body"
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Field %q is required", field)
	case "min":
		return fmt.Sprintf("Field %q must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("Field %q must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("Field %q must be one of: %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("Field %q must be a valid URL", field)
	case "uuid":
		return fmt.Sprintf("Field %q must be a valid UUID", field)
	default:
		return fmt.Sprintf("Field %q is invalid", field)
	}
}
