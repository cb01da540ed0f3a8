package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/career-pathfinder/internal/types"
)

// MaxRequestBytes bounds the size of an inbound generation request.
const MaxRequestBytes = 16 << 10

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON names ("targetRole") instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateInput decodes and validates a generation request. The target role and
// region are trimmed before validation, so a whitespace-only role is rejected.
// Every failure is a *ValidationError.
func ValidateInput(body []byte) (*types.GenerationRequest, error) {
	if len(body) > MaxRequestBytes {
		return nil, &ValidationError{Errors: []FieldError{{
			Field:   "(root)",
			Message: fmt.Sprintf("request body exceeds %d bytes", MaxRequestBytes),
		}}}
	}

	var req types.GenerationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &ValidationError{Errors: []FieldError{{
			Field:   "(root)",
			Message: "request body must be a JSON object: " + err.Error(),
		}}}
	}
	req.TargetRole = strings.Join(strings.Fields(req.TargetRole), " ")
	req.Region = strings.TrimSpace(req.Region)

	if err := ValidateRequest(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// ValidateRequest runs the struct rules on an already decoded request.
func ValidateRequest(req *types.GenerationRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	out := &ValidationError{Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %q rule", fe.Tag())
	}
}
