// Package request decodes and validates JSON request bodies and path parameters.
package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/corray333/kitchenpos/internal/service/errs"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validator is implemented by request bodies with rules beyond struct tags.
type Validator interface {
	Validate() error
}

// Decode reads a JSON body into dst and validates it.
// Every failure is reported as a validation error.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.Validation("request body is empty")
		}

		return errs.Validation("malformed request body: %v", err)
	}

	if err := validate.Struct(dst); err != nil {
		return errs.Validation("%v", err)
	}

	if v, ok := dst.(Validator); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// IDParam parses the named chi URL parameter as a positive id.
func IDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.Validation("invalid %s %q", name, raw)
	}

	return id, nil
}
