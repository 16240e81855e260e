package shared

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
)

// Global validator instance for reuse
var validate = validator.New()

// FormDecoder is implemented by request models that can populate
// themselves from an urlencoded form. The HTML pages submit forms; the
// JSON API posts bodies. Both land on the same handlers.
type FormDecoder interface {
	DecodeForm(values url.Values) error
}

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// DecodeRequest decodes the request body into the given struct, choosing
// the decoder from the Content-Type header. Urlencoded forms require the
// model to implement FormDecoder; everything else is treated as JSON.
func DecodeRequest(r *http.Request, v interface{}) error {
	ct, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil && ct == "application/x-www-form-urlencoded" {
		if fd, ok := v.(FormDecoder); ok {
			if err := r.ParseForm(); err != nil {
				return err
			}
			return fd.DecodeForm(r.PostForm)
		}
	}
	return DecodeJSON(r, v)
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v interface{}) error {
	// Check if the object implements the Validate interface
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}

	// Otherwise, use the struct validator
	return validate.Struct(v)
}
