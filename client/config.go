package client

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// RequestConfig tunes a single data transfer call. The zero value does
// NOT match the defaults; start from [DefaultRequestConfig].
type RequestConfig struct {
	// EnsureSuccess fails the call with an *UnexpectedStatusError when
	// the response status is outside the 2xx range.
	EnsureSuccess bool `json:"ensure_success"`
	// OverwriteMode only applies to file downloads.
	OverwriteMode OverwriteMode `json:"overwrite_mode" validate:"oneof=0 1 2"`
}

// DefaultRequestConfig enforces success codes and refuses to overwrite files.
func DefaultRequestConfig() RequestConfig {
	return RequestConfig{
		EnsureSuccess: true,
		OverwriteMode: OverwriteError,
	}
}

// Validate checks the config against its declared tags.
func (rc RequestConfig) Validate() error {
	if err := validateStruct(rc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// FieldError represents a single validation error for a specific field.
type FieldError struct {
	Field string `json:"field"`
	Err   string `json:"error"`
}

// FieldErrors represents a collection of field errors.
type FieldErrors []FieldError

// Error implements the error interface, returning a human-readable
// summary of all field errors.
func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, f := range fe {
		parts[i] = f.Field + ": " + f.Err
	}
	return strings.Join(parts, "; ")
}

var validate *validator.Validate
var translator ut.Translator

func init() {
	validate = validator.New()
	var ok bool
	translator, ok = ut.New(en.New(), en.New()).GetTranslator("en")
	if !ok {
		panic("client: failed to get 'en' translator")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})
}

func validateStruct(val any) error {
	err := validate.Struct(val)
	if err == nil {
		return nil
	}

	var verrors validator.ValidationErrors
	if !errors.As(err, &verrors) {
		return err
	}

	fields := make(FieldErrors, 0, len(verrors))
	for _, verror := range verrors {
		fields = append(fields, FieldError{
			Field: verror.Field(),
			Err:   verror.Translate(translator),
		})
	}

	return fields
}

// configOrDefault returns the facade default for a nil cfg and
// validates an explicit one.
func (c *Client) configOrDefault(cfg *RequestConfig) (RequestConfig, error) {
	if cfg == nil {
		return c.DefaultConfig(), nil
	}

	if err := cfg.Validate(); err != nil {
		return RequestConfig{}, err
	}

	return *cfg, nil
}
