package config

import (
	stderrors "errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate checks struct tags, then the rules tags cannot express.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	if err := validateCredentials(&cfg.Cloudinary); err != nil {
		return err
	}
	if _, err := TransportOptions(cfg.Transport); err != nil {
		return err
	}
	return nil
}

// validateCredentials requires a URL or the complete set of fields.
func validateCredentials(c *CloudinaryConfig) error {
	if c.URL != "" {
		return nil
	}
	var missing []string
	if c.CloudName == "" {
		missing = append(missing, "cloud_name")
	}
	if c.APIKey == "" {
		missing = append(missing, "api_key")
	}
	if c.APISecret == "" {
		missing = append(missing, "api_secret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("cloudinary: url or %v must be set (missing %v)", []string{"cloud_name", "api_key", "api_secret"}, missing)
	}
	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if stderrors.As(err, &validationErrs) && len(validationErrs) > 0 {
		e := validationErrs[0]
		return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
			e.Namespace(), e.Tag(), e.Value())
	}
	return err
}
