package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ConfigurationError reports an invalid or incomplete configuration
type ConfigurationError struct {
	// Encoder names the encoder whose configuration is invalid; empty for pipeline-level fields.
	Encoder string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Encoder == "" {
		return fmt.Sprintf("invalid configuration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid %s encoder configuration: %s", e.Encoder, e.Reason)
}

var validate = validator.New()

// RequireTargetEncoder fails when target encoding is enabled without its nested configuration.
func RequireTargetEncoder(encoder string, useTargetEncoding bool, te *TargetEncoder) error {
	if useTargetEncoding && te == nil {
		return &ConfigurationError{
			Encoder: encoder,
			Reason:  "target_encoder_config must be provided when use_target_encoding is true",
		}
	}
	return nil
}

// Validate checks field bounds and the target encoder requirements of every encoder.
func (p *Preprocessor) Validate() error {
	if err := validate.Struct(p); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			reasons := make([]string, 0, len(fieldErrors))
			for _, fe := range fieldErrors {
				reasons = append(reasons, describe(fe))
			}
			return &ConfigurationError{Reason: strings.Join(reasons, "; ")}
		}
		return &ConfigurationError{Reason: err.Error()}
	}

	checks := []struct {
		name string
		use  bool
		te   *TargetEncoder
	}{
		{"condition", p.Condition.UseTargetEncoding, p.Condition.TargetEncoder},
		{"cylinders", p.Cylinders.UseTargetEncoding, p.Cylinders.TargetEncoder},
		{"drive", p.Drive.UseTargetEncoding, p.Drive.TargetEncoder},
		{"fuel", p.Fuel.UseTargetEncoding, p.Fuel.TargetEncoder},
		{"manufacturer", p.Manufacturer.UseTargetEncoding, p.Manufacturer.TargetEncoder},
		{"paint_color", p.PaintColor.UseTargetEncoding, p.PaintColor.TargetEncoder},
		{"state", p.State.UseTargetEncoding, p.State.TargetEncoder},
		{"transmission", p.Transmission.UseTargetEncoding, p.Transmission.TargetEncoder},
		{"type", p.Type.UseTargetEncoding, p.Type.TargetEncoder},
	}
	for _, c := range checks {
		if err := RequireTargetEncoder(c.name, c.use, c.te); err != nil {
			return err
		}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gtfield":
		return fmt.Sprintf("%s (%v) must be greater than %s", fe.Namespace(), fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("%s (%v) fails %s=%s", fe.Namespace(), fe.Value(), fe.Tag(), fe.Param())
	}
}
