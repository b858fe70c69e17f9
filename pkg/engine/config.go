package engine

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/kryc/rainbowcrack-go/pkg/hashalgo"
	"github.com/kryc/rainbowcrack-go/pkg/rterrors"
	"github.com/kryc/rainbowcrack-go/pkg/simdhash"
	"github.com/kryc/rainbowcrack-go/pkg/wordcodec"
)

// validate is a singleton validator instance, registered once with the
// "blockmultiple" rule BlockSize needs on top of the builtin tags.
var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("blockmultiple", validateBlockMultiple); err != nil {
		panic(err)
	}
}

// validateBlockMultiple checks that a BlockSize field is a positive
// multiple of the SIMD kernel's lane count, the width every block's
// lane buffer is sized to.
func validateBlockMultiple(fl validator.FieldLevel) bool {
	n := fl.Field().Int()
	return n > 0 && n%int64(simdhash.Lanes) == 0
}

// Config is the set of parameters that pin a table's shape, mirroring
// the original RainbowTable::ValidateConfig fields.
type Config struct {
	Path        string `validate:"required"`
	Algorithm   hashalgo.Algorithm
	Min         int    `validate:"required,gt=0,lte=255"`
	Max         int    `validate:"required,gt=0,lte=255,gtefield=Min"`
	ChainLength uint64 `validate:"required"`
	BlockSize   int    `validate:"required,blockmultiple"`
	Count       uint64 `validate:"required"`
	Threads     int    `validate:"required,gt=0"`
	Charset     string `validate:"required"`
	Type        string `validate:"omitempty,oneof=compressed uncompressed"` // "compressed" or "uncompressed"
}

// Validate checks the configuration is internally consistent before
// any byte of a table is touched, matching the build engine's
// early-abort guarantee (no partial header is ever written on error).
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}

	// Charset well-formedness (duplicate characters, an empty or
	// over-long charset) isn't expressible as a struct tag, so it stays a
	// procedural check alongside the tag-based validation above.
	if _, err := wordcodec.NewCharset(c.Charset); err != nil {
		return fmt.Errorf("engine: %w: %w", rterrors.ErrConfigInvalid, err)
	}
	return nil
}

// isCompressed reports whether the config's string type selects a
// compressed table; any other value means uncompressed.
func (c *Config) isCompressed() bool {
	return c.Type == "compressed"
}

// formatValidationError converts validator field errors into a single
// ErrConfigInvalid-wrapped error naming the first offending field.
func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("engine: %w: %w", rterrors.ErrConfigInvalid, err)
	}

	for _, e := range validationErrs {
		return fmt.Errorf("engine: %w: %s: validation failed (%s)", rterrors.ErrConfigInvalid, e.Field(), e.Tag())
	}
	return rterrors.ErrConfigInvalid
}
