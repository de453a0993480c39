package validation

import (
	"sync"

	"github.com/go-playground/mold/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	conform     *mold.Transformer
	conformOnce sync.Once
)

// Validate returns the process-wide validator.
func Validate() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	return validate
}

// Conform returns the process-wide mold transformer used to clean up
// values (trim, case folding) before they are validated.
func Conform() *mold.Transformer {
	conformOnce.Do(func() {
		conform = modifiers.New()
	})

	return conform
}
