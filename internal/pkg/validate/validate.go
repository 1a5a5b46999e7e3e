package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alquila-alerts/internal/domain"
	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator.
var v = validator.New()

// Struct validates the given struct using its validate tags.
// Failures are wrapped in domain.ErrBadRequest with one message per field.
func Struct(s interface{}) error {
	if err := v.Struct(s); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return err
		}
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%s: %w", strings.Join(msgs, "; "), domain.ErrBadRequest)
	}
	return nil
}
