package sale

import (
	"errors"
	"fmt"
	"francoggm/versapay-checkout/internal/models"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.Split(field.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// ValidateOrder checks the structural shape of an order context.
func ValidateOrder(order models.OrderContext) error {
	if err := validate.Struct(order); err != nil {
		return normalizeValidationError(err)
	}
	return nil
}

func normalizeValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	first := validationErrs[0]
	path := first.Namespace()
	if idx := strings.Index(path, "."); idx >= 0 {
		path = path[idx+1:]
	}

	return models.ValidationError(fmt.Sprintf("%s failed on %q", path, first.Tag()))
}
