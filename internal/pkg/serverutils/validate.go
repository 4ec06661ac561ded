package serverutils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs the struct's validate tags after body parsing.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var messages string
		for _, fieldErr := range err.(validator.ValidationErrors) {
			if messages != "" {
				messages += "; "
			}
			messages += fmt.Sprintf("field %s failed on %s", fieldErr.Field(), fieldErr.Tag())
		}
		return fmt.Errorf("validation failed: %s", messages)
	}
	return nil
}
