package toolgate

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// DecodeArgs unmarshals model-provided tool arguments into a typed struct and
// runs its validate tags. Models do emit malformed arguments; handlers turn
// the returned error into an "error" payload rather than failing the turn.
func DecodeArgs(raw json.RawMessage, dest interface{}) error {
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("malformed tool arguments: %w", err)
	}
	if err := validate.Struct(dest); err != nil {
		return fmt.Errorf("invalid tool arguments: %w", err)
	}
	return nil
}

// InvalidArgs is the standard payload for argument decoding failures.
func InvalidArgs(err error) map[string]interface{} {
	return map[string]interface{}{
		"error":   "INVALID_ARGUMENTS",
		"message": err.Error(),
	}
}
