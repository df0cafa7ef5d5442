package validation

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/dietia/dietia-backend/pkg/validation/rules"
)

// Init configures the validator behind Gin's binding.
// Errors are reported with JSON field names and the aliases of package rules
// are available to request structs.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		rules.Register(v)
	}
}

// ToDetails converts binding errors into a map[field]message for error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) {
		return map[string]string{"payload": "invalid json"}
	}
	if errors.As(err, &ute) {
		if ute.Field != "" {
			return map[string]string{ute.Field: "must be a " + ute.Type.String()}
		}
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = rules.Message(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}
