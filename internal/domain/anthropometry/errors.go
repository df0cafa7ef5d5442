package anthropometry

import (
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dietia/dietia-backend/pkg/validation/rules"
)

// ErrInvalidInput is matched by every ValidationErrors value.
var ErrInvalidInput = errors.New("invalid anthropometric input")

// ValidationError describes one field outside its documented domain.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Field + " " + e.Message
}

// ValidationErrors is returned when any input field is rejected.
type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	parts := make([]string, 0, len(es))
	for _, e := range es {
		parts = append(parts, e.Error())
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (es ValidationErrors) Is(target error) bool {
	return target == ErrInvalidInput
}

// Details maps field names to messages, the shape used in API error bodies.
func (es ValidationErrors) Details() map[string]string {
	out := make(map[string]string, len(es))
	for _, e := range es {
		out[e.Field] = e.Message
	}
	return out
}

// AsValidationErrors unwraps err into ValidationErrors when possible.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var ves ValidationErrors
	if errors.As(err, &ves) {
		return ves, true
	}
	return nil, false
}

// Input domains. NaN and ±Inf fail every numeric tag.
const (
	tagFold   = "gt=0,lte=100"
	tagAge    = "gte=10,lte=100"
	tagHeight = "gte=50,lte=300"
	tagWeight = "gte=20,lte=300"
	tagSex    = "required,oneof=male female"
	tagGoal   = "required,oneof=weight_loss maintenance hypertrophy"
)

var validate = validator.New()

type checker struct {
	errs ValidationErrors
}

func (c *checker) check(field string, value any, tag string) {
	err := validate.Var(value, tag)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		c.errs = append(c.errs, ValidationError{Field: field, Message: rules.Message(verrs[0])})
		return
	}
	c.errs = append(c.errs, ValidationError{Field: field, Message: "is invalid"})
}

func (c *checker) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	sort.SliceStable(c.errs, func(i, j int) bool { return c.errs[i].Field < c.errs[j].Field })
	return c.errs
}
