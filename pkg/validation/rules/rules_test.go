package rules

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

type signup struct {
	Password string  `json:"password" validate:"pwd"`
	Sex      string  `json:"sex" validate:"sex"`
	Age      int     `json:"age" validate:"age"`
	Weight   float64 `json:"weight" validate:"gte=20"`
}

func TestRegister_AliasesAndMessages(t *testing.T) {
	v := validator.New()
	Register(v)

	err := v.Struct(signup{Password: "short", Sex: "other", Age: 7, Weight: 10})
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	got := map[string]string{}
	for _, fe := range verrs {
		got[fe.Field()] = Message(fe)
	}
	want := map[string]string{
		"password": "must be between 8 and 72 characters long",
		"sex":      "must be one of: male, female",
		"age":      "must be between 10 and 100",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("%s: expected %q, got %q", field, msg, got[field])
		}
	}
	if got["weight"] == "" {
		t.Errorf("weight should be reported by its json name, got %v", got)
	}
	if err := v.Struct(signup{Password: "longenough", Sex: "female", Age: 30, Weight: 60}); err != nil {
		t.Errorf("valid struct rejected: %v", err)
	}
}
