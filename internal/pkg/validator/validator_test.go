package validator

import "testing"

type sample struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Kind  string `json:"kind" validate:"omitempty,oneof=a b"`
}

func TestValidate(t *testing.T) {
	if errs := Validate(sample{Name: "Asha"}); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}

	errs := Validate(sample{Email: "nope", Kind: "c"})
	for _, f := range []string{"name", "email", "kind"} {
		if _, ok := errs[f]; !ok {
			t.Errorf("expected error for %q, got %v", f, errs)
		}
	}
	if errs["name"] != "This field is required" {
		t.Errorf("name message = %q", errs["name"])
	}
}
