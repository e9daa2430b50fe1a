package http

import (
	"strings"
	"testing"
)

type validationProbe struct {
	ID     string  `validate:"required,hex32"`
	Amount float64 `validate:"gte=0,dec2"`
}

func TestValidator_Hex32(t *testing.T) {
	cv := NewValidator()

	ok := validationProbe{ID: strings.Repeat("a", 32), Amount: 10}
	if err := cv.Validate(&ok); err != nil {
		t.Fatalf("valid probe rejected: %v", err)
	}

	bad := []string{
		"",
		strings.Repeat("a", 31),
		strings.Repeat("a", 33),
		strings.Repeat("A", 32), // uppercase not allowed
		strings.Repeat("g", 32), // non-hex
	}
	for _, id := range bad {
		err := cv.Validate(&validationProbe{ID: id, Amount: 10})
		if err == nil {
			t.Fatalf("id %q should fail", id)
		}
		fields := ToFieldErrors(err)
		if !containsFieldMsg(fields, "ID", "hex") && !containsFieldMsg(fields, "ID", "required") {
			t.Fatalf("unexpected errors for %q: %+v", id, fields)
		}
	}
}

func TestValidator_Dec2(t *testing.T) {
	cv := NewValidator()
	id := strings.Repeat("a", 32)

	if err := cv.Validate(&validationProbe{ID: id, Amount: 15000.25}); err != nil {
		t.Fatalf("two decimals rejected: %v", err)
	}
	err := cv.Validate(&validationProbe{ID: id, Amount: 15000.255})
	if err == nil {
		t.Fatal("three decimals accepted")
	}
	if !containsFieldMsg(ToFieldErrors(err), "Amount", "decimal") {
		t.Fatalf("unexpected errors: %+v", ToFieldErrors(err))
	}
}
