package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type slotForm struct {
	Slot string `validate:"slot"`
}

func TestValidate_Slot(t *testing.T) {
	tests := []struct {
		name  string
		slot  string
		valid bool
	}{
		{name: "canonical", slot: "morning", valid: true},
		{name: "padded", slot: " morning ", valid: true},
		{name: "alias", slot: "PM", valid: true},
		{name: "full day alias", slot: "udur", valid: true},
		{name: "hyphenated", slot: "full-day", valid: true},
		{name: "unknown", slot: "bogus", valid: false},
		{name: "empty", slot: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(slotForm{Slot: tt.slot})
			if tt.valid {
				assert.Nil(t, errs)
			} else {
				assert.Equal(t, map[string]string{"Slot": "slot"}, errs)
			}
		})
	}
}
