package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantValue string
		wantUnit  string
		wantErr   bool
	}{
		{"price with unit", "50/kg", "50", "kg", false},
		{"quantity with attached unit", "300kg", "300", "kg", false},
		{"plain number defaults to kg", "50", "50", "kg", false},
		{"decimal value", "12.5/litre", "12.5", "litre", false},
		{"spaced unit", "40 kg", "40", "kg", false},
		{"uppercase unit lowered", "10/KG", "10", "kg", false},
		{"empty", "", "", "", true},
		{"whitespace only", "   ", "", "", true},
		{"no numeric run", "cheap", "", "", true},
		{"negative", "-5", "", "", true},
		{"unit before number", "kg50", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Normalize(tt.raw, FieldPrice)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, m.Value.String())
			assert.Equal(t, tt.wantUnit, m.Unit)
		})
	}
}

func TestNormalizeFieldInErrorMessage(t *testing.T) {
	_, err := Normalize("abc", FieldQuantity)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quantity")
}
