package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColorPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    ColorPolicy
		wantErr bool
	}{
		{"", PolicyCycle, false},
		{"cycle", PolicyCycle, false},
		{"REJECT", PolicyReject, false},
		{" reject ", PolicyReject, false},
		{"clamp", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColorPolicy(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckPalette(t *testing.T) {
	assert.NoError(t, PolicyCycle.CheckPalette(9, DefaultPalette))
	assert.NoError(t, PolicyReject.CheckPalette(5, DefaultPalette))
	assert.ErrorIs(t, PolicyReject.CheckPalette(6, DefaultPalette), ErrPaletteOverflow)
	assert.Error(t, PolicyCycle.CheckPalette(1, nil))
}
