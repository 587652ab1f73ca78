package service

import (
	"testing"

	"github.com/sangkips/investify-desk/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePositiveInteger(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"3", 3, true},
		{" 12 ", 12, true},
		{"3.0", 3, true},
		{"2.5", 0, false},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"99999999999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePositiveInteger(tt.input)
			if !tt.ok {
				require.Error(t, err)
				assert.True(t, apperror.IsKind(err, apperror.KindValidation))
				assert.Equal(t, "quantity must be an integer greater than 0", err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
