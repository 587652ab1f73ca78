package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmQuantityRequest_Input(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *string
	}{
		{"number", `{"quantity": 3}`, strPtr("3")},
		{"string", `{"quantity": " 3 "}`, strPtr(" 3 ")},
		{"fraction kept for the dialog to reject", `{"quantity": 1.5}`, strPtr("1.5")},
		{"missing", `{}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req ConfirmQuantityRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.Input())
		})
	}
}

func TestConfirmQuantityRequest_RejectsObjects(t *testing.T) {
	var req ConfirmQuantityRequest
	assert.Error(t, json.Unmarshal([]byte(`{"quantity": {"n": 1}}`), &req))
}

func strPtr(s string) *string { return &s }
