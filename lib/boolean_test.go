package lib

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleBoolUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"json true", `true`, true},
		{"json false", `false`, false},
		{"string true", `"true"`, true},
		{"string false", `"false"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b FlexibleBool
			require.NoError(t, json.Unmarshal([]byte(tt.input), &b))
			assert.Equal(t, tt.want, b.Bool())
		})
	}
}

func TestFlexibleBoolUnmarshalRejectsOtherShapes(t *testing.T) {
	for _, input := range []string{`"yes"`, `"TRUE"`, `1`, `0`, `null`, `{}`} {
		var b FlexibleBool
		err := json.Unmarshal([]byte(input), &b)
		require.Error(t, err, "input %s", input)
		assert.True(t, errors.Is(err, ErrValidation), "input %s", input)
	}
}
