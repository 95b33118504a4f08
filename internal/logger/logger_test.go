package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "production", ""} {
		l, err := New(mode)
		require.NoError(t, err, "mode %q", mode)
		assert.NotNil(t, l)
	}
}

func TestRedactKVs(t *testing.T) {
	tests := []struct {
		name string
		in   []any
		want []any
	}{
		{
			name: "api key is redacted",
			in:   []any{"api_key", "sk-12345", "provider", "anthropic"},
			want: []any{"api_key", "[REDACTED]", "provider", "anthropic"},
		},
		{
			name: "plain fields pass through",
			in:   []any{"feature", "login", "score", 7.5},
			want: []any{"feature", "login", "score", 7.5},
		},
		{
			name: "odd trailing value is preserved",
			in:   []any{"dangling"},
			want: []any{"dangling"},
		},
		{
			name: "nil stays nil",
			in:   nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, redactKVs(tt.in))
		})
	}
}
