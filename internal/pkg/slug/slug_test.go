package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple title", "Hello World", "hello-world"},
		{"mixed case", "The Quick Brown Fox", "the-quick-brown-fox"},
		{"punctuation dropped", "What's New? A Look Ahead!", "whats-new-a-look-ahead"},
		{"digits kept", "Top 10 Stories of 2026", "top-10-stories-of-2026"},
		{"separators collapse", "one  -  two__three/four", "one-two-three-four"},
		{"leading and trailing separators", "  --Hello--  ", "hello"},
		{"non ascii dropped", "Café über alles", "caf-ber-alles"},
		{"empty", "", ""},
		{"only punctuation", "?!...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.title))
		})
	}
}
