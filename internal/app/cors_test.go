package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractOriginHost(t *testing.T) {
	assert.Equal(t, "read.example.com", extractOriginHost("https://read.example.com"))
	assert.Equal(t, "localhost:3000", extractOriginHost("http://localhost:3000"))
	assert.Equal(t, "not a url", extractOriginHost("not a url"))
}

func TestMatchOriginPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		host    string
		want    bool
	}{
		{"exact", "read.example.com", "read.example.com", true},
		{"case insensitive", "Read.Example.com", "read.example.COM", true},
		{"subdomain wildcard", "*.example.com", "api.example.com", true},
		{"wildcard misses apex", "*.example.com", "example.com", false},
		{"port wildcard", "localhost:*", "localhost:5173", true},
		{"different host", "read.example.com", "evil.example.net", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchOriginPattern(tt.pattern, tt.host))
		})
	}
}
