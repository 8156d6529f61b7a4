package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidURL(t *testing.T) {
	assert.True(t, IsValidURL("https://example.com/path"))
	assert.True(t, IsValidURL(BlankURL))
	assert.False(t, IsValidURL("example.com"))
	assert.False(t, IsValidURL("hello world"))
	assert.False(t, IsValidURL(""))
}

func TestFormatURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "full url", input: "https://go.dev", want: "https://go.dev"},
		{name: "bare domain", input: "go.dev", want: "https://go.dev"},
		{name: "trimmed", input: "  go.dev  ", want: "https://go.dev"},
		{name: "search", input: "frame scheduler", want: "https://www.google.com/search?q=frame+scheduler"},
		{name: "empty", input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatURL(tt.input))
		})
	}
}

func TestFormatURLWithEngine(t *testing.T) {
	assert.Equal(t, "https://duckduckgo.com/?q=tabs", FormatURLWith("tabs", "duckduckgo"))
	assert.Equal(t, "https://www.bing.com/search?q=tabs", FormatURLWith("tabs", "Bing"))
	assert.Equal(t, "https://www.google.com/search?q=tabs", FormatURLWith("tabs", "altavista"))
}

func TestExtractDomain(t *testing.T) {
	assert.Equal(t, "example.com", ExtractDomain("https://example.com:8443/a?b=c"))
	assert.Equal(t, "", ExtractDomain(BlankURL))
	assert.Equal(t, "", ExtractDomain("://bad"))
}
