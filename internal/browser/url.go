package browser

import (
	"net/url"
	"strings"
)

// BlankURL is the address of an empty tab.
const BlankURL = "about:blank"

// searchEngines maps a settings value to a query URL prefix.
var searchEngines = map[string]string{
	"google":     "https://www.google.com/search?q=",
	"duckduckgo": "https://duckduckgo.com/?q=",
	"bing":       "https://www.bing.com/search?q=",
}

// IsValidURL reports whether s parses as an absolute URL with a scheme.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && !strings.ContainsAny(s, " \t\n")
}

// FormatURL turns address bar input into a URL: valid URLs are kept,
// dotted words get https://, anything else becomes a Google search.
func FormatURL(input string) string {
	return FormatURLWith(input, "google")
}

// FormatURLWith is FormatURL with a configurable search engine. Unknown
// engines fall back to Google.
func FormatURLWith(input, engine string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if IsValidURL(input) {
		return input
	}
	if strings.Contains(input, ".") && !strings.Contains(input, " ") {
		return "https://" + input
	}
	return SearchURL(engine, input)
}

// SearchURL builds a search URL for query.
func SearchURL(engine, query string) string {
	prefix, ok := searchEngines[strings.ToLower(engine)]
	if !ok {
		prefix = searchEngines["google"]
	}
	return prefix + url.QueryEscape(query)
}

// ExtractDomain returns the host name of rawURL, or "" when it has none.
func ExtractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
