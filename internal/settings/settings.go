// Package settings holds the user's browser preferences, persists them in
// the key-value store and converts them to and from export files.
package settings

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
)

// ErrInvalidSettings is returned for settings that do not decode or fail
// validation.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings is the full preference document.
type Settings struct {
	General  General  `json:"general" yaml:"general" toml:"general"`
	Privacy  Privacy  `json:"privacy" yaml:"privacy" toml:"privacy"`
	Advanced Advanced `json:"advanced" yaml:"advanced" toml:"advanced"`
}

// General preferences.
type General struct {
	Homepage         string `json:"homepage" yaml:"homepage" toml:"homepage"`
	SearchEngine     string `json:"searchEngine" yaml:"searchEngine" toml:"searchEngine"`
	NewTabPage       string `json:"newTabPage" yaml:"newTabPage" toml:"newTabPage"`
	DownloadLocation string `json:"downloadLocation" yaml:"downloadLocation" toml:"downloadLocation"`
	Theme            string `json:"theme" yaml:"theme" toml:"theme"`
}

// Privacy preferences.
type Privacy struct {
	BlockTrackers bool   `json:"blockTrackers" yaml:"blockTrackers" toml:"blockTrackers"`
	ClearOnExit   bool   `json:"clearOnExit" yaml:"clearOnExit" toml:"clearOnExit"`
	DNT           bool   `json:"dnt" yaml:"dnt" toml:"dnt"`
	Cookies       string `json:"cookies" yaml:"cookies" toml:"cookies"`
	JavaScript    bool   `json:"javascript" yaml:"javascript" toml:"javascript"`
}

// Advanced preferences. Sizes are in MB.
type Advanced struct {
	HardwareAcceleration bool   `json:"hardwareAcceleration" yaml:"hardwareAcceleration" toml:"hardwareAcceleration"`
	MemoryLimit          int    `json:"memoryLimit" yaml:"memoryLimit" toml:"memoryLimit"`
	CacheSize            int    `json:"cacheSize" yaml:"cacheSize" toml:"cacheSize"`
	ProxyEnabled         bool   `json:"proxyEnabled" yaml:"proxyEnabled" toml:"proxyEnabled"`
	ProxyURL             string `json:"proxyUrl" yaml:"proxyUrl" toml:"proxyUrl"`
}

var (
	searchEngines = []string{"google", "bing", "duckduckgo"}
	newTabPages   = []string{"blank", "homepage", "bookmarks"}
	themes        = []string{"auto", "light", "dark"}
	cookiePolicy  = []string{"allow", "block-third-party", "block-all"}
)

// Limits accepted for the advanced sizes, in MB.
const (
	MinMemoryLimit = 512
	MaxMemoryLimit = 4096
	MinCacheSize   = 128
	MaxCacheSize   = 2048
)

// Defaults returns the factory settings.
func Defaults() Settings {
	return Settings{
		General: General{
			Homepage:         "about:blank",
			SearchEngine:     "google",
			NewTabPage:       "blank",
			DownloadLocation: "~/Downloads",
			Theme:            "auto",
		},
		Privacy: Privacy{
			BlockTrackers: true,
			ClearOnExit:   false,
			DNT:           true,
			Cookies:       "allow",
			JavaScript:    true,
		},
		Advanced: Advanced{
			HardwareAcceleration: true,
			MemoryLimit:          2048,
			CacheSize:            512,
			ProxyEnabled:         false,
			ProxyURL:             "",
		},
	}
}

// Validate checks enumerated values and size ranges.
func (s Settings) Validate() error {
	var errs []error
	oneOf := func(field, value string, allowed []string) {
		if !slices.Contains(allowed, value) {
			errs = append(errs, fmt.Errorf("%s: %q is not one of %v", field, value, allowed))
		}
	}

	oneOf("general.searchEngine", s.General.SearchEngine, searchEngines)
	oneOf("general.newTabPage", s.General.NewTabPage, newTabPages)
	oneOf("general.theme", s.General.Theme, themes)
	oneOf("privacy.cookies", s.Privacy.Cookies, cookiePolicy)

	if s.Advanced.MemoryLimit < MinMemoryLimit || s.Advanced.MemoryLimit > MaxMemoryLimit {
		errs = append(errs, fmt.Errorf("advanced.memoryLimit: %d outside [%d, %d]",
			s.Advanced.MemoryLimit, MinMemoryLimit, MaxMemoryLimit))
	}
	if s.Advanced.CacheSize < MinCacheSize || s.Advanced.CacheSize > MaxCacheSize {
		errs = append(errs, fmt.Errorf("advanced.cacheSize: %d outside [%d, %d]",
			s.Advanced.CacheSize, MinCacheSize, MaxCacheSize))
	}
	if s.Advanced.ProxyEnabled && s.Advanced.ProxyURL != "" {
		if u, err := url.Parse(s.Advanced.ProxyURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("advanced.proxyUrl: %q is not an absolute URL", s.Advanced.ProxyURL))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, errors.Join(errs...))
	}
	return nil
}
