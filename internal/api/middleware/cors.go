package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// WebviewSchemas are the non-HTTP origin schemes a desktop webview serves
// the UI from.
var WebviewSchemas = []string{"tauri://"}

// CORSConfig controls which UI origins may call the shell API.
type CORSConfig struct {
	// Origins may use a trailing or embedded "*" ("http://localhost:*").
	// A lone "*" allows any origin.
	Origins []string
	// Schemas extends http:// and https:// with webview schemes.
	Schemas []string
	// Exposed are response headers the UI may read.
	Exposed []string
	// PreflightTTL is how long a browser may cache a preflight response.
	PreflightTTL time.Duration
}

// DefaultCORSConfig allows any origin, including the webview's.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		Origins:      []string{"*"},
		Schemas:      WebviewSchemas,
		Exposed:      []string{RequestIDHeader, "Content-Disposition"},
		PreflightTTL: 12 * time.Hour,
	}
}

// WithOrigins returns a copy of cfg allowing origins. An empty list keeps
// the configured origins.
func (cfg CORSConfig) WithOrigins(origins []string) CORSConfig {
	if len(origins) > 0 {
		cfg.Origins = slices.Clone(origins)
	}
	return cfg
}

// CORS creates the CORS middleware. Methods and request headers are fixed to
// what the UI sends: JSON bodies and the request ID.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:  cfg.Origins,
		AllowWildcard: true,
		CustomSchemas: cfg.Schemas,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Accept",
			"Content-Type",
			"Content-Length",
			"Cache-Control",
			"X-Requested-With",
			RequestIDHeader,
		},
		ExposeHeaders:    cfg.Exposed,
		AllowCredentials: true,
		MaxAge:           cfg.PreflightTTL,
	})
}
