package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// ErrUnknownFormat is returned for export formats other than json, yaml
// and toml.
var ErrUnknownFormat = errors.New("unknown settings format")

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat maps a name or file extension to a Format. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatTOML:
		return "application/toml"
	default:
		return "application/json"
	}
}

// Filename returns the download name of an export in this format.
func (f Format) Filename() string {
	return "vishwakarma-settings." + string(f)
}

// Encode renders s in format f.
func Encode(f Format, s Settings) ([]byte, error) {
	switch f {
	case FormatJSON:
		return sonic.ConfigStd.MarshalIndent(s, "", "  ")
	case FormatYAML:
		return yaml.Marshal(s)
	case FormatTOML:
		return toml.Marshal(s)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Decode parses data in format f over base, so fields missing from data
// keep base's values.
func Decode(f Format, data []byte, base Settings) (Settings, error) {
	out := base
	var err error
	switch f {
	case FormatJSON:
		err = sonic.Unmarshal(data, &out)
	case FormatYAML:
		err = yaml.Unmarshal(data, &out)
	case FormatTOML:
		err = toml.Unmarshal(data, &out)
	default:
		return base, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return base, fmt.Errorf("%w: %s: %v", ErrInvalidSettings, f, err)
	}
	return out, nil
}
