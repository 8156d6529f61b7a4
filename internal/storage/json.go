package storage

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// LoadJSON decodes the value under key into a T. A missing key returns
// fallback with a nil error. A value that does not decode returns fallback
// and an error wrapping ErrCorrupt; callers log it and carry on.
func LoadJSON[T any](s *Store, key string, fallback T) (T, error) {
	raw, ok := s.Get(key)
	if !ok {
		return fallback, nil
	}

	var v T
	if err := sonic.UnmarshalString(raw, &v); err != nil {
		return fallback, fmt.Errorf("%w: key %q: %v", ErrCorrupt, key, err)
	}
	return v, nil
}

// LoadJSONInto decodes the value under key over dst, so fields absent from
// the stored JSON keep the values already in dst. On a decode error dst is
// left untouched.
func LoadJSONInto[T any](s *Store, key string, dst *T) (bool, error) {
	raw, ok := s.Get(key)
	if !ok {
		return false, nil
	}

	merged := *dst
	if err := sonic.UnmarshalString(raw, &merged); err != nil {
		return false, fmt.Errorf("%w: key %q: %v", ErrCorrupt, key, err)
	}
	*dst = merged
	return true, nil
}

// SaveJSON encodes v and stores it under key.
func SaveJSON[T any](s *Store, key string, v T) error {
	raw, err := sonic.MarshalString(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return s.Set(key, raw)
}
