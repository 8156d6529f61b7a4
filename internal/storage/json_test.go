package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookmark struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

func TestLoadJSON(t *testing.T) {
	fallback := []bookmark{{Title: "default", URL: "about:blank"}}

	tests := []struct {
		name    string
		stored  *string
		want    []bookmark
		corrupt bool
	}{
		{
			name: "missing key returns fallback",
			want: fallback,
		},
		{
			name:   "valid value decodes",
			stored: ptr(`[{"title":"Go","url":"https://go.dev"}]`),
			want:   []bookmark{{Title: "Go", URL: "https://go.dev"}},
		},
		{
			name:    "invalid json returns fallback",
			stored:  ptr(`[{"title":`),
			want:    fallback,
			corrupt: true,
		},
		{
			name:    "wrong shape returns fallback",
			stored:  ptr(`{"title":"x"}`),
			want:    fallback,
			corrupt: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMemory()
			if tt.stored != nil {
				require.NoError(t, s.Set(KeyBookmarks, *tt.stored))
			}

			got, err := LoadJSON(s, KeyBookmarks, fallback)
			if tt.corrupt {
				assert.ErrorIs(t, err, ErrCorrupt)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadJSONIntoKeepsAbsentFields(t *testing.T) {
	s := NewMemory()
	require.NoError(t, s.Set("b", `{"title":"Stored"}`))

	dst := bookmark{Title: "Default", URL: "about:blank"}
	found, err := LoadJSONInto(s, "b", &dst)

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, bookmark{Title: "Stored", URL: "about:blank"}, dst)
}

func TestLoadJSONIntoLeavesDstOnError(t *testing.T) {
	s := NewMemory()
	require.NoError(t, s.Set("b", `{"title":"Half","url":`))

	dst := bookmark{Title: "Default", URL: "about:blank"}
	found, err := LoadJSONInto(s, "b", &dst)

	assert.ErrorIs(t, err, ErrCorrupt)
	assert.False(t, found)
	assert.Equal(t, bookmark{Title: "Default", URL: "about:blank"}, dst)
}

func TestSaveJSON(t *testing.T) {
	s := NewMemory()
	require.NoError(t, SaveJSON(s, KeyBookmarks, []bookmark{{Title: "a", URL: "b"}}))

	raw, ok := s.Get(KeyBookmarks)
	require.True(t, ok)
	assert.JSONEq(t, `[{"title":"a","url":"b"}]`, raw)

	got, err := LoadJSON[[]bookmark](s, KeyBookmarks, nil)
	require.NoError(t, err)
	assert.Equal(t, []bookmark{{Title: "a", URL: "b"}}, got)
}

func ptr(s string) *string { return &s }
