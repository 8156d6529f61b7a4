package browser

import (
	"time"
)

// MaxHistoryEntries bounds each tab's navigation history.
const MaxHistoryEntries = 100

// HistoryEntry is one visited page.
type HistoryEntry struct {
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Timestamp  time.Time `json:"timestamp"`
	FaviconURL string    `json:"favicon_url,omitempty"`
}

// History is a bounded back/forward list with a cursor. It is not safe for
// concurrent use; the Manager guards it.
type History struct {
	entries []HistoryEntry
	current int // -1 when empty
	max     int
}

// NewHistory creates an empty history holding at most max entries. A
// non-positive max uses MaxHistoryEntries.
func NewHistory(max int) *History {
	if max <= 0 {
		max = MaxHistoryEntries
	}
	return &History{current: -1, max: max}
}

// Add records a visit. Entries ahead of the cursor are discarded; once the
// history is full the oldest entry is dropped.
func (h *History) Add(url, title string, at time.Time) {
	if h.current+1 < len(h.entries) {
		clear(h.entries[h.current+1:])
		h.entries = h.entries[:h.current+1]
	}

	h.entries = append(h.entries, HistoryEntry{URL: url, Title: title, Timestamp: at})
	h.current = len(h.entries) - 1

	if len(h.entries) > h.max {
		n := copy(h.entries, h.entries[1:])
		h.entries = h.entries[:n]
		h.current--
	}
}

// CanGoBack reports whether Back would move.
func (h *History) CanGoBack() bool {
	return h.current > 0
}

// CanGoForward reports whether Forward would move.
func (h *History) CanGoForward() bool {
	return h.current >= 0 && h.current+1 < len(h.entries)
}

// Back moves the cursor one entry back and returns the new current entry.
func (h *History) Back() (HistoryEntry, bool) {
	if !h.CanGoBack() {
		return HistoryEntry{}, false
	}
	h.current--
	return h.entries[h.current], true
}

// Forward moves the cursor one entry forward and returns the new current
// entry.
func (h *History) Forward() (HistoryEntry, bool) {
	if !h.CanGoForward() {
		return HistoryEntry{}, false
	}
	h.current++
	return h.entries[h.current], true
}

// Current returns the entry under the cursor.
func (h *History) Current() (HistoryEntry, bool) {
	if h.current < 0 {
		return HistoryEntry{}, false
	}
	return h.entries[h.current], true
}

// SetCurrentTitle renames the entry under the cursor.
func (h *History) SetCurrentTitle(title string) {
	if h.current >= 0 {
		h.entries[h.current].Title = title
	}
}

// Recent returns up to limit entries, newest first.
func (h *History) Recent(limit int) []HistoryEntry {
	if limit <= 0 || limit > len(h.entries) {
		limit = len(h.entries)
	}
	out := make([]HistoryEntry, 0, limit)
	for i := len(h.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, h.entries[i])
	}
	return out
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Clear drops every entry.
func (h *History) Clear() {
	h.entries = nil
	h.current = -1
}
