// Package performance tunes the frame scheduler and watches memory pressure.
//
// A Mode bundles a frame budget with a heap threshold. The memory monitor
// samples the heap on a timer and, above the threshold, queues a
// high-priority collection on the scheduler.
package performance

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MiB is one mebibyte.
const MiB = 1 << 20

var (
	ErrUnknownMode = errors.New("unknown performance mode")
	ErrInvalidFPS  = errors.New("invalid fps target")
)

// Mode is a named performance profile.
type Mode string

const (
	ModeQuantum  Mode = "quantum"
	ModeTurbo    Mode = "turbo"
	ModeBalanced Mode = "balanced"
	ModeEco      Mode = "eco"
)

// Profile is what a Mode sets.
type Profile struct {
	Mode        Mode          `json:"mode"`
	FrameTime   time.Duration `json:"frame_time"`
	GCThreshold uint64        `json:"gc_threshold"`
}

var profiles = map[Mode]Profile{
	ModeQuantum:  {Mode: ModeQuantum, FrameTime: 8330 * time.Microsecond, GCThreshold: 100 * MiB},
	ModeTurbo:    {Mode: ModeTurbo, FrameTime: 16670 * time.Microsecond, GCThreshold: 75 * MiB},
	ModeBalanced: {Mode: ModeBalanced, FrameTime: 33330 * time.Microsecond, GCThreshold: 50 * MiB},
	ModeEco:      {Mode: ModeEco, FrameTime: 66670 * time.Microsecond, GCThreshold: 25 * MiB},
}

// ParseMode maps a name to a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := profiles[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return m, nil
}

// Modes returns every mode, fastest first.
func Modes() []Mode {
	return []Mode{ModeQuantum, ModeTurbo, ModeBalanced, ModeEco}
}

// ProfileOf returns the profile of m.
func ProfileOf(m Mode) (Profile, bool) {
	p, ok := profiles[m]
	return p, ok
}

// ParseFPSTarget converts "unlimited" or a positive integer refresh rate to
// a frame time. "unlimited" yields 0.
func ParseFPSTarget(target string) (time.Duration, error) {
	target = strings.ToLower(strings.TrimSpace(target))
	if target == "unlimited" {
		return 0, nil
	}

	fps, err := strconv.Atoi(target)
	if err != nil || fps <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFPS, target)
	}
	return time.Second / time.Duration(fps), nil
}
