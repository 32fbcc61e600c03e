package ynab4

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jask/ynab4import/internal/logger"
)

var (
	// ErrNoAuthoritativeSnapshot means no device claims full knowledge of the budget.
	ErrNoAuthoritativeSnapshot = errors.New("no device with full knowledge found")
	// ErrMalformedKnowledge is returned for version vectors that cannot be scored.
	ErrMalformedKnowledge = errors.New("malformed knowledge string")
)

// EstimateRecentness scores a version vector such as "A-3,B-5" by summing the
// version numbers (8 here). Version numbers only grow per device, so the
// largest sum belongs to the device that has seen the most edits.
func EstimateRecentness(knowledge string) (int64, error) {
	var total int64
	for _, token := range strings.Split(knowledge, ",") {
		token = strings.TrimSpace(token)
		idx := strings.LastIndex(token, "-")
		if idx <= 0 || idx == len(token)-1 {
			return 0, fmt.Errorf("%w: token %q", ErrMalformedKnowledge, token)
		}
		n, err := strconv.ParseInt(token[idx+1:], 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: token %q", ErrMalformedKnowledge, token)
		}
		total += n
	}
	return total, nil
}

// ScoredDevice pairs a device with its recentness, for reporting.
type ScoredDevice struct {
	Device     Device
	Recentness int64
	Eligible   bool
	Reason     string
}

// ScoreDevices scores every device and marks which are eligible for selection.
func ScoreDevices(devices []Device) []ScoredDevice {
	out := make([]ScoredDevice, 0, len(devices))
	for _, d := range devices {
		sd := ScoredDevice{Device: d}
		score, err := EstimateRecentness(d.Knowledge)
		switch {
		case err != nil:
			sd.Reason = err.Error()
		case !d.HasFullKnowledge:
			sd.Recentness = score
			sd.Reason = "no full knowledge"
		default:
			sd.Recentness = score
			sd.Eligible = true
		}
		out = append(out, sd)
	}
	return out
}

// SelectDevice picks the full-knowledge device with the highest recentness.
// Among equal scores the first device in input order wins.
func SelectDevice(devices []Device) (Device, error) {
	var (
		best  Device
		score int64 = -1
	)
	for _, sd := range ScoreDevices(devices) {
		if !sd.Eligible {
			continue
		}
		if sd.Recentness > score {
			best, score = sd.Device, sd.Recentness
		}
	}
	if score < 0 {
		return Device{}, ErrNoAuthoritativeSnapshot
	}
	return best, nil
}

// ReadDevices reads every *.ydevice file in dir, sorted by file name.
// Files that cannot be read or decoded are logged and skipped.
func ReadDevices(ctx context.Context, dir string) ([]Device, error) {
	log := logger.FromContext(ctx)

	paths, err := filepath.Glob(filepath.Join(dir, "*.ydevice"))
	if err != nil {
		return nil, fmt.Errorf("glob devices: %w", err)
	}
	sort.Strings(paths)

	var out []Device
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			log.Warn().Err(err).Str("file", p).Msg("skipping unreadable device file")
			continue
		}
		var d Device
		if err := json.Unmarshal(data, &d); err != nil {
			log.Warn().Err(err).Str("file", p).Msg("skipping malformed device file")
			continue
		}
		d.Path = p
		out = append(out, d)
	}
	return out, nil
}
