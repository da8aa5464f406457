package insight

import (
	"sort"
	"time"
)

// StreakWindow is a maximal run of consecutive days where some condition
// held. Length is always >= 1.
type StreakWindow struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Length int       `json:"length"`
}

// DetectStreaks scans the flag map in ascending date order and emits a
// window for every consecutive true run of at least minLen days. A run is
// broken by a false day or by a gap in the dates.
func DetectStreaks(flags map[time.Time]bool, minLen int) []StreakWindow {
	if minLen < 1 {
		minLen = 1
	}

	days := make([]time.Time, 0, len(flags))
	for d := range flags {
		days = append(days, dayOf(d))
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var out []StreakWindow
	var runStart time.Time
	runLen := 0

	flush := func(end time.Time) {
		if runLen >= minLen {
			out = append(out, StreakWindow{Start: runStart, End: end, Length: runLen})
		}
		runLen = 0
	}

	var prev time.Time
	for _, d := range days {
		if !flags[d] {
			if runLen > 0 {
				flush(prev)
			}
			prev = d
			continue
		}
		if runLen > 0 && d.Equal(prev.AddDate(0, 0, 1)) {
			runLen++
		} else {
			if runLen > 0 {
				flush(prev)
			}
			runStart = d
			runLen = 1
		}
		prev = d
	}
	if runLen > 0 {
		flush(prev)
	}
	return out
}

// LongestStreak is the maximum run length over all true days, or 0 when
// no day is true.
func LongestStreak(flags map[time.Time]bool) int {
	longest := 0
	for _, w := range DetectStreaks(flags, 1) {
		if w.Length > longest {
			longest = w.Length
		}
	}
	return longest
}
