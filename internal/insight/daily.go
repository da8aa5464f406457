package insight

import (
	"math"
	"sort"
	"strings"
	"time"

	"wellspring/internal/record"
)

// DailyMoodPoint is one calendar day's averaged mood score. Derived only,
// never persisted on its own.
type DailyMoodPoint struct {
	Date  time.Time `json:"date"`
	Score int       `json:"avg_mood_score"`
}

// Nine-point mood scale spread across [11,100]. Legacy labels fold onto
// the nearest equivalent; anything unrecognized is skipped outright.
var moodScores = map[string]int{
	"terrible": 11,
	"awful":    22,
	"bad":      33,
	"meh":      44,
	"okay":     55,
	"fine":     67,
	"good":     78,
	"great":    89,
	"awesome":  100,

	// legacy aliases
	"very sad":   11,
	"sad":        33,
	"neutral":    55,
	"happy":      78,
	"very happy": 100,
}

// MoodScore maps a mood label to its 0-100 score. ok is false for
// unknown labels.
func MoodScore(label string) (int, bool) {
	s, ok := moodScores[strings.TrimSpace(strings.ToLower(label))]
	return s, ok
}

// dayOf truncates to the UTC calendar date.
func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DailyMood folds check-ins into one averaged mood score per UTC calendar
// day, ordered by date. Empty input yields an empty slice.
func DailyMood(checkins []record.CheckinRecord) []DailyMoodPoint {
	sums := map[time.Time]int{}
	counts := map[time.Time]int{}

	for _, c := range checkins {
		score, ok := MoodScore(c.MoodLevel)
		if !ok {
			continue
		}
		day := dayOf(c.CreatedAt)
		sums[day] += score
		counts[day]++
	}

	out := make([]DailyMoodPoint, 0, len(sums))
	for day, sum := range sums {
		avg := float64(sum) / float64(counts[day])
		out = append(out, DailyMoodPoint{
			Date:  day,
			Score: int(math.Round(avg)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
