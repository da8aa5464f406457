package insight

import "time"

// DefaultDropThreshold is the day-to-day score collapse that counts as a
// sudden drop.
const DefaultDropThreshold = 20

// SuddenDrop records a day-to-day mood score collapse. Severity tiering
// is the risk scorer's business, not this detector's.
type SuddenDrop struct {
	Date      time.Time `json:"date"`
	FromScore int       `json:"from_score"`
	ToScore   int       `json:"to_score"`
	Drop      int       `json:"drop"`
}

// DetectSuddenDrops flags every adjacent-day pair whose score fell by at
// least threshold points. threshold <= 0 selects the default.
func DetectSuddenDrops(daily []DailyMoodPoint, threshold int) []SuddenDrop {
	if threshold <= 0 {
		threshold = DefaultDropThreshold
	}
	var out []SuddenDrop
	for i := 1; i < len(daily); i++ {
		drop := daily[i-1].Score - daily[i].Score
		if drop >= threshold {
			out = append(out, SuddenDrop{
				Date:      daily[i].Date,
				FromScore: daily[i-1].Score,
				ToScore:   daily[i].Score,
				Drop:      drop,
			})
		}
	}
	return out
}

// MaxDrop is the largest drop magnitude, 0 when none.
func MaxDrop(drops []SuddenDrop) int {
	max := 0
	for _, d := range drops {
		if d.Drop > max {
			max = d.Drop
		}
	}
	return max
}
