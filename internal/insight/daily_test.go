package insight

import (
	"testing"
	"time"

	"wellspring/internal/record"
)

func checkinAt(mood string, at time.Time) record.CheckinRecord {
	return record.CheckinRecord{MoodLevel: mood, CreatedAt: at}
}

func TestMoodScoreRange(t *testing.T) {
	for label, want := range moodScores {
		got, ok := MoodScore(label)
		if !ok {
			t.Fatalf("label %q not recognized", label)
		}
		if got != want || got < 0 || got > 100 {
			t.Errorf("MoodScore(%q) = %d, want %d in [0,100]", label, got, want)
		}
	}

	if _, ok := MoodScore("ecstatic-beyond-words"); ok {
		t.Error("unknown label must not score")
	}
}

func TestLegacyAliasesFold(t *testing.T) {
	pairs := [][2]string{
		{"very sad", "terrible"},
		{"sad", "bad"},
		{"neutral", "okay"},
		{"happy", "good"},
		{"very happy", "awesome"},
	}
	for _, p := range pairs {
		a, _ := MoodScore(p[0])
		b, _ := MoodScore(p[1])
		if a != b {
			t.Errorf("alias %q=%d, canonical %q=%d", p[0], a, p[1], b)
		}
	}
}

func TestDailyMood(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		if got := DailyMood(nil); len(got) != 0 {
			t.Fatalf("want empty, got %+v", got)
		}
	})

	t.Run("unknown labels contribute no point", func(t *testing.T) {
		got := DailyMood([]record.CheckinRecord{
			checkinAt("transcendent", day("2026-02-01").Add(9*time.Hour)),
		})
		if len(got) != 0 {
			t.Fatalf("want no points, got %+v", got)
		}
	})

	t.Run("averages and rounds per UTC day", func(t *testing.T) {
		got := DailyMood([]record.CheckinRecord{
			checkinAt("good", day("2026-02-02").Add(8*time.Hour)),     // 78
			checkinAt("terrible", day("2026-02-02").Add(20*time.Hour)), // 11 -> avg 44.5 -> 45
			checkinAt("awesome", day("2026-02-01").Add(12*time.Hour)),  // 100
		})
		want := []DailyMoodPoint{
			{Date: day("2026-02-01"), Score: 100},
			{Date: day("2026-02-02"), Score: 45},
		}
		if len(got) != len(want) {
			t.Fatalf("got %+v, want %+v", got, want)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("point %d = %+v, want %+v", i, got[i], want[i])
			}
		}
	})

	t.Run("mixed known and unknown labels", func(t *testing.T) {
		got := DailyMood([]record.CheckinRecord{
			checkinAt("okay", day("2026-02-03").Add(time.Hour)),
			checkinAt("???", day("2026-02-03").Add(2*time.Hour)),
		})
		if len(got) != 1 || got[0].Score != 55 {
			t.Fatalf("unknown label must be skipped, not averaged: %+v", got)
		}
	})
}
