package insight

import (
	"context"
	"testing"
	"time"

	"wellspring/internal/record"
)

func testComposer() *Composer {
	return &Composer{
		Matcher:       testMatcher(),
		StreakMinDays: 3,
		Now:           func() time.Time { return day("2026-04-08") },
	}
}

func weekOfCheckins() []record.CheckinRecord {
	// mood climbing across five days, stress easing, energy rising
	specs := []struct {
		d      string
		mood   string
		stress string
		energy string
	}{
		{"2026-04-01", "bad", "high", "low"},
		{"2026-04-02", "meh", "high", "low"},
		{"2026-04-03", "okay", "medium", "medium"},
		{"2026-04-04", "good", "low", "medium"},
		{"2026-04-05", "great", "low", "high"},
	}
	out := make([]record.CheckinRecord, 0, len(specs))
	for _, s := range specs {
		out = append(out, record.CheckinRecord{
			MoodLevel:   s.mood,
			StressLevel: s.stress,
			EnergyLevel: s.energy,
			CreatedAt:   day(s.d).Add(10 * time.Hour),
		})
	}
	return out
}

func TestWeeklyTrend(t *testing.T) {
	c := testComposer()

	t.Run("improving", func(t *testing.T) {
		data := c.Weekly(context.Background(), record.SanitizedPayload{Checkins: weekOfCheckins()})
		if data.Trend != TrendImproving {
			t.Fatalf("trend = %s, want improving", data.Trend)
		}
		if data.Title == "" || data.Summary == "" {
			t.Error("narrative must be set")
		}
		if data.ChangePercent <= 0 || data.ChangePercent > 100 {
			t.Errorf("change percent = %v, want in (0,100]", data.ChangePercent)
		}
	})

	t.Run("stable when delta within 3", func(t *testing.T) {
		checkins := []record.CheckinRecord{
			{MoodLevel: "okay", CreatedAt: day("2026-04-01").Add(9 * time.Hour)},
			{MoodLevel: "okay", CreatedAt: day("2026-04-02").Add(9 * time.Hour)},
			{MoodLevel: "okay", CreatedAt: day("2026-04-03").Add(9 * time.Hour)},
		}
		data := c.Weekly(context.Background(), record.SanitizedPayload{Checkins: checkins})
		if data.Trend != TrendStable {
			t.Fatalf("trend = %s, want stable", data.Trend)
		}
	})

	t.Run("worsening", func(t *testing.T) {
		checkins := []record.CheckinRecord{
			{MoodLevel: "great", CreatedAt: day("2026-04-01").Add(9 * time.Hour)},
			{MoodLevel: "okay", CreatedAt: day("2026-04-02").Add(9 * time.Hour)},
			{MoodLevel: "bad", CreatedAt: day("2026-04-03").Add(9 * time.Hour)},
		}
		data := c.Weekly(context.Background(), record.SanitizedPayload{Checkins: checkins})
		if data.Trend != TrendWorsening {
			t.Fatalf("trend = %s, want worsening", data.Trend)
		}
		declinedMood := false
		for _, d := range data.Declined {
			if d == "overall mood" {
				declinedMood = true
			}
		}
		if !declinedMood {
			t.Errorf("declined = %v, want overall mood", data.Declined)
		}
	})
}

func TestWeeklyMovementLists(t *testing.T) {
	c := testComposer()
	data := c.Weekly(context.Background(), record.SanitizedPayload{Checkins: weekOfCheckins()})

	wantImproved := map[string]bool{"overall mood": true, "stress levels": true, "energy levels": true}
	for _, item := range data.Improved {
		if !wantImproved[item] {
			t.Errorf("unexpected improved item %q", item)
		}
		delete(wantImproved, item)
	}
	if len(wantImproved) != 0 {
		t.Errorf("missing improved items: %v (got %v)", wantImproved, data.Improved)
	}
	if len(data.Declined) != 0 {
		t.Errorf("declined = %v, want empty", data.Declined)
	}
}

func TestWeeklyDistributionsAndStreaks(t *testing.T) {
	c := testComposer()
	data := c.Weekly(context.Background(), record.SanitizedPayload{Checkins: weekOfCheckins()})

	if data.StressDistribution["high"] != 2 || data.StressDistribution["low"] != 2 {
		t.Errorf("stress distribution = %v", data.StressDistribution)
	}
	if data.EnergyDistribution["low"] != 2 || data.EnergyDistribution["high"] != 1 {
		t.Errorf("energy distribution = %v", data.EnergyDistribution)
	}
	// only 2 consecutive high-stress days: below the 3-day minimum
	if len(data.Streaks.HighStress) != 0 {
		t.Errorf("high stress streaks = %+v, want none", data.Streaks.HighStress)
	}
}

func TestWeeklyRiskScenario(t *testing.T) {
	// five days [22,33,44,88,100], 3 consecutive high-stress days,
	// 1 critical alert, no distress keywords => 3 + 5 = 8 points => high
	checkins := []record.CheckinRecord{
		{MoodLevel: "awful", StressLevel: "high", CreatedAt: day("2026-04-01").Add(9 * time.Hour)},
		{MoodLevel: "bad", StressLevel: "high", CreatedAt: day("2026-04-02").Add(9 * time.Hour)},
		{MoodLevel: "meh", StressLevel: "high", CreatedAt: day("2026-04-03").Add(9 * time.Hour)},
		{MoodLevel: "great", StressLevel: "low", CreatedAt: day("2026-04-04").Add(9 * time.Hour)},
		{MoodLevel: "awesome", StressLevel: "low", CreatedAt: day("2026-04-05").Add(9 * time.Hour)},
	}
	alerts := []record.AlertRecord{
		{Severity: record.SeverityCritical, CreatedAt: day("2026-04-03")},
	}

	c := testComposer()
	data := c.Weekly(context.Background(), record.SanitizedPayload{Checkins: checkins, Alerts: alerts})

	if data.Meta.RiskScore != 8 {
		t.Fatalf("risk score = %d (%s), want 8", data.Meta.RiskScore, data.Meta.RiskReasoning)
	}
	if data.Meta.RiskLevel != RiskHigh {
		t.Fatalf("risk level = %s, want high", data.Meta.RiskLevel)
	}

	scores := make([]int, len(data.DailyMood))
	for i, p := range data.DailyMood {
		scores[i] = p.Score
	}
	want := []int{22, 33, 44, 89, 100}
	for i := range want {
		if scores[i] != want[i] {
			t.Fatalf("daily scores = %v, want %v", scores, want)
		}
	}
}

func TestBehavioralPayload(t *testing.T) {
	checkins := []record.CheckinRecord{
		{MoodLevel: "great", StressLevel: "high", Sentiment: "negative",
			Emotion:   record.Emotion{Kind: record.EmotionLabel, Label: "anxious"},
			CreatedAt: day("2026-04-01").Add(2 * time.Hour)}, // late_night
		{MoodLevel: "bad", StressLevel: "high", Sentiment: "negative",
			Emotion:   record.Emotion{Kind: record.EmotionLabel, Label: "anxious"},
			CreatedAt: day("2026-04-02").Add(14 * time.Hour)}, // afternoon
		{MoodLevel: "good", StressLevel: "low", Sentiment: "positive",
			Emotion:   record.Emotion{Kind: record.EmotionLabel, Label: "calm"},
			CreatedAt: day("2026-04-03").Add(20 * time.Hour)}, // evening
	}
	journals := []record.JournalRecord{
		{RedactedExcerpt: "feeling hopeless about work", Sentiment: "negative",
			CreatedAt: day("2026-04-02").Add(3 * time.Hour)}, // late night journal
	}

	c := testComposer()
	data := c.Behavioral(context.Background(), record.SanitizedPayload{
		Checkins: checkins, Journals: journals,
	})

	// 89 -> 33 (-56) and 33 -> 78 (+45): both irregular swings
	if len(data.MoodSwings) != 2 {
		t.Fatalf("swings = %+v, want 2", data.MoodSwings)
	}
	if data.MoodSwings[0].Delta >= 0 || data.MoodSwings[1].Delta <= 0 {
		t.Errorf("swing directions wrong: %+v", data.MoodSwings)
	}

	if len(data.EmotionalPatterns) == 0 || data.EmotionalPatterns[0].Emotion != "anxious" {
		t.Errorf("emotional patterns = %+v, want anxious on top", data.EmotionalPatterns)
	}

	if data.RiskFlags.LateNightCount != 1 {
		t.Errorf("late night count = %d, want 1 (journals only)", data.RiskFlags.LateNightCount)
	}
	if data.RiskFlags.KeywordCount != 1 {
		t.Errorf("keyword count = %d, want 1", data.RiskFlags.KeywordCount)
	}
	if data.RiskFlags.HighStressDays != 2 {
		t.Errorf("high stress days = %d, want 2", data.RiskFlags.HighStressDays)
	}
	if data.RiskFlags.NegativeRatioPct != 75 {
		t.Errorf("negative ratio = %d, want 75", data.RiskFlags.NegativeRatioPct)
	}

	if data.TimeOfDay["late_night"] != 2 || data.TimeOfDay["afternoon"] != 1 || data.TimeOfDay["evening"] != 1 {
		t.Errorf("time of day buckets = %v", data.TimeOfDay)
	}
	if data.DayOfWeek["Wednesday"] != 1 {
		// 2026-04-01 is a Wednesday
		t.Errorf("day of week buckets = %v", data.DayOfWeek)
	}

	if data.Recommendation == "" {
		t.Error("recommendation must be set")
	}
	if data.Meta.GeneratedAt.IsZero() {
		t.Error("metadata timestamp must be set")
	}
}

func TestNegativeSentimentDays(t *testing.T) {
	journals := []record.JournalRecord{
		{Sentiment: "negative", CreatedAt: day("2026-04-01")},
		{Sentiment: "negative", CreatedAt: day("2026-04-01")},
		{Sentiment: "positive", CreatedAt: day("2026-04-01")},
		{Sentiment: "positive", CreatedAt: day("2026-04-02")},
		{Sentiment: "negative", CreatedAt: day("2026-04-02")},
		{Sentiment: "negative", CreatedAt: day("2026-04-03")},
	}
	// day1: 2 neg >= max(1,1) yes; day2: 1 neg >= max(1,1) yes; day3: yes
	if got := negativeSentimentDays(journals, nil); got != 3 {
		t.Errorf("negative days = %d, want 3", got)
	}

	pos := []record.JournalRecord{
		{Sentiment: "positive", CreatedAt: day("2026-04-04")},
		{Sentiment: "positive", CreatedAt: day("2026-04-04")},
		{Sentiment: "negative", CreatedAt: day("2026-04-04")},
	}
	if got := negativeSentimentDays(pos, nil); got != 0 {
		t.Errorf("positive-majority day counted: %d", got)
	}
}

func TestMajorityDays(t *testing.T) {
	no := false
	yes := true
	checkins := []record.CheckinRecord{
		{FeelBetter: &no, CreatedAt: day("2026-04-01").Add(8 * time.Hour)},
		{FeelBetter: &no, CreatedAt: day("2026-04-01").Add(12 * time.Hour)},
		{FeelBetter: &yes, CreatedAt: day("2026-04-01").Add(18 * time.Hour)},
		{FeelBetter: &no, CreatedAt: day("2026-04-02").Add(8 * time.Hour)},
		{FeelBetter: &yes, CreatedAt: day("2026-04-02").Add(18 * time.Hour)},
		{CreatedAt: day("2026-04-03")}, // no vote at all
	}
	flags := majorityDays(checkins, func(c record.CheckinRecord) (bool, bool) {
		if c.FeelBetter == nil {
			return false, false
		}
		return !*c.FeelBetter, true
	})

	if !flags[day("2026-04-01")] {
		t.Error("2-of-3 no votes must flag the day")
	}
	if flags[day("2026-04-02")] {
		t.Error("1-of-2 is not a majority")
	}
	if _, ok := flags[day("2026-04-03")]; ok {
		t.Error("voteless day must not appear")
	}
}
