package insight

import (
	"fmt"
	"strings"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskSignals are the aggregated inputs to the scorer. Every field is a
// count or magnitude; the scorer itself holds the thresholds.
type RiskSignals struct {
	NegativeSentimentDays int
	HighStressStreak      int
	CriticalAlerts        int
	HighAlerts            int
	LateNightEntries      int
	MaxSuddenDrop         int
	FeelBetterNoStreak    int
	NegativeMoodStreak    int
	DistressKeywords      int
}

// RiskAssessment is the scorer output, embedded in every stored insight.
type RiskAssessment struct {
	Score     int       `json:"score"`
	Level     RiskLevel `json:"level"`
	Reasoning []string  `json:"reasoning"`
}

// ScoreRisk applies the weighted, additive, capped-per-factor point table.
// The exact thresholds and caps are a compatibility contract with
// previously stored insights: do not tune them without a migration.
// Scoring is monotonic in every input.
func ScoreRisk(s RiskSignals) RiskAssessment {
	score := 0
	var reasons []string

	add := func(points int, tag string, value int) {
		score += points
		reasons = append(reasons, fmt.Sprintf("%s=%d", tag, value))
	}

	switch {
	case s.NegativeSentimentDays >= 5:
		add(4, "extended_negative_period", s.NegativeSentimentDays)
	case s.NegativeSentimentDays >= 3:
		add(2, "negative_days", s.NegativeSentimentDays)
	}

	switch {
	case s.HighStressStreak >= 5:
		add(5, "high_stress_streak", s.HighStressStreak)
	case s.HighStressStreak >= 3:
		add(3, "high_stress_streak", s.HighStressStreak)
	}

	if s.CriticalAlerts > 0 {
		add(5+min(s.CriticalAlerts-1, 3), "critical_alerts", s.CriticalAlerts)
	}
	if s.HighAlerts > 0 {
		add(3+min(s.HighAlerts-1, 2), "high_alerts", s.HighAlerts)
	}

	switch {
	case s.LateNightEntries >= 5:
		add(3, "late_night_journaling", s.LateNightEntries)
	case s.LateNightEntries >= 3:
		add(2, "late_night_journaling", s.LateNightEntries)
	}

	switch {
	case s.MaxSuddenDrop >= 30:
		add(4, "sudden_drop", s.MaxSuddenDrop)
	case s.MaxSuddenDrop >= 20:
		add(2, "sudden_drop", s.MaxSuddenDrop)
	}

	switch {
	case s.FeelBetterNoStreak >= 5:
		add(3, "no_improvement_streak", s.FeelBetterNoStreak)
	case s.FeelBetterNoStreak >= 3:
		add(2, "no_improvement_streak", s.FeelBetterNoStreak)
	}

	switch {
	case s.NegativeMoodStreak >= 5:
		add(4, "negative_mood_streak", s.NegativeMoodStreak)
	case s.NegativeMoodStreak >= 3:
		add(2, "negative_mood_streak", s.NegativeMoodStreak)
	}

	switch {
	case s.DistressKeywords >= 3:
		add(3, "distress_keywords", s.DistressKeywords)
	case s.DistressKeywords >= 1:
		add(2, "distress_keywords", s.DistressKeywords)
	}

	return RiskAssessment{
		Score:     score,
		Level:     riskLevel(score),
		Reasoning: reasons,
	}
}

func riskLevel(score int) RiskLevel {
	switch {
	case score <= 3:
		return RiskLow
	case score <= 7:
		return RiskMedium
	case score <= 11:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// ReasoningString renders the ordered factor tags for display, e.g.
// "high_stress_streak=5;critical_alerts=1".
func (a RiskAssessment) ReasoningString() string {
	return strings.Join(a.Reasoning, ";")
}
