package insight

import (
	"strings"
	"testing"
)

func TestScoreRiskPointTable(t *testing.T) {
	tests := []struct {
		name      string
		signals   RiskSignals
		wantScore int
		wantLevel RiskLevel
	}{
		{
			name:      "nothing triggered",
			signals:   RiskSignals{},
			wantScore: 0,
			wantLevel: RiskLow,
		},
		{
			name:      "negative days at lower band",
			signals:   RiskSignals{NegativeSentimentDays: 3},
			wantScore: 2,
			wantLevel: RiskLow,
		},
		{
			name:      "negative days at upper band",
			signals:   RiskSignals{NegativeSentimentDays: 5},
			wantScore: 4,
			wantLevel: RiskMedium,
		},
		{
			name:      "critical alert cap",
			signals:   RiskSignals{CriticalAlerts: 10},
			wantScore: 8, // 5 + min(9,3)
			wantLevel: RiskHigh,
		},
		{
			name:      "high alert cap",
			signals:   RiskSignals{HighAlerts: 10},
			wantScore: 5, // 3 + min(9,2)
			wantLevel: RiskMedium,
		},
		{
			name: "spec scenario: 3 stress days plus 1 critical alert",
			signals: RiskSignals{
				HighStressStreak: 3,
				CriticalAlerts:   1,
			},
			wantScore: 8,
			wantLevel: RiskHigh,
		},
		{
			name: "everything maxed is critical",
			signals: RiskSignals{
				NegativeSentimentDays: 7,
				HighStressStreak:      7,
				CriticalAlerts:        4,
				HighAlerts:            3,
				LateNightEntries:      6,
				MaxSuddenDrop:         40,
				FeelBetterNoStreak:    6,
				NegativeMoodStreak:    6,
				DistressKeywords:      4,
			},
			wantScore: 4 + 5 + 8 + 5 + 3 + 4 + 3 + 4 + 3,
			wantLevel: RiskCritical,
		},
		{
			name:      "sudden drop bands",
			signals:   RiskSignals{MaxSuddenDrop: 30},
			wantScore: 4,
			wantLevel: RiskMedium,
		},
		{
			name:      "distress keywords lower band",
			signals:   RiskSignals{DistressKeywords: 1},
			wantScore: 2,
			wantLevel: RiskLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreRisk(tt.signals)
			if got.Score != tt.wantScore {
				t.Errorf("score = %d, want %d (reasoning %v)", got.Score, tt.wantScore, got.Reasoning)
			}
			if got.Level != tt.wantLevel {
				t.Errorf("level = %s, want %s", got.Level, tt.wantLevel)
			}
		})
	}
}

func TestScoreRiskMonotonic(t *testing.T) {
	base := RiskSignals{
		NegativeSentimentDays: 2,
		HighStressStreak:      2,
		CriticalAlerts:        0,
		HighAlerts:            1,
		LateNightEntries:      2,
		MaxSuddenDrop:         15,
		FeelBetterNoStreak:    2,
		NegativeMoodStreak:    2,
		DistressKeywords:      0,
	}
	baseScore := ScoreRisk(base).Score

	bumps := []func(*RiskSignals){
		func(s *RiskSignals) { s.NegativeSentimentDays++ },
		func(s *RiskSignals) { s.HighStressStreak++ }, // 2 -> 3 crosses a band
		func(s *RiskSignals) { s.CriticalAlerts++ },
		func(s *RiskSignals) { s.HighAlerts++ },
		func(s *RiskSignals) { s.LateNightEntries++ },
		func(s *RiskSignals) { s.MaxSuddenDrop += 10 },
		func(s *RiskSignals) { s.FeelBetterNoStreak++ },
		func(s *RiskSignals) { s.NegativeMoodStreak++ },
		func(s *RiskSignals) { s.DistressKeywords++ },
	}

	for i, bump := range bumps {
		s := base
		bump(&s)
		if got := ScoreRisk(s).Score; got < baseScore {
			t.Errorf("bump %d decreased score: %d -> %d", i, baseScore, got)
		}
	}
}

func TestReasoningFormat(t *testing.T) {
	a := ScoreRisk(RiskSignals{HighStressStreak: 5, CriticalAlerts: 1})
	want := "high_stress_streak=5;critical_alerts=1"
	if got := a.ReasoningString(); got != want {
		t.Errorf("reasoning = %q, want %q", got, want)
	}
	for _, tag := range a.Reasoning {
		if !strings.Contains(tag, "=") {
			t.Errorf("tag %q missing value", tag)
		}
	}
}

func TestRiskLevelBands(t *testing.T) {
	bands := []struct {
		score int
		want  RiskLevel
	}{
		{0, RiskLow}, {3, RiskLow},
		{4, RiskMedium}, {7, RiskMedium},
		{8, RiskHigh}, {11, RiskHigh},
		{12, RiskCritical},
	}
	for _, b := range bands {
		if got := riskLevel(b.score); got != b.want {
			t.Errorf("riskLevel(%d) = %s, want %s", b.score, got, b.want)
		}
	}
}
