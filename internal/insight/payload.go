package insight

import "time"

type InsightType string

const (
	TypeWeekly     InsightType = "weekly"
	TypeBehavioral InsightType = "behavioral"
)

func (t InsightType) Valid() bool {
	return t == TypeWeekly || t == TypeBehavioral
}

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendWorsening Trend = "worsening"
	TrendStable    Trend = "stable"
)

// Metadata is the shared tail of both payload variants.
type Metadata struct {
	JournalCount  int       `json:"journal_count"`
	CheckinCount  int       `json:"checkin_count"`
	AlertCount    int       `json:"alert_count"`
	RiskScore     int       `json:"risk_score"`
	RiskLevel     RiskLevel `json:"risk_level"`
	RiskReasoning string    `json:"risk_reasoning"`
	GeneratedAt   time.Time `json:"generated_at"`
}

type StreakSummary struct {
	HighStress    []StreakWindow `json:"high_stress"`
	NegativeMood  []StreakWindow `json:"negative_mood"`
	NoImprovement []StreakWindow `json:"no_improvement"`
}

// WeeklyInsightData is the weekly payload variant. Trend drives the
// title, summary, and the improved/declined heuristics. ChangePercent is
// a separate half-window comparison kept for display text only; it is not
// reconciled with Trend (see docs in compose.go).
type WeeklyInsightData struct {
	Title              string             `json:"title"`
	Summary            string             `json:"summary"`
	Trend              Trend              `json:"trend"`
	DailyMood          []DailyMoodPoint   `json:"daily_mood"`
	WeekAverage        float64            `json:"week_average"`
	PrevHalfAverage    float64            `json:"prev_half_average"`
	ChangePercent      float64            `json:"change_percent"`
	Sentiment          SentimentBreakdown `json:"sentiment"`
	StressDistribution map[string]int     `json:"stress_distribution"`
	EnergyDistribution map[string]int     `json:"energy_distribution"`
	Streaks            StreakSummary      `json:"streaks"`
	SuddenDrops        []SuddenDrop       `json:"sudden_drops"`
	TopConcerns        []string           `json:"top_concerns"`
	Triggers           []string           `json:"triggers"`
	Themes             []ThemeCluster     `json:"themes"`
	Improved           []string           `json:"what_improved"`
	Declined           []string           `json:"what_declined"`
	Recommendation     string             `json:"recommendation"`
	Meta               Metadata           `json:"meta"`
}

// MoodSwing is an irregular day-to-day score change in either direction.
type MoodSwing struct {
	Date  time.Time `json:"date"`
	From  int       `json:"from_score"`
	To    int       `json:"to_score"`
	Delta int       `json:"delta"`
}

type RiskFlags struct {
	NegativeRatioPct   int `json:"negative_ratio_pct"`
	HighStressDays     int `json:"high_stress_days"`
	HighStressStreak   int `json:"high_stress_streak"`
	NegativeMoodStreak int `json:"negative_mood_streak"`
	NoImprovementRun   int `json:"no_improvement_streak"`
	LateNightCount     int `json:"late_night_count"`
	DropCount          int `json:"drop_count"`
	KeywordCount       int `json:"keyword_count"`
}

// BehavioralInsightData is the behavioral payload variant.
type BehavioralInsightData struct {
	EmotionalPatterns []EmotionFreq  `json:"emotional_patterns"`
	MoodSwings        []MoodSwing    `json:"mood_swings"`
	SuddenDrops       []SuddenDrop   `json:"sudden_drops"`
	RiskFlags         RiskFlags      `json:"risk_flags"`
	TimeOfDay         map[string]int `json:"time_of_day"`
	DayOfWeek         map[string]int `json:"day_of_week"`
	Themes            []ThemeCluster `json:"themes"`
	Recommendation    string         `json:"recommendation"`
	Meta              Metadata       `json:"meta"`
}
