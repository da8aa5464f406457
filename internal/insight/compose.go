package insight

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"wellspring/internal/record"
)

// Composer assembles weekly and behavioral payloads from the sanitized
// window records. It is pure apart from the optional clusterer call.
type Composer struct {
	Clusterer     *Clusterer
	Matcher       *Matcher
	StreakMinDays int
	DropThreshold int

	// Now is injectable for deterministic tests; nil means time.Now.
	Now func() time.Time
}

func (c *Composer) now() time.Time {
	if c.Now != nil {
		return c.Now().UTC()
	}
	return time.Now().UTC()
}

func (c *Composer) streakMin() int {
	if c.StreakMinDays > 0 {
		return c.StreakMinDays
	}
	return 3
}

// negativeMoodCutoff: a day averages "negative" when its score sits in
// the bottom third of the scale.
const negativeMoodCutoff = 40

// signals digests the payload once; both composers and the risk scorer
// feed from it.
type signals struct {
	daily         []DailyMoodPoint
	drops         []SuddenDrop
	sentiment     SentimentBreakdown
	emotions      map[string]float64
	concepts      []string
	distress      []string
	themes        []ThemeCluster
	highStress    map[time.Time]bool
	negativeMood  map[time.Time]bool
	noImprovement map[time.Time]bool
	negSentDays   int
	lateNight     int
	risk          RiskAssessment
}

func (c *Composer) digest(ctx context.Context, p record.SanitizedPayload) signals {
	var s signals

	s.daily = DailyMood(p.Checkins)
	s.drops = DetectSuddenDrops(s.daily, c.DropThreshold)
	s.sentiment = AggregateSentiment(p.Journals, p.Checkins)
	s.emotions = AggregateEmotions(p.Journals, p.Checkins)

	snippets := make([]string, 0, len(p.Journals))
	for _, j := range p.Journals {
		snippets = append(snippets, j.RedactedExcerpt)
	}
	if c.Matcher != nil {
		s.concepts = c.Matcher.Concepts(snippets)
	}
	s.distress = MatchDistress(snippets)
	if c.Clusterer != nil {
		s.themes = c.Clusterer.Themes(ctx, snippets)
	} else {
		s.themes = (&Clusterer{Matcher: c.Matcher}).fallback(snippets)
	}

	s.highStress = majorityDays(p.Checkins, func(ck record.CheckinRecord) (bool, bool) {
		if ck.StressLevel == "" {
			return false, false
		}
		return ck.StressLevel == "high", true
	})
	s.noImprovement = majorityDays(p.Checkins, func(ck record.CheckinRecord) (bool, bool) {
		if ck.FeelBetter == nil {
			return false, false
		}
		return !*ck.FeelBetter, true
	})

	s.negativeMood = map[time.Time]bool{}
	for _, pt := range s.daily {
		s.negativeMood[pt.Date] = pt.Score < negativeMoodCutoff
	}

	s.negSentDays = negativeSentimentDays(p.Journals, p.Checkins)
	for _, j := range p.Journals {
		if h := j.CreatedAt.UTC().Hour(); h < 5 {
			s.lateNight++
		}
	}

	criticalAlerts, highAlerts := 0, 0
	for _, a := range p.Alerts {
		switch a.Severity {
		case record.SeverityCritical:
			criticalAlerts++
		case record.SeverityHigh:
			highAlerts++
		}
	}

	s.risk = ScoreRisk(RiskSignals{
		NegativeSentimentDays: s.negSentDays,
		HighStressStreak:      LongestStreak(s.highStress),
		CriticalAlerts:        criticalAlerts,
		HighAlerts:            highAlerts,
		LateNightEntries:      s.lateNight,
		MaxSuddenDrop:         MaxDrop(s.drops),
		FeelBetterNoStreak:    LongestStreak(s.noImprovement),
		NegativeMoodStreak:    LongestStreak(s.negativeMood),
		DistressKeywords:      len(s.distress),
	})
	return s
}

// majorityDays reduces multiple check-ins per day to one boolean by
// majority vote; days where no check-in voted are false.
func majorityDays(checkins []record.CheckinRecord, vote func(record.CheckinRecord) (flag, counted bool)) map[time.Time]bool {
	yes := map[time.Time]int{}
	total := map[time.Time]int{}
	for _, c := range checkins {
		flag, counted := vote(c)
		if !counted {
			continue
		}
		day := dayOf(c.CreatedAt)
		total[day]++
		if flag {
			yes[day]++
		}
	}
	out := make(map[time.Time]bool, len(total))
	for day, n := range total {
		out[day] = yes[day]*2 > n
	}
	return out
}

// negativeSentimentDays counts days where negative labels outnumber
// positive ones (with positive floored at 1, so an all-negative day still
// qualifies).
func negativeSentimentDays(journals []record.JournalRecord, checkins []record.CheckinRecord) int {
	pos := map[time.Time]int{}
	neg := map[time.Time]int{}
	add := func(label string, at time.Time) {
		l, ok := NormalizeSentiment(label)
		if !ok {
			return
		}
		day := dayOf(at)
		switch l {
		case record.SentimentPositive:
			pos[day]++
		case record.SentimentNegative:
			neg[day]++
		}
	}
	for _, j := range journals {
		add(j.Sentiment, j.CreatedAt)
	}
	for _, c := range checkins {
		add(c.Sentiment, c.CreatedAt)
	}
	count := 0
	for day, n := range neg {
		if n >= max(pos[day], 1) {
			count++
		}
	}
	return count
}

// Weekly builds the weekly payload.
//
// Two trend computations coexist here on purpose: the canonical trend is
// the first-vs-last daily delta (>3 points), and it alone drives the
// title, summary, and improved/declined heuristics. The half-window
// percentage change survives as display-only text; reconciling the two
// would silently change every historical summary.
func (c *Composer) Weekly(ctx context.Context, p record.SanitizedPayload) WeeklyInsightData {
	s := c.digest(ctx, p)

	trend := TrendStable
	if n := len(s.daily); n >= 2 {
		diff := s.daily[n-1].Score - s.daily[0].Score
		if diff > 3 {
			trend = TrendImproving
		} else if diff < -3 {
			trend = TrendWorsening
		}
	}

	weekAvg := meanScore(s.daily)
	firstHalf, secondHalf := splitHalves(s.daily)
	prevAvg := meanScore(firstHalf)
	changePct := 0.0
	if prevAvg != 0 {
		changePct = (meanScore(secondHalf) - prevAvg) / prevAvg * 100
		changePct = math.Max(-100, math.Min(100, changePct))
		changePct = math.Round(changePct*10) / 10
	}

	title, summary := weeklyNarrative(trend, changePct)

	minLen := c.streakMin()
	data := WeeklyInsightData{
		Title:           title,
		Summary:         summary,
		Trend:           trend,
		DailyMood:       s.daily,
		WeekAverage:     weekAvg,
		PrevHalfAverage: prevAvg,
		ChangePercent:   changePct,
		Sentiment:       s.sentiment,
		StressDistribution: distribution(p.Checkins, func(ck record.CheckinRecord) string {
			return ck.StressLevel
		}),
		EnergyDistribution: distribution(p.Checkins, func(ck record.CheckinRecord) string {
			return ck.EnergyLevel
		}),
		Streaks: StreakSummary{
			HighStress:    DetectStreaks(s.highStress, minLen),
			NegativeMood:  DetectStreaks(s.negativeMood, minLen),
			NoImprovement: DetectStreaks(s.noImprovement, minLen),
		},
		SuddenDrops:    s.drops,
		TopConcerns:    s.concepts,
		Triggers:       s.distress,
		Themes:         s.themes,
		Recommendation: weeklyRecommendations[s.risk.Level],
		Meta:           c.metadata(p, s),
	}
	data.Improved, data.Declined = movementLists(trend, p.Checkins)
	return data
}

// Behavioral builds the behavioral payload.
func (c *Composer) Behavioral(ctx context.Context, p record.SanitizedPayload) BehavioralInsightData {
	s := c.digest(ctx, p)

	var swings []MoodSwing
	for i := 1; i < len(s.daily); i++ {
		delta := s.daily[i].Score - s.daily[i-1].Score
		if delta >= 15 || delta <= -15 {
			swings = append(swings, MoodSwing{
				Date:  s.daily[i].Date,
				From:  s.daily[i-1].Score,
				To:    s.daily[i].Score,
				Delta: delta,
			})
		}
	}

	highStressDays := 0
	for _, flagged := range s.highStress {
		if flagged {
			highStressDays++
		}
	}

	labeled := s.sentiment.Positive + s.sentiment.Neutral + s.sentiment.Negative
	negRatio := 0
	if labeled > 0 {
		negRatio = int(math.Round(float64(s.sentiment.Negative) / float64(labeled) * 100))
	}

	timeOfDay, dayOfWeek := behavioralBuckets(p)

	return BehavioralInsightData{
		EmotionalPatterns: DominantEmotions(s.emotions, 6),
		MoodSwings:        swings,
		SuddenDrops:       s.drops,
		RiskFlags: RiskFlags{
			NegativeRatioPct:   negRatio,
			HighStressDays:     highStressDays,
			HighStressStreak:   LongestStreak(s.highStress),
			NegativeMoodStreak: LongestStreak(s.negativeMood),
			NoImprovementRun:   LongestStreak(s.noImprovement),
			LateNightCount:     s.lateNight,
			DropCount:          len(s.drops),
			KeywordCount:       len(s.distress),
		},
		TimeOfDay:      timeOfDay,
		DayOfWeek:      dayOfWeek,
		Themes:         s.themes,
		Recommendation: behavioralRecommendations[s.risk.Level],
		Meta:           c.metadata(p, s),
	}
}

func (c *Composer) metadata(p record.SanitizedPayload, s signals) Metadata {
	return Metadata{
		JournalCount:  len(p.Journals),
		CheckinCount:  len(p.Checkins),
		AlertCount:    len(p.Alerts),
		RiskScore:     s.risk.Score,
		RiskLevel:     s.risk.Level,
		RiskReasoning: s.risk.ReasoningString(),
		GeneratedAt:   c.now(),
	}
}

func meanScore(daily []DailyMoodPoint) float64 {
	if len(daily) == 0 {
		return 0
	}
	sum := 0
	for _, d := range daily {
		sum += d.Score
	}
	return math.Round(float64(sum)/float64(len(daily))*10) / 10
}

func splitHalves(daily []DailyMoodPoint) (first, second []DailyMoodPoint) {
	mid := len(daily) / 2
	return daily[:mid], daily[mid:]
}

func distribution(checkins []record.CheckinRecord, key func(record.CheckinRecord) string) map[string]int {
	out := map[string]int{}
	for _, c := range checkins {
		if k := key(c); k != "" {
			out[k]++
		}
	}
	return out
}

func weeklyNarrative(trend Trend, changePct float64) (title, summary string) {
	switch trend {
	case TrendImproving:
		title = "Your week is looking up"
		summary = fmt.Sprintf("Mood trended upward this week (%.1f%% vs the first half).", changePct)
	case TrendWorsening:
		title = "A heavier week"
		summary = fmt.Sprintf("Mood trended downward this week (%.1f%% vs the first half).", changePct)
	default:
		title = "A steady week"
		summary = "Mood held steady across the week."
	}
	return title, summary
}

// movementLists derives the what-improved / what-declined heuristics from
// the canonical trend plus stress and energy directionality between the
// window halves.
func movementLists(trend Trend, checkins []record.CheckinRecord) (improved, declined []string) {
	improved, declined = []string{}, []string{}
	switch trend {
	case TrendImproving:
		improved = append(improved, "overall mood")
	case TrendWorsening:
		declined = append(declined, "overall mood")
	}

	levelScore := map[string]int{"low": 1, "medium": 2, "high": 3}

	sorted := append([]record.CheckinRecord(nil), checkins...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })
	mid := len(sorted) / 2

	halfAvg := func(part []record.CheckinRecord, key func(record.CheckinRecord) string) float64 {
		sum, n := 0, 0
		for _, c := range part {
			if v, ok := levelScore[key(c)]; ok {
				sum += v
				n++
			}
		}
		if n == 0 {
			return 0
		}
		return float64(sum) / float64(n)
	}

	stressKey := func(c record.CheckinRecord) string { return c.StressLevel }
	energyKey := func(c record.CheckinRecord) string { return c.EnergyLevel }

	if a, b := halfAvg(sorted[:mid], stressKey), halfAvg(sorted[mid:], stressKey); a > 0 && b > 0 {
		if b < a {
			improved = append(improved, "stress levels")
		} else if b > a {
			declined = append(declined, "stress levels")
		}
	}
	if a, b := halfAvg(sorted[:mid], energyKey), halfAvg(sorted[mid:], energyKey); a > 0 && b > 0 {
		if b > a {
			improved = append(improved, "energy levels")
		} else if b < a {
			declined = append(declined, "energy levels")
		}
	}
	return improved, declined
}

func behavioralBuckets(p record.SanitizedPayload) (timeOfDay, dayOfWeek map[string]int) {
	timeOfDay = map[string]int{}
	dayOfWeek = map[string]int{}

	bucket := func(t time.Time) string {
		switch h := t.UTC().Hour(); {
		case h < 5:
			return "late_night"
		case h < 12:
			return "morning"
		case h < 18:
			return "afternoon"
		default:
			return "evening"
		}
	}
	count := func(t time.Time) {
		timeOfDay[bucket(t)]++
		dayOfWeek[t.UTC().Weekday().String()]++
	}

	for _, j := range p.Journals {
		count(j.CreatedAt)
	}
	for _, c := range p.Checkins {
		count(c.CreatedAt)
	}
	return timeOfDay, dayOfWeek
}

var weeklyRecommendations = map[RiskLevel]string{
	RiskLow:      "Keep up your current routines; consistency is doing its job.",
	RiskMedium:   "Consider adding one restorative activity this week, like a walk or an earlier night.",
	RiskHigh:     "This week carried real strain. Reach out to someone you trust and lighten your load where you can.",
	RiskCritical: "Please consider talking to a professional soon. Support is available and it helps.",
}

var behavioralRecommendations = map[RiskLevel]string{
	RiskLow:      "Your patterns look steady. Keep noticing what works for you.",
	RiskMedium:   "Some irregular patterns showed up; a more regular sleep and check-in rhythm may help.",
	RiskHigh:     "Several stress patterns are stacking up. Build in recovery time and tell someone how you're doing.",
	RiskCritical: "These patterns suggest you are under serious strain. Please reach out to a professional or crisis line.",
}
