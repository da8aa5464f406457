package insight

import (
	"sort"
	"strings"

	"wellspring/internal/record"
)

// SentimentBreakdown counts normalized sentiment labels. Only the three
// canonical labels are counted; everything else is dropped silently.
type SentimentBreakdown struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// NormalizeSentiment case-folds a label and folds strongly_negative into
// negative. ok is false for labels outside the canonical three.
func NormalizeSentiment(label string) (string, bool) {
	l := strings.TrimSpace(strings.ToLower(label))
	if l == "strongly_negative" {
		l = record.SentimentNegative
	}
	switch l {
	case record.SentimentPositive, record.SentimentNeutral, record.SentimentNegative:
		return l, true
	}
	return "", false
}

// AggregateSentiment counts sentiment labels across journals and check-ins.
func AggregateSentiment(journals []record.JournalRecord, checkins []record.CheckinRecord) SentimentBreakdown {
	var b SentimentBreakdown
	add := func(label string) {
		l, ok := NormalizeSentiment(label)
		if !ok {
			return
		}
		switch l {
		case record.SentimentPositive:
			b.Positive++
		case record.SentimentNeutral:
			b.Neutral++
		case record.SentimentNegative:
			b.Negative++
		}
	}
	for _, j := range journals {
		add(j.Sentiment)
	}
	for _, c := range checkins {
		add(c.Sentiment)
	}
	return b
}

// EmotionFreq is one emotion with its accumulated weight.
type EmotionFreq struct {
	Emotion string  `json:"emotion"`
	Weight  float64 `json:"weight"`
}

// AggregateEmotions accumulates every record's emotion variant into a
// single frequency table for the window.
func AggregateEmotions(journals []record.JournalRecord, checkins []record.CheckinRecord) map[string]float64 {
	freq := map[string]float64{}
	for _, j := range journals {
		for k, w := range j.Emotion.WeightMap() {
			freq[k] += w
		}
	}
	for _, c := range checkins {
		for k, w := range c.Emotion.WeightMap() {
			freq[k] += w
		}
	}
	return freq
}

// DominantEmotions returns the top-n emotions by accumulated weight, ties
// broken alphabetically for determinism.
func DominantEmotions(freq map[string]float64, n int) []EmotionFreq {
	out := make([]EmotionFreq, 0, len(freq))
	for k, w := range freq {
		out = append(out, EmotionFreq{Emotion: k, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Emotion < out[j].Emotion
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
