package record

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
)

type EmotionKind int

const (
	EmotionNone EmotionKind = iota
	EmotionLabel
	EmotionLabelList
	EmotionWeighted
)

// Emotion is the tagged variant for the historically duck-typed emotion
// field: a bare label, a list of labels, or a label->weight map. Anything
// else decodes to EmotionNone and contributes nothing to aggregation.
type Emotion struct {
	Kind    EmotionKind
	Label   string
	Labels  []string
	Weights map[string]float64
}

func (e *Emotion) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "" || trimmed == "null" {
		*e = Emotion{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		s = strings.TrimSpace(strings.ToLower(s))
		if s == "" {
			*e = Emotion{}
			return nil
		}
		*e = Emotion{Kind: EmotionLabel, Label: s}
		return nil
	}

	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		out := make([]string, 0, len(list))
		for _, l := range list {
			l = strings.TrimSpace(strings.ToLower(l))
			if l != "" {
				out = append(out, l)
			}
		}
		*e = Emotion{Kind: EmotionLabelList, Labels: out}
		return nil
	}

	var m map[string]float64
	if err := json.Unmarshal(b, &m); err == nil {
		out := make(map[string]float64, len(m))
		for k, w := range m {
			k = strings.TrimSpace(strings.ToLower(k))
			if k != "" && w > 0 {
				out[k] = w
			}
		}
		*e = Emotion{Kind: EmotionWeighted, Weights: out}
		return nil
	}

	// Malformed shape: opaque, excluded from aggregation. Not an error.
	*e = Emotion{}
	return nil
}

func (e Emotion) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case EmotionLabel:
		return json.Marshal(e.Label)
	case EmotionLabelList:
		return json.Marshal(e.Labels)
	case EmotionWeighted:
		return json.Marshal(e.Weights)
	default:
		return []byte("null"), nil
	}
}

// WeightMap applies the one deterministic aggregation rule per variant:
// a label counts 1, listed labels count 1 each, weighted entries keep
// their weight.
func (e Emotion) WeightMap() map[string]float64 {
	switch e.Kind {
	case EmotionLabel:
		return map[string]float64{e.Label: 1}
	case EmotionLabelList:
		out := make(map[string]float64, len(e.Labels))
		for _, l := range e.Labels {
			out[l]++
		}
		return out
	case EmotionWeighted:
		return e.Weights
	default:
		return nil
	}
}

// Value / Scan store the variant as jsonb.
func (e Emotion) Value() (driver.Value, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (e *Emotion) Scan(src any) error {
	if src == nil {
		*e = Emotion{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return e.UnmarshalJSON(v)
	case string:
		return e.UnmarshalJSON([]byte(v))
	default:
		return errors.New("emotion: unsupported scan type")
	}
}
