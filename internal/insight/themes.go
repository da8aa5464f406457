package insight

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrEmbedderUnavailable marks the expected "no backend configured" case
// so it can be told apart from genuine failures when logging.
var ErrEmbedderUnavailable = errors.New("embedding backend unavailable")

// Embedder is the pluggable embedding backend. Implementations must honor
// the context deadline.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ThemeCluster is a labeled group of semantically related snippets.
type ThemeCluster struct {
	Label    string   `json:"label"`
	Count    int      `json:"count"`
	Examples []string `json:"examples"`
}

const minSnippetsForClustering = 3

var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "all": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "been": {}, "but": {}, "by": {}, "for": {}, "from": {}, "had": {},
	"has": {}, "have": {}, "i": {}, "in": {}, "is": {}, "it": {}, "just": {},
	"me": {}, "my": {}, "not": {}, "of": {}, "on": {}, "or": {}, "so": {},
	"that": {}, "the": {}, "they": {}, "this": {}, "to": {}, "very": {},
	"was": {}, "we": {}, "were": {}, "with": {}, "you": {},
}

// Clusterer groups journal snippets into labeled theme clusters. With no
// embedder, too little data, or any backend failure it degrades to
// keyword-matched concepts as singleton clusters.
type Clusterer struct {
	Embedder Embedder // nil means keyword-only
	Matcher  *Matcher
	MaxK     int
	Timeout  time.Duration
	Log      *zap.Logger
}

// Themes never returns an error: every failure path degrades to the
// keyword-only fallback.
func (c *Clusterer) Themes(ctx context.Context, snippets []string) []ThemeCluster {
	nonEmpty := make([]string, 0, len(snippets))
	for _, s := range snippets {
		if strings.TrimSpace(s) != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}

	if len(nonEmpty) < minSnippetsForClustering || c.Embedder == nil {
		return c.fallback(nonEmpty)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ectx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	vectors, err := c.Embedder.EmbedTexts(ectx, nonEmpty)
	if err != nil {
		if errors.Is(err, ErrEmbedderUnavailable) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			c.Log.Debug("theme clustering degraded to keyword fallback", zap.Error(err))
		} else {
			c.Log.Error("theme clustering failed", zap.Error(err))
		}
		return c.fallback(nonEmpty)
	}
	if len(vectors) != len(nonEmpty) {
		c.Log.Error("theme clustering failed",
			zap.Int("snippets", len(nonEmpty)), zap.Int("vectors", len(vectors)))
		return c.fallback(nonEmpty)
	}

	maxK := c.MaxK
	if maxK < 2 {
		maxK = 5
	}
	k := clamp(roundSqrt(len(nonEmpty)), 2, min(5, maxK))

	assign := kmeans(vectors, k)
	return c.labelClusters(nonEmpty, assign, k)
}

func (c *Clusterer) fallback(snippets []string) []ThemeCluster {
	var concepts []string
	if c.Matcher != nil {
		concepts = c.Matcher.Concepts(snippets)
	}
	out := make([]ThemeCluster, 0, len(concepts))
	for _, concept := range concepts {
		out = append(out, ThemeCluster{Label: concept, Count: 1, Examples: []string{}})
	}
	return out
}

func (c *Clusterer) labelClusters(snippets []string, assign []int, k int) []ThemeCluster {
	out := make([]ThemeCluster, 0, k)
	for ci := 0; ci < k; ci++ {
		var members []string
		for i, a := range assign {
			if a == ci {
				members = append(members, snippets[i])
			}
		}
		if len(members) == 0 {
			continue
		}

		label := ""
		if c.Matcher != nil {
			// a matched concept beats token labeling
			if concepts := c.Matcher.Concepts(members); len(concepts) > 0 {
				label = concepts[0]
			}
		}
		if label == "" {
			label = topTokenLabel(members)
		}
		if label == "" {
			label = "general"
		}

		examples := members
		if len(examples) > 2 {
			examples = examples[:2]
		}
		out = append(out, ThemeCluster{Label: label, Count: len(members), Examples: examples})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// topTokenLabel picks the most frequent non-stopword tokens (up to two)
// across the cluster's members.
func topTokenLabel(members []string) string {
	freq := map[string]int{}
	for _, m := range members {
		for _, tok := range strings.Fields(strings.ToLower(m)) {
			tok = strings.Trim(tok, ".,!?;:'\"()[]")
			if len(tok) < 3 {
				continue
			}
			if _, stop := stopwords[tok]; stop {
				continue
			}
			freq[tok]++
		}
	}
	type tf struct {
		tok string
		n   int
	}
	toks := make([]tf, 0, len(freq))
	for t, n := range freq {
		toks = append(toks, tf{t, n})
	}
	sort.Slice(toks, func(i, j int) bool {
		if toks[i].n != toks[j].n {
			return toks[i].n > toks[j].n
		}
		return toks[i].tok < toks[j].tok
	})
	switch {
	case len(toks) >= 2:
		return toks[0].tok + " / " + toks[1].tok
	case len(toks) == 1:
		return toks[0].tok
	}
	return ""
}

// kmeans is a small deterministic Lloyd's iteration over cosine-normalized
// vectors. Centroids seed at evenly spaced input indices so identical
// input always clusters identically.
func kmeans(vectors [][]float32, k int) []int {
	n := len(vectors)
	if k > n {
		k = n
	}
	norm := make([][]float64, n)
	for i, v := range vectors {
		norm[i] = normalize(v)
	}

	centroids := make([][]float64, k)
	for ci := 0; ci < k; ci++ {
		centroids[ci] = append([]float64(nil), norm[ci*n/k]...)
	}

	assign := make([]int, n)
	for iter := 0; iter < 10; iter++ {
		changed := false
		for i, v := range norm {
			best, bestSim := 0, math.Inf(-1)
			for ci, cvec := range centroids {
				if sim := dot(v, cvec); sim > bestSim {
					best, bestSim = ci, sim
				}
			}
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		dim := len(norm[0])
		sums := make([][]float64, k)
		counts := make([]int, k)
		for ci := range sums {
			sums[ci] = make([]float64, dim)
		}
		for i, v := range norm {
			ci := assign[i]
			counts[ci]++
			for d, x := range v {
				sums[ci][d] += x
			}
		}
		for ci := range centroids {
			if counts[ci] == 0 {
				continue
			}
			for d := range sums[ci] {
				sums[ci][d] /= float64(counts[ci])
			}
			centroids[ci] = sums[ci]
		}
	}
	return assign
}

func normalize(v []float32) []float64 {
	out := make([]float64, len(v))
	var ss float64
	for i, x := range v {
		out[i] = float64(x)
		ss += float64(x) * float64(x)
	}
	if ss == 0 {
		return out
	}
	inv := 1 / math.Sqrt(ss)
	for i := range out {
		out[i] *= inv
	}
	return out
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func roundSqrt(n int) int {
	return int(math.Round(math.Sqrt(float64(n))))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
