package match

import (
	"strings"

	"dw-bridge/internal/metadata"
)

// Weights for TableSimilarity. Sub-scores whose underlying data is missing on
// either side are omitted, and the sum is NOT renormalized, so a table without
// primary-key metadata can never reach 1.0. Calibration quirk kept on purpose;
// thresholds downstream are tuned against it.
const (
	weightName        = 0.4
	weightColumnCount = 0.2
	weightPrimaryKeys = 0.2
	weightColumnNames = 0.2
)

// TableSimilarity scores two whole tables: name similarity, relative
// column-count closeness, primary-key Jaccard overlap and column-name-set
// Jaccard overlap. Always within [0,1].
func (m *Matcher) TableSimilarity(src, tgt *metadata.Table) float64 {
	score := m.ratio(m.Normalize(src.Name), m.Normalize(tgt.Name)) * weightName

	if len(src.Columns) > 0 && len(tgt.Columns) > 0 {
		sc, tc := float64(len(src.Columns)), float64(len(tgt.Columns))
		diff := sc - tc
		if diff < 0 {
			diff = -diff
		}
		max := sc
		if tc > max {
			max = tc
		}
		score += (1.0 - diff/max) * weightColumnCount
	}

	if len(src.PrimaryKeys) > 0 && len(tgt.PrimaryKeys) > 0 {
		score += jaccard(upperSet(src.PrimaryKeys), upperSet(tgt.PrimaryKeys)) * weightPrimaryKeys
	}

	if len(src.Columns) > 0 && len(tgt.Columns) > 0 {
		score += jaccard(m.normalizedColumnSet(src), m.normalizedColumnSet(tgt)) * weightColumnNames
	}

	return score
}

func (m *Matcher) normalizedColumnSet(t *metadata.Table) map[string]bool {
	set := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		set[m.Normalize(c.Name)] = true
	}
	return set
}

func upperSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[strings.ToUpper(n)] = true
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if b[k] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
