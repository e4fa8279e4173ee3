package match

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
	"github.com/rs/zerolog/log"
)

// Kind tags the provenance of a name pairing.
type Kind string

const (
	KindExact           Kind = "exact"
	KindNormalizedExact Kind = "normalized_exact"
	KindFuzzy           Kind = "fuzzy"
	KindToken           Kind = "token"
	KindManual          Kind = "manual"
	KindDefault         Kind = "default"
	KindUnmapped        Kind = "unmapped"
)

// Result is produced fresh per query and never mutated afterwards.
type Result struct {
	Name  string
	Score float64
	Kind  Kind
}

// Matcher scores candidate name pairs across naming conventions.
// Not thread-safe only in the trivial sense: it holds no mutable state, so a
// single instance can be shared by the mappers of one run.
type Matcher struct {
	Threshold      float64 // 0-1 fraction
	IgnorePrefixes []string
	IgnoreSuffixes []string

	params *levenshtein.Params
}

var (
	DefaultPrefixes = []string{"STG_", "TMP_", "HIST_", "TEMP_"}
	DefaultSuffixes = []string{"_BACKUP", "_OLD", "_BAK", "_TMP"}
)

func New(threshold float64, prefixes, suffixes []string) *Matcher {
	if threshold <= 0 {
		threshold = 0.85
	}
	if prefixes == nil {
		prefixes = DefaultPrefixes
	}
	if suffixes == nil {
		suffixes = DefaultSuffixes
	}
	return &Matcher{
		Threshold:      threshold,
		IgnorePrefixes: prefixes,
		IgnoreSuffixes: suffixes,
		params:         levenshtein.NewParams(),
	}
}

// Normalize uppercases the name and strips at most one configured prefix
// (first match in configured order) and at most one configured suffix.
func (m *Matcher) Normalize(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	for _, p := range m.IgnorePrefixes {
		p = strings.ToUpper(p)
		if strings.HasPrefix(n, p) {
			n = n[len(p):]
			break
		}
	}
	for _, s := range m.IgnoreSuffixes {
		s = strings.ToUpper(s)
		if strings.HasSuffix(n, s) {
			n = n[:len(n)-len(s)]
			break
		}
	}
	return n
}

func (m *Matcher) ratio(a, b string) float64 {
	return levenshtein.Similarity(a, b, m.params)
}

// FindBestMatch runs the matching cascade: case-insensitive exact, normalized
// exact (fixed 0.95), then edit-distance similarity against the threshold.
// A nil return means "no match", never an error.
func (m *Matcher) FindBestMatch(source string, candidates []string, normalize bool) *Result {
	if len(candidates) == 0 {
		return nil
	}

	for _, c := range candidates {
		if strings.EqualFold(source, c) {
			log.Debug().Str("source", source).Str("target", c).Msg("exact match")
			return &Result{Name: c, Score: 1.0, Kind: KindExact}
		}
	}

	if normalize {
		ns := m.Normalize(source)
		for _, c := range candidates {
			if ns == m.Normalize(c) {
				log.Debug().Str("source", source).Str("target", c).Msg("normalized exact match")
				return &Result{Name: c, Score: 0.95, Kind: KindNormalizedExact}
			}
		}
	}

	search := source
	if normalize {
		search = m.Normalize(source)
	}
	var best *Result
	for _, c := range candidates {
		cand := c
		if normalize {
			cand = m.Normalize(c)
		}
		score := m.ratio(search, cand)
		if best == nil || score > best.Score {
			best = &Result{Name: c, Score: score, Kind: KindFuzzy}
		}
	}
	if best != nil && best.Score >= m.Threshold {
		log.Debug().Str("source", source).Str("target", best.Name).Float64("score", best.Score).Msg("fuzzy match")
		return best
	}

	log.Debug().Str("source", source).Msg("no match found")
	return nil
}

// FindTopN returns up to n fuzzy candidates above the threshold, best first.
func (m *Matcher) FindTopN(source string, candidates []string, n int) []Result {
	ns := m.Normalize(source)

	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		score := m.ratio(ns, m.Normalize(c))
		if score >= m.Threshold {
			results = append(results, Result{Name: c, Score: score, Kind: KindFuzzy})
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if n > 0 && len(results) > n {
		results = results[:n]
	}
	return results
}

// Tokenize splits a name on underscore boundaries and lower-to-upper case
// transitions, returning uppercase tokens.
func Tokenize(name string) []string {
	var tokens []string
	for _, part := range strings.Split(name, "_") {
		start := 0
		runes := []rune(part)
		for i := 1; i < len(runes); i++ {
			if unicode.IsUpper(runes[i]) && !unicode.IsUpper(runes[i-1]) {
				if i > start {
					tokens = append(tokens, strings.ToUpper(string(runes[start:i])))
				}
				start = i
			}
		}
		if start < len(runes) {
			tokens = append(tokens, strings.ToUpper(string(runes[start:])))
		}
	}
	return tokens
}

// TokenSimilarity scores by token-set overlap. It is a separate entry point,
// not part of the FindBestMatch cascade; callers opt into it for heavily
// abbreviated names.
func (m *Matcher) TokenSimilarity(source string, candidates []string) *Result {
	srcTokens := Tokenize(source)

	var best *Result
	for _, c := range candidates {
		score := m.tokenSetRatio(srcTokens, Tokenize(c))
		if score >= m.Threshold && (best == nil || score > best.Score) {
			best = &Result{Name: c, Score: score, Kind: KindToken}
		}
	}
	if best != nil {
		log.Debug().Str("source", source).Str("target", best.Name).Float64("score", best.Score).Msg("token match")
	}
	return best
}

// tokenSetRatio compares the shared token core against each side's remainder,
// the same construction fuzzywuzzy calls token_set_ratio.
func (m *Matcher) tokenSetRatio(a, b []string) float64 {
	setA := make(map[string]bool, len(a))
	for _, t := range a {
		setA[t] = true
	}
	setB := make(map[string]bool, len(b))
	for _, t := range b {
		setB[t] = true
	}

	var inter, onlyA, onlyB []string
	for t := range setA {
		if setB[t] {
			inter = append(inter, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range setB {
		if !setA[t] {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(inter)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	core := strings.Join(inter, " ")
	full1 := strings.TrimSpace(core + " " + strings.Join(onlyA, " "))
	full2 := strings.TrimSpace(core + " " + strings.Join(onlyB, " "))

	score := m.ratio(core, full1)
	if s := m.ratio(core, full2); s > score {
		score = s
	}
	if s := m.ratio(full1, full2); s > score {
		score = s
	}
	return score
}
