package translate

import (
	"github.com/rs/zerolog/log"
)

// Record is one entry of the translation audit log: append-only, ordered by
// call, never deduplicated.
type Record struct {
	Original   string `json:"original"`
	Translated string `json:"translated"`
	Column     string `json:"column,omitempty"`
}

// Translator rewrites transformation-language expressions into Snowflake SQL.
// The audit log makes it stateful; one instance per run, not thread-safe.
type Translator struct {
	records []Record
}

func New() *Translator {
	return &Translator{}
}

// Translate runs the full rewrite pipeline over one expression and appends an
// audit record. An empty input translates to an empty output.
func (t *Translator) Translate(expr, column string) string {
	if expr == "" {
		return ""
	}
	log.Debug().Str("expression", expr).Msg("translating expression")

	out := expr
	for _, p := range passes {
		out = p.fn(out)
	}

	t.records = append(t.records, Record{Original: expr, Translated: out, Column: column})
	log.Debug().Str("translated", out).Msg("expression translated")
	return out
}

// TranslateFilter rewrites a filter condition for a WHERE clause.
func (t *Translator) TranslateFilter(condition string) string {
	return t.Translate(condition, "")
}

// Records returns the audit log in call order.
func (t *Translator) Records() []Record {
	return t.records
}

// ClearRecords empties the audit log. Only the caller does this; translation
// never prunes.
func (t *Translator) ClearRecords() {
	t.records = nil
}
