package translate

import (
	"regexp"
	"strings"
)

// The rewrite pipeline is an ordered list of single-pass substitutions. Each
// pass runs once over the whole string; results are never re-fed into earlier
// passes, so a rewrite that itself contains a convertible pattern stays as
// produced. Pass order matters: the coalescing pass must not see the
// single-argument ISNULL form, and the lexical pass must not see IIF.

var passes = []struct {
	name string
	fn   func(string) string
}{
	{"null-test", rewriteNullTest},
	{"conditional", rewriteConditional},
	{"null-coalesce", rewriteCoalesce},
	{"function-names", rewriteFunctionNames},
	{"date", rewriteDates},
	{"numeric", rewriteNumerics},
	{"string", rewriteStrings},
	{"whitespace", collapseWhitespace},
}

var reNullTest = regexp.MustCompile(`(?i)ISNULL\s*\(\s*(\w+)\s*\)`)

// ISNULL(X) -> X IS NULL
func rewriteNullTest(expr string) string {
	return reNullTest.ReplaceAllString(expr, "$1 IS NULL")
}

var reConditional = regexp.MustCompile(`(?i)IIF\s*\(\s*([^,]+?)\s*,\s*([^,]+?)\s*,\s*([^)]+?)\s*\)`)

// IIF(cond, a, b) -> CASE WHEN cond THEN a ELSE b END
func rewriteConditional(expr string) string {
	return reConditional.ReplaceAllString(expr, "CASE WHEN $1 THEN $2 ELSE $3 END")
}

var reCoalesce = regexp.MustCompile(`(?i)ISNULL\s*\(\s*([^,]+?)\s*,\s*([^)]+?)\s*\)`)

// ISNULL(X, d) -> COALESCE(X, d). Runs after the single-argument form.
func rewriteCoalesce(expr string) string {
	return reCoalesce.ReplaceAllString(expr, "COALESCE($1, $2)")
}

// functionTable maps source function names to target spellings. Matched
// case-insensitively and only when immediately followed by an opening
// parenthesis, so identifiers merely containing a function name survive.
// TRUNC is deliberately absent: the single-argument date form is handled by
// the date pass, the two-argument numeric form is valid as-is.
var functionTable = []struct {
	src, dst string
}{
	{"SUBSTR", "SUBSTRING"},
	{"INSTR", "POSITION"},
	{"TO_CHAR", "TO_VARCHAR"},
	{"ADD_MONTHS", "DATE_ADD"},
	{"STDDEV", "STDDEV_POP"},
	{"VARIANCE", "VAR_POP"},
	{"NVL", "COALESCE"},
}

var functionPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(functionTable))
	for i, e := range functionTable {
		out[i] = regexp.MustCompile(`(?i)\b` + e.src + `\s*\(`)
	}
	return out
}()

func rewriteFunctionNames(expr string) string {
	for i, e := range functionTable {
		expr = functionPatterns[i].ReplaceAllString(expr, e.dst+"(")
	}
	return expr
}

var (
	reDateTrunc    = regexp.MustCompile(`(?i)\bTRUNC\s*\(\s*(\w+)\s*\)`)
	reSysdate      = regexp.MustCompile(`(?i)\bSYSDATE\b`)
	reSystimestamp = regexp.MustCompile(`(?i)\bSYSTIMESTAMP\b`)
)

// Date rewrites: truncation-to-unit and current-date/time tokens.
func rewriteDates(expr string) string {
	expr = reDateTrunc.ReplaceAllString(expr, "DATE_TRUNC('DAY', $1)")
	expr = reSystimestamp.ReplaceAllString(expr, "CURRENT_TIMESTAMP()")
	expr = reSysdate.ReplaceAllString(expr, "CURRENT_DATE()")
	return expr
}

var (
	reRound    = regexp.MustCompile(`(?i)ROUND\s*\(\s*([^,]+?)\s*,\s*(\d+)\s*\)`)
	reImplMult = regexp.MustCompile(`(\w+)\s*\*\s*([\d.]+)`)
)

// Numeric rewrites: ROUND argument spacing and parenthesization of implicit
// multiplication with a literal.
func rewriteNumerics(expr string) string {
	expr = reRound.ReplaceAllString(expr, "ROUND($1, $2)")
	expr = reImplMult.ReplaceAllString(expr, "($1 * $2)")
	return expr
}

var reConcat = regexp.MustCompile(`(\w+)\s*\|\|\s*(\w+)`)

// String rewrites: concatenation operator spacing. SUBSTR renaming already
// happened in the lexical pass.
func rewriteStrings(expr string) string {
	return reConcat.ReplaceAllString(expr, "$1 || $2")
}

func collapseWhitespace(expr string) string {
	return strings.Join(strings.Fields(expr), " ")
}
