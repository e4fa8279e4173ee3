package translate

import (
	"fmt"
	"strings"
)

// untranslatedTokens are source-language forms that must not survive
// translation. Their presence means a pass was skipped or a pattern missed.
var untranslatedTokens = []string{"IIF(", "ISNULL(", "DECODE(", "NVL("}

// Validate performs structural checks only: balanced parentheses, balanced
// non-escaped single quotes, and absence of untranslated source tokens. All
// violations found are returned, not just the first.
func (t *Translator) Validate(sql string) (bool, []string) {
	var errs []string

	if strings.Count(sql, "(") != strings.Count(sql, ")") {
		errs = append(errs, "unbalanced parentheses detected")
	}

	quotes := strings.Count(sql, "'") - strings.Count(sql, `\'`)
	if quotes%2 != 0 {
		errs = append(errs, "unbalanced single quotes detected")
	}

	upper := strings.ToUpper(sql)
	for _, tok := range untranslatedTokens {
		if strings.Contains(upper, tok) {
			errs = append(errs, fmt.Sprintf("untranslated source function detected: %s", tok))
		}
	}

	return len(errs) == 0, errs
}
