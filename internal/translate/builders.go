package translate

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// The builders below are template fills: they assemble fixed SQL skeletons
// from fragments the caller has already translated. None of them run the
// rewrite pipeline.

var aggregateFunctions = map[string]string{
	"SUM":      "SUM",
	"COUNT":    "COUNT",
	"AVG":      "AVG",
	"MIN":      "MIN",
	"MAX":      "MAX",
	"STDDEV":   "STDDEV_POP",
	"VARIANCE": "VAR_POP",
}

// TranslateAggregation builds an aggregate expression. groupBy is carried for
// interface parity with the graph extraction; grouping itself is assembled by
// the generator from aggregator group ports.
func (t *Translator) TranslateAggregation(kind, column string, groupBy []string) (string, error) {
	fn, ok := aggregateFunctions[strings.ToUpper(kind)]
	if !ok {
		return "", fmt.Errorf("unknown aggregation type: %s", kind)
	}
	if len(groupBy) > 0 {
		log.Debug().Strs("group_by", groupBy).Msg("group-by columns are assembled by the generator, not the aggregate expression")
	}
	if strings.ToUpper(kind) == "COUNT" && column == "*" {
		return "COUNT(*)", nil
	}
	return fmt.Sprintf("%s(%s)", fn, column), nil
}

// JoinPair is one equality term of a join condition.
type JoinPair struct {
	Left  string
	Right string
}

// TranslateJoin builds a JOIN ... ON clause. Unknown join kinds degrade to
// INNER. The left side is aliased lt, the right rt.
func (t *Translator) TranslateJoin(kind, leftTable, rightTable string, on []JoinPair) string {
	k := strings.ToUpper(kind)
	switch k {
	case "INNER", "LEFT", "RIGHT", "FULL":
	default:
		k = "INNER"
	}

	terms := make([]string, 0, len(on))
	for _, p := range on {
		terms = append(terms, fmt.Sprintf("lt.%s = rt.%s", p.Left, p.Right))
	}
	_ = leftTable // the left side is the enclosing FROM clause

	return fmt.Sprintf("%s JOIN %s rt\nON %s", k, rightTable, strings.Join(terms, " AND "))
}

// TranslateLookup renders a lookup as a LEFT JOIN against the lookup table,
// plus the lk-qualified select fragments for the requested return columns.
func (t *Translator) TranslateLookup(lookupTable, lookupColumn, sourceColumn string, returnCols []string) (string, []string) {
	join := fmt.Sprintf("LEFT JOIN %s lk\nON src.%s = lk.%s", lookupTable, sourceColumn, lookupColumn)

	cols := make([]string, 0, len(returnCols))
	for _, c := range returnCols {
		cols = append(cols, "lk."+c)
	}
	return join, cols
}

/// Route is one router branch: a pre-translated condition and its group name.
type Route struct {
	Condition string
	Group     string
}

// TranslateRouter renders router branches as a CASE chain in branch order,
// with a fixed OTHER fallback.
func (t *Translator) TranslateRouter(routes []Route) string {
	parts := make([]string, 0, len(routes))
	for _, r := range routes {
		parts = append(parts, fmt.Sprintf("WHEN %s THEN '%s'", r.Condition, r.Group))
	}
	return "CASE\n    " + strings.Join(parts, "\n    ") + "\n    ELSE 'OTHER'\nEND"
}

// SortColumn is one ORDER BY term; empty Direction means ASC.
type SortColumn struct {
	Column    string
	Direction string
}

func (t *Translator) TranslateSorter(cols []SortColumn) string {
	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		dir := strings.ToUpper(c.Direction)
		if dir == "" {
			dir = "ASC"
		}
		parts = append(parts, fmt.Sprintf("%s %s", c.Column, dir))
	}
	return "ORDER BY " + strings.Join(parts, ", ")
}

// TranslateRank builds a ranking window function. Unknown kinds degrade to
// ROW_NUMBER.
func (t *Translator) TranslateRank(kind string, orderBy, partitionBy []string) string {
	k := strings.ToUpper(kind)
	switch k {
	case "ROW_NUMBER", "RANK", "DENSE_RANK":
	default:
		k = "ROW_NUMBER"
	}

	order := strings.Join(orderBy, ", ")
	if len(partitionBy) > 0 {
		return fmt.Sprintf("%s() OVER (PARTITION BY %s ORDER BY %s)", k, strings.Join(partitionBy, ", "), order)
	}
	return fmt.Sprintf("%s() OVER (ORDER BY %s)", k, order)
}

func (t *Translator) TranslateUnion(allRows bool) string {
	if allRows {
		return "UNION ALL"
	}
	return "UNION"
}

// TranslateUpdateStrategy renders the MERGE skeleton for an update-strategy
// node. updateSet/insertColumns/insertValues are pre-built fragments; an
// optional deleteCondition adds a matched-delete branch.
func (t *Translator) TranslateUpdateStrategy(targetTable, mergeKey, updateSet, insertColumns, insertValues, deleteCondition string) string {
	sql := fmt.Sprintf(`MERGE INTO %s tgt
USING source_query src
ON tgt.%s = src.%s
WHEN MATCHED THEN
    UPDATE SET
        %s
WHEN NOT MATCHED THEN
    INSERT (%s)
    VALUES (%s)`, targetTable, mergeKey, mergeKey, updateSet, insertColumns, insertValues)

	if deleteCondition != "" {
		sql += fmt.Sprintf("\nWHEN MATCHED AND %s THEN DELETE", deleteCondition)
	}
	return sql
}
