package translate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dw-bridge/internal/translate"
)

func TestTranslate_NullTest(t *testing.T) {
	tr := translate.New()

	assert.Equal(t, "COMM IS NULL", tr.Translate("ISNULL(COMM)", ""))
}

func TestTranslate_NullCoalesce(t *testing.T) {
	tr := translate.New()

	// The two-argument form is a coalesce, not a null test.
	assert.Equal(t, "COALESCE(COMM, 0)", tr.Translate("ISNULL(COMM, 0)", ""))
}

func TestTranslate_Conditional(t *testing.T) {
	tr := translate.New()

	out := tr.Translate("IIF(SAL > 1000, 'HIGH', 'LOW')", "")
	assert.Equal(t, "CASE WHEN SAL > 1000 THEN 'HIGH' ELSE 'LOW' END", out)
}

func TestTranslate_FunctionNames(t *testing.T) {
	tr := translate.New()

	assert.Equal(t, "SUBSTRING(NAME, 1, 3)", tr.Translate("SUBSTR(NAME, 1, 3)", ""))
	assert.Equal(t, "COALESCE(COMM, 0)", tr.Translate("NVL(COMM, 0)", ""))
	assert.Equal(t, "TO_VARCHAR(HIRE_DATE, 'YYYY')", tr.Translate("TO_CHAR(HIRE_DATE, 'YYYY')", ""))
}

func TestTranslate_FunctionNameRequiresCall(t *testing.T) {
	tr := translate.New()

	// Identifiers containing a function name are not calls.
	assert.Equal(t, "NVL_FLAG + 1", tr.Translate("NVL_FLAG + 1", ""))
}

func TestTranslate_Dates(t *testing.T) {
	tr := translate.New()

	assert.Equal(t, "DATE_TRUNC('DAY', HIRE_DATE)", tr.Translate("TRUNC(HIRE_DATE)", ""))
	assert.Equal(t, "DATE_TRUNC('DAY', CURRENT_DATE())", tr.Translate("TRUNC(SYSDATE)", ""))
	assert.Equal(t, "CURRENT_TIMESTAMP()", tr.Translate("SYSTIMESTAMP", ""))
}

func TestTranslate_Numerics(t *testing.T) {
	tr := translate.New()

	assert.Equal(t, "(SAL * 1.1)", tr.Translate("SAL*1.1", ""))
	assert.Equal(t, "ROUND(SAL, 2)", tr.Translate("ROUND( SAL ,2 )", ""))
}

func TestTranslate_Concat(t *testing.T) {
	tr := translate.New()

	assert.Equal(t, "FIRST || LAST", tr.Translate("FIRST||LAST", ""))
}

func TestTranslate_SinglePass(t *testing.T) {
	tr := translate.New()

	// Rewrites are never re-fed into earlier passes: the COALESCE produced
	// from NVL stays as produced even though it contains a call pattern.
	out := tr.Translate("NVL(SUBSTR(NAME, 1, 3), 'N/A')", "")
	assert.Equal(t, "COALESCE(SUBSTRING(NAME, 1, 3), 'N/A')", out)
}

func TestTranslate_EmptyInput(t *testing.T) {
	tr := translate.New()

	assert.Equal(t, "", tr.Translate("", "ANY"))
	assert.Empty(t, tr.Records())
}

func TestRecords_AppendOnlyInCallOrder(t *testing.T) {
	tr := translate.New()

	tr.Translate("ISNULL(A)", "A")
	tr.Translate("ISNULL(A)", "A")
	tr.TranslateFilter("SAL > 100")

	recs := tr.Records()
	require.Len(t, recs, 3)
	assert.Equal(t, "ISNULL(A)", recs[0].Original)
	assert.Equal(t, "A IS NULL", recs[0].Translated)
	assert.Equal(t, recs[0], recs[1])
	assert.Equal(t, "SAL > 100", recs[2].Original)

	tr.ClearRecords()
	assert.Empty(t, tr.Records())
}

func TestValidate(t *testing.T) {
	tr := translate.New()

	ok, issues := tr.Validate("SELECT f(x) FROM t WHERE id = 1")
	assert.True(t, ok)
	assert.Empty(t, issues)

	ok, issues = tr.Validate("SELECT f(x FROM t")
	assert.False(t, ok)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0], "parentheses")

	ok, issues = tr.Validate("WHERE name = 'OBrien")
	assert.False(t, ok)
	assert.Contains(t, issues[0], "quotes")

	ok, _ = tr.Validate("WHERE name = 'O''Brien'")
	assert.True(t, ok)

	ok, issues = tr.Validate("SELECT nvl(X, 0) FROM t")
	assert.False(t, ok)
	assert.Contains(t, issues[0], "NVL(")
}

func TestTranslateAggregation(t *testing.T) {
	tr := translate.New()

	out, err := tr.TranslateAggregation("COUNT", "*", nil)
	require.NoError(t, err)
	assert.Equal(t, "COUNT(*)", out)

	out, err = tr.TranslateAggregation("stddev", "SAL", []string{"DEPT"})
	require.NoError(t, err)
	assert.Equal(t, "STDDEV_POP(SAL)", out)

	_, err = tr.TranslateAggregation("MEDIAN_ABS", "SAL", nil)
	assert.Error(t, err)
}

func TestTranslateJoin(t *testing.T) {
	tr := translate.New()

	out := tr.TranslateJoin("LEFT", "EMP", "DEPT", []translate.JoinPair{{Left: "DEPT_ID", Right: "ID"}})
	assert.Equal(t, "LEFT JOIN DEPT rt\nON lt.DEPT_ID = rt.ID", out)

	out = tr.TranslateJoin("CROSS_APPLY", "EMP", "DEPT", []translate.JoinPair{{Left: "A", Right: "B"}})
	assert.Contains(t, out, "INNER JOIN")
}

func TestTranslateLookup(t *testing.T) {
	tr := translate.New()

	join, cols := tr.TranslateLookup("DIM_PRODUCT", "PRODUCT_ID", "PROD_ID", []string{"PRODUCT_NAME", "CATEGORY"})
	assert.Equal(t, "LEFT JOIN DIM_PRODUCT lk\nON src.PROD_ID = lk.PRODUCT_ID", join)
	assert.Equal(t, []string{"lk.PRODUCT_NAME", "lk.CATEGORY"}, cols)

	_, cols = tr.TranslateLookup("DIM_DATE", "DATE_KEY", "LOAD_DATE", nil)
	assert.Empty(t, cols)
}

func TestTranslateRouter(t *testing.T) {
	tr := translate.New()

	out := tr.TranslateRouter([]translate.Route{
		{Condition: "AMT > 100", Group: "BIG"},
		{Condition: "AMT > 10", Group: "MID"},
	})
	assert.Equal(t, "CASE\n    WHEN AMT > 100 THEN 'BIG'\n    WHEN AMT > 10 THEN 'MID'\n    ELSE 'OTHER'\nEND", out)
}

func TestTranslateSorterAndUnion(t *testing.T) {
	tr := translate.New()

	out := tr.TranslateSorter([]translate.SortColumn{{Column: "SAL", Direction: "desc"}, {Column: "NAME"}})
	assert.Equal(t, "ORDER BY SAL DESC, NAME ASC", out)

	assert.Equal(t, "UNION ALL", tr.TranslateUnion(true))
	assert.Equal(t, "UNION", tr.TranslateUnion(false))
}

func TestTranslateRank(t *testing.T) {
	tr := translate.New()

	out := tr.TranslateRank("RANK", []string{"SAL"}, []string{"DEPT"})
	assert.Equal(t, "RANK() OVER (PARTITION BY DEPT ORDER BY SAL)", out)

	out = tr.TranslateRank("TOPN", []string{"SAL"}, nil)
	assert.Equal(t, "ROW_NUMBER() OVER (ORDER BY SAL)", out)
}

func TestTranslateUpdateStrategy(t *testing.T) {
	tr := translate.New()

	out := tr.TranslateUpdateStrategy("HR.EMP", "EMP_ID", "NAME = src.NAME", "EMP_ID, NAME", "src.EMP_ID, src.NAME", "src.DELETED = 'Y'")
	assert.Contains(t, out, "MERGE INTO HR.EMP tgt")
	assert.Contains(t, out, "ON tgt.EMP_ID = src.EMP_ID")
	assert.Contains(t, out, "WHEN MATCHED AND src.DELETED = 'Y' THEN DELETE")

	ok, issues := tr.Validate(out)
	assert.True(t, ok, "issues: %v", issues)
}
