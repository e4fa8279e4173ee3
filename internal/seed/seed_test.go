package seed_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dw-bridge/internal/metadata"
	"dw-bridge/internal/seed"
)

func sampleTable() *metadata.Table {
	return &metadata.Table{
		Schema: "PUBLIC",
		Name:   "CUSTOMER",
		Columns: []*metadata.Column{
			{Name: "CUST_ID", DataType: "DECIMAL", Precision: 10, IsPrimaryKey: true},
			{Name: "EMAIL", DataType: "VARCHAR", Length: 100},
			{Name: "SHORT_CODE", DataType: "VARCHAR", Length: 3},
			{Name: "CREATED_AT", DataType: "TIMESTAMP_NTZ"},
			{Name: "BIRTH_DATE", DataType: "DATE"},
			{Name: "PAYLOAD", DataType: "VARIANT", Nullable: true},
		},
		PrimaryKeys: []string{"CUST_ID"},
	}
}

func TestStatements(t *testing.T) {
	stmts := seed.New(42).Statements(sampleTable(), 3)
	require.Len(t, stmts, 3)

	for _, s := range stmts {
		assert.True(t, strings.HasPrefix(s, "INSERT INTO PUBLIC.CUSTOMER (CUST_ID, EMAIL, SHORT_CODE, CREATED_AT, BIRTH_DATE, PAYLOAD) VALUES ("), s)
		assert.True(t, strings.HasSuffix(s, ");"), s)
		// Unclassified nullable column renders as NULL.
		assert.Contains(t, s, ", NULL)")
		// Balanced quoting keeps the script loadable.
		assert.Equal(t, 0, strings.Count(s, "'")%2, s)
	}

	// Primary keys are sequential within the batch.
	assert.Contains(t, stmts[0], "VALUES (1, ")
	assert.Contains(t, stmts[1], "VALUES (2, ")
	assert.Contains(t, stmts[2], "VALUES (3, ")
}

func TestStatements_Deterministic(t *testing.T) {
	a := seed.New(42).Statements(sampleTable(), 5)
	b := seed.New(42).Statements(sampleTable(), 5)
	assert.Equal(t, a, b)
}

func TestStatements_RespectsLength(t *testing.T) {
	stmts := seed.New(7).Statements(sampleTable(), 20)

	for _, s := range stmts {
		// SHORT_CODE literal is the third value; it must fit three characters.
		parts := strings.SplitN(s, "VALUES (", 2)
		require.Len(t, parts, 2)
		vals := strings.Split(parts[1], ", ")
		require.GreaterOrEqual(t, len(vals), 3)
		code := strings.Trim(vals[2], "'")
		assert.LessOrEqual(t, len([]rune(code)), 3, s)
	}
}

func TestStatements_StringPrimaryKey(t *testing.T) {
	table := &metadata.Table{
		Schema: "PUBLIC",
		Name:   "REGION",
		Columns: []*metadata.Column{
			{Name: "REGION_CODE", DataType: "VARCHAR", Length: 20, IsPrimaryKey: true},
		},
		PrimaryKeys: []string{"REGION_CODE"},
	}

	stmts := seed.New(1).Statements(table, 2)
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[0], "'REGION_CODE_000001'")
	assert.Contains(t, stmts[1], "'REGION_CODE_000002'")
}
