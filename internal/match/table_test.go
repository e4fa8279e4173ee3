package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dw-bridge/internal/match"
	"dw-bridge/internal/metadata"
)

func testTable(name string, pks []string, cols ...string) *metadata.Table {
	t := &metadata.Table{Schema: "HR", Name: name, PrimaryKeys: pks}
	for _, c := range cols {
		t.Columns = append(t.Columns, &metadata.Column{Name: c, DataType: "VARCHAR"})
	}
	return t
}

func TestTableSimilarity_Identical(t *testing.T) {
	m := match.New(0, nil, nil)

	src := testTable("CUSTOMER", []string{"ID"}, "ID", "NAME", "EMAIL")
	tgt := testTable("CUSTOMER", []string{"ID"}, "ID", "NAME", "EMAIL")

	assert.InDelta(t, 1.0, m.TableSimilarity(src, tgt), 1e-9)
}

func TestTableSimilarity_MissingPrimaryKeysCapsScore(t *testing.T) {
	m := match.New(0, nil, nil)

	// Without key metadata the key weight is omitted, not redistributed.
	src := testTable("CUSTOMER", nil, "ID", "NAME", "EMAIL")
	tgt := testTable("CUSTOMER", nil, "ID", "NAME", "EMAIL")

	assert.InDelta(t, 0.8, m.TableSimilarity(src, tgt), 1e-9)
}

func TestTableSimilarity_Bounds(t *testing.T) {
	m := match.New(0, nil, nil)

	src := testTable("CUSTOMER", []string{"ID"}, "ID", "NAME")
	tgt := testTable("INVOICE_LINES", []string{"LINE_ID"}, "LINE_ID", "QTY", "PRICE")

	score := m.TableSimilarity(src, tgt)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
	assert.Less(t, score, 0.5)
}

func TestTableSimilarity_NormalizedNames(t *testing.T) {
	m := match.New(0, nil, nil)

	src := testTable("STG_CUSTOMER", []string{"ID"}, "ID", "NAME")
	tgt := testTable("CUSTOMER", []string{"ID"}, "ID", "NAME")

	assert.InDelta(t, 1.0, m.TableSimilarity(src, tgt), 1e-9)
}
