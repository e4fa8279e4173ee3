package generate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dw-bridge/internal/generate"
	"dw-bridge/internal/graph"
	"dw-bridge/internal/metadata"
)

func customerMapping() *graph.Mapping {
	return &graph.Mapping{
		Name:        "m_LOAD_CUSTOMER",
		Description: "Load customers nightly",
		Sources: []*graph.Entity{{
			Name: "CUSTOMER_SRC",
			Fields: []graph.Field{
				{Name: "CUST_ID", DataType: "number"},
				{Name: "NAME", DataType: "varchar2"},
			},
		}},
		Targets: []*graph.Entity{{Name: "CUSTOMER"}},
		Nodes: []*graph.Node{
			{
				Name: "EXP_DERIVE",
				Kind: graph.KindExpression,
				Ports: []graph.Port{
					{Name: "CUST_ID", PortType: "OUTPUT"},
					{Name: "FULL_NAME", PortType: "OUTPUT", Expression: "FIRST||LAST"},
					{Name: "SAFE_COMM", PortType: "OUTPUT", Expression: "NVL(COMM, 0)"},
				},
			},
			{
				Name:       "FIL_ACTIVE",
				Kind:       graph.KindFilter,
				Properties: map[string]string{"FILTER_CONDITION": "ACTIVE = 1"},
			},
			{
				Name: "AGG_SUM",
				Kind: graph.KindAggregator,
				Ports: []graph.Port{
					{Name: "CUST_ID", PortType: "GROUP"},
				},
			},
		},
	}
}

func customerMeta() *metadata.Table {
	return &metadata.Table{
		Schema: "PUBLIC",
		Name:   "CUSTOMER",
		Columns: []*metadata.Column{
			{Name: "CUST_ID", DataType: "DECIMAL", Nullable: false},
			{Name: "FULL_NAME", DataType: "VARCHAR", Nullable: true},
		},
		PrimaryKeys: []string{"CUST_ID"},
	}
}

func TestGenerate(t *testing.T) {
	gen := generate.New("PUBLIC")

	proc, err := gen.Generate(customerMapping(), customerMeta())
	require.NoError(t, err)

	assert.Equal(t, "SP_CUSTOMER_LOAD", proc.Name)
	assert.Equal(t, "PUBLIC.CUSTOMER", proc.Target)

	assert.Contains(t, proc.SQL, "CREATE OR REPLACE PROCEDURE PUBLIC.SP_CUSTOMER_LOAD(")
	assert.Contains(t, proc.SQL, "MERGE INTO PUBLIC.CUSTOMER TGT")
	assert.Contains(t, proc.SQL, "FROM PUBLIC.CUSTOMER_SRC SRC")
	assert.Contains(t, proc.SQL, "ON TGT.CUST_ID = SRC.CUST_ID")
	assert.Contains(t, proc.SQL, "FIRST || LAST AS FULL_NAME")
	assert.Contains(t, proc.SQL, "COALESCE(COMM, 0) AS SAFE_COMM")
	assert.Contains(t, proc.SQL, "WHERE ACTIVE = 1")
	assert.Contains(t, proc.SQL, "GROUP BY CUST_ID")
	assert.Contains(t, proc.SQL, "AND CUST_ID IS NOT NULL")
	assert.Contains(t, proc.SQL, "INSERT INTO ETL_METADATA.PROCESS_LOG")
	assert.Contains(t, proc.SQL, "RETURN OBJECT_CONSTRUCT(")

	// The merge key never appears in the update set.
	assert.NotContains(t, proc.SQL, "CUST_ID = SRC.CUST_ID,")
	assert.Contains(t, proc.SQL, "FULL_NAME = SRC.FULL_NAME")

	ok, issues := gen.Translator().Validate(proc.SQL)
	assert.True(t, ok, "generated SQL failed validation: %v", issues)
}

func TestGenerate_FallbackMergeKey(t *testing.T) {
	gen := generate.New("PUBLIC")

	proc, err := gen.Generate(customerMapping(), nil)
	require.NoError(t, err)

	assert.Contains(t, proc.SQL, "ON TGT.ID = SRC.ID")
}

func TestGenerate_SourceColumnsFallback(t *testing.T) {
	gen := generate.New("PUBLIC")

	m := customerMapping()
	m.Nodes = nil

	proc, err := gen.Generate(m, customerMeta())
	require.NoError(t, err)

	// Without expression nodes the select list is the source field list.
	assert.Contains(t, proc.SQL, "CUST_ID,")
	assert.Contains(t, proc.SQL, "NAME")
	assert.NotContains(t, proc.SQL, "WHERE ACTIVE")
}

func TestGenerate_MissingTarget(t *testing.T) {
	gen := generate.New("PUBLIC")

	m := customerMapping()
	m.Targets = nil

	_, err := gen.Generate(m, nil)
	assert.Error(t, err)
	assert.Empty(t, gen.Procedures())
}

func TestDeploymentScript(t *testing.T) {
	gen := generate.New("PUBLIC")

	_, err := gen.Generate(customerMapping(), customerMeta())
	require.NoError(t, err)

	script := gen.DeploymentScript()
	assert.Contains(t, script, "USE ROLE SYSADMIN;")
	assert.Contains(t, script, "-- Deploy: SP_CUSTOMER_LOAD")
	assert.Contains(t, script, "CALL PUBLIC.SP_CUSTOMER_LOAD(")
	assert.Contains(t, script, "P_DEBUG_MODE => TRUE")

	// Repeatable fold: rendering again does not consume or mutate the set.
	assert.Contains(t, gen.DeploymentScript(), "CALL PUBLIC.SP_CUSTOMER_LOAD(")
	assert.Len(t, gen.Procedures(), 1)
}

func TestDocumentation(t *testing.T) {
	gen := generate.New("PUBLIC")

	_, err := gen.Generate(customerMapping(), customerMeta())
	require.NoError(t, err)

	doc := gen.Documentation()
	assert.True(t, strings.HasPrefix(doc, "# Stored Procedure Documentation"))
	assert.Contains(t, doc, "## SP_CUSTOMER_LOAD")
	assert.Contains(t, doc, "**Target Table:** PUBLIC.CUSTOMER")
	assert.Contains(t, doc, "**Source Mapping:** m_LOAD_CUSTOMER")
}

func TestProcedures_Accumulate(t *testing.T) {
	gen := generate.New("PUBLIC")

	_, err := gen.Generate(customerMapping(), customerMeta())
	require.NoError(t, err)

	second := customerMapping()
	second.Name = "m_LOAD_ORDERS"
	second.Targets = []*graph.Entity{{Name: "ORDERS"}}
	_, err = gen.Generate(second, nil)
	require.NoError(t, err)

	procs := gen.Procedures()
	require.Len(t, procs, 2)
	assert.Equal(t, "SP_CUSTOMER_LOAD", procs[0].Name)
	assert.Equal(t, "SP_ORDERS_LOAD", procs[1].Name)

	// Translation audit spans both generations.
	assert.NotEmpty(t, gen.Translator().Records())
}
