package generate

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"dw-bridge/internal/graph"
	"dw-bridge/internal/metadata"
	"dw-bridge/internal/translate"
)

// fallbackMergeKey is used when the target table has no known primary key.
const fallbackMergeKey = "ID"

// GeneratedProcedure is one rendered load procedure, kept in memory so the
// deployment script and documentation can be folded from the full set.
type GeneratedProcedure struct {
	Name    string
	Mapping string
	Target  string
	SQL     string
}

// Generator renders Snowflake load procedures from parsed transformation
// graphs. One instance per run, accumulating the set of generated procedures.
type Generator struct {
	Schema     string
	translator *translate.Translator
	procedures []GeneratedProcedure
	now        func() time.Time
}

func New(schema string) *Generator {
	if schema == "" {
		schema = "PUBLIC"
	}
	return &Generator{
		Schema:     schema,
		translator: translate.New(),
		now:        time.Now,
	}
}

// Translator exposes the shared translator so callers can read the audit log.
func (g *Generator) Translator() *translate.Translator {
	return g.translator
}

// Generate renders the load procedure for one mapping. targetMeta is optional
// crawled metadata for the target table; it supplies the merge key and the
// NOT NULL quality checks.
func (g *Generator) Generate(m *graph.Mapping, targetMeta *metadata.Table) (*GeneratedProcedure, error) {
	log.Info().Str("mapping", m.Name).Msg("generating load procedure")

	if len(m.Targets) == 0 {
		return nil, fmt.Errorf("mapping %s has no target", m.Name)
	}
	if len(m.Sources) == 0 {
		return nil, fmt.Errorf("mapping %s has no source", m.Name)
	}
	target := m.Targets[0]
	source := m.Sources[0]

	procName := fmt.Sprintf("SP_%s_LOAD", strings.ToUpper(target.Name))

	comps := g.extractQueryComponents(m)
	mergeSQL, err := g.buildMergeLogic(source.Name, target.Name, comps, targetMeta)
	if err != nil {
		return nil, fmt.Errorf("building merge logic for %s: %w", m.Name, err)
	}

	desc := m.Description
	if desc == "" {
		desc = "Load " + target.Name
	}

	var buf strings.Builder
	err = procedureTemplate.Execute(&buf, procedureData{
		ProcedureName: procName,
		Schema:        g.Schema,
		Description:   desc,
		SourceMapping: m.Name,
		GeneratedAt:   g.now().Format("2006-01-02 15:04:05"),
		SourceSystem:  "Oracle",
		TargetSystem:  "Snowflake",
		MergeLogic:    mergeSQL,
		QualityChecks: g.buildQualityChecks(target.Name, targetMeta),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering procedure for %s: %w", m.Name, err)
	}

	proc := GeneratedProcedure{
		Name:    procName,
		Mapping: m.Name,
		Target:  g.Schema + "." + target.Name,
		SQL:     buf.String(),
	}
	g.procedures = append(g.procedures, proc)

	log.Info().Str("procedure", procName).Msg("procedure generated")
	return &proc, nil
}

// queryComponents are the SELECT fragments extracted from a graph walk.
type queryComponents struct {
	selectColumns []string
	joinClauses   []string
	whereClause   string
	groupBy       []string
}

// extractQueryComponents walks the nodes in declaration order. Expression
// output ports become select columns, the last filter condition wins, each
// joiner contributes one join clause and aggregator group ports accumulate.
func (g *Generator) extractQueryComponents(m *graph.Mapping) queryComponents {
	var comps queryComponents

	for _, node := range m.Nodes {
		switch node.Kind {
		case graph.KindExpression:
			for _, port := range node.OutputPorts() {
				raw := port.Expression
				if raw == "" {
					raw = port.Name
				}
				expr := g.translator.Translate(raw, port.Name)
				if expr != "" && expr != port.Name {
					comps.selectColumns = append(comps.selectColumns, expr+" AS "+port.Name)
				} else {
					comps.selectColumns = append(comps.selectColumns, port.Name)
				}
			}

		case graph.KindFilter:
			if cond := node.Property("FILTER_CONDITION"); cond != "" {
				comps.whereClause = g.translator.TranslateFilter(cond)
			}

		case graph.KindJoiner:
			if join := g.extractJoinClause(node); join != "" {
				comps.joinClauses = append(comps.joinClauses, join)
			}

		case graph.KindAggregator:
			for _, port := range node.GroupPorts() {
				comps.groupBy = append(comps.groupBy, port.Name)
			}
		}
	}

	if len(comps.selectColumns) == 0 && len(m.Sources) > 0 {
		comps.selectColumns = m.Sources[0].FieldNames()
	}
	return comps
}

func (g *Generator) extractJoinClause(node *graph.Node) string {
	cond := node.Property("JoinCondition")
	if cond == "" {
		return ""
	}
	joinType := strings.ToUpper(node.Property("JoinType"))
	if joinType == "" {
		joinType = "INNER"
	}
	return fmt.Sprintf("%s JOIN (...) ON %s", joinType, g.translator.Translate(cond, ""))
}

func (g *Generator) buildMergeLogic(sourceTable, targetTable string, comps queryComponents, targetMeta *metadata.Table) (string, error) {
	mergeKey := fallbackMergeKey
	if targetMeta != nil && len(targetMeta.PrimaryKeys) > 0 {
		mergeKey = targetMeta.PrimaryKeys[0]
	}

	selectCols := "*"
	if len(comps.selectColumns) > 0 {
		selectCols = strings.Join(comps.selectColumns, ",\n")
	}

	var updateCols, insertCols []string
	for _, col := range comps.selectColumns {
		name := columnAlias(col)
		insertCols = append(insertCols, name)
		if name != mergeKey {
			updateCols = append(updateCols, fmt.Sprintf("%s = SRC.%s", name, name))
		}
	}
	insertVals := make([]string, 0, len(insertCols))
	for _, name := range insertCols {
		insertVals = append(insertVals, "SRC."+name)
	}

	var buf strings.Builder
	err := mergeTemplate.Execute(&buf, mergeData{
		TargetSchema:  g.Schema,
		TargetTable:   targetTable,
		SourceSchema:  g.Schema,
		SourceTable:   sourceTable,
		SelectColumns: selectCols,
		JoinClauses:   strings.Join(comps.joinClauses, "\n"),
		WhereClause:   comps.whereClause,
		GroupBy:       strings.Join(comps.groupBy, ", "),
		MergeKey:      mergeKey,
		UpdateColumns: strings.Join(updateCols, ",\n"),
		InsertColumns: strings.Join(insertCols, ",\n"),
		InsertValues:  strings.Join(insertVals, ",\n"),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// columnAlias extracts the output name from a select fragment: the alias
// after AS when present, the last token otherwise.
func columnAlias(col string) string {
	if idx := strings.LastIndex(col, " AS "); idx >= 0 {
		return strings.TrimSpace(col[idx+4:])
	}
	fields := strings.Fields(col)
	return fields[len(fields)-1]
}

func (g *Generator) buildQualityChecks(targetTable string, targetMeta *metadata.Table) string {
	var b strings.Builder
	b.WriteString("-- Validate NOT NULL columns\n")
	fmt.Fprintf(&b, "SELECT COUNT(*) INTO V_ERROR_MESSAGE\nFROM %s.%s\nWHERE 1=1", g.Schema, targetTable)

	if targetMeta != nil {
		for _, col := range targetMeta.Columns {
			if !col.Nullable {
				fmt.Fprintf(&b, "\n  AND %s IS NOT NULL", col.Name)
			}
		}
	}

	b.WriteString("\nGROUP BY 1\nHAVING COUNT(*) = 0;")
	return b.String()
}

// Procedures returns the procedures generated so far, in generation order.
func (g *Generator) Procedures() []GeneratedProcedure {
	return g.procedures
}

// DeploymentScript folds every generated procedure into one deployment file:
// role setup, all procedure bodies, then CALL statements for each.
func (g *Generator) DeploymentScript() string {
	log.Info().Int("procedures", len(g.procedures)).Msg("generating deployment script")

	var b strings.Builder
	b.WriteString("-- Stored Procedure Deployment Script\n")
	fmt.Fprintf(&b, "-- Generated: %s\n", g.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "-- Total Procedures: %d\n\n", len(g.procedures))
	b.WriteString("USE ROLE SYSADMIN;\n\n")

	for _, proc := range g.procedures {
		fmt.Fprintf(&b, "-- Deploy: %s\n", proc.Name)
		b.WriteString(proc.SQL)
		b.WriteString("\n\n")
	}

	b.WriteString("-- Execute Procedures\n")
	b.WriteString("-- " + strings.Repeat("=", 50) + "\n\n")

	for _, proc := range g.procedures {
		fmt.Fprintf(&b, "CALL %s.%s(\n", targetSchema(proc.Target), proc.Name)
		b.WriteString("    P_LOAD_DATE => CURRENT_DATE(),\n")
		b.WriteString("    P_DEBUG_MODE => TRUE\n")
		b.WriteString(");\n\n")
	}

	return b.String()
}

// Documentation folds the generated set into a markdown reference.
func (g *Generator) Documentation() string {
	log.Info().Int("procedures", len(g.procedures)).Msg("generating procedure documentation")

	var b strings.Builder
	b.WriteString("# Stored Procedure Documentation\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", g.now().Format("2006-01-02 15:04:05"))

	for _, proc := range g.procedures {
		fmt.Fprintf(&b, "## %s\n\n", proc.Name)
		fmt.Fprintf(&b, "**Target Table:** %s\n", proc.Target)
		fmt.Fprintf(&b, "**Source Mapping:** %s\n\n", proc.Mapping)

		b.WriteString("### Parameters\n")
		b.WriteString("- `P_LOAD_DATE` (DATE): Load date for the data (default: CURRENT_DATE)\n")
		b.WriteString("- `P_BATCH_ID` (VARCHAR): Batch identifier (default: auto-generated)\n")
		b.WriteString("- `P_DEBUG_MODE` (BOOLEAN): Enable debug logging (default: FALSE)\n\n")

		b.WriteString("### Returns\n")
		b.WriteString("OBJECT containing:\n")
		b.WriteString("- `STATUS`: Execution status (SUCCESS/FAILED)\n")
		b.WriteString("- `ROWS_INSERTED`: Number of rows inserted\n")
		b.WriteString("- `ROWS_UPDATED`: Number of rows updated\n")
		b.WriteString("- `ROWS_DELETED`: Number of rows deleted\n")
		b.WriteString("- `ERROR_MESSAGE`: Error message if failed\n")
		b.WriteString("- `EXECUTION_TIME_SECONDS`: Total execution time\n")
		b.WriteString("- `BATCH_ID`: Batch identifier\n\n")

		b.WriteString("### Usage\n")
		b.WriteString("```sql\n")
		fmt.Fprintf(&b, "CALL %s.%s(\n", targetSchema(proc.Target), proc.Name)
		b.WriteString("    P_LOAD_DATE => CURRENT_DATE(),\n")
		b.WriteString("    P_DEBUG_MODE => TRUE\n")
		b.WriteString(");\n")
		b.WriteString("```\n\n")
	}

	return b.String()
}

func targetSchema(target string) string {
	if idx := strings.Index(target, "."); idx >= 0 {
		return target[:idx]
	}
	return target
}
