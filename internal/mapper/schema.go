package mapper

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"dw-bridge/internal/match"
	"dw-bridge/internal/metadata"
)

// DefaultTargetSchema is where unmatched source schemas are routed. The
// mapping is marked for review, but downstream generation always receives a
// concrete target namespace.
const DefaultTargetSchema = "PUBLIC"

// SchemaMapping pairs one Oracle schema with a Snowflake schema.
type SchemaMapping struct {
	OracleSchema    string     `json:"oracle_schema"`
	SnowflakeSchema string     `json:"snowflake_schema"`
	MatchType       match.Kind `json:"match_type"`
	MatchScore      float64    `json:"match_score"`
	TableCount      int        `json:"table_count"`
	NeedsReview     bool       `json:"manual_review_required,omitempty"`
}

// TableMapping pairs one Oracle table with a fully qualified Snowflake table
// path (DATABASE.SCHEMA.TABLE). SnowflakePath is empty when unmapped.
type TableMapping struct {
	OracleSchema  string     `json:"oracle_schema"`
	OracleTable   string     `json:"oracle_table"`
	SnowflakePath string     `json:"snowflake_table_path,omitempty"`
	MatchType     match.Kind `json:"match_type"`
	MatchScore    float64    `json:"match_score"`
	NeedsReview   bool       `json:"manual_review_required,omitempty"`
}

func (m *TableMapping) Key() string {
	return m.OracleSchema + "." + m.OracleTable
}

// SchemaMapper maps schema and table namespaces. One instance per migration
// run; the accumulated mappings are plain maps and slices, not thread-safe.
type SchemaMapper struct {
	matcher *match.Matcher

	schemaMappings map[string]*SchemaMapping
	schemaOrder    []string
	tableMappings  map[string]*TableMapping
	tableOrder     []string
}

func NewSchemaMapper(m *match.Matcher) *SchemaMapper {
	if m == nil {
		m = match.New(0, nil, nil)
	}
	return &SchemaMapper{
		matcher:        m,
		schemaMappings: make(map[string]*SchemaMapping),
		tableMappings:  make(map[string]*TableMapping),
	}
}

// MapSchemas pairs every source schema with a target schema. Manual overrides
// win unconditionally; absent a match the schema is routed to the default
// namespace with match_type=default and flagged for review.
func (sm *SchemaMapper) MapSchemas(src, tgt []*metadata.Schema, manual map[string]string) []*SchemaMapping {
	log.Info().Int("source_schemas", len(src)).Int("target_schemas", len(tgt)).Msg("mapping schemas")

	sm.schemaMappings = make(map[string]*SchemaMapping)
	sm.schemaOrder = sm.schemaOrder[:0]

	targetNames := make([]string, 0, len(tgt))
	for _, s := range tgt {
		targetNames = append(targetNames, s.Name)
	}

	for _, schema := range src {
		name := schema.Name

		if override, ok := manual[name]; ok {
			sm.record(&SchemaMapping{
				OracleSchema:    name,
				SnowflakeSchema: override,
				MatchType:       match.KindManual,
				MatchScore:      1.0,
				TableCount:      len(schema.Tables),
			})
			log.Info().Str("oracle", name).Str("snowflake", override).Msg("manual schema mapping")
			continue
		}

		if res := sm.matcher.FindBestMatch(name, targetNames, true); res != nil {
			sm.record(&SchemaMapping{
				OracleSchema:    name,
				SnowflakeSchema: res.Name,
				MatchType:       res.Kind,
				MatchScore:      res.Score,
				TableCount:      len(schema.Tables),
			})
			continue
		}

		sm.record(&SchemaMapping{
			OracleSchema:    name,
			SnowflakeSchema: DefaultTargetSchema,
			MatchType:       match.KindDefault,
			MatchScore:      0,
			TableCount:      len(schema.Tables),
			NeedsReview:     true,
		})
		log.Warn().Str("schema", name).Str("default", DefaultTargetSchema).Msg("no schema match, routed to default namespace")
	}

	return sm.SchemaMappings()
}

func (sm *SchemaMapper) record(m *SchemaMapping) {
	sm.schemaMappings[m.OracleSchema] = m
	sm.schemaOrder = append(sm.schemaOrder, m.OracleSchema)
}

// TargetSchema resolves a source schema to its mapped target schema, falling
// back to the default namespace for unknown schemas.
func (sm *SchemaMapper) TargetSchema(oracleSchema string) string {
	if m, ok := sm.schemaMappings[oracleSchema]; ok {
		return m.SnowflakeSchema
	}
	return DefaultTargetSchema
}

// MapTables pairs tables across schemas. Schema mapping is computed implicitly
// when MapSchemas has not run yet.
func (sm *SchemaMapper) MapTables(src, tgt []*metadata.Schema, manual map[string]string) []*TableMapping {
	log.Info().Msg("mapping tables across schemas")

	sm.tableMappings = make(map[string]*TableMapping)
	sm.tableOrder = sm.tableOrder[:0]

	if len(sm.schemaMappings) == 0 {
		sm.MapSchemas(src, tgt, nil)
	}

	targetByName := make(map[string]*metadata.Schema, len(tgt))
	for _, s := range tgt {
		targetByName[s.Name] = s
	}

	for _, schema := range src {
		targetSchemaName := sm.TargetSchema(schema.Name)
		targetSchema := targetByName[targetSchemaName]

		var targetTables []string
		var targetDB string
		if targetSchema != nil {
			targetTables = targetSchema.TableNames()
			targetDB = targetSchema.Database
		}

		log.Info().Str("schema", schema.Name).Int("tables", len(schema.Tables)).Msg("mapping tables")

		for _, table := range schema.Tables {
			key := schema.Name + "." + table.Name

			if override, ok := manual[key]; ok {
				sm.recordTable(&TableMapping{
					OracleSchema:  schema.Name,
					OracleTable:   table.Name,
					SnowflakePath: override,
					MatchType:     match.KindManual,
					MatchScore:    1.0,
				})
				log.Debug().Str("table", key).Str("target", override).Msg("manual table mapping")
				continue
			}

			if res := sm.matcher.FindBestMatch(table.Name, targetTables, true); res != nil {
				path := fmt.Sprintf("%s.%s.%s", targetDB, targetSchemaName, res.Name)
				sm.recordTable(&TableMapping{
					OracleSchema:  schema.Name,
					OracleTable:   table.Name,
					SnowflakePath: path,
					MatchType:     res.Kind,
					MatchScore:    res.Score,
				})
				continue
			}

			sm.recordTable(&TableMapping{
				OracleSchema: schema.Name,
				OracleTable:  table.Name,
				MatchType:    match.KindUnmapped,
				MatchScore:   0,
				NeedsReview:  true,
			})
			log.Warn().Str("table", key).Msg("no table match found")
		}
	}

	return sm.TableMappings()
}

func (sm *SchemaMapper) recordTable(m *TableMapping) {
	sm.tableMappings[m.Key()] = m
	sm.tableOrder = append(sm.tableOrder, m.Key())
}

// SchemaMappings returns schema mappings in source order.
func (sm *SchemaMapper) SchemaMappings() []*SchemaMapping {
	out := make([]*SchemaMapping, 0, len(sm.schemaOrder))
	for _, k := range sm.schemaOrder {
		out = append(out, sm.schemaMappings[k])
	}
	return out
}

// TableMappings returns table mappings in source order.
func (sm *SchemaMapper) TableMappings() []*TableMapping {
	out := make([]*TableMapping, 0, len(sm.tableOrder))
	for _, k := range sm.tableOrder {
		out = append(out, sm.tableMappings[k])
	}
	return out
}

// TableMapping looks up a mapping by SCHEMA.TABLE key.
func (sm *SchemaMapper) TableMapping(key string) *TableMapping {
	return sm.tableMappings[key]
}

// UnmappedTables returns the keys of tables without a target path.
func (sm *SchemaMapper) UnmappedTables() []string {
	var keys []string
	for _, k := range sm.tableOrder {
		if sm.tableMappings[k].MatchType == match.KindUnmapped {
			keys = append(keys, k)
		}
	}
	return keys
}

type SchemaSummary struct {
	Total       int     `json:"total_schemas"`
	Automatic   int     `json:"automatic_matches"`
	Manual      int     `json:"manual_mappings"`
	Defaults    int     `json:"default_mappings"`
	SuccessRate float64 `json:"mapping_success_rate"`
}

func (sm *SchemaMapper) SchemaSummary() SchemaSummary {
	s := SchemaSummary{Total: len(sm.schemaMappings)}
	for _, m := range sm.schemaMappings {
		switch m.MatchType {
		case match.KindManual:
			s.Manual++
		case match.KindDefault:
			s.Defaults++
		default:
			s.Automatic++
		}
	}
	if s.Total > 0 {
		s.SuccessRate = float64(s.Total-s.Defaults) / float64(s.Total) * 100
	}
	return s
}

type TableSummary struct {
	Total       int                `json:"total_tables"`
	Mapped      int                `json:"mapped_tables"`
	Unmapped    int                `json:"unmapped_tables"`
	SuccessRate float64            `json:"mapping_success_rate"`
	ByMatchType map[match.Kind]int `json:"by_match_type"`
}

func (sm *SchemaMapper) TableSummary() TableSummary {
	s := TableSummary{
		Total:       len(sm.tableMappings),
		ByMatchType: make(map[match.Kind]int),
	}
	for _, m := range sm.tableMappings {
		if m.SnowflakePath != "" {
			s.Mapped++
		}
		s.ByMatchType[m.MatchType]++
	}
	s.Unmapped = s.Total - s.Mapped
	if s.Total > 0 {
		s.SuccessRate = float64(s.Mapped) / float64(s.Total) * 100
	}
	return s
}
