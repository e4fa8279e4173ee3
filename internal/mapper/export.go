package mapper

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// MappingDocument is the JSON export produced per schema pairing. Its keys are
// a stable contract consumed by downstream tooling; do not rename them.
type MappingDocument struct {
	SchemaMappings []*SchemaMapping `json:"schema_mappings"`
	TableMappings  []*TableMapping  `json:"table_mappings"`
	Summary        struct {
		Schemas SchemaSummary `json:"schemas"`
		Tables  TableSummary  `json:"tables"`
	} `json:"summary"`
}

// Export writes the current mappings plus summary statistics to a JSON file.
func (sm *SchemaMapper) Export(path string) error {
	doc := MappingDocument{
		SchemaMappings: sm.SchemaMappings(),
		TableMappings:  sm.TableMappings(),
	}
	doc.Summary.Schemas = sm.SchemaSummary()
	doc.Summary.Tables = sm.TableSummary()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal mappings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write mappings %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("mappings exported")
	return nil
}

// Load reconstructs mapper state from a previously exported document, so a
// reviewed mapping file can drive generation without re-running the matchers.
func (sm *SchemaMapper) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read mappings %s: %w", path, err)
	}
	var doc MappingDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse mappings %s: %w", path, err)
	}

	sm.schemaMappings = make(map[string]*SchemaMapping, len(doc.SchemaMappings))
	sm.schemaOrder = sm.schemaOrder[:0]
	for _, m := range doc.SchemaMappings {
		sm.record(m)
	}
	sm.tableMappings = make(map[string]*TableMapping, len(doc.TableMappings))
	sm.tableOrder = sm.tableOrder[:0]
	for _, m := range doc.TableMappings {
		sm.recordTable(m)
	}
	return nil
}
