package mapper

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"dw-bridge/internal/dialect"
	"dw-bridge/internal/match"
	"dw-bridge/internal/metadata"
)

// ColumnMapping pairs one source column with a target column and carries the
// type transformation when the declared types cross a compatibility class.
type ColumnMapping struct {
	OracleColumn    string     `json:"oracle_column"`
	OracleType      string     `json:"oracle_type"`
	SnowflakeColumn string     `json:"snowflake_column,omitempty"`
	SnowflakeType   string     `json:"snowflake_type,omitempty"`
	MatchType       match.Kind `json:"match_type"`
	MatchScore      float64    `json:"match_score"`
	Transformation  string     `json:"transformation,omitempty"`
	NeedsReview     bool       `json:"manual_review_required,omitempty"`
}

// ColumnMapper maps column namespaces table by table. Accumulated state is
// keyed by SCHEMA.TABLE; not thread-safe.
type ColumnMapper struct {
	matcher *match.Matcher

	mappings map[string][]*ColumnMapping
	order    []string
}

func NewColumnMapper(m *match.Matcher) *ColumnMapper {
	if m == nil {
		m = match.New(0, nil, nil)
	}
	return &ColumnMapper{
		matcher:  m,
		mappings: make(map[string][]*ColumnMapping),
	}
}

// MapColumns maps every column of the source table against the target table.
// Manual overrides win; otherwise the matcher cascade runs; unmatched columns
// are flagged for review. useTypeHints controls transformation derivation.
func (cm *ColumnMapper) MapColumns(src, tgt *metadata.Table, manual map[string]string, useTypeHints bool) []*ColumnMapping {
	log.Info().
		Str("source", src.Key()).
		Str("target", tgt.Key()).
		Msg("mapping columns")

	key := src.Key()
	if _, seen := cm.mappings[key]; !seen {
		cm.order = append(cm.order, key)
	}
	cm.mappings[key] = nil

	targetByName := make(map[string]*metadata.Column, len(tgt.Columns))
	for _, c := range tgt.Columns {
		targetByName[c.Name] = c
	}
	targetNames := tgt.ColumnNames()

	for _, col := range src.Columns {
		if override, ok := manual[col.Name]; ok {
			if tcol := targetByName[override]; tcol != nil {
				cm.append(key, &ColumnMapping{
					OracleColumn:    col.Name,
					OracleType:      col.DataType,
					SnowflakeColumn: tcol.Name,
					SnowflakeType:   tcol.DataType,
					MatchType:       match.KindManual,
					MatchScore:      1.0,
					Transformation:  cm.typeTransformation(col, tcol, useTypeHints),
				})
				log.Debug().Str("column", col.Name).Str("target", tcol.Name).Msg("manual column mapping")
				continue
			}
			log.Warn().Str("column", col.Name).Str("override", override).Msg("manual override names unknown target column, falling through to matcher")
		}

		if res := cm.matcher.FindBestMatch(col.Name, targetNames, true); res != nil {
			tcol := targetByName[res.Name]
			m := &ColumnMapping{
				OracleColumn:    col.Name,
				OracleType:      col.DataType,
				SnowflakeColumn: res.Name,
				MatchType:       res.Kind,
				MatchScore:      res.Score,
			}
			if tcol != nil {
				m.SnowflakeType = tcol.DataType
				m.Transformation = cm.typeTransformation(col, tcol, useTypeHints)
			}
			cm.append(key, m)
			continue
		}

		cm.append(key, &ColumnMapping{
			OracleColumn: col.Name,
			OracleType:   col.DataType,
			MatchType:    match.KindUnmapped,
			MatchScore:   0,
			NeedsReview:  true,
		})
		log.Warn().Str("table", key).Str("column", col.Name).Msg("no column match found")
	}

	return cm.mappings[key]
}

func (cm *ColumnMapper) append(key string, m *ColumnMapping) {
	cm.mappings[key] = append(cm.mappings[key], m)
}

// typeTransformation emits the cast expression needed to move a value between
// declared types. Same compatibility class means no transformation; two
// specialized rules truncate instead of casting.
func (cm *ColumnMapper) typeTransformation(src, tgt *metadata.Column, useTypeHints bool) string {
	if !useTypeHints {
		return ""
	}
	srcType := strings.ToUpper(src.DataType)
	tgtType := strings.ToUpper(tgt.DataType)

	// Bounded string into a shorter bounded string: truncation is needed even
	// when the classes agree, so this check runs before the compatibility
	// early-out.
	if strings.Contains(srcType, "VARCHAR") && strings.Contains(tgtType, "CHAR") &&
		tgt.Length > 0 && src.Length > tgt.Length {
		return fmt.Sprintf("SUBSTRING(%s, 1, %d)", src.Name, tgt.Length)
	}

	if dialect.Compatible(srcType, tgtType) {
		return ""
	}

	// Large text into a bounded string: truncate to the declared length.
	if strings.Contains(srcType, "CLOB") && strings.Contains(tgtType, "VARCHAR") {
		length := tgt.Length
		if length == 0 {
			length = 8000
		}
		return fmt.Sprintf("CAST(%s AS VARCHAR(%d))", src.Name, length)
	}

	if strings.Contains(srcType, "BLOB") && strings.Contains(tgtType, "BINARY") {
		return fmt.Sprintf("CAST(%s AS BINARY)", src.Name)
	}

	if srcType != tgtType {
		return fmt.Sprintf("CAST(%s AS %s)", src.Name, tgtType)
	}
	return ""
}

// Mappings returns the mappings recorded for one SCHEMA.TABLE key.
func (cm *ColumnMapper) Mappings(tableKey string) []*ColumnMapping {
	return cm.mappings[tableKey]
}

// UnmappedColumns lists source columns without a target in one table.
func (cm *ColumnMapper) UnmappedColumns(tableKey string) []string {
	var out []string
	for _, m := range cm.mappings[tableKey] {
		if m.MatchType == match.KindUnmapped {
			out = append(out, m.OracleColumn)
		}
	}
	return out
}

// TransformedColumns returns column -> transformation SQL for one table.
func (cm *ColumnMapper) TransformedColumns(tableKey string) map[string]string {
	out := make(map[string]string)
	for _, m := range cm.mappings[tableKey] {
		if m.Transformation != "" {
			out[m.OracleColumn] = m.Transformation
		}
	}
	return out
}

type ColumnSummary struct {
	TotalTables     int     `json:"total_tables"`
	TotalColumns    int     `json:"total_columns"`
	MappedColumns   int     `json:"mapped_columns"`
	UnmappedColumns int     `json:"unmapped_columns"`
	Transformations int     `json:"columns_needing_transformation"`
	SuccessRate     float64 `json:"mapping_success_rate"`
}

func (cm *ColumnMapper) Summary() ColumnSummary {
	s := ColumnSummary{TotalTables: len(cm.mappings)}
	for _, cols := range cm.mappings {
		for _, m := range cols {
			s.TotalColumns++
			if m.SnowflakeColumn != "" {
				s.MappedColumns++
			}
			if m.Transformation != "" {
				s.Transformations++
			}
		}
	}
	s.UnmappedColumns = s.TotalColumns - s.MappedColumns
	if s.TotalColumns > 0 {
		s.SuccessRate = float64(s.MappedColumns) / float64(s.TotalColumns) * 100
	}
	return s
}

// SelectList builds a SELECT list from the stored mappings, applying the
// transformation expression per mapped column when present.
func (cm *ColumnMapper) SelectList(tableKey, alias string) string {
	cols := cm.mappings[tableKey]
	if len(cols) == 0 {
		return ""
	}
	if alias == "" {
		alias = "SRC"
	}

	var parts []string
	for _, m := range cols {
		if m.SnowflakeColumn == "" {
			continue
		}
		if m.Transformation != "" {
			parts = append(parts, fmt.Sprintf("%s AS %s", m.Transformation, m.SnowflakeColumn))
		} else {
			parts = append(parts, fmt.Sprintf("%s.%s AS %s", alias, m.OracleColumn, m.SnowflakeColumn))
		}
	}
	return "SELECT\n    " + strings.Join(parts, ",\n    ")
}

// InsertLists builds the INSERT column list and matching value list.
func (cm *ColumnMapper) InsertLists(tableKey string) (columns, values string) {
	var cols, vals []string
	for _, m := range cm.mappings[tableKey] {
		if m.SnowflakeColumn == "" {
			continue
		}
		cols = append(cols, m.SnowflakeColumn)
		vals = append(vals, "SRC."+m.OracleColumn)
	}
	return strings.Join(cols, ", "), strings.Join(vals, ", ")
}
