package crawler

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"dw-bridge/internal/dialect"
	"dw-bridge/internal/metadata"
)

// Crawl introspects one schema through the dialect's metadata queries and
// returns its extracted shape. The schema name is passed as the single bind
// parameter of every query; an empty name falls back to the dialect default.
func Crawl(db *sql.DB, d dialect.Dialect, database, schemaName string) (*metadata.Schema, error) {
	if schemaName == "" {
		schemaName = d.DefaultSchema()
	}
	if schemaName == "" {
		return nil, fmt.Errorf("no schema name given and dialect %s has no default", d.Name())
	}

	log.Info().Str("dialect", d.Name()).Str("schema", schemaName).Msg("crawling schema")

	// Normalized uppercase keys make the column and key phases robust against
	// engines that report identifiers in differing case.
	tableMap := make(map[string]*metadata.Table)
	schema := &metadata.Schema{
		Database:    database,
		Name:        schemaName,
		ExtractedAt: time.Now().UTC(),
	}

	rows, err := db.Query(d.TablesQuery(), schemaName)
	if err != nil {
		return nil, fmt.Errorf("querying tables for %s: %w", schemaName, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		t := &metadata.Table{Schema: schemaName, Name: name}
		tableMap[strings.ToUpper(name)] = t
		schema.Tables = append(schema.Tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tables: %w", err)
	}

	if err := crawlColumns(db, d, schemaName, tableMap); err != nil {
		return nil, err
	}
	if err := crawlPrimaryKeys(db, d, schemaName, tableMap); err != nil {
		return nil, err
	}

	log.Info().Int("tables", len(schema.Tables)).Str("schema", schemaName).Msg("schema crawled")
	return schema, nil
}

func crawlColumns(db *sql.DB, d dialect.Dialect, schemaName string, tableMap map[string]*metadata.Table) error {
	rows, err := db.Query(d.ColumnsQuery(), schemaName)
	if err != nil {
		return fmt.Errorf("querying columns for %s: %w", schemaName, err)
	}
	defer rows.Close()

	for rows.Next() {
		var tName, cName, dType, nullable, comment sql.NullString
		var length, precision, scale sql.NullInt64

		if err := rows.Scan(&tName, &cName, &dType, &length, &precision, &scale, &nullable, &comment); err != nil {
			return fmt.Errorf("scanning column row: %w", err)
		}
		if !tName.Valid || !cName.Valid {
			log.Warn().Msg("skipping column row with missing identifiers")
			continue
		}

		t, ok := tableMap[strings.ToUpper(tName.String)]
		if !ok {
			// Columns of views or tables filtered from the table phase.
			continue
		}

		t.Columns = append(t.Columns, &metadata.Column{
			Name:      cName.String,
			DataType:  d.NormalizeType(dType.String),
			Length:    int(length.Int64),
			Precision: int(precision.Int64),
			Scale:     int(scale.Int64),
			Nullable:  isNullable(nullable.String),
			Comment:   comment.String,
		})
	}
	return rows.Err()
}

func crawlPrimaryKeys(db *sql.DB, d dialect.Dialect, schemaName string, tableMap map[string]*metadata.Table) error {
	rows, err := db.Query(d.PrimaryKeysQuery(), schemaName)
	if err != nil {
		return fmt.Errorf("querying primary keys for %s: %w", schemaName, err)
	}
	defer rows.Close()

	for rows.Next() {
		var tName, cName sql.NullString
		if err := rows.Scan(&tName, &cName); err != nil {
			return fmt.Errorf("scanning primary key row: %w", err)
		}
		if !tName.Valid || !cName.Valid {
			continue
		}

		t, ok := tableMap[strings.ToUpper(tName.String)]
		if !ok {
			continue
		}
		t.PrimaryKeys = append(t.PrimaryKeys, cName.String)
		if col := t.GetColumn(cName.String); col != nil {
			col.IsPrimaryKey = true
		}
	}
	return rows.Err()
}

// isNullable folds the per-engine nullability spellings: Oracle reports Y/N,
// the INFORMATION_SCHEMA engines YES/NO.
func isNullable(v string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(v)), "Y")
}
