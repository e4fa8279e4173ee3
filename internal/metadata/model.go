package metadata

import (
	"strings"
	"time"
)

// Column is a read-only view of a crawled column. The mapping core never
// mutates these; they are shared between mapper and generator.
type Column struct {
	Name         string `json:"name"`
	DataType     string `json:"data_type"`
	Length       int    `json:"length,omitempty"`
	Precision    int    `json:"precision,omitempty"`
	Scale        int    `json:"scale,omitempty"`
	Nullable     bool   `json:"nullable"`
	IsPrimaryKey bool   `json:"is_primary_key"`
	Comment      string `json:"comment,omitempty"`
}

type Table struct {
	Schema      string    `json:"schema"`
	Name        string    `json:"table_name"`
	Columns     []*Column `json:"columns"`
	PrimaryKeys []string  `json:"primary_keys,omitempty"`
	RowCount    int64     `json:"row_count,omitempty"`
	Comment     string    `json:"comment,omitempty"`
}

// Key returns the SCHEMA.TABLE identifier used throughout the mapping layer.
func (t *Table) Key() string {
	return t.Schema + "." + t.Name
}

func (t *Table) GetColumn(name string) *Column {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

func (t *Table) PrimaryKeyColumns() []*Column {
	var pks []*Column
	for _, c := range t.Columns {
		if c.IsPrimaryKey {
			pks = append(pks, c)
		}
	}
	return pks
}

func (t *Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

type Schema struct {
	Database    string    `json:"database,omitempty"` // set on the Snowflake side
	Name        string    `json:"schema_name"`
	Tables      []*Table  `json:"tables"`
	ExtractedAt time.Time `json:"extraction_date"`
}

func (s *Schema) GetTable(name string) *Table {
	for _, t := range s.Tables {
		if strings.EqualFold(t.Name, name) {
			return t
		}
	}
	return nil
}

func (s *Schema) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		names = append(names, t.Name)
	}
	return names
}
