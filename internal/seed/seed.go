package seed

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog/log"

	"dw-bridge/internal/dialect"
	"dw-bridge/internal/metadata"
)

// Generator produces sample INSERT statements for a target table, used to
// smoke-test generated procedures against a freshly created schema.
type Generator struct {
	faker *gofakeit.Faker
}

// New returns a generator. A non-zero seed makes the output reproducible.
func New(seed uint64) *Generator {
	if seed == 0 {
		return &Generator{faker: gofakeit.New(0)}
	}
	return &Generator{faker: gofakeit.New(seed)}
}

// Statements generates rows INSERT statements for the table. Primary key
// columns get sequential values so repeated runs stay collision-free within
// one batch.
func (g *Generator) Statements(t *metadata.Table, rows int) []string {
	cols := t.ColumnNames()
	out := make([]string, 0, rows)

	for row := 1; row <= rows; row++ {
		vals := make([]string, 0, len(t.Columns))
		for _, col := range t.Columns {
			vals = append(vals, g.literal(col, row))
		}
		out = append(out, fmt.Sprintf(
			"INSERT INTO %s.%s (%s) VALUES (%s);",
			t.Schema, t.Name, strings.Join(cols, ", "), strings.Join(vals, ", "),
		))
	}

	log.Info().Str("table", t.Key()).Int("rows", rows).Msg("sample data generated")
	return out
}

// literal renders one SQL literal for a column, using name hints first and
// the type class as fallback.
func (g *Generator) literal(col *metadata.Column, row int) string {
	name := strings.ToLower(col.Name)
	class := dialect.Classify(col.DataType)

	if col.IsPrimaryKey {
		if class == dialect.ClassString {
			return quote(fmt.Sprintf("%s_%06d", strings.ToUpper(col.Name), row))
		}
		return fmt.Sprintf("%d", row)
	}

	switch class {
	case dialect.ClassString:
		return quote(truncate(g.stringValue(name), col.Length))

	case dialect.ClassNumeric:
		if col.Scale > 0 {
			return fmt.Sprintf("%.2f", g.faker.Price(0.99, 9999.99))
		}
		return fmt.Sprintf("%d", g.numberValue(name, col.Precision))

	case dialect.ClassTemporal:
		v := g.faker.DateRange(time.Now().AddDate(-1, 0, 0), time.Now())
		if strings.Contains(strings.ToUpper(col.DataType), "DATE") &&
			!strings.Contains(strings.ToUpper(col.DataType), "TIME") {
			return quote(v.Format("2006-01-02"))
		}
		return quote(v.Format("2006-01-02 15:04:05"))

	case dialect.ClassBinary:
		return "TO_BINARY('73616D706C65', 'HEX')"
	}

	if col.Nullable {
		return "NULL"
	}
	return quote("")
}

func (g *Generator) stringValue(name string) string {
	switch {
	case strings.Contains(name, "email"):
		return g.faker.Email()
	case strings.Contains(name, "phone"):
		return g.faker.Phone()
	case strings.Contains(name, "first"):
		return g.faker.FirstName()
	case strings.Contains(name, "last"):
		return g.faker.LastName()
	case strings.Contains(name, "name"):
		return g.faker.Name()
	case strings.Contains(name, "address") || strings.Contains(name, "street"):
		return g.faker.Street()
	case strings.Contains(name, "city"):
		return g.faker.City()
	case strings.Contains(name, "country"):
		return g.faker.Country()
	case strings.Contains(name, "zip") || strings.Contains(name, "postal"):
		return g.faker.Zip()
	case strings.HasPrefix(name, "is_") || strings.Contains(name, "active") || strings.Contains(name, "enabled"):
		if g.faker.Bool() {
			return "Y"
		}
		return "N"
	case strings.Contains(name, "status"):
		return g.faker.RandomString([]string{"NEW", "ACTIVE", "CLOSED"})
	}
	return g.faker.Word()
}

func (g *Generator) numberValue(name string, precision int) int {
	if strings.Contains(name, "year") {
		return g.faker.Number(2000, 2025)
	}

	max := 50000
	if precision > 0 && precision < 10 {
		limit := 1
		for i := 0; i < precision; i++ {
			limit *= 10
		}
		if limit-1 < max {
			max = limit - 1
		}
		if max < 1 {
			max = 9
		}
	}
	return g.faker.Number(1, max)
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return s
}

// quote renders a single-quoted SQL literal, doubling embedded quotes.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
