package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"dw-bridge/internal/mapper"
	"dw-bridge/internal/metadata"
)

var (
	mapSourceSnap string
	mapTargetSnap string
	mapOut        string
	mapColumns    bool
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Map source schemas, tables and columns onto the target",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := metadata.LoadSnapshot(mapSourceSnap)
		if err != nil {
			return err
		}
		tgt, err := metadata.LoadSnapshot(mapTargetSnap)
		if err != nil {
			return err
		}

		matcher := MatcherFromConfig()
		sm := mapper.NewSchemaMapper(matcher)

		sm.MapSchemas(src.Schemas, tgt.Schemas, upperKeys(SchemaOverrides()))
		sm.MapTables(src.Schemas, tgt.Schemas, upperKeys(TableOverrides()))

		if err := sm.Export(mapOut); err != nil {
			return err
		}

		printSchemaMappings(sm)
		printTableSummary(sm)

		if mapColumns {
			cm := mapper.NewColumnMapper(matcher)
			mapAllColumns(sm, cm, src.Schemas, tgt.Schemas)
			printColumnSummary(cm)
		}
		return nil
	},
}

// mapAllColumns runs column matching for every table pairing that resolved to
// a concrete target table.
func mapAllColumns(sm *mapper.SchemaMapper, cm *mapper.ColumnMapper, src, tgt []*metadata.Schema) {
	targetTables := make(map[string]*metadata.Table)
	for _, s := range tgt {
		for _, t := range s.Tables {
			targetTables[strings.ToUpper(s.Name+"."+t.Name)] = t
		}
	}

	for _, s := range src {
		for _, t := range s.Tables {
			m := sm.TableMapping(s.Name + "." + t.Name)
			if m == nil || m.SnowflakePath == "" {
				continue
			}
			// Strip the database qualifier off DATABASE.SCHEMA.TABLE.
			parts := strings.Split(m.SnowflakePath, ".")
			if len(parts) < 2 {
				continue
			}
			key := strings.ToUpper(parts[len(parts)-2] + "." + parts[len(parts)-1])
			target, ok := targetTables[key]
			if !ok {
				log.Warn().Str("path", m.SnowflakePath).Msg("mapped target table missing from snapshot")
				continue
			}
			cm.MapColumns(t, target, nil, true)
		}
	}
}

func printSchemaMappings(sm *mapper.SchemaMapper) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Oracle Schema", "Snowflake Schema", "Match", "Score", "Tables", "Review"})
	for _, m := range sm.SchemaMappings() {
		review := ""
		if m.NeedsReview {
			review = "yes"
		}
		table.Append([]string{
			m.OracleSchema,
			m.SnowflakeSchema,
			string(m.MatchType),
			fmt.Sprintf("%.2f", m.MatchScore),
			fmt.Sprintf("%d", m.TableCount),
			review,
		})
	}
	table.Render()
}

func printTableSummary(sm *mapper.SchemaMapper) {
	s := sm.TableSummary()
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Tables", "Mapped", "Unmapped", "Success"})
	table.Append([]string{
		fmt.Sprintf("%d", s.Total),
		fmt.Sprintf("%d", s.Mapped),
		fmt.Sprintf("%d", s.Unmapped),
		fmt.Sprintf("%.1f%%", s.SuccessRate),
	})
	table.Render()

	if unmapped := sm.UnmappedTables(); len(unmapped) > 0 {
		log.Warn().Strs("tables", unmapped).Msg("tables without a target mapping")
	}
}

func printColumnSummary(cm *mapper.ColumnMapper) {
	s := cm.Summary()
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Columns", "Mapped", "Unmapped", "Transformed", "Success"})
	table.Append([]string{
		fmt.Sprintf("%d", s.TotalColumns),
		fmt.Sprintf("%d", s.MappedColumns),
		fmt.Sprintf("%d", s.UnmappedColumns),
		fmt.Sprintf("%d", s.Transformations),
		fmt.Sprintf("%.1f%%", s.SuccessRate),
	})
	table.Render()
}

// upperKeys re-cases override keys: viper lowercases map keys, the mappers
// look identifiers up in upper case.
func upperKeys(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[strings.ToUpper(k)] = v
	}
	return out
}

func init() {
	RootCmd.AddCommand(mapCmd)

	mapCmd.Flags().StringVar(&mapSourceSnap, "source-snapshot", "source_snapshot.json", "source metadata snapshot")
	mapCmd.Flags().StringVar(&mapTargetSnap, "target-snapshot", "target_snapshot.json", "target metadata snapshot")
	mapCmd.Flags().StringVarP(&mapOut, "out", "o", "mappings.json", "mapping document output path")
	mapCmd.Flags().BoolVar(&mapColumns, "columns", true, "also run column-level matching for mapped tables")
}
