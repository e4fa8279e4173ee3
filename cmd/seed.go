package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"dw-bridge/internal/metadata"
	"dw-bridge/internal/seed"
)

var (
	seedSnap  string
	seedTable string
	seedRows  int
	seedValue uint64
	seedOut   string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate sample INSERT statements for a target table",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := metadata.LoadSnapshot(seedSnap)
		if err != nil {
			return err
		}

		table := findTable(snap, seedTable)
		if table == nil {
			return fmt.Errorf("table %s not found in snapshot %s", seedTable, seedSnap)
		}

		stmts := seed.New(seedValue).Statements(table, seedRows)
		script := strings.Join(stmts, "\n") + "\n"

		if seedOut == "" {
			fmt.Print(script)
			return nil
		}
		if err := os.WriteFile(seedOut, []byte(script), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", seedOut, err)
		}
		log.Info().Str("path", seedOut).Int("rows", seedRows).Msg("seed script written")
		return nil
	},
}

// findTable accepts either TABLE or SCHEMA.TABLE.
func findTable(snap *metadata.Snapshot, name string) *metadata.Table {
	want := strings.ToUpper(name)
	for _, s := range snap.Schemas {
		for _, t := range s.Tables {
			if strings.ToUpper(t.Name) == want || strings.ToUpper(t.Key()) == want {
				return t
			}
		}
	}
	return nil
}

func init() {
	RootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedSnap, "snapshot", "target_snapshot.json", "metadata snapshot holding the table")
	seedCmd.Flags().StringVarP(&seedTable, "table", "t", "", "table name (TABLE or SCHEMA.TABLE)")
	seedCmd.Flags().IntVar(&seedRows, "rows", 10, "number of rows to generate")
	seedCmd.Flags().Uint64Var(&seedValue, "seed", 0, "random seed (0 means non-deterministic)")
	seedCmd.Flags().StringVarP(&seedOut, "out", "o", "", "output file (default stdout)")

	seedCmd.MarkFlagRequired("table")
}
