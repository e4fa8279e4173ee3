package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosuri/uiprogress"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"dw-bridge/internal/generate"
	"dw-bridge/internal/graph"
	"dw-bridge/internal/metadata"
)

var (
	genMappingsDir string
	genTargetSnap  string
	genSchema      string
	genOutDir      string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate Snowflake load procedures from transformation mappings",
	RunE: func(cmd *cobra.Command, args []string) error {
		mappings, err := graph.ParseDir(genMappingsDir)
		if err != nil {
			return err
		}
		if len(mappings) == 0 {
			return fmt.Errorf("no mappings found in %s", genMappingsDir)
		}

		// Target metadata is optional; without it procedures fall back to the
		// default merge key and skip NOT NULL checks.
		targetTables := make(map[string]*metadata.Table)
		if genTargetSnap != "" {
			snap, err := metadata.LoadSnapshot(genTargetSnap)
			if err != nil {
				return err
			}
			for _, s := range snap.Schemas {
				for _, t := range s.Tables {
					targetTables[strings.ToUpper(t.Name)] = t
				}
			}
		}

		if err := os.MkdirAll(genOutDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir %s: %w", genOutDir, err)
		}

		gen := generate.New(genSchema)

		uiprogress.Start()
		bar := uiprogress.AddBar(len(mappings)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Generating: "
		})

		var failed int
		for _, m := range mappings {
			var targetMeta *metadata.Table
			if len(m.Targets) > 0 {
				targetMeta = targetTables[strings.ToUpper(m.Targets[0].Name)]
			}

			proc, err := gen.Generate(m, targetMeta)
			if err != nil {
				log.Error().Err(err).Str("mapping", m.Name).Msg("procedure generation failed")
				failed++
				bar.Incr()
				continue
			}

			if ok, issues := gen.Translator().Validate(proc.SQL); !ok {
				log.Warn().Str("procedure", proc.Name).Strs("issues", issues).Msg("generated SQL failed validation")
			}

			path := filepath.Join(genOutDir, proc.Name+".sql")
			if err := os.WriteFile(path, []byte(proc.SQL), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			bar.Incr()
		}
		uiprogress.Stop()

		if len(gen.Procedures()) == 0 {
			return fmt.Errorf("all %d mappings failed to generate", failed)
		}

		deployPath := filepath.Join(genOutDir, "00_DEPLOYMENT.sql")
		if err := os.WriteFile(deployPath, []byte(gen.DeploymentScript()), 0o644); err != nil {
			return fmt.Errorf("failed to write deployment script: %w", err)
		}
		docPath := filepath.Join(genOutDir, "PROCEDURES.md")
		if err := os.WriteFile(docPath, []byte(gen.Documentation()), 0o644); err != nil {
			return fmt.Errorf("failed to write documentation: %w", err)
		}

		log.Info().
			Int("procedures", len(gen.Procedures())).
			Int("failed", failed).
			Str("dir", genOutDir).
			Msg("generation complete")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&genMappingsDir, "mappings", "m", "mappings", "directory of transformation mapping XML exports")
	generateCmd.Flags().StringVar(&genTargetSnap, "target-snapshot", "", "target metadata snapshot (supplies merge keys and quality checks)")
	generateCmd.Flags().StringVar(&genSchema, "schema", "PUBLIC", "target Snowflake schema")
	generateCmd.Flags().StringVarP(&genOutDir, "out", "o", "output/stored_procedures", "output directory")
}
