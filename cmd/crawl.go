package cmd

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/gosuri/uiprogress"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"dw-bridge/internal/crawler"
	"dw-bridge/internal/dialect"
	"dw-bridge/internal/metadata"
)

var (
	crawlSide string
	crawlOut  string
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Extract schema metadata from one side into a snapshot file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if crawlOut == "" {
			crawlOut = crawlSide + "_snapshot.json"
		}

		conn, err := GetConnection(crawlSide)
		if err != nil {
			return err
		}

		db, err := sql.Open(conn.Driver, conn.DSN)
		if err != nil {
			return fmt.Errorf("failed to open %s database: %w", crawlSide, err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			return fmt.Errorf("failed to connect to %s database: %w", crawlSide, err)
		}

		d := dialect.Get(conn.Driver)
		log.Info().Str("dialect", d.Name()).Str("side", crawlSide).Msg("starting crawl")

		schemas := conn.Schemas
		if len(schemas) == 0 {
			schemas = []string{d.DefaultSchema()}
		}

		uiprogress.Start()
		bar := uiprogress.AddBar(len(schemas)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Crawling: "
		})

		snap := &metadata.Snapshot{Side: crawlSide, GeneratedBy: "dw-bridge"}
		var failed int
		for _, name := range schemas {
			s, err := crawler.Crawl(db, d, conn.Database, name)
			if err != nil {
				// One unreadable schema must not sink the whole run.
				log.Error().Err(err).Str("schema", name).Msg("schema crawl failed")
				failed++
				bar.Incr()
				continue
			}
			snap.Schemas = append(snap.Schemas, s)
			bar.Incr()
		}
		uiprogress.Stop()

		if len(snap.Schemas) == 0 {
			return fmt.Errorf("no schema crawled successfully (%d failed)", failed)
		}
		if err := metadata.SaveSnapshot(crawlOut, snap); err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Schema", "Tables", "Columns"})
		for _, s := range snap.Schemas {
			cols := 0
			for _, t := range s.Tables {
				cols += len(t.Columns)
			}
			table.Append([]string{s.Name, fmt.Sprintf("%d", len(s.Tables)), fmt.Sprintf("%d", cols)})
		}
		table.Render()

		if failed > 0 {
			log.Warn().Int("failed", failed).Msg("some schemas could not be crawled")
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(crawlCmd)

	crawlCmd.Flags().StringVar(&crawlSide, "side", "source", "connection side to crawl (source or target)")
	crawlCmd.Flags().StringVarP(&crawlOut, "out", "o", "", "snapshot output path (default <side>_snapshot.json)")
}
