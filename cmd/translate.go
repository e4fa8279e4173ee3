package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"dw-bridge/internal/translate"
)

var translateColumn string

var translateCmd = &cobra.Command{
	Use:   "translate <expression>",
	Short: "Translate one transformation expression to Snowflake SQL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tr := translate.New()
		out := tr.Translate(args[0], translateColumn)
		fmt.Println(out)

		if ok, issues := tr.Validate(out); !ok {
			for _, issue := range issues {
				fmt.Println("warning:", issue)
			}
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVar(&translateColumn, "column", "", "column name recorded in the audit log")
}
