package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the invoice list to an xlsx file",
	Example: `  invoicectl export
  invoicectl export --out march.xlsx`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("out", "o", "", "Output file (default: <export.output_dir>/invoices-<timestamp>.xlsx)")
}

func runExport(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = filepath.Join(appCfg.Export.OutputDir,
			fmt.Sprintf("invoices-%s.xlsx", time.Now().Format("20060102-150405")))
	}

	board := app.Lists().LoadAll(cmd.Context())
	if board.Error != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", board.Error)
	}

	if err := app.Exporter().ExportFile(board, out); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d invoices to %s\n", len(board.Invoices), out)
	return nil
}
