package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/garyjia/room-invoice-admin/internal/presentation"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices and occupied rooms",
	Example: `  # Table output
  invoicectl list

  # Machine readable
  invoicectl list --json`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().Bool("json", false, "Print rows as JSON")
	listCmd.Flags().Bool("rooms", false, "Also print the occupied rooms")
}

func runList(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	withRooms, _ := cmd.Flags().GetBool("rooms")

	board := app.Lists().LoadAll(cmd.Context())
	mapper := app.Mapper()
	rows := mapper.Rows(board.Invoices)
	rooms := mapper.RoomOptions(board.Rooms)

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"invoices": rows,
			"rooms":    rooms,
			"error":    board.Error,
		})
	}

	if board.Error != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", board.Error)
	}
	writeRows(out, rows)
	if withRooms {
		fmt.Fprintln(out)
		writeRooms(out, rooms)
	}
	return nil
}

func writeRows(out io.Writer, rows []presentation.InvoiceRow) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCREATED\tROOM\tCONTENT\tTOTAL\tSTATUS\tTYPE\tCREATED BY\tID")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Index, r.CreatedDate, r.RoomNumber, r.Content, r.Amount,
			r.PaymentStatus, r.PaymentType, r.CreatedBy, r.ID)
	}
	tw.Flush()
}

func writeRooms(out io.Writer, rooms []presentation.RoomOption) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROOM\tID")
	for _, r := range rooms {
		fmt.Fprintf(tw, "%s\t%s\n", r.Label, r.Value)
	}
	tw.Flush()
}
