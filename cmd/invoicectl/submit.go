package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/garyjia/room-invoice-admin/internal/domain/entity"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Create or update an invoice",
	Long: `Create an invoice, or update one with --id.

When updating, the invoice's current images are the baseline: images passed
with --keep stay, the others are deleted, and every --file is uploaded.
Persisted images are never uploaded again.`,
	Example: `  # Create
  invoicectl submit --room 65f0c0 --created-by 65a1b2 --content "March rent" \
    --amount 1500000 --file receipt.jpg

  # Update, keeping one of the existing images
  invoicectl submit --id 6601aa --room 65f0c0 --keep https://cdn.example.com/img1.png \
    --file file2.png`,
	RunE: runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)
	addSubmitFlags(submitCmd.Flags())
}

func addSubmitFlags(f *pflag.FlagSet) {
	f.String("id", "", "Invoice id to update; empty creates a new invoice")
	f.String("room", "", "Room id the invoice is for")
	f.String("created-by", "", "User id of the creator")
	f.String("content", "", "Invoice content")
	f.String("type", "", "Invoice type")
	f.String("payment-type", entity.DefaultPaymentType, "Payment type (Cash or e-banking)")
	f.String("payment-status", entity.PaymentStatusPending, "Payment status (pending, paid, overdue)")
	f.String("notify-status", "", "Notify status")
	f.String("amount", "0", "Total amount")
	f.String("items", "[]", "Line items as a JSON array")
	f.String("note", "", "Note text")
	f.StringArray("keep", nil, "Persisted image url to keep (repeatable)")
	f.StringArray("file", nil, "Local image to upload (repeatable)")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	draft, err := draftFromFlags(cmd.Flags())
	if err != nil {
		return err
	}

	var baseline []entity.AttachmentRef
	if !draft.IsNew() {
		board := app.Lists().LoadAll(cmd.Context())
		inv := board.FindInvoice(draft.ID)
		if inv == nil {
			return fmt.Errorf("invoice %s not found", draft.ID)
		}
		baseline = inv.AttachmentRefs()
	}

	outcome := app.Submissions().Submit(cmd.Context(), draft, baseline)

	// the post-submit reload runs in the background; let it finish
	app.Refresher().Wait()

	fmt.Fprintf(cmd.OutOrStdout(), "submission %s: %s (status %d, kept %d, deleted %d, uploaded %d)\n",
		outcome.ID, outcome.State, outcome.StatusCode,
		len(outcome.Reconciliation.Kept), len(outcome.Reconciliation.Deleted), len(outcome.Uploaded))

	if !outcome.Succeeded {
		return fmt.Errorf("submission failed: %s", outcome.Message)
	}
	return nil
}

// draftFromFlags builds the draft the submit command sends. Kept urls come
// before new files in the attachment list.
func draftFromFlags(f *pflag.FlagSet) (*entity.InvoiceDraft, error) {
	draft := entity.NewDraft()

	draft.ID, _ = f.GetString("id")
	draft.RoomID, _ = f.GetString("room")
	draft.CreatedByUserID, _ = f.GetString("created-by")
	draft.Content, _ = f.GetString("content")
	draft.InvoiceType, _ = f.GetString("type")
	draft.PaymentType, _ = f.GetString("payment-type")
	draft.PaymentStatus, _ = f.GetString("payment-status")
	draft.NotifyStatus, _ = f.GetString("notify-status")
	draft.Note.Text, _ = f.GetString("note")

	amount, _ := f.GetString("amount")
	total, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, fmt.Errorf("invalid --amount: %w", err)
	}
	if total.IsNegative() {
		return nil, fmt.Errorf("--amount cannot be negative")
	}
	draft.TotalAmount = total

	items, _ := f.GetString("items")
	if err := json.Unmarshal([]byte(items), &draft.LineItems); err != nil {
		return nil, fmt.Errorf("--items must be a JSON array: %w", err)
	}
	if draft.LineItems == nil {
		draft.LineItems = []json.RawMessage{}
	}

	keep, _ := f.GetStringArray("keep")
	for _, u := range keep {
		draft.Note.Attachments = append(draft.Note.Attachments, entity.Persisted(u))
	}
	files, _ := f.GetStringArray("file")
	for _, path := range files {
		draft.Note.Attachments = append(draft.Note.Attachments, entity.Pending(entity.NewLocalFile(path)))
	}

	return draft, nil
}
