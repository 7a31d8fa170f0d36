package presentation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/garyjia/room-invoice-admin/internal/domain/entity"
)

// Badge variants understood by the console
const (
	VariantSuccess   = "success"
	VariantDanger    = "danger"
	VariantWarning   = "warning"
	VariantSecondary = "secondary"
	VariantInfo      = "info"
)

// Placeholder labels for missing row values
const (
	LabelNotSpecified = "Not specified"
	LabelNotAvailable = "N/A"
)

const maxFractionDigits = 3

// Config controls locale dependent formatting
type Config struct {
	Locale         string // BCP 47 tag, vi-VN by default
	CurrencySymbol string // appended after the number
	DateLayout     string // Go time layout for created dates
}

// DefaultConfig returns the Vietnamese formatting used by the console
func DefaultConfig() Config {
	return Config{
		Locale:         "vi-VN",
		CurrencySymbol: "₫",
		DateLayout:     "02/01/2006",
	}
}

// InvoiceRow is one display-ready line of the invoice table
type InvoiceRow struct {
	Index              int    `json:"index"`
	ID                 string `json:"id"`
	CreatedDate        string `json:"created_date"`
	RoomNumber         string `json:"room_number"`
	Content            string `json:"content"`
	Amount             string `json:"amount"`
	PaymentStatus      string `json:"payment_status"`
	StatusVariant      string `json:"status_variant"`
	PaymentType        string `json:"payment_type"`
	PaymentTypeVariant string `json:"payment_type_variant"`
	CreatedBy          string `json:"created_by"`
}

// RoomOption is an entry of the room picker
type RoomOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Mapper turns invoice data into display values. All methods are total.
type Mapper struct {
	cfg      Config
	groupSep string
	fracSep  string
}

// NewMapper creates a new Mapper. Empty or unparsable settings fall back to DefaultConfig.
func NewMapper(cfg Config) *Mapper {
	def := DefaultConfig()
	if cfg.Locale == "" {
		cfg.Locale = def.Locale
	}
	if cfg.CurrencySymbol == "" {
		cfg.CurrencySymbol = def.CurrencySymbol
	}
	if cfg.DateLayout == "" {
		cfg.DateLayout = def.DateLayout
	}

	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		tag = language.Vietnamese
	}

	groupSep, fracSep := separators(message.NewPrinter(tag))
	return &Mapper{
		cfg:      cfg,
		groupSep: groupSep,
		fracSep:  fracSep,
	}
}

// separators reads the locale's grouping and decimal marks off a sample number
func separators(p *message.Printer) (group, frac string) {
	sample := []rune(p.Sprint(number.Decimal(1234.5)))
	group, frac = ",", "."
	for i, r := range sample {
		if r >= '0' && r <= '9' {
			continue
		}
		if i == 1 {
			group = string(r)
		} else {
			frac = string(r)
		}
	}
	// locales that skip grouping at four digits
	if group == frac {
		group = "."
	}
	return group, frac
}

// FormatCurrency renders an amount with locale grouping and the currency suffix.
// Digits come from the decimal string so large amounts stay exact.
func (m *Mapper) FormatCurrency(amount decimal.Decimal) string {
	rounded := amount.Round(maxFractionDigits)
	intPart, fracPart, _ := strings.Cut(rounded.Abs().String(), ".")

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(m.groupSep)
		}
		b.WriteRune(d)
	}
	if fracPart = strings.TrimRight(fracPart, "0"); fracPart != "" {
		b.WriteString(m.fracSep)
		b.WriteString(fracPart)
	}
	b.WriteString(" ")
	b.WriteString(m.cfg.CurrencySymbol)
	return b.String()
}

// StatusVariant maps a payment status to its badge variant
func (m *Mapper) StatusVariant(status string) string {
	switch status {
	case entity.PaymentStatusPaid:
		return VariantSuccess
	case entity.PaymentStatusOverdue:
		return VariantDanger
	default:
		return VariantWarning
	}
}

// PaymentTypeVariant maps a payment type to its badge variant. Only the exact
// "Cash" spelling is treated as cash.
func (m *Mapper) PaymentTypeVariant(paymentType string) string {
	if paymentType == entity.PaymentTypeCash {
		return VariantSecondary
	}
	return VariantInfo
}

// FormatDate renders a created date, N/A when missing
func (m *Mapper) FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return LabelNotAvailable
	}
	return t.Format(m.cfg.DateLayout)
}

// FormatAmount renders the amount column, N/A for zero
func (m *Mapper) FormatAmount(amount decimal.Decimal) string {
	if amount.IsZero() {
		return LabelNotAvailable
	}
	return m.FormatCurrency(amount)
}

// Row maps one invoice; index is 1-based
func (m *Mapper) Row(index int, inv entity.Invoice) InvoiceRow {
	return InvoiceRow{
		Index:              index,
		ID:                 inv.ID,
		CreatedDate:        m.FormatDate(inv.CreatedAt),
		RoomNumber:         orLabel(inv.Room.RoomNumber),
		Content:            orLabel(inv.Content),
		Amount:             m.FormatAmount(inv.TotalAmount),
		PaymentStatus:      inv.PaymentStatus,
		StatusVariant:      m.StatusVariant(inv.PaymentStatus),
		PaymentType:        inv.PaymentType,
		PaymentTypeVariant: m.PaymentTypeVariant(inv.PaymentType),
		CreatedBy:          orLabel(inv.CreatedBy.FullName),
	}
}

// Rows maps invoices in order
func (m *Mapper) Rows(invoices []entity.Invoice) []InvoiceRow {
	rows := make([]InvoiceRow, 0, len(invoices))
	for i, inv := range invoices {
		rows = append(rows, m.Row(i+1, inv))
	}
	return rows
}

// RoomOptions maps occupied rooms to picker entries
func (m *Mapper) RoomOptions(rooms []entity.Room) []RoomOption {
	options := make([]RoomOption, 0, len(rooms))
	for _, r := range rooms {
		label := r.RoomNumber
		if label == "" {
			label = r.ID
		}
		options = append(options, RoomOption{Value: r.ID, Label: label})
	}
	return options
}

func orLabel(s string) string {
	if strings.TrimSpace(s) == "" {
		return LabelNotSpecified
	}
	return s
}
