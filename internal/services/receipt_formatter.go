package services

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/chekline/backend/internal/models"
)

// Line width bounds for the plain-text receipt; the public endpoint
// validates against these.
const (
	ReceiptMinWidth     = 11
	ReceiptMaxWidth     = 80
	ReceiptDefaultWidth = 32
)

const (
	receiptTotalLabel  = "СУМА"
	receiptChangeLabel = "Решта"
	receiptFooter      = "Дякуємо за покупку!"
)

// ReceiptFormatter renders a check as a fixed-width plain-text receipt.
// It is pure: the same check and width always produce the same bytes.
// Widths are counted in runes, not bytes, since the labels are Cyrillic.
type ReceiptFormatter struct {
	merchant string
	printer  *message.Printer
}

func NewReceiptFormatter(merchant string) *ReceiptFormatter {
	return &ReceiptFormatter{
		merchant: merchant,
		printer:  message.NewPrinter(language.English),
	}
}

// Format renders the receipt at the given line width. Right-aligned amounts
// that do not fit degrade to zero padding; nothing is truncated or wrapped.
func (f *ReceiptFormatter) Format(check *models.Check, width int) string {
	rule := strings.Repeat("=", width)
	itemRule := strings.Repeat("-", width)

	lines := []string{
		center(f.merchant, width),
		rule,
	}

	for _, p := range check.Products {
		lines = append(lines,
			fmt.Sprintf("%.2f x %s", p.Quantity, f.money(p.Price)),
			justify(p.Name, f.money(p.Total), width),
			itemRule,
		)
	}

	lines = append(lines,
		rule,
		justify(receiptTotalLabel, f.money(check.Total), width),
		justify(capitalize(check.Payment.Type), f.money(check.Payment.Amount), width),
		justify(receiptChangeLabel, f.money(check.Rest), width),
		rule,
		center(check.CreatedAt.Format("02.01.2006 15:04"), width),
		center(receiptFooter, width),
	)

	return strings.Join(lines, "\n")
}

// money formats an amount with a thousands separator and 2 decimals.
func (f *ReceiptFormatter) money(v float64) string {
	return f.printer.Sprintf("%.2f", v)
}

// center pads text on both sides to the given rune width, extra space going
// to the right.
func center(text string, width int) string {
	margin := width - utf8.RuneCountInString(text)
	if margin <= 0 {
		return text
	}
	left := margin / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", margin-left)
}

// justify left-aligns label and right-aligns value at the given rune width.
func justify(label, value string, width int) string {
	padding := width - utf8.RuneCountInString(label) - utf8.RuneCountInString(value)
	if padding < 0 {
		padding = 0
	}
	return label + strings.Repeat(" ", padding) + value
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
