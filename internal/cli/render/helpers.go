package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	labelStyle   = color.New(color.Faint)
	headerStyle  = color.New(color.Bold, color.FgHiWhite)
	addressStyle = color.New(color.FgBlue)
	amountStyle  = color.New(color.FgWhite, color.Bold)
	okStyle      = color.New(color.FgGreen)
	badStyle     = color.New(color.FgRed)
	mutedStyle   = color.New(color.Faint)

	titleCaser = cases.Title(language.English)
	printer    = message.NewPrinter(language.English)
)

// JSON writes v as indented JSON
func JSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// JSONLine writes v as a single line of JSON
func JSONLine(out io.Writer, v any) error {
	return json.NewEncoder(out).Encode(v)
}

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}
	return color.New(color.FgRed).Sprintf("❌ %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// Title title-cases an identifier such as a status name
func Title(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}

// Count formats an integer with thousands separators
func Count[T ~int | ~uint64](n T) string {
	return printer.Sprintf("%d", n)
}

// Amount formats base units with decimals and groups the integer part
func Amount(v *big.Int, decimals uint8) string {
	s := models.FormatUnits(v, decimals)
	whole, frac, hasFrac := strings.Cut(s, ".")
	neg := strings.HasPrefix(whole, "-")
	whole = strings.TrimPrefix(whole, "-")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// Address renders a full checksummed address, or "-" for the zero address
func Address(addr common.Address) string {
	if addr == (common.Address{}) {
		return mutedStyle.Sprint("-")
	}
	return addressStyle.Sprint(addr.Hex())
}

// StatusColor picks a colour per proposal state
func StatusColor(s models.ProposalStatus) *color.Color {
	switch s {
	case models.ProposalStatusActive:
		return color.New(color.FgCyan, color.Bold)
	case models.ProposalStatusSucceeded, models.ProposalStatusQueued:
		return color.New(color.FgYellow)
	case models.ProposalStatusExecuted:
		return color.New(color.FgGreen)
	case models.ProposalStatusDefeated, models.ProposalStatusCanceled, models.ProposalStatusExpired:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgWhite)
	}
}

// Status renders a title-cased, coloured proposal state
func Status(s models.ProposalStatus) string {
	return StatusColor(s).Sprint(Title(s.String()))
}

// Bool renders a check or a cross
func Bool(v bool) string {
	if v {
		return okStyle.Sprint("✓")
	}
	return badStyle.Sprint("✗")
}

// Duration renders whole seconds, e.g. "1h0m0s"
func Duration(d time.Duration) string {
	return d.Round(time.Second).String()
}

// Percent renders a float percentage with one decimal
func Percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// TokenDecimals returns the decimals vote and supply amounts of a DAO are denominated in
func TokenDecimals(dao *models.DAO) uint8 {
	if dao == nil {
		return 18
	}
	return dao.Config.TokenType.Decimals()
}

// newTable returns the borderless table style used by every list
func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateHeader = true
	t.Style().Options.SeparateRows = false
	t.Style().Format.Header = 0
	t.Style().Box.PaddingRight = "  "
	return t
}

// kv prints an aligned "label: value" line
func kv(out io.Writer, label string, value any) {
	fmt.Fprintf(out, "  %s %v\n", labelStyle.Sprintf("%-20s", label+":"), value)
}
