// Package observability provides metrics and formatted CLI output for the portfolio store.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/portfolio-keeper/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintPortfolio outputs a human-readable summary of a portfolio record.
// source names the generation it was recovered from (primary, backup, default).
func (p *Printer) PrintPortfolio(record *types.PortfolioRecord, source string) {
	if record == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", record.Name))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", record.Email))
	if record.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", record.Location))
	}
	if record.Bio != "" {
		sb.WriteString(fmt.Sprintf("Bio:      %s\n", record.Bio))
	}
	if len(record.Languages) > 0 {
		sb.WriteString(fmt.Sprintf("Languages: %s\n", strings.Join(record.Languages, ", ")))
	}
	sb.WriteString("\n")

	if len(record.Skills) > 0 {
		sb.WriteString("Skills:\n")
		count := min(len(record.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			s := record.Skills[i]
			sb.WriteString(fmt.Sprintf("  • %s", s.Name))
			if s.Proficiency != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", s.Proficiency))
			}
			sb.WriteString("\n")
		}
		if len(record.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(record.Skills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(record.Projects) > 0 {
		sb.WriteString("Projects:\n")
		count := min(len(record.Projects), maxItemsToShow)
		for i := 0; i < count; i++ {
			pr := record.Projects[i]
			sb.WriteString(fmt.Sprintf("  • %s (%s – %s)\n", pr.Name, pr.Date, pr.DisplayEnd()))
		}
		if len(record.Projects) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(record.Projects)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Education: %d  Certificates: %d  Events: %d\n",
		len(record.Education), len(record.Certificates), len(record.Events)))
	if source != "" {
		sb.WriteString(fmt.Sprintf("Loaded from: %s", source))
	}

	p.printBox("PORTFOLIO", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBackups lists the backup ring, newest first.
func (p *Printer) PrintBackups(backups []types.PortfolioRecord) {
	if len(backups) == 0 {
		p.printBox("BACKUPS", "No backups stored")
		return
	}

	var sb strings.Builder
	for i, b := range backups {
		label := "newest"
		if i > 0 {
			label = fmt.Sprintf("newest-%d", i)
		}
		sb.WriteString(fmt.Sprintf("[%d] %-9s %s <%s>\n", i, label, b.Name, b.Email))
		sb.WriteString(fmt.Sprintf("    %d skills, %d projects\n", len(b.Skills), len(b.Projects)))
	}
	p.printBox(fmt.Sprintf("BACKUPS (%d)", len(backups)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMessage prints a single titled message box.
func (p *Printer) PrintMessage(title, message string) {
	p.printBox(title, message)
}
