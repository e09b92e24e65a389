package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"hearing/internal/domain"
)

// Printer writes analyses to a terminal or plain writer. Colors are used
// only when w supports them.
type Printer struct {
	w      io.Writer
	styles styles
}

// NewPrinter creates a printer for w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{
		w:      w,
		styles: newStyles(lipgloss.NewRenderer(w)),
	}
}

// Title prints a heading line.
func (p *Printer) Title(title string) error {
	if title == "" {
		return nil
	}
	_, err := fmt.Fprintln(p.w, p.styles.title.Render(title))
	return err
}

// Transcript prints one "speaker: text" line per turn.
func (p *Printer) Transcript(turns []domain.ConversationTurn) error {
	for _, turn := range turns {
		if _, err := fmt.Fprintf(p.w, "%s: %s\n", p.styles.speaker.Render(turn.Speaker), turn.Text); err != nil {
			return err
		}
	}
	return nil
}

// Report prints the participation table. Ratios are shown with precision decimals.
func (p *Printer) Report(report domain.Report, precision int) error {
	rows := make([][]string, 0, len(report.Speakers))
	for _, s := range report.Speakers {
		rows = append(rows, []string{
			s.Speaker,
			strconv.FormatFloat(s.WordRatio, 'f', precision, 64),
			strconv.Itoa(s.Questions),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.styles.border).
		Headers("Speaker Name", "Word Ratio", "Num Questions").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return p.styles.header
			case col > 0:
				return p.styles.number
			default:
				return p.styles.cell
			}
		})

	if _, err := fmt.Fprintln(p.w, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(p.w, p.styles.dim.Render(fmt.Sprintf("%d words across %d speakers", report.TotalWords, len(report.Speakers))))
	return err
}

// Patterns prints speaker patterns in registration order.
func (p *Printer) Patterns(patterns []domain.SpeakerPattern) error {
	rows := make([][]string, 0, len(patterns))
	for _, pat := range patterns {
		parts := make([]string, len(pat.Constraints))
		for i, c := range pat.Constraints {
			parts[i] = describeConstraint(c)
		}
		rows = append(rows, []string{pat.Name, pat.Title, strings.Join(parts, " ")})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.styles.border).
		Headers("Pattern", "Title", "Tokens").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.styles.header
			}
			return p.styles.cell
		})

	_, err := fmt.Fprintln(p.w, t.Render())
	return err
}

// describeConstraint renders a constraint as e.g. [^"Senator"] or [PERSON].
func describeConstraint(c domain.TokenConstraint) string {
	var parts []string
	if c.SentenceStart {
		parts = append(parts, "^")
	}
	if c.Text != "" {
		parts = append(parts, strconv.Quote(c.Text))
	}
	if c.EntityType != "" {
		parts = append(parts, c.EntityType)
	}
	return "[" + strings.Join(parts, "") + "]"
}

// JSON writes the analysis as indented JSON. The transcript is omitted
// unless withTranscript is set.
func JSON(w io.Writer, analysis *domain.Analysis, withTranscript bool) error {
	return encodeIndent(w, trimTranscript(*analysis, withTranscript))
}

// JSONList writes several analyses as one indented JSON array.
func JSONList(w io.Writer, analyses []*domain.Analysis, withTranscript bool) error {
	out := make([]domain.Analysis, 0, len(analyses))
	for _, a := range analyses {
		out = append(out, trimTranscript(*a, withTranscript))
	}
	return encodeIndent(w, out)
}

func trimTranscript(a domain.Analysis, withTranscript bool) domain.Analysis {
	if !withTranscript {
		a.Transcript = nil
	}
	return a
}

func encodeIndent(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
