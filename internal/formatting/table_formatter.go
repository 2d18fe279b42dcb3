package formatting

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"partnerplane/internal/partner"
	"partnerplane/internal/partnership"
	pstrings "partnerplane/pkg/strings"
)

// tableFormatter provides rich table output formatting
type tableFormatter struct {
	w     io.Writer
	color bool
	wide  bool
}

func (f *tableFormatter) Partners(snap *partnership.Snapshot) error {
	if snap.Partners.Len() == 0 {
		return f.empty("No partners defined")
	}

	t := f.createTable()
	t.AppendHeader(table.Row{f.header("NAME"), f.header("AS2 ID"), f.header("X509 ALIAS"), f.header("OTHER ATTRIBUTES")})
	for _, p := range snap.Partners.All() {
		t.AppendRow(table.Row{
			f.paint(text.FgHiCyan, p.Name()),
			p.Value(partner.PIDAS2),
			p.Value(partner.PIDX509Alias),
			f.cell(joinAttributes(p.Attributes, partner.AttrName, partner.PIDAS2, partner.PIDX509Alias)),
		})
	}
	t.Render()
	return f.total(snap.Partners.Len(), "partners")
}

func (f *tableFormatter) Partnerships(snap *partnership.Snapshot) error {
	if snap.Partnerships.Len() == 0 {
		return f.empty("No partnerships defined")
	}

	t := f.createTable()
	t.AppendHeader(table.Row{f.header("NAME"), f.header("SENDER"), f.header("RECEIVER"), f.header("ATTRIBUTES")})
	for _, ps := range snap.Partnerships.All() {
		t.AppendRow(table.Row{
			f.paint(text.FgHiCyan, ps.Name),
			ps.SenderName(),
			ps.ReceiverName(),
			f.cell(joinAttributes(ps.Attributes)),
		})
	}
	t.Render()
	return f.total(snap.Partnerships.Len(), "partnerships")
}

// createTable creates a new table with standard styling
func (f *tableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(f.w)
	t.SetStyle(table.StyleRounded)
	return t
}

func (f *tableFormatter) cell(s string) string {
	if f.wide {
		return s
	}
	return pstrings.Truncate(s, pstrings.DefaultCellMaxLen)
}

func (f *tableFormatter) header(s string) string {
	return f.paint(text.FgHiCyan, s)
}

func (f *tableFormatter) paint(c text.Color, s string) string {
	if !f.color {
		return s
	}
	return c.Sprint(s)
}

func (f *tableFormatter) empty(message string) error {
	_, err := fmt.Fprintln(f.w, f.paint(text.FgYellow, message))
	return err
}

func (f *tableFormatter) total(n int, what string) error {
	_, err := fmt.Fprintf(f.w, "%s %s %s\n",
		f.paint(text.FgHiBlue, "Total:"),
		f.paint(text.FgHiWhite, fmt.Sprint(n)),
		f.paint(text.FgHiBlue, what))
	return err
}

// joinAttributes renders key=value pairs, skipping the given keys.
func joinAttributes(attrs partner.Attributes, skip ...string) string {
	var parts []string
outer:
	for _, a := range attrs.Entries() {
		for _, s := range skip {
			if a.Key == s {
				continue outer
			}
		}
		parts = append(parts, a.Key+"="+a.Value)
	}
	return strings.Join(parts, ", ")
}
