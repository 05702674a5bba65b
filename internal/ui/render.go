package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/upsti/upstilatex/internal/metadata"
	"github.com/upsti/upstilatex/pkg/upstilatex"
)

// Renderer writes normalized metadata and diagnostics to a terminal.
type Renderer struct {
	out    io.Writer
	styles Styles
}

// NewRenderer creates a Renderer writing to out with the given style set.
func NewRenderer(out io.Writer, styles Styles) *Renderer {
	return &Renderer{out: out, styles: styles}
}

// Records prints one line per schema field, in declaration order, with the
// resolved value colored by provenance. Fields the schema knows nothing
// about are appended after the declared ones.
func (r *Renderer) Records(records metadata.Records, order []string) {
	width := 0
	for _, name := range order {
		if len(name) > width {
			width = len(name)
		}
	}

	for _, name := range order {
		rec, ok := records[name]
		if !ok {
			continue
		}
		r.record(name, rec, width)
	}
	for name, rec := range records {
		if !containsName(order, name) {
			r.record(name, rec, width)
		}
	}
}

func (r *Renderer) record(name string, rec *metadata.Record, width int) {
	style := r.styles.Provenance(rec.Provenance)
	if rec.Hint == upstilatex.DisplayHintInformational {
		style = r.styles.Info
	}

	value := rec.ValueString()
	if rec.Provenance.Base() == upstilatex.ProvenanceIgnored {
		value = fmt.Sprintf("(ignored: %v)", rec.InitialValue)
	}

	label := r.styles.Field.Render(padRight(name, width))
	tag := r.styles.Muted.Render("[" + string(rec.Provenance) + "]")
	fmt.Fprintf(r.out, "  %s  %s  %s\n", label, style.Render(value), tag)
}

// Diagnostics prints each diagnostic prefixed by its severity.
func (r *Renderer) Diagnostics(diags upstilatex.Diagnostics) {
	for _, d := range diags {
		style := r.styles.Severity(d.Severity)
		fmt.Fprintf(r.out, "  %s %s\n", style.Render(string(d.Severity)+":"), d.Message)
	}
}

// Legend prints the provenance color key shown under the infos output.
func (r *Renderer) Legend() {
	parts := []string{
		r.styles.Explicit.Render("explicit"),
		r.styles.Default.Render("default"),
		r.styles.Deducted.Render("deducted"),
		r.styles.Ignored.Render("ignored"),
		r.styles.Info.Render("custom"),
	}
	fmt.Fprintf(r.out, "\n  %s %s\n", r.styles.Muted.Render("legend:"), strings.Join(parts, " "))
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
