package publish

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	banner lipgloss.Style
	step   lipgloss.Style
	ok     lipgloss.Style
	fail   lipgloss.Style
	warn   lipgloss.Style
}

// newStyles binds styles to the color profile of w, so plain writers get plain text.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		banner: r.NewStyle().Bold(true),
		step:   r.NewStyle().Foreground(lipgloss.Color("12")),
		ok:     r.NewStyle().Foreground(lipgloss.Color("10")),
		fail:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		warn:   r.NewStyle().Foreground(lipgloss.Color("11")),
	}
}

type reporter struct {
	out      io.Writer
	errOut   io.Writer
	outStyle styles
	errStyle styles
}

func newReporter(out, errOut io.Writer) *reporter {
	return &reporter{out: out, errOut: errOut, outStyle: newStyles(out), errStyle: newStyles(errOut)}
}

func (r *reporter) banner(title string) {
	rule := strings.Repeat("=", 40)
	fmt.Fprintf(r.out, "\n%s\n%s\n%s\n\n", rule, r.outStyle.banner.Render(title), rule)
}

func (r *reporter) step(n, total int, msg string) {
	fmt.Fprintf(r.out, "\n%s\n", r.outStyle.step.Render(fmt.Sprintf("[%d/%d] %s", n, total, msg)))
}

func (r *reporter) ok(msg string) {
	fmt.Fprintln(r.out, r.outStyle.ok.Render("✅ "+msg))
}

func (r *reporter) fail(msg string) {
	fmt.Fprintln(r.out, r.outStyle.fail.Render("❌ "+msg))
}

func (r *reporter) println(a ...any) {
	fmt.Fprintln(r.out, a...)
}

func (r *reporter) printf(format string, a ...any) {
	fmt.Fprintf(r.out, format, a...)
}

// output prints captured child stdout, terminated by a newline.
func (r *reporter) output(s string) {
	if s == "" {
		return
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	fmt.Fprint(r.out, s)
}

func (r *reporter) warning(s string) {
	fmt.Fprint(r.errOut, r.errStyle.warn.Render("Warning: "+strings.TrimRight(s, "\n"))+"\n")
}

func (r *reporter) launchError(err error) {
	fmt.Fprintln(r.errOut, r.errStyle.fail.Render(fmt.Sprintf("Error running command: %v", err)))
}
