// Package report renders an evaluation as a markdown document and as HTML.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	domainstats "simrng/domain/stats"
	"simrng/internal/session"
)

const title = "Chi-squared goodness of fit"

// Markdown renders the evaluation of gen as markdown.
func Markdown(gen *session.Generation, result domainstats.TestResult) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title)
	b.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Distribution | %s |\n", gen.Distribution.String())
	fmt.Fprintf(&b, "| Source | %s (seed %d) |\n", gen.Source, gen.Seed)
	fmt.Fprintf(&b, "| Samples | %d |\n", gen.Count())
	fmt.Fprintf(&b, "| Sample hash | `%s` |\n", gen.Hash.Short())
	fmt.Fprintf(&b, "| Significance | %g |\n", result.Alpha)
	fmt.Fprintf(&b, "| Degrees of freedom | %d |\n", result.DegreesOfFreedom)
	fmt.Fprintf(&b, "| Statistic | %.4f |\n", result.Calculated)
	fmt.Fprintf(&b, "| Critical value | %.4f |\n", result.Critical)
	fmt.Fprintf(&b, "| p-value | %.4g |\n\n", result.PValue)

	if result.Reject {
		fmt.Fprintf(&b, "**Rejected**: the samples do not fit %s at the %g level.\n\n", gen.Distribution.String(), result.Alpha)
	} else {
		fmt.Fprintf(&b, "**Not rejected**: the samples are consistent with %s at the %g level.\n\n", gen.Distribution.String(), result.Alpha)
	}

	if len(result.Intervals) > 0 {
		b.WriteString("## Intervals\n\n")
		b.WriteString("| Lower | Upper | Observed | Expected | (fo-fe)²/fe |\n|---:|---:|---:|---:|---:|\n")
		for _, iv := range result.Intervals {
			var term float64
			if iv.Expected > 0 {
				diff := iv.Observed - iv.Expected
				term = diff * diff / iv.Expected
			}
			fmt.Fprintf(&b, "| %.4f | %.4f | %.0f | %.4f | %.4f |\n", iv.Lower, iv.Upper, iv.Observed, iv.Expected, term)
		}
	}
	return []byte(b.String())
}

// Render renders the evaluation of gen as a complete HTML page.
func Render(gen *session.Generation, result domainstats.TestResult) ([]byte, error) {
	if gen == nil {
		return nil, fmt.Errorf("no generation to report")
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML(Markdown(gen, result), p, renderer), nil
}
