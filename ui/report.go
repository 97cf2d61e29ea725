package ui

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"drawforge/domain/draw"
	"drawforge/domain/stats"
)

// RenderMarkdown builds the textual randomness report for a batch. The same
// markdown is shown by the CLI; the UI converts it to HTML.
func RenderMarkdown(batch *draw.Batch, report *stats.AnalysisReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Randomness Analysis\n\n")
	fmt.Fprintf(&sb, "Batch `%s`, sample size **%d**\n\n", batch.ID, report.SampleSize)

	writeClassSection(&sb, "Main Numbers", report.Numbers)
	writeClassSection(&sb, "Stars", report.Stars)

	sb.WriteString("For truly reliable randomness assessment, a larger sample size may be needed.\n")
	if report.SampleSize < 100 {
		sb.WriteString("\n> Sample size is relatively small, results should be interpreted with caution.\n")
	}
	return sb.String()
}

func writeClassSection(sb *strings.Builder, title string, class stats.ClassReport) {
	fmt.Fprintf(sb, "## %s\n\n", title)
	fmt.Fprintf(sb, "- Expected frequency per value: %.2f\n", class.ExpectedFreq)
	fmt.Fprintf(sb, "- Variation between min and max: %.2f%%\n", class.VariationPct)
	fmt.Fprintf(sb, "- Least frequent value(s): %s (x%d)\n", class.Min.FormatValues(), class.Min.Count)
	fmt.Fprintf(sb, "- Most frequent value(s): %s (x%d)\n", class.Max.FormatValues(), class.Max.Count)
	fmt.Fprintf(sb, "- Standard deviation: %.2f\n", class.StdDev)
	fmt.Fprintf(sb, "- Chi-square value: %.2f\n", class.ChiSquare)
	fmt.Fprintf(sb, "- P-value: %.4f\n", class.PValue)
	fmt.Fprintf(sb, "- Assessment: **%s**\n\n", strings.ToUpper(class.Verdict))
}

// markdownToHTML converts the report markdown for embedding in a page.
func markdownToHTML(md string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return template.HTML(markdown.ToHTML([]byte(md), p, renderer))
}
