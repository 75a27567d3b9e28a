package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"dsemotion/domain/emotion"
	"dsemotion/domain/run"
)

const FormatMarkdown = "markdown"

// Markdown writes a human-readable summary and per-frame table.
type Markdown struct{}

func (Markdown) Format() string      { return FormatMarkdown }
func (Markdown) ContentType() string { return "text/markdown; charset=utf-8" }

func (Markdown) Write(w io.Writer, r *run.Run) error {
	_, err := w.Write(renderMarkdown(r))
	return err
}

func renderMarkdown(r *run.Run) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "# Emotion classification: %s\n\n", r.Source)
	fmt.Fprintf(&b, "- Run: `%s`\n", r.ID)
	fmt.Fprintf(&b, "- Fingerprint: `%s`\n", r.Fingerprint.Fingerprint.Short())
	fmt.Fprintf(&b, "- Knowledge base: `%s`\n", r.Fingerprint.KnowledgeBase.Short())
	fmt.Fprintf(&b, "- Evidence mass: %g\n", r.Fingerprint.EvidenceMass)
	fmt.Fprintf(&b, "- Frames: %d (%d in total conflict)\n\n", len(r.Results), len(r.Failures()))

	counts := r.Counts()
	b.WriteString("## Labels\n\n| Emotion | Frames |\n|---|---:|\n")
	for _, e := range emotion.All {
		fmt.Fprintf(&b, "| %s | %d |\n", e, counts[e])
	}

	b.WriteString("\n## Feature ranges\n\n| Feature | Min | Max | Step | Mean | Std dev |\n|---|---:|---:|---:|---:|---:|\n")
	for _, rg := range r.Ranges {
		note := ""
		if rg.Degenerate {
			note = " (constant)"
		}
		fmt.Fprintf(&b, "| %s%s | %g | %g | %.4g | %.4g | %.4g |\n",
			rg.Feature.Code(), note, rg.Min, rg.Max, rg.Step, rg.Mean, rg.StdDev)
	}

	b.WriteString("\n## Frames\n\n| Second | Levels | Emotion | Plausibility | Belief | Max conflict |\n|---:|---|---|---:|---:|---:|\n")
	for _, res := range r.Results {
		if !res.Labeled() {
			fmt.Fprintf(&b, "| %d | `%s` | **conflict** | | | %.4f |\n", res.Timestamp, res.Pattern, res.MaxConflict)
			continue
		}
		e := *res.Emotion
		fmt.Fprintf(&b, "| %d | `%s` | %s | %.4f | %.4f | %.4f |\n",
			res.Timestamp, res.Pattern, e, res.Plausibility[e], res.Belief[e], res.MaxConflict)
	}

	if failures := r.Failures(); len(failures) > 0 {
		b.WriteString("\n## Conflicts\n\n")
		for _, f := range failures {
			fmt.Fprintf(&b, "- %ds: %s\n", f.Timestamp, strings.TrimSpace(f.Error))
		}
	}
	return b.Bytes()
}
