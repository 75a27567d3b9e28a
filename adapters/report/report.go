// Package report renders classified runs in the supported output formats.
package report

import (
	"fmt"
	"sort"
	"strings"

	"dsemotion/ports"
)

var writers = map[string]func() ports.ReportWriter{
	FormatJSON:     func() ports.ReportWriter { return LabelsJSON{} },
	FormatDetailed: func() ports.ReportWriter { return DetailedJSON{} },
	FormatMarkdown: func() ports.ReportWriter { return Markdown{} },
	FormatHTML:     func() ports.ReportWriter { return HTML{} },
	FormatXLSX:     func() ports.ReportWriter { return XLSX{} },
}

// New returns the writer for a format name.
func New(format string) (ports.ReportWriter, error) {
	ctor, ok := writers[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, fmt.Errorf("unknown report format %q (want one of %s)", format, strings.Join(Formats(), ", "))
	}
	return ctor(), nil
}

// Formats lists the supported format names.
func Formats() []string {
	out := make([]string, 0, len(writers))
	for name := range writers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
