package ports

import (
	"io"

	"dsemotion/domain/run"
)

// ReportWriter renders a run in one output format.
type ReportWriter interface {
	// Format is the name used to select the writer, e.g. "json".
	Format() string
	ContentType() string
	Write(w io.Writer, r *run.Run) error
}
