package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"dsemotion/domain/run"
)

const (
	FormatJSON     = "json"
	FormatDetailed = "json-detailed"
)

// LabelsJSON writes the label map: one "second": "emotion code" member per labeled
// frame, in ascending second order, indented by four spaces.
type LabelsJSON struct{}

func (LabelsJSON) Format() string      { return FormatJSON }
func (LabelsJSON) ContentType() string { return "application/json" }

func (LabelsJSON) Write(w io.Writer, r *run.Run) error {
	labels := r.Labels()
	timestamps := r.Timestamps()
	if len(timestamps) == 0 {
		_, err := io.WriteString(w, "{}\n")
		return err
	}

	// encoding/json sorts map keys as strings ("10" before "2"), so members are
	// written one by one.
	if _, err := io.WriteString(w, "{\n"); err != nil {
		return err
	}
	for i, ts := range timestamps {
		sep := ","
		if i == len(timestamps)-1 {
			sep = ""
		}
		if _, err := fmt.Fprintf(w, "    %q: %q%s\n", strconv.FormatInt(ts, 10), labels[ts].Code(), sep); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "}\n")
	return err
}

// DetailedJSON writes the whole run, including per-frame scores and conflicts.
type DetailedJSON struct{}

func (DetailedJSON) Format() string      { return FormatDetailed }
func (DetailedJSON) ContentType() string { return "application/json" }

func (DetailedJSON) Write(w io.Writer, r *run.Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(r)
}
