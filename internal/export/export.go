// Package export renders a report.Report as plain text, CSV or JSON.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"spese/internal/report"
)

// ErrUnknownFormat is returned by ByName for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown export format")

// Writer renders a report to w.
type Writer interface {
	Write(w io.Writer, r report.Report) error
	ContentType() string
	Extension() string
}

// Formats lists the names accepted by ByName.
func Formats() []string {
	return []string{"text", "csv", "json"}
}

// ByName selects a writer by format name, case-insensitively.
func ByName(format string) (Writer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text", "txt":
		return Text{}, nil
	case "csv":
		return CSV{}, nil
	case "json":
		return JSON{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
