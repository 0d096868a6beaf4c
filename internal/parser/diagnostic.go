package parser

import (
	"fmt"
	"strings"
)

// Diagnostic is one reported problem. Line-level diagnostics point at a
// column of RawLine; file-level ones carry only Message.
type Diagnostic struct {
	Status  Status `json:"status"`
	RawLine string `json:"raw_line,omitempty"`
	Column  int    `json:"column"`
	Message string `json:"message"`
	File    string `json:"file"`
	Line    int    `json:"line,omitempty"`
}

// Caret draws a pointer at column followed by message.
func Caret(column int, message string) string {
	if column < 0 {
		column = 0
	}
	return strings.Repeat("-", column) + "^ " + message
}

// String renders the diagnostic as:
//
//	<raw line>
//	-----^ <message> [<file>:<line>]
func (d Diagnostic) String() string {
	if d.Status.FileLevel() {
		return d.Message
	}
	return d.RawLine + "\n" + Caret(d.Column, d.Message) + fmt.Sprintf(" [%s:%d]", d.File, d.Line)
}

// Report joins every diagnostic of the result, or returns "" when clean.
func (r *LoadResult) Report() string {
	parts := make([]string, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		parts[i] = d.String()
	}
	return strings.Join(parts, "\n")
}

func fileDiagnostic(status Status, file, message string) Diagnostic {
	return Diagnostic{Status: status, Message: message, File: file}
}
