package exporter

import (
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Delimiter separates fields in the consolidated file
const Delimiter = ";"

// newLatin1Writer encodes UTF-8 text written to it as ISO-8859-1.
// Runes outside the charset become the encoding's replacement byte.
// The returned writer must be closed to flush trailing bytes.
func newLatin1Writer(w io.Writer) io.WriteCloser {
	return transform.NewWriter(w, encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()))
}

// formatLine renders fields as one output line. Fields are written as they
// are, without quoting.
func formatLine(fields []string) string {
	return strings.Join(fields, Delimiter) + "\n"
}
