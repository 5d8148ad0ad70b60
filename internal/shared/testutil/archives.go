package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"golang.org/x/text/encoding/charmap"
)

// SourceHeader is a header line shaped like the ANS accounting files
const SourceHeader = `"DATA";"REG_ANS";"CD_CONTA_CONTABIL";"DESCRICAO";"VL_SALDO_INICIAL";"VL_SALDO_FINAL"`

// ZipEntry is one file to place inside a fixture archive
type ZipEntry struct {
	Name    string
	Content []byte
}

// Latin1 encodes s as ISO-8859-1, failing the test on unsupported runes
func Latin1(t testing.TB, s string) []byte {
	t.Helper()

	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		t.Fatalf("encode %q as ISO-8859-1: %v", s, err)
	}
	return b
}

// SourceCSV joins the header and lines with CRLF and encodes them as ISO-8859-1
func SourceCSV(t testing.TB, lines ...string) []byte {
	t.Helper()
	return Latin1(t, strings.Join(append([]string{SourceHeader}, lines...), "\r\n")+"\r\n")
}

// ZipBytes builds an in-memory zip archive
func ZipBytes(t testing.TB, entries ...ZipEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			t.Fatalf("create zip entry %s: %v", e.Name, err)
		}
		if _, err := w.Write(e.Content); err != nil {
			t.Fatalf("write zip entry %s: %v", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// WriteArchive writes a zip archive named name into dir and returns its path
func WriteArchive(t testing.TB, dir, name string, entries ...ZipEntry) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, ZipBytes(t, entries...), 0644); err != nil {
		t.Fatalf("write archive %s: %v", path, err)
	}
	return path
}

// WriteSourceArchive writes an archive holding one source CSV with lines after the header
func WriteSourceArchive(t testing.TB, dir, name string, lines ...string) string {
	t.Helper()

	entry := strings.TrimSuffix(strings.ToUpper(name), ".ZIP") + ".csv"
	return WriteArchive(t, dir, name, ZipEntry{Name: entry, Content: SourceCSV(t, lines...)})
}
