package dataprocessing

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"
	"golang.org/x/text/encoding/charmap"

	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/config"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/pkg/contracts/domain"
)

// ErrNoTabularEntry is returned when an archive has no embedded CSV file
var ErrNoTabularEntry = errors.New("archive has no tabular entry")

const maxLineSize = 1 << 20

// ParseStats describes what the parser saw in one archive
type ParseStats struct {
	Entry    string // name of the embedded file that was read
	Lines    int    // data lines after the header
	Yielded  int
	TooShort int
}

// RowFunc receives each row with enough fields. Returning an error stops the archive.
type RowFunc func(row domain.RawRow) error

// RecordParser streams rows out of staged archives
type RecordParser struct {
	entryExtension string
	minFields      int
}

// NewRecordParser creates a parser for archives holding a single ISO-8859-1,
// semicolon-delimited CSV entry.
func NewRecordParser() *RecordParser {
	return &RecordParser{
		entryExtension: config.TabularExtension,
		minFields:      domain.MinRowFields,
	}
}

// ParseArchive opens the archive, picks the first entry ending in .csv and
// feeds its data rows to fn. Rows already handed to fn before an error are
// not rolled back.
func (p *RecordParser) ParseArchive(ref domain.ArchiveReference, fn RowFunc) (ParseStats, error) {
	var stats ParseStats

	zr, err := zip.OpenReader(ref.Path)
	if err != nil {
		return stats, fmt.Errorf("failed to open archive %s: %w", ref.Name, err)
	}
	defer zr.Close()

	entry := p.findEntry(zr.File)
	if entry == nil {
		return stats, fmt.Errorf("%w: %s", ErrNoTabularEntry, ref.Name)
	}
	stats.Entry = entry.Name

	rc, err := entry.Open()
	if err != nil {
		return stats, fmt.Errorf("failed to open entry %s in %s: %w", entry.Name, ref.Name, err)
	}
	defer rc.Close()

	stats, err = p.ParseReader(rc, fn)
	stats.Entry = entry.Name
	if err != nil {
		return stats, fmt.Errorf("failed to read entry %s in %s: %w", entry.Name, ref.Name, err)
	}
	return stats, nil
}

// ParseReader parses an ISO-8859-1 stream: the first line is skipped as
// header, quotes are stripped and every line is split on ';'.
func (p *RecordParser) ParseReader(r io.Reader, fn RowFunc) (ParseStats, error) {
	var stats ParseStats

	scanner := bufio.NewScanner(charmap.ISO8859_1.NewDecoder().Reader(r))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo == 1 {
			continue
		}
		stats.Lines++

		fields := splitLine(scanner.Text())
		if len(fields) < p.minFields {
			stats.TooShort++
			continue
		}

		if err := fn(domain.RawRow{Line: lineNo, Fields: fields}); err != nil {
			return stats, err
		}
		stats.Yielded++
	}

	return stats, scanner.Err()
}

func (p *RecordParser) findEntry(entries []*zip.File) *zip.File {
	for _, f := range entries {
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(f.Name), p.entryExtension) {
			return f
		}
	}
	return nil
}

func splitLine(line string) []string {
	line = strings.TrimSuffix(line, "\r")
	line = strings.ReplaceAll(line, `"`, "")
	return strings.Split(line, ";")
}
