package exporter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/guscaldeira/teste-tecnico-intuitive-care/pkg/contracts/domain"
)

// RecordWriter is what the transformer needs from the consolidated output
type RecordWriter interface {
	Write(record domain.ExpenseRecord) error
	Flush() error
	Count() int
}

// ConsolidatedWriter appends expense records to the consolidated CSV.
// The header is written once when the writer is created.
type ConsolidatedWriter struct {
	closer  io.Closer
	encoder io.WriteCloser
	writer  *bufio.Writer
	count   int
	closed  bool
}

// NewConsolidatedWriter creates (or truncates) the file at path and writes the header
func NewConsolidatedWriter(path string) (*ConsolidatedWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	w, err := newConsolidatedWriter(file, file)
	if err != nil {
		file.Close()
		return nil, err
	}
	return w, nil
}

// NewConsolidatedStream writes the consolidated format to an arbitrary stream.
// Close flushes but does not close out.
func NewConsolidatedStream(out io.Writer) (*ConsolidatedWriter, error) {
	return newConsolidatedWriter(out, nil)
}

func newConsolidatedWriter(out io.Writer, closer io.Closer) (*ConsolidatedWriter, error) {
	encoder := newLatin1Writer(out)
	w := &ConsolidatedWriter{
		closer:  closer,
		encoder: encoder,
		writer:  bufio.NewWriter(encoder),
	}

	if _, err := w.writer.WriteString(formatLine(domain.OutputHeader)); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	return w, nil
}

// Write appends one record
func (w *ConsolidatedWriter) Write(record domain.ExpenseRecord) error {
	if w.closed {
		return fmt.Errorf("write on closed consolidated writer")
	}
	if _, err := w.writer.WriteString(formatLine(record.Fields())); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	w.count++
	return nil
}

// Flush pushes buffered records to the underlying stream
func (w *ConsolidatedWriter) Flush() error {
	return w.writer.Flush()
}

// Count returns the number of records written, header excluded
func (w *ConsolidatedWriter) Count() int {
	return w.count
}

// Close flushes and closes the output. Calling it again is a no-op.
func (w *ConsolidatedWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	err := w.Flush()
	if encErr := w.encoder.Close(); err == nil {
		err = encErr
	}
	if w.closer != nil {
		if closeErr := w.closer.Close(); err == nil {
			err = closeErr
		}
	}
	return err
}
