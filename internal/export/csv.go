package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/synsheet/synsheet/internal/model"
)

// Options configures the spreadsheet export.
type Options struct {
	Path          string // output CSV file path
	Synonyms      int    // synonym columns (K)
	Sentences     int    // sentence columns (L)
	IncludeHeader bool
}

// Writer exports a result set as a spreadsheet-shaped CSV file with the
// columns word, synonym 1..K, sentence 1..L, one row per input line.
type Writer struct {
	options Options
}

// NewWriter creates a writer for the given options.
func NewWriter(options Options) *Writer {
	return &Writer{options: options}
}

// WriteFile writes all records to the configured path. Synonym and
// sentence cells are padded or truncated to the configured column
// counts so every row matches the header.
func (w *Writer) WriteFile(records []model.LookupResult) (err error) {
	file, err := os.Create(w.options.Path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", closeErr)
		}
	}()

	writer := csv.NewWriter(file)

	if w.options.IncludeHeader {
		if err := writer.Write(w.header()); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for _, record := range records {
		if err := writer.Write(w.row(record)); err != nil {
			return fmt.Errorf("write row for %q: %w", record.Line, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush output file: %w", err)
	}

	return nil
}

func (w *Writer) header() []string {
	header := []string{"word"}
	for i := 0; i < w.options.Synonyms; i++ {
		header = append(header, fmt.Sprintf("synonym %d", i+1))
	}
	for i := 0; i < w.options.Sentences; i++ {
		header = append(header, fmt.Sprintf("sentence %d", i+1))
	}
	return header
}

func (w *Writer) row(record model.LookupResult) []string {
	row := make([]string, 1+w.options.Synonyms+w.options.Sentences)
	row[0] = record.Line
	for i := 0; i < w.options.Synonyms && i < len(record.Synonyms); i++ {
		row[1+i] = record.Synonyms[i]
	}
	for i := 0; i < w.options.Sentences && i < len(record.Sentences); i++ {
		row[1+w.options.Synonyms+i] = record.Sentences[i]
	}
	return row
}
