// Package wordlist imports vocabulary files.
package wordlist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/vocquiz/internal/model"
)

// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported word list format")

// Import reads a CSV or XLSX word list and returns it as a new file.
// An empty name falls back to the file's base name without extension.
func Import(path, name string) (model.File, error) {
	var (
		words []model.Word
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		words, err = loadCSVFile(path)
	case ".xlsx":
		words, err = LoadXLSX(path)
	default:
		return model.File{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return model.File{}, err
	}
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return NewFile(name, words), nil
}

// NewFile wraps words in a file with a fresh id and creation time.
func NewFile(name string, words []model.Word) model.File {
	return model.File{
		ID:        uuid.NewString(),
		Name:      name,
		Words:     words,
		CreatedAt: time.Now(),
	}
}

func loadCSVFile(path string) ([]model.Word, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return LoadCSV(file)
}

// LoadCSV reads english,japanese rows. A leading header row, blank lines and
// rows missing either column are skipped.
func LoadCSV(r io.Reader) ([]model.Word, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, record)
	}
	return wordsFromRows(rows)
}

// LoadXLSX reads english,japanese rows from the first sheet of a workbook.
func LoadXLSX(path string) ([]model.Word, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() {
		if cerr := book.Close(); cerr != nil {
			// Best-effort close for read-only workbook.
			_ = cerr
		}
	}()
	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, model.ErrEmptyWordList
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return wordsFromRows(rows)
}

func wordsFromRows(rows [][]string) ([]model.Word, error) {
	var words []model.Word
	for i, row := range rows {
		entry, ok := parseRow(row)
		if !ok {
			continue
		}
		if i == 0 && isHeader(entry) {
			continue
		}
		words = append(words, model.Word{
			ID:       uuid.NewString(),
			English:  entry.English,
			Japanese: entry.Japanese,
		})
	}
	if len(words) == 0 {
		return nil, model.ErrEmptyWordList
	}
	return words, nil
}
