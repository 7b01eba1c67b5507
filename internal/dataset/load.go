package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadOptions controls how a single input file is parsed.
type ReadOptions struct {
	// Delimiter for delimited text. If 0, '\t' is used for .tsv and ',' otherwise.
	Delimiter rune
	// Sheet selects the worksheet of an .xlsx input; empty means the first sheet.
	Sheet string
}

// Sources names the two input files of the dashboard.
type Sources struct {
	RainfallPath string
	CropsPath    string
	Delimiter    rune
}

// Load reads the rainfall and crop tables. Tables are returned as read; callers
// normalize them before use.
func Load(src Sources) (rain Table, crops Table, err error) {
	opt := ReadOptions{Delimiter: src.Delimiter}
	rain, err = ReadTable(src.RainfallPath, opt)
	if err != nil {
		return Table{}, Table{}, fmt.Errorf("load rainfall: %w", err)
	}
	crops, err = ReadTable(src.CropsPath, opt)
	if err != nil {
		return Table{}, Table{}, fmt.Errorf("load crops: %w", err)
	}
	return rain, crops, nil
}

// ReadTable reads a delimited text or .xlsx file with a header row.
func ReadTable(path string, opt ReadOptions) (Table, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return readXLSX(path, opt.Sheet)
	}
	f, err := os.Open(path)
	if err != nil {
		return Table{}, &FileAccessError{Path: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delimiterFor(path, opt.Delimiter)
	// every record must match the header width
	r.FieldsPerRecord = 0

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Table{}, &ParseError{Path: path, Line: 1, Err: errors.New("missing header row")}
		}
		return Table{}, csvError(path, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Table{}, csvError(path, err)
		}
		rows = append(rows, rec)
	}
	return NewTable(filepath.Base(path), header, rows)
}

func delimiterFor(path string, d rune) rune {
	if d != 0 {
		return d
	}
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

func csvError(path string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Path: path, Line: pe.Line, Err: pe.Err}
	}
	return &FileAccessError{Path: path, Err: err}
}

func readXLSX(path, sheet string) (Table, error) {
	if _, err := os.Stat(path); err != nil {
		return Table{}, &FileAccessError{Path: path, Err: err}
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, &ParseError{Path: path, Err: fmt.Errorf("open xlsx: %w", err)}
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Table{}, &ParseError{Path: path, Err: errors.New("workbook has no sheets")}
		}
		sheet = sheets[0]
	}
	all, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, &ParseError{Path: path, Err: fmt.Errorf("read sheet %q: %w", sheet, err)}
	}
	if len(all) == 0 {
		return Table{}, &ParseError{Path: path, Line: 1, Err: errors.New("missing header row")}
	}
	header := all[0]
	width := len(header)
	rows := make([][]string, 0, len(all)-1)
	for i, row := range all[1:] {
		// blank spreadsheet rows are skipped like blank lines in CSV
		if len(row) == 0 {
			continue
		}
		if len(row) > width {
			return Table{}, &ParseError{
				Path: path,
				Line: i + 2,
				Err:  fmt.Errorf("expected %d fields, got %d", width, len(row)),
			}
		}
		// trailing empty cells are trimmed by the reader
		padded := make([]string, width)
		copy(padded, row)
		rows = append(rows, padded)
	}
	return NewTable(filepath.Base(path), header, rows)
}
