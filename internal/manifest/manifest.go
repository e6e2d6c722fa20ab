// Package manifest parses batch manifests listing document pairs to reconcile.
// A manifest is a CSV or XLSX file with a header row naming the columns
// paystub_path and ev_path. Either column may be blank on a given row, meaning
// that source document was not provided for the pair.
package manifest

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/payverify-cli/internal/model"
)

// Read loads a manifest file, dispatching on extension.
func Read(path string) ([]model.DocumentPair, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "manifest: open file")
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return nil, eris.Errorf("manifest: unsupported file type %q", filepath.Ext(path))
	}
}

// ReadCSV parses a CSV manifest from r.
func ReadCSV(r io.Reader) ([]model.DocumentPair, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields

	var (
		pairs  []model.DocumentPair
		cols   columns
		header = true
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "manifest: read csv row")
		}

		if header {
			header = false
			cols, err = mapColumns(record)
			if err != nil {
				return nil, err
			}
			continue
		}

		pair, ok := cols.pair(record)
		if ok {
			pairs = append(pairs, pair)
		}
	}

	return pairs, nil
}

// ReadXLSX parses an XLSX manifest, using the first sheet.
func ReadXLSX(path string) ([]model.DocumentPair, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "manifest: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("manifest: xlsx has no sheets")
	}

	var (
		pairs []model.DocumentPair
		cols  columns
	)
	for i, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}

		if i == 0 {
			cols, err = mapColumns(cells)
			if err != nil {
				return nil, err
			}
			continue
		}

		pair, ok := cols.pair(cells)
		if ok {
			pairs = append(pairs, pair)
		}
	}

	return pairs, nil
}

// columns records the header positions of the two path columns.
type columns struct {
	paystub int
	ev      int
}

func mapColumns(header []string) (columns, error) {
	cols := columns{paystub: -1, ev: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "paystub_path", "paystub":
			cols.paystub = i
		case "ev_path", "ev":
			cols.ev = i
		}
	}
	if cols.paystub == -1 && cols.ev == -1 {
		return cols, eris.New("manifest: header must name a paystub_path or ev_path column")
	}
	return cols, nil
}

// pair builds a DocumentPair from one data row. Rows with both columns blank
// are skipped.
func (c columns) pair(record []string) (model.DocumentPair, bool) {
	var pair model.DocumentPair
	if c.paystub >= 0 && c.paystub < len(record) {
		pair.PaystubPath = strings.TrimSpace(record[c.paystub])
	}
	if c.ev >= 0 && c.ev < len(record) {
		pair.EVPath = strings.TrimSpace(record[c.ev])
	}
	if pair.PaystubPath == "" && pair.EVPath == "" {
		return model.DocumentPair{}, false
	}
	return pair, true
}
