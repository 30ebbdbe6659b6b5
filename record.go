package prm

import (
	"fmt"
	"os"
	"path/filepath"
)

// Sidecar files read from a calculation's source directory. Either may be
// absent, in which case the corresponding record field is empty.
const (
	descriptionFile  = "description.txt"
	observationsFile = "observations.txt"
)

// Record is one spreadsheet row: calculation metadata followed by one column
// per parameter leaf.
type Record struct {
	Calculation  string
	Description  string
	Observations string
	Columns      []string
	Values       map[string]string
}

// Header returns the full column list in output order.
func (r Record) Header() []string {
	header := []string{"calculation", "description", "observations"}
	return append(header, r.Columns...)
}

// Row returns the cell values aligned with Header.
func (r Record) Row() []string {
	row := []string{r.Calculation, r.Description, r.Observations}
	for _, col := range r.Columns {
		row = append(row, r.Values[col])
	}
	return row
}

// Record assembles the spreadsheet row for the document: the calculation
// label, the sidecar texts read from sourceDir, and one column per top-level
// leaf in file order. It fails only when sourceDir itself is not a readable
// directory; missing sidecar files yield empty fields.
func (d *Document) Record(calculation, sourceDir string) (Record, error) {
	info, err := os.Stat(sourceDir)
	if err != nil {
		return Record{}, fmt.Errorf("failed to read source directory: %w", err)
	}
	if !info.IsDir() {
		return Record{}, fmt.Errorf("source %q is not a directory", sourceDir)
	}

	rec := Record{
		Calculation:  calculation,
		Description:  readSidecar(filepath.Join(sourceDir, descriptionFile)),
		Observations: readSidecar(filepath.Join(sourceDir, observationsFile)),
		Values:       make(map[string]string),
	}
	for _, key := range d.Root.Keys() {
		if param, ok := d.Root.Param(key); ok {
			rec.Columns = append(rec.Columns, key)
			rec.Values[key] = param.Value
		}
	}
	return rec, nil
}

// DeepRecord is Record with one column per leaf at any depth, named by the
// dotted path from the root.
func (d *Document) DeepRecord(calculation, sourceDir string) (Record, error) {
	rec, err := d.Record(calculation, sourceDir)
	if err != nil {
		return Record{}, err
	}
	rec.Columns, rec.Values = d.FlatLeaves()
	return rec, nil
}

// FlatLeaves returns every leaf of the document in file order, keyed by the
// dotted path from the root (e.g. "Model constants.McV").
func (d *Document) FlatLeaves() ([]string, map[string]string) {
	cols := []string{}
	vals := make(map[string]string)
	flattenSection(d.Root, "", &cols, vals)
	return cols, vals
}

func flattenSection(sec *Section, prefix string, cols *[]string, vals map[string]string) {
	for _, key := range sec.Keys() {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		v, _ := sec.Get(key)
		switch entry := v.(type) {
		case Parameter:
			*cols = append(*cols, path)
			vals[path] = entry.Value
		case *Section:
			flattenSection(entry, path, cols, vals)
		}
	}
}

func readSidecar(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}
