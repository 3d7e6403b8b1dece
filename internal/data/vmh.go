package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// VMHRecord is one row of the VMH metabolite reference table.
type VMHRecord struct {
	ID         string // VMH abbreviation, e.g. "ac"
	FullName   string
	PubChemCID int64 // 0 when absent
	InChI      string
	InChIKey   string
	SMILES     string
}

// VMHTable is the VMH metabolite reference table with lookup indexes over
// every identifier the matching cascade consults. Index keys are normalized
// (lower-cased names, absent cells dropped).
type VMHTable struct {
	Records []VMHRecord

	byName     map[string]string // lower(fullName) -> VMH ID
	byCID      map[int64]string
	byInChI    map[string]string
	byInChIKey map[string]string
	bySMILES   map[string]string
}

// LoadVMHTable reads the tab-separated VMH metabolite table. The first
// column is the VMH abbreviation; remaining columns are located by header
// name (fullName, pubChemId, inchiString, inchiKey, smile). Cells holding
// "nan" or empty strings are treated as absent.
func LoadVMHTable(path string) (*VMHTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vmh table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse vmh table %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("vmh table %s has no data rows", path)
	}

	cols := map[string]int{}
	for i, name := range rows[0] {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"fullName", "pubChemId", "inchiString", "inchiKey", "smile"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("vmh table %s missing column %q", path, required)
		}
	}

	t := &VMHTable{
		byName:     map[string]string{},
		byCID:      map[int64]string{},
		byInChI:    map[string]string{},
		byInChIKey: map[string]string{},
		bySMILES:   map[string]string{},
	}
	for _, row := range rows[1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		rec := VMHRecord{
			ID:       row[0],
			FullName: cell(row, cols["fullName"]),
			InChI:    cell(row, cols["inchiString"]),
			InChIKey: cell(row, cols["inchiKey"]),
			SMILES:   cell(row, cols["smile"]),
		}
		if raw := cell(row, cols["pubChemId"]); raw != "" {
			// pubChemId cells are often float formatted ("5793.0").
			if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
				rec.PubChemCID = int64(v)
			}
		}
		t.Records = append(t.Records, rec)

		if rec.FullName != "" {
			t.byName[strings.ToLower(rec.FullName)] = rec.ID
		}
		if rec.PubChemCID != 0 {
			t.byCID[rec.PubChemCID] = rec.ID
		}
		if rec.InChI != "" {
			t.byInChI[rec.InChI] = rec.ID
		}
		if rec.InChIKey != "" {
			t.byInChIKey[rec.InChIKey] = rec.ID
		}
		if rec.SMILES != "" {
			t.bySMILES[rec.SMILES] = rec.ID
		}
	}
	return t, nil
}

// cell returns a trimmed cell value with "nan" sentinel cells dropped.
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	v := strings.TrimSpace(row[idx])
	if strings.EqualFold(v, "nan") {
		return ""
	}
	return v
}

// ByFullName resolves a metabolite name (case-insensitive) to a VMH ID.
func (t *VMHTable) ByFullName(name string) (string, bool) {
	id, ok := t.byName[strings.ToLower(name)]
	return id, ok
}

// ByCID resolves a PubChem CID to a VMH ID.
func (t *VMHTable) ByCID(cid int64) (string, bool) {
	id, ok := t.byCID[cid]
	return id, ok
}

// ByInChI resolves an InChI string to a VMH ID.
func (t *VMHTable) ByInChI(inchi string) (string, bool) {
	id, ok := t.byInChI[inchi]
	return id, ok
}

// ByInChIKey resolves an InChIKey to a VMH ID.
func (t *VMHTable) ByInChIKey(key string) (string, bool) {
	id, ok := t.byInChIKey[key]
	return id, ok
}

// BySMILES resolves an isomeric SMILES string to a VMH ID.
func (t *VMHTable) BySMILES(smiles string) (string, bool) {
	id, ok := t.bySMILES[smiles]
	return id, ok
}
