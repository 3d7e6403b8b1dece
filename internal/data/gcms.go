package data

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// GCMSTable is a GC-MS metabolomics dataset: samples as rows, metabolite
// names as columns. The first column holds sample IDs and the first
// metadataColumns data columns carry run metadata rather than metabolites.
type GCMSTable struct {
	SampleIDs []string
	Columns   []string             // all data column headers, metadata included
	Rows      map[string][]string  // sample ID -> raw cells, aligned to Columns
}

// metadataColumns is the number of leading non-metabolite data columns in
// GC-MS exports (sample group and batch annotations).
const metadataColumns = 2

// LoadGCMSTable reads a GC-MS abundance CSV.
func LoadGCMSTable(path string) (*GCMSTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gcms data: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse gcms data %s: %w", path, err)
	}
	if len(rows) < 2 || len(rows[0]) < 2 {
		return nil, fmt.Errorf("gcms data %s has no usable rows", path)
	}

	t := &GCMSTable{
		Columns: rows[0][1:],
		Rows:    map[string][]string{},
	}
	for _, row := range rows[1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		t.SampleIDs = append(t.SampleIDs, row[0])
		t.Rows[row[0]] = row[1:]
	}
	return t, nil
}

// MetaboliteNames returns the metabolite column headers, skipping the
// leading metadata columns.
func (t *GCMSTable) MetaboliteNames() []string {
	if len(t.Columns) <= metadataColumns {
		return nil
	}
	return t.Columns[metadataColumns:]
}

// Value returns the numeric abundance of one metabolite in one sample.
func (t *GCMSTable) Value(sampleID, metabolite string) (float64, error) {
	row, ok := t.Rows[sampleID]
	if !ok {
		return 0, fmt.Errorf("sample %q not in gcms data", sampleID)
	}
	for i, col := range t.Columns {
		if col == metabolite {
			if i >= len(row) {
				return 0, fmt.Errorf("sample %q has no cell for %q", sampleID, metabolite)
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
			if err != nil {
				return 0, fmt.Errorf("sample %q metabolite %q: %w", sampleID, metabolite, err)
			}
			return v, nil
		}
	}
	return 0, fmt.Errorf("metabolite %q not in gcms data", metabolite)
}

// LoadManualKeys reads a tab-separated manual match key file of
// "<gc-ms name>\t<vmh id>" lines.
func LoadManualKeys(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manual keys: %w", err)
	}
	defer f.Close()

	keys := map[string]string{}
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r\n")
		if text == "" {
			continue
		}
		parts := strings.SplitN(text, "\t", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("manual keys %s line %d: expected <name>\\t<vmh id>", path, line)
		}
		keys[parts[0]] = strings.TrimSpace(parts[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read manual keys: %w", err)
	}
	return keys, nil
}

// WriteMatchKey writes a match key file of tab-separated name/identifier
// pairs, sorted by name for stable output. Creates the parent directory.
func WriteMatchKey(path string, matches map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	names := make([]string, 0, len(matches))
	for name := range matches {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s\t%s\n", name, matches[name])
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write match key: %w", err)
	}
	return nil
}

// MatchKeyPath derives the output key path for a GC-MS dataset:
// <outDir>/<dataset basename>_matched_key.txt.
func MatchKeyPath(outDir, gcmsPath string) string {
	base := filepath.Base(gcmsPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, base+"_matched_key.txt")
}

// LoadDietTable reads a tab-separated diet flux table with one header line,
// mapping diet exchange reaction IDs to their dietary flux (positive,
// mmol/person/day).
func LoadDietTable(path string) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open diet table: %w", err)
	}
	defer f.Close()

	diet := map[string]float64{}
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		if line == 1 {
			continue // header
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		parts := strings.Split(text, "\t")
		if len(parts) < 2 {
			return nil, fmt.Errorf("diet table %s line %d: expected <reaction>\\t<flux>", path, line)
		}
		flux, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("diet table %s line %d: %w", path, line, err)
		}
		diet[strings.TrimSpace(parts[0])] = flux
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read diet table: %w", err)
	}
	return diet, nil
}

// ListModelFiles returns the model files (json/yaml) directly under dir,
// sorted by name.
func ListModelFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read models directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yml", ".yaml":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
