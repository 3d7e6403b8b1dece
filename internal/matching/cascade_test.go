package matching

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zomorrodilab/ZLab-tools/internal/data"
	"github.com/zomorrodilab/ZLab-tools/internal/pubchem"
)

const vmhFixture = "abbreviation\tfullName\tpubChemId\tinchiString\tinchiKey\tsmile\n" +
	"ac\tAcetate\t176\tInChI=1S/C2H4O2\tQTBSBXVTEAMEQO-UHFFFAOYSA-N\tCC(=O)O\n" +
	"but\tButyrate\t264\tInChI=1S/C4H8O2\tFERIUCNNQQJTOY-UHFFFAOYSA-N\tCCCC(=O)O\n" +
	"lac_L\tL-Lactate\t107689\tInChI=1S/C3H6O3\tJVTAAEKCZFNVCJ-UWTATZPHSA-N\tC[C@H](O)C(=O)O\n" +
	"pyr\tPyruvate\t1060\tInChI=1S/C3H4O3\tLCTONWCANYUPML-UHFFFAOYSA-N\tCC(=O)C(=O)O\n"

func loadTestDB(t *testing.T) *data.VMHTable {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vmh.tsv")
	require.NoError(t, os.WriteFile(path, []byte(vmhFixture), 0o644))
	table, err := data.LoadVMHTable(path)
	require.NoError(t, err)
	return table
}

// fakeResolver serves canned PubChem compounds by GC-MS name.
type fakeResolver struct {
	compounds map[string]*pubchem.Compound
	err       error
}

func (f *fakeResolver) CompoundByName(_ context.Context, name string) (*pubchem.Compound, error) {
	if f.err != nil {
		return nil, f.err
	}
	if c, ok := f.compounds[name]; ok {
		return c, nil
	}
	return nil, pubchem.ErrNotFound
}

func TestCascadeStrategies(t *testing.T) {
	m := &Matcher{
		DB: loadTestDB(t),
		Resolver: &fakeResolver{compounds: map[string]*pubchem.Compound{
			// inchikey beats everything
			"butyric acid": {CID: 999999, InChIKey: "FERIUCNNQQJTOY-UHFFFAOYSA-N"},
			// no key or inchi in VMH, falls through to CID
			"pyruvic acid": {CID: 1060},
			// only the isomeric SMILES is known to VMH
			"milk acid": {CID: 424242, IsomericSMILES: "C[C@H](O)C(=O)O"},
		}},
		Manual: map[string]string{"mystery peak": "pyr", "other peak": "ac"},
	}

	res, err := m.Run(context.Background(), []string{
		"Acetate (2TMS)", "butyric acid", "pyruvic acid", "milk acid", "mystery peak", "other peak",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"Acetate (2TMS)": "ac",
		"butyric acid":   "but",
		"pyruvic acid":   "pyr",
		"milk acid":      "lac_L",
	}, res.Matches)
	assert.Equal(t, StrategyDirect, res.Strategies["Acetate (2TMS)"])
	assert.Equal(t, StrategyInChIKey, res.Strategies["butyric acid"])
	assert.Equal(t, StrategyCID, res.Strategies["pyruvic acid"])
	assert.Equal(t, StrategySMILES, res.Strategies["milk acid"])

	// manual must not steal pyr (claimed by the CID pass) or re-match
	// "other peak" onto the already-claimed ac.
	assert.Equal(t, []string{"mystery peak", "other peak"}, res.Unmatched)

	counts := res.CountByStrategy()
	assert.Equal(t, 1, counts[StrategyDirect])
	assert.Equal(t, 0, counts[StrategyManual])
}

func TestCascadeManual(t *testing.T) {
	m := &Matcher{
		DB:     loadTestDB(t),
		Manual: map[string]string{"mystery peak": "pyr"},
	}

	res, err := m.Run(context.Background(), []string{"mystery peak", "noise"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"mystery peak": "pyr"}, res.Matches)
	assert.Equal(t, StrategyManual, res.Strategies["mystery peak"])
	assert.Equal(t, []string{"noise"}, res.Unmatched)
}

func TestCascadeOffline(t *testing.T) {
	// nil Resolver: direct matching only
	m := &Matcher{DB: loadTestDB(t)}

	res, err := m.Run(context.Background(), []string{"Acetate", "butyric acid"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Acetate": "ac"}, res.Matches)
	assert.Equal(t, []string{"butyric acid"}, res.Unmatched)
}

func TestCascadeResolverErrorsAreSoft(t *testing.T) {
	m := &Matcher{
		DB:       loadTestDB(t),
		Resolver: &fakeResolver{err: assert.AnError},
		Manual:   map[string]string{"butyric acid": "but"},
	}

	res, err := m.Run(context.Background(), []string{"butyric acid"})
	require.NoError(t, err, "resolver failures fall through to the manual stage")
	assert.Equal(t, "but", res.Matches["butyric acid"])
}

func TestCascadeCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := &Matcher{
		DB:       loadTestDB(t),
		Resolver: &fakeResolver{err: context.Canceled},
	}
	_, err := m.Run(ctx, []string{"butyric acid"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCascadeRequiresDB(t *testing.T) {
	m := &Matcher{}
	_, err := m.Run(context.Background(), []string{"x"})
	assert.Error(t, err)
}

func TestMatchDataset(t *testing.T) {
	dir := t.TempDir()
	gcms := filepath.Join(dir, "metabolomics.csv")
	require.NoError(t, os.WriteFile(gcms,
		[]byte("sample,group,batch,Acetate,butyric acid\nCSM001,c,1,0.5,0.5\n"), 0o644))

	m := &Matcher{DB: loadTestDB(t)}
	res, keyPath, err := MatchDataset(context.Background(), m, gcms, dir)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Total)
	assert.Equal(t, filepath.Join(dir, "metabolomics_matched_key.txt"), keyPath)

	raw, err := os.ReadFile(keyPath)
	require.NoError(t, err)
	assert.Equal(t, "Acetate\tac\n", string(raw))
}
