// Package matching maps GC-MS metabolite names to VMH identifiers through a
// cascade of successively weaker strategies: direct name matching, PubChem
// identifier matching, and a manually curated fallback table.
package matching

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/zomorrodilab/ZLab-tools/internal/data"
	"github.com/zomorrodilab/ZLab-tools/internal/pubchem"
)

// Strategy names the cascade stage that produced a match.
type Strategy string

const (
	StrategyDirect   Strategy = "direct"
	StrategyInChIKey Strategy = "inchikey"
	StrategyCID      Strategy = "cid"
	StrategyInChI    Strategy = "inchi"
	StrategySMILES   Strategy = "smiles"
	StrategyManual   Strategy = "manual"
)

// Resolver is the PubChem lookup the cascade depends on. A nil Resolver
// disables the PubChem stage; matching then falls back to direct + manual,
// mirroring the offline behavior of the original tool.
type Resolver interface {
	CompoundByName(ctx context.Context, name string) (*pubchem.Compound, error)
}

// Matcher runs the VMH matching cascade over a set of GC-MS names.
type Matcher struct {
	DB       *data.VMHTable
	Resolver Resolver
	// Manual maps GC-MS names to hand-curated VMH IDs; consulted last, and
	// only for VMH IDs not already claimed by an earlier stage.
	Manual map[string]string
	Log    *log.Logger
}

// Result is the outcome of one cascade run.
type Result struct {
	// Matches maps each matched GC-MS name to its VMH ID.
	Matches map[string]string
	// Strategies records which cascade stage matched each name.
	Strategies map[string]Strategy
	// Unmatched lists the names no stage could resolve, sorted.
	Unmatched []string
	// Total is the number of input names.
	Total int
}

// Run executes the cascade. PubChem lookup failures are soft: the affected
// name simply continues to the later stages.
func (m *Matcher) Run(ctx context.Context, names []string) (*Result, error) {
	if m.DB == nil {
		return nil, errors.New("matching: VMH table is required")
	}

	res := &Result{
		Matches:    map[string]string{},
		Strategies: map[string]Strategy{},
		Total:      len(names),
	}

	// Stage 1: direct matching of normalized names against VMH full names.
	var unmatched []string
	for _, name := range names {
		if vmhID, ok := m.DB.ByFullName(NormalizeName(name)); ok {
			res.record(name, vmhID, StrategyDirect)
			continue
		}
		unmatched = append(unmatched, name)
	}

	// Stage 2: PubChem identifier matching for the remainder. Properties are
	// fetched once per name; the identifier passes run in decreasing order of
	// specificity, and isomeric SMILES is only consulted if the stronger
	// identifiers left names unmatched.
	if m.Resolver != nil && len(unmatched) > 0 {
		compounds := map[string]*pubchem.Compound{}
		for _, name := range unmatched {
			c, err := m.Resolver.CompoundByName(ctx, name)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				if !errors.Is(err, pubchem.ErrNotFound) {
					m.logf("pubchem lookup failed for %q: %v", name, err)
				}
				continue
			}
			compounds[name] = c
		}

		unmatched = m.matchCompounds(res, unmatched, compounds, StrategyInChIKey)
		unmatched = m.matchCompounds(res, unmatched, compounds, StrategyCID)
		unmatched = m.matchCompounds(res, unmatched, compounds, StrategyInChI)
		if len(res.Matches) < res.Total {
			unmatched = m.matchCompounds(res, unmatched, compounds, StrategySMILES)
		}
	}

	// Stage 3: manual table, without stealing VMH IDs claimed above.
	if len(m.Manual) > 0 {
		claimed := map[string]bool{}
		for _, vmhID := range res.Matches {
			claimed[vmhID] = true
		}
		still := unmatched[:0]
		for _, name := range unmatched {
			vmhID, ok := m.Manual[name]
			if !ok || claimed[vmhID] {
				still = append(still, name)
				continue
			}
			res.record(name, vmhID, StrategyManual)
			claimed[vmhID] = true
		}
		unmatched = still
	}

	res.Unmatched = append([]string{}, unmatched...)
	sort.Strings(res.Unmatched)
	m.logf("%d of %d GC-MS names matched to VMH identifiers", len(res.Matches), res.Total)
	return res, nil
}

// matchCompounds runs one identifier pass over the still-unmatched names and
// returns the names that remain unmatched.
func (m *Matcher) matchCompounds(res *Result, names []string, compounds map[string]*pubchem.Compound, strategy Strategy) []string {
	remaining := names[:0]
	for _, name := range names {
		c, ok := compounds[name]
		if !ok {
			remaining = append(remaining, name)
			continue
		}
		vmhID, matched := m.lookup(c, strategy)
		if !matched {
			remaining = append(remaining, name)
			continue
		}
		res.record(name, vmhID, strategy)
		m.logf("matched %q to %s using %s", name, vmhID, strategy)
	}
	return remaining
}

func (m *Matcher) lookup(c *pubchem.Compound, strategy Strategy) (string, bool) {
	switch strategy {
	case StrategyInChIKey:
		if c.InChIKey == "" {
			return "", false
		}
		return m.DB.ByInChIKey(c.InChIKey)
	case StrategyCID:
		if c.CID == 0 {
			return "", false
		}
		return m.DB.ByCID(c.CID)
	case StrategyInChI:
		if c.InChI == "" {
			return "", false
		}
		return m.DB.ByInChI(c.InChI)
	case StrategySMILES:
		if c.IsomericSMILES == "" {
			return "", false
		}
		return m.DB.BySMILES(c.IsomericSMILES)
	default:
		return "", false
	}
}

func (r *Result) record(name, vmhID string, strategy Strategy) {
	r.Matches[name] = vmhID
	r.Strategies[name] = strategy
}

// CountByStrategy tallies matches per cascade stage.
func (r *Result) CountByStrategy() map[Strategy]int {
	out := map[Strategy]int{}
	for _, s := range r.Strategies {
		out[s]++
	}
	return out
}

func (m *Matcher) logf(format string, args ...any) {
	if m.Log != nil {
		m.Log.Printf(format, args...)
	}
}

// MatchDataset is the end-to-end operation: load the GC-MS dataset, run the
// cascade over its metabolite names, and write the match key file next to the
// other outputs. Returns the cascade result and the key file path.
func MatchDataset(ctx context.Context, m *Matcher, gcmsPath, outDir string) (*Result, string, error) {
	table, err := data.LoadGCMSTable(gcmsPath)
	if err != nil {
		return nil, "", err
	}
	names := table.MetaboliteNames()
	if len(names) == 0 {
		return nil, "", fmt.Errorf("gcms data %s has no metabolite columns", gcmsPath)
	}
	res, err := m.Run(ctx, names)
	if err != nil {
		return nil, "", err
	}
	keyPath := data.MatchKeyPath(outDir, gcmsPath)
	if err := data.WriteMatchKey(keyPath, res.Matches); err != nil {
		return nil, "", err
	}
	return res, keyPath, nil
}
