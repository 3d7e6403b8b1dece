package community

import (
	"fmt"
	"math"
	"strings"

	"github.com/zomorrodilab/ZLab-tools/internal/data"
)

// FetchNormalizedMetabolomics returns the sample-specific metabolite values
// for one community model, keyed by VMH ID and normalized to sum to one.
// The sample is located by finding the GC-MS sample ID embedded in the model
// name; exactly one row must match.
func FetchNormalizedMetabolomics(modelName string, gcms *data.GCMSTable, matches map[string]string) (map[string]float64, error) {
	var sampleID string
	for _, id := range gcms.SampleIDs {
		if !strings.Contains(modelName, id) {
			continue
		}
		if sampleID != "" {
			return nil, fmt.Errorf("multiple sample IDs (%s, %s) match model %s", sampleID, id, modelName)
		}
		sampleID = id
	}
	if sampleID == "" {
		return nil, fmt.Errorf("no sample ID in gcms data matches model %s", modelName)
	}

	values := map[string]float64{}
	total := 0.0
	for gcmsName, vmhID := range matches {
		v, err := gcms.Value(sampleID, gcmsName)
		if err != nil {
			return nil, err
		}
		values[vmhID] = v
		total += v
	}
	if total == 0 || math.IsNaN(total) {
		return nil, fmt.Errorf("sample %s has no usable metabolite values", sampleID)
	}
	for vmhID := range values {
		values[vmhID] /= total
	}
	return values, nil
}
