// Package analysis summarizes and ranks batch optimization outputs.
package analysis

import (
	"math"
	"sort"
)

// SecretionPotential is a per-model summary of its maximized fecal transport
// fluxes, used to compare how metabolically active a community is.
type SecretionPotential struct {
	Model string

	Count   int
	Nonzero int

	MinFlux  float64
	MaxFlux  float64
	MeanFlux float64
	P05Flux  float64
	P95Flux  float64

	SpreadP95P05 float64
	TotalFlux    float64
}

// ComputePotential summarizes a reaction->flux map of maximized fecal
// transport fluxes for one model.
func ComputePotential(modelName string, fluxes map[string]float64) SecretionPotential {
	p := SecretionPotential{Model: modelName}
	if len(fluxes) == 0 {
		return p
	}
	p.Count = len(fluxes)

	vals := make([]float64, 0, len(fluxes))
	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	for _, v := range fluxes {
		vals = append(vals, v)
		sum += v
		if v != 0 {
			p.Nonzero++
		}
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	sort.Float64s(vals)
	p.MinFlux = minv
	p.MaxFlux = maxv
	p.MeanFlux = sum / float64(len(vals))
	p.P05Flux = percentileSorted(vals, 0.05)
	p.P95Flux = percentileSorted(vals, 0.95)
	p.SpreadP95P05 = p.P95Flux - p.P05Flux
	p.TotalFlux = sum
	return p
}

// percentileSorted interpolates between order statistics of a sorted slice.
func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
