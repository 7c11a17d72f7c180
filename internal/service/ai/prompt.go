package ai

import "strings"

// blockDelimiter separates the base instructions from appended enrichment
// blocks, and the blocks from one another.
const blockDelimiter = "\n\n---\n\n"

// Assemble concatenates the base instruction document with zero or more
// enrichment blocks. Pure function: base first, blocks in fetch order, empty
// blocks dropped. With no blocks the result is exactly the base text.
func Assemble(base string, blocks ...string) string {
	kept := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if block != "" {
			kept = append(kept, block)
		}
	}
	if len(kept) == 0 {
		return base
	}

	var b strings.Builder
	b.WriteString(base)
	for _, block := range kept {
		b.WriteString(blockDelimiter)
		b.WriteString(block)
	}
	return b.String()
}

// Temperature bounds of the generation service, inclusive.
const (
	minTemperature = 0.0
	maxTemperature = 1.0
)

// ClampTemperature forces the caller-supplied randomness control into the
// service's valid range. Out-of-range input is silently clamped, never
// rejected; in-range values pass through unchanged.
func ClampTemperature(t float64) float32 {
	if t < minTemperature {
		return minTemperature
	}
	if t > maxTemperature {
		return maxTemperature
	}
	return float32(t)
}
