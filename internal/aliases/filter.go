package aliases

// Reason explains the outcome of a single alias in [Filterer.Explain].
type Reason string

const (
	Kept           Reason = "kept"
	SimilarToName  Reason = "similar_to_name"
	SimilarToAlias Reason = "similar_to_alias"
)

// Decision is the trace of one alias through the filter.
type Decision struct {
	Alias  string `json:"alias"`
	Kept   bool   `json:"kept"`
	Reason Reason `json:"reason"`
	// Against is the name or kept alias that caused the drop.
	Against string  `json:"against,omitempty"`
	Ratio   float64 `json:"ratio,omitempty"`
}

// Filterer deduplicates aliases at a fixed similarity threshold.
type Filterer struct {
	Threshold float64
}

// NewFilterer returns a Filterer; a non-positive threshold selects [DefaultThreshold].
func NewFilterer(threshold float64) *Filterer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Filterer{Threshold: threshold}
}

// Filter returns the aliases that are not similar to name nor to an earlier kept alias,
// in their original order. The result is never nil.
func (f *Filterer) Filter(name string, aliases []string) []string {
	kept := make([]string, 0, len(aliases))
	for _, d := range f.Explain(name, aliases) {
		if d.Kept {
			kept = append(kept, d.Alias)
		}
	}
	return kept
}

// Explain runs the filter and reports the decision taken for every alias.
func (f *Filterer) Explain(name string, aliases []string) []Decision {
	decisions := make([]Decision, 0, len(aliases))
	kept := make([]string, 0, len(aliases))

	for _, alias := range aliases {
		if m := Compare(name, alias, f.Threshold); m.Similar {
			decisions = append(decisions, Decision{Alias: alias, Reason: SimilarToName, Against: name, Ratio: m.Ratio})
			continue
		}

		decision := Decision{Alias: alias, Kept: true, Reason: Kept}
		for _, k := range kept {
			if m := Compare(k, alias, f.Threshold); m.Similar {
				decision = Decision{Alias: alias, Reason: SimilarToAlias, Against: k, Ratio: m.Ratio}
				break
			}
		}

		if decision.Kept {
			kept = append(kept, alias)
		}
		decisions = append(decisions, decision)
	}

	return decisions
}

var defaultFilterer = NewFilterer(DefaultThreshold)

// Filter deduplicates aliases against name at [DefaultThreshold].
func Filter(name string, aliases []string) []string {
	return defaultFilterer.Filter(name, aliases)
}

// Explain traces the filter for name at [DefaultThreshold].
func Explain(name string, aliases []string) []Decision {
	return defaultFilterer.Explain(name, aliases)
}
