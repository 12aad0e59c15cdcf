package signal

// VisibleSignals returns the signals a viewer at the given tier may see.
// Tier gating happens here, after scoring: the same bundle is computed once
// and rendered differently per viewer. The bundle is never mutated.
func (b Bundle) VisibleSignals(pro bool) []Signal {
	visible := make([]Signal, 0, len(b.Signals))
	for _, s := range b.Signals {
		if pro || !s.ProOnly {
			visible = append(visible, s)
		}
	}
	return visible
}

// GroupByCategory partitions signals by category preserving input order
// within each group. Categories with no signals are omitted; the risk index
// breakdown keeps zero-score entries instead, the two are intentionally
// different surfaces.
func GroupByCategory(signals []Signal) map[Category][]Signal {
	groups := make(map[Category][]Signal)
	for _, s := range signals {
		groups[s.Category] = append(groups[s.Category], s)
	}
	return groups
}
