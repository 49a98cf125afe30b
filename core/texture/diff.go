package texture

// Compare classifies every group that differs between next and base.
// Groups present in both maps with equal fingerprints are omitted.
func Compare(next, base ArchivedMap) Diff {
	diff := make(Diff)

	for group, fp := range next {
		baseFP, exists := base[group]
		switch {
		case !exists:
			diff[group] = Created
		case baseFP != fp:
			diff[group] = Modified
		}
	}

	for group := range base {
		if _, classified := diff[group]; classified {
			continue
		}
		if _, exists := next[group]; !exists {
			diff[group] = Deleted
		}
	}

	return diff
}
