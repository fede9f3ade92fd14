package calendar

// unify merges task lists into one de-duplicated stream keyed by occurrence
// identity. Lists are applied in order and later entries replace earlier ones
// for the same identity, so callers pass virtual first, then overdue
// promotions, then materialized records: the materialized form is
// authoritative whenever both exist. First-seen order is preserved.
func unify(lists ...[]UnifiedTask) []UnifiedTask {
	byID := make(map[string]int)
	var out []UnifiedTask

	for _, list := range lists {
		for _, t := range list {
			if i, seen := byID[t.ID]; seen {
				out[i] = t
				continue
			}
			byID[t.ID] = len(out)
			out = append(out, t)
		}
	}
	return out
}
