package calendar

import "sort"

const (
	unassignedManagerID   = "unassigned"
	unassignedManagerName = "Не назначен"
)

// groupByManager buckets tasks by their responsible manager in a single
// linear pass, with running status counts, the manager's distinct object
// list, and nested periodicity groups.
func groupByManager(tasks []UnifiedTask) []ManagerGroup {
	byManager := make(map[string]*ManagerGroup)
	var order []string

	for _, t := range tasks {
		ref := ManagerRef{ID: unassignedManagerID, Name: unassignedManagerName}
		if m := t.Object.Manager; m != nil {
			ref = *m
		}

		g, ok := byManager[ref.ID]
		if !ok {
			g = &ManagerGroup{Manager: ref}
			byManager[ref.ID] = g
			order = append(order, ref.ID)
		}

		g.Tasks = append(g.Tasks, t)
		g.Stats.add(t.Status)

		seen := false
		for _, obj := range g.Objects {
			if obj.ID == t.ObjectID {
				seen = true
				break
			}
		}
		if !seen {
			g.Objects = append(g.Objects, ObjectRef{ID: t.ObjectID, Name: t.ObjectName})
		}
	}

	out := make([]ManagerGroup, 0, len(order))
	for _, id := range order {
		g := byManager[id]
		g.ByPeriodicity = groupByPeriodicity(g.Tasks)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Manager.Name < out[j].Manager.Name })
	return out
}

// groupByObject buckets tasks by object, sorted by object name, with nested
// periodicity groups.
func groupByObject(tasks []UnifiedTask) []ObjectGroup {
	byObject := make(map[string]*ObjectGroup)
	var order []string

	for _, t := range tasks {
		g, ok := byObject[t.ObjectID]
		if !ok {
			g = &ObjectGroup{
				Object:  ObjectRef{ID: t.ObjectID, Name: t.ObjectName},
				Manager: t.Object.Manager,
			}
			byObject[t.ObjectID] = g
			order = append(order, t.ObjectID)
		}

		g.Tasks = append(g.Tasks, t)
		g.Stats.add(t.Status)
		if g.Manager == nil && t.Object.Manager != nil {
			g.Manager = t.Object.Manager
		}
	}

	out := make([]ObjectGroup, 0, len(order))
	for _, id := range order {
		g := byObject[id]
		g.ByPeriodicity = groupByPeriodicity(g.Tasks)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Object.Name < out[j].Object.Name })
	return out
}

func groupByPeriodicity(tasks []UnifiedTask) []PeriodicityGroup {
	byFreq := make(map[string]*PeriodicityGroup)
	var order []string

	for _, t := range tasks {
		freq := t.Frequency
		if freq == "" {
			freq = "Без периодичности"
		}

		g, ok := byFreq[freq]
		if !ok {
			g = &PeriodicityGroup{Frequency: freq}
			byFreq[freq] = g
			order = append(order, freq)
		}
		g.Tasks = append(g.Tasks, t)
		g.Stats.add(t.Status)
	}

	out := make([]PeriodicityGroup, 0, len(order))
	for _, freq := range order {
		out = append(out, *byFreq[freq])
	}
	return out
}
