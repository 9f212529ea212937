package publication

import "sort"

// Group is a run of publications sharing one type.
type Group struct {
	Type         Type          `json:"type"`
	Title        string        `json:"title"`
	Publications []Publication `json:"publications"`
}

// GroupByType buckets publications by type in Types order, newest first
// within each bucket. Ties keep their input order. Unknown types come last,
// ordered by name. Empty groups are omitted.
func GroupByType(pubs []Publication) []Group {
	buckets := make(map[Type][]Publication)
	for _, p := range pubs {
		buckets[p.Type] = append(buckets[p.Type], p)
	}

	types := make([]Type, 0, len(buckets))
	for t := range buckets {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		oi, oj := types[i].order(), types[j].order()
		if oi != oj {
			return oi < oj
		}
		return types[i] < types[j]
	})

	groups := make([]Group, 0, len(types))
	for _, t := range types {
		members := buckets[t]
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].Year.Sortable() > members[j].Year.Sortable()
		})
		groups = append(groups, Group{Type: t, Title: t.DisplayName(), Publications: members})
	}
	return groups
}
