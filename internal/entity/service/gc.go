package service

// Orphans returns every id in removed that does not appear in any of
// activeSets. It is the building block for whole-entity deletion (where
// the active set spans every other surviving entity), and the facade's
// UpdateEntity runs Update's within-one-entity eviction result through it
// against every entity's references.
func Orphans(removed []uint32, activeSets ...[]uint32) []uint32 {
	active := make(map[uint32]struct{})
	for _, set := range activeSets {
		for _, id := range set {
			active[id] = struct{}{}
		}
	}
	var out []uint32
	for _, id := range removed {
		if _, ok := active[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
