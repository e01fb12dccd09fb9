package intake

// recentIDs is a fixed-capacity set that evicts its oldest entry once full.
// Callers hold Consumer.mu.
type recentIDs struct {
	slots []string
	next  int
	index map[string]int
}

func newRecentIDs(capacity int) *recentIDs {
	return &recentIDs{
		slots: make([]string, 0, capacity),
		index: make(map[string]int, capacity),
	}
}

// add records id and reports whether it was absent.
func (r *recentIDs) add(id string) bool {
	if _, ok := r.index[id]; ok {
		return false
	}

	if len(r.slots) < cap(r.slots) {
		r.index[id] = len(r.slots)
		r.slots = append(r.slots, id)
		return true
	}

	// A removed ID can leave its slot behind, so evict only if the index
	// still points here.
	if old := r.slots[r.next]; r.index[old] == r.next {
		delete(r.index, old)
	}
	r.slots[r.next] = id
	r.index[id] = r.next
	r.next = (r.next + 1) % len(r.slots)
	return true
}

func (r *recentIDs) remove(id string) {
	delete(r.index, id)
}
