package geometry

// PriorityOrder returns the draw order for n events given the indexes that
// want to be on top (hovered or active). Each candidate is held back until the
// next candidate is reached and is drawn just before it; the last candidate is
// drawn after everything else. Non-candidates keep their input order.
//
// With a single candidate this is "input order, candidate moved to the end".
func PriorityOrder(n int, candidates []int) []int {
	want := make(map[int]bool, len(candidates))
	for _, c := range candidates {
		if c >= 0 && c < n {
			want[c] = true
		}
	}

	order := make([]int, 0, n)
	pending := -1
	for i := 0; i < n; i++ {
		if !want[i] {
			order = append(order, i)
			continue
		}
		if pending >= 0 {
			order = append(order, pending)
		}
		pending = i
	}
	if pending >= 0 {
		order = append(order, pending)
	}
	return order
}
