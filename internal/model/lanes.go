package model

import (
	"fmt"
	"sort"
)

// Lanes is the validated, sort-ordered set of event types of one chart,
// background lane included.
type Lanes struct {
	types   []EventType
	byValue map[string]EventType
}

// NewLanes prepends the background lane to the user lanes and checks that
// user sort orders are unique and form exactly 1..N.
func NewLanes(background EventType, user []EventType) (Lanes, error) {
	background.Sort = BackgroundSort

	seen := make(map[int]string, len(user))
	for _, t := range user {
		if t.Sort == BackgroundSort {
			return Lanes{}, fmt.Errorf("lane %q: sort 0 is reserved for the line chart background", t.Value)
		}
		if prev, ok := seen[t.Sort]; ok {
			return Lanes{}, fmt.Errorf("lanes %q and %q share sort %d", prev, t.Value, t.Sort)
		}
		seen[t.Sort] = t.Value
	}
	for s := 1; s <= len(user); s++ {
		if _, ok := seen[s]; !ok {
			return Lanes{}, fmt.Errorf("lane sort orders must be contiguous from 1 to %d; %d is missing", len(user), s)
		}
	}

	types := make([]EventType, 0, len(user)+1)
	types = append(types, background)
	types = append(types, user...)
	sort.SliceStable(types, func(i, j int) bool { return types[i].Sort < types[j].Sort })

	byValue := make(map[string]EventType, len(types))
	for _, t := range types[1:] {
		if _, dup := byValue[t.Value]; !dup {
			byValue[t.Value] = t
		}
	}

	return Lanes{types: types, byValue: byValue}, nil
}

// Count is the number of lanes including the background lane.
func (l Lanes) Count() int {
	return len(l.types)
}

// All returns the lanes ordered by sort, background first.
func (l Lanes) All() []EventType {
	return l.types
}

// Background returns the sort-0 lane.
func (l Lanes) Background() EventType {
	if len(l.types) == 0 {
		return BackgroundLane("")
	}
	return l.types[0]
}

// Resolve finds the lane for a series key. Unknown keys resolve to a bare
// lane at DefaultSort with no colors and ok=false.
func (l Lanes) Resolve(series string) (EventType, bool) {
	if t, ok := l.byValue[series]; ok {
		return t, true
	}
	return EventType{Value: series, Sort: DefaultSort}, false
}
