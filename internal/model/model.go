package model

import (
	"fmt"
	"time"
)

// BackgroundSort is the sort order reserved for the line chart background
// lane. It never holds events.
const BackgroundSort = 0

// DefaultSort is the lane events fall back to when their series matches no
// configured lane.
const DefaultSort = 1

// Event is a single time-bounded item placed on a lane.
type Event struct {
	// Key uniquely identifies the event within one chart. Records without an
	// id value get SyntheticKey(index).
	Key string

	Title string
	Desc  string

	Start time.Time
	// End is nil for open-ended events, which render as a fixed minimum
	// width marker without a trailing guide.
	End *time.Time

	// Series selects the lane by EventType.Value.
	Series string
}

// HasEnd reports whether the event is closed.
func (e Event) HasEnd() bool {
	return e.End != nil
}

// EventType is a lane definition.
type EventType struct {
	Value          string `yaml:"value" json:"value"`
	Label          string `yaml:"label" json:"label"`
	Sort           int    `yaml:"sort" json:"sort"`
	PrimaryColor   string `yaml:"primaryColor" json:"primaryColor"`
	SecondaryColor string `yaml:"secondaryColor" json:"secondaryColor"`
}

// LinePoint is one sample of a line series.
type LinePoint struct {
	Key    string
	X      time.Time
	Y      float64
	Series string
}

// SyntheticKey is the key an event without an id value is known by.
func SyntheticKey(index int) string {
	return fmt.Sprintf("mel_id_%d", index)
}

// BackgroundLane builds the reserved sort-0 lane drawn behind the line chart.
func BackgroundLane(label string) EventType {
	return EventType{
		Value:          "zero",
		Label:          label,
		Sort:           BackgroundSort,
		PrimaryColor:   "#fff",
		SecondaryColor: "#fff",
	}
}
