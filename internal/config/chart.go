package config

// Chart holds every style knob of the event line chart. Keys mirror the
// structured overrides a host hands in; anything left out of a YAML file keeps
// the value from DefaultChart.
type Chart struct {
	// Width is the canvas width in pixels. The host owns container sizing;
	// this is only the value used when nothing else is known.
	Width float64 `yaml:"width" json:"width"`

	// LineTitle labels the background lane (sort 0) behind the line chart.
	LineTitle string `yaml:"lineTitle" json:"lineTitle"`

	Padding        Padding        `yaml:"padding" json:"padding"`
	Axis           Axis           `yaml:"axis" json:"axis"`
	Scale          Scale          `yaml:"scale" json:"scale"`
	FieldNames     FieldNames     `yaml:"fieldNames" json:"fieldNames"`
	EventTypeStyle EventTypeStyle `yaml:"eventTypeStyle" json:"eventTypeStyle"`
	EventStyle     EventStyle     `yaml:"eventStyle" json:"eventStyle"`
	LineStyle      LineStyle      `yaml:"lineStyle" json:"lineStyle"`
	Pan            Pan            `yaml:"pan" json:"pan"`
}

// Padding is the canvas padding in pixels.
type Padding struct {
	Top    float64 `yaml:"top" json:"top"`
	Right  float64 `yaml:"right" json:"right"`
	Bottom float64 `yaml:"bottom" json:"bottom"`
	Left   float64 `yaml:"left" json:"left"`
}

type Axis struct {
	Height float64 `yaml:"height" json:"height"`
	Color  string  `yaml:"color" json:"color"`
}

// Scale describes the horizontal day scale. Space is the pixel width of one
// day; the three tick levels are month starts, every fifth day and the rest.
type Scale struct {
	LineWidth    float64 `yaml:"lineWidth" json:"lineWidth"`
	Space        float64 `yaml:"space" json:"space"`
	TextSpace    float64 `yaml:"textSpace" json:"textSpace"`
	TextSize     float64 `yaml:"textSize" json:"textSize"`
	FirstHeight  float64 `yaml:"firstHeight" json:"firstHeight"`
	FirstColor   string  `yaml:"firstColor" json:"firstColor"`
	SecondHeight float64 `yaml:"secondHeight" json:"secondHeight"`
	SecondColor  string  `yaml:"secondColor" json:"secondColor"`
	ThirdHeight  float64 `yaml:"thirdHeight" json:"thirdHeight"`
	ThirdColor   string  `yaml:"thirdColor" json:"thirdColor"`
}

// FieldNames maps logical fields onto the keys of incoming records.
type FieldNames struct {
	EventUnique string `yaml:"eventUniqueField" json:"eventUniqueField"`
	EventTitle  string `yaml:"eventTitleField" json:"eventTitleField"`
	EventDesc   string `yaml:"eventDescField" json:"eventDescField"`
	EventStart  string `yaml:"eventStartField" json:"eventStartField"`
	EventEnd    string `yaml:"eventEndField" json:"eventEndField"`
	EventSeries string `yaml:"eventSeriesField" json:"eventSeriesField"`
	LineUnique  string `yaml:"lineUniqueField" json:"lineUniqueField"`
	LineX       string `yaml:"lineXField" json:"lineXField"`
	LineY       string `yaml:"lineYField" json:"lineYField"`
	LineSeries  string `yaml:"lineSeriesField" json:"lineSeriesField"`
}

// TextStyle is a font size plus color. An empty Color means "use the
// owning lane's primary color".
type TextStyle struct {
	Color string  `yaml:"color" json:"color"`
	Size  float64 `yaml:"size" json:"size"`
	Bold  bool    `yaml:"bold" json:"bold"`
}

// EventTypeStyle sizes the lane label column; Height is also the lane height.
type EventTypeStyle struct {
	Width     float64   `yaml:"width" json:"width"`
	Height    float64   `yaml:"height" json:"height"`
	TextStyle TextStyle `yaml:"textStyle" json:"textStyle"`
}

type EventStyle struct {
	Height    float64   `yaml:"height" json:"height"`
	MinWidth  float64   `yaml:"minWidth" json:"minWidth"`
	Radius    float64   `yaml:"radius" json:"radius"`
	LineWidth float64   `yaml:"lineWidth" json:"lineWidth"`
	TextStyle TextStyle `yaml:"textStyle" json:"textStyle"`

	// Colors for events whose series matches no lane.
	PrimaryColor   string `yaml:"primaryColor" json:"primaryColor"`
	SecondaryColor string `yaml:"secondaryColor" json:"secondaryColor"`
}

// LineStyle controls the optional line chart. Its height is
// YScaleSpace*YScaleCount and its dashed gridlines sit every YScaleSpace.
type LineStyle struct {
	YScaleSpace   float64  `yaml:"yScaleSpace" json:"yScaleSpace"`
	YScaleCount   int      `yaml:"yScaleCount" json:"yScaleCount"`
	YPaddingRatio float64  `yaml:"yPaddingRatio" json:"yPaddingRatio"`
	LineWidth     float64  `yaml:"lineWidth" json:"lineWidth"`
	PointRadius   float64  `yaml:"pointRadius" json:"pointRadius"`
	HitRadius     float64  `yaml:"hitRadius" json:"hitRadius"`
	GridColor     string   `yaml:"gridColor" json:"gridColor"`
	Colors        []string `yaml:"colors" json:"colors"`
}

// Pan bounds the horizontal pan offset to [Min, axisXWidth-RightInset].
type Pan struct {
	Min        float64 `yaml:"min" json:"min"`
	RightInset float64 `yaml:"rightInset" json:"rightInset"`
}

// DefaultChart returns the reference layout.
func DefaultChart() Chart {
	return Chart{
		Width:     900,
		LineTitle: "Trend",
		Padding:   Padding{Top: 24, Right: 24, Bottom: 48, Left: 0},
		Axis:      Axis{Height: 15, Color: "#666"},
		Scale: Scale{
			LineWidth:    1,
			Space:        10,
			TextSpace:    6,
			TextSize:     10,
			FirstHeight:  15,
			FirstColor:   "#333",
			SecondHeight: 10,
			SecondColor:  "#666",
			ThirdHeight:  6,
			ThirdColor:   "#999",
		},
		FieldNames: FieldNames{
			EventUnique: "id",
			EventTitle:  "title",
			EventDesc:   "desc",
			EventStart:  "startDate",
			EventEnd:    "endDate",
			EventSeries: "type",
			LineUnique:  "id",
			LineX:       "dt",
			LineY:       "value",
			LineSeries:  "type",
		},
		EventTypeStyle: EventTypeStyle{
			Width:     100,
			Height:    40,
			TextStyle: TextStyle{Size: 14, Bold: true},
		},
		EventStyle: EventStyle{
			Height:         30,
			MinWidth:       60,
			Radius:         4,
			LineWidth:      2,
			TextStyle:      TextStyle{Size: 14},
			PrimaryColor:   "#1677ff",
			SecondaryColor: "#e6f4ff",
		},
		LineStyle: LineStyle{
			YScaleSpace:   50,
			YScaleCount:   6,
			YPaddingRatio: 0.1,
			LineWidth:     2,
			PointRadius:   3,
			HitRadius:     4,
			GridColor:     "#999",
			Colors:        []string{"#1677ff", "#fa8c16", "#52c41a", "#eb2f96"},
		},
		Pan: Pan{Min: -100, RightInset: 200},
	}
}

// Normalize replaces zero or nonsensical values with defaults so a partial
// override never yields a degenerate layout.
func (c *Chart) Normalize() {
	d := DefaultChart()

	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Axis.Height <= 0 {
		c.Axis.Height = d.Axis.Height
	}
	if c.Axis.Color == "" {
		c.Axis.Color = d.Axis.Color
	}
	if c.Scale.Space <= 0 {
		c.Scale.Space = d.Scale.Space
	}
	if c.Scale.LineWidth <= 0 {
		c.Scale.LineWidth = d.Scale.LineWidth
	}
	if c.Scale.TextSize <= 0 {
		c.Scale.TextSize = d.Scale.TextSize
	}
	normalizeFieldNames(&c.FieldNames, d.FieldNames)

	if c.EventTypeStyle.Width <= 0 {
		c.EventTypeStyle.Width = d.EventTypeStyle.Width
	}
	if c.EventTypeStyle.Height <= 0 {
		c.EventTypeStyle.Height = d.EventTypeStyle.Height
	}
	if c.EventTypeStyle.TextStyle.Size <= 0 {
		c.EventTypeStyle.TextStyle.Size = d.EventTypeStyle.TextStyle.Size
	}
	if c.EventStyle.Height <= 0 {
		c.EventStyle.Height = d.EventStyle.Height
	}
	if c.EventStyle.MinWidth < 0 {
		c.EventStyle.MinWidth = d.EventStyle.MinWidth
	}
	if c.EventStyle.TextStyle.Size <= 0 {
		c.EventStyle.TextStyle.Size = d.EventStyle.TextStyle.Size
	}
	if c.EventStyle.PrimaryColor == "" {
		c.EventStyle.PrimaryColor = d.EventStyle.PrimaryColor
	}
	if c.EventStyle.SecondaryColor == "" {
		c.EventStyle.SecondaryColor = d.EventStyle.SecondaryColor
	}

	if c.LineStyle.YScaleSpace <= 0 {
		c.LineStyle.YScaleSpace = d.LineStyle.YScaleSpace
	}
	// At least two scale lines so the value range maps onto a non-zero height.
	if c.LineStyle.YScaleCount < 2 {
		c.LineStyle.YScaleCount = d.LineStyle.YScaleCount
	}
	if c.LineStyle.YPaddingRatio < 0 {
		c.LineStyle.YPaddingRatio = d.LineStyle.YPaddingRatio
	}
	if c.LineStyle.HitRadius <= 0 {
		c.LineStyle.HitRadius = d.LineStyle.HitRadius
	}
	if c.LineStyle.PointRadius <= 0 {
		c.LineStyle.PointRadius = d.LineStyle.PointRadius
	}
	if c.LineStyle.GridColor == "" {
		c.LineStyle.GridColor = d.LineStyle.GridColor
	}
	if len(c.LineStyle.Colors) == 0 {
		c.LineStyle.Colors = d.LineStyle.Colors
	}
}

func normalizeFieldNames(f *FieldNames, d FieldNames) {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&f.EventUnique, d.EventUnique)
	fill(&f.EventTitle, d.EventTitle)
	fill(&f.EventDesc, d.EventDesc)
	fill(&f.EventStart, d.EventStart)
	fill(&f.EventEnd, d.EventEnd)
	fill(&f.EventSeries, d.EventSeries)
	fill(&f.LineUnique, d.LineUnique)
	fill(&f.LineX, d.LineX)
	fill(&f.LineY, d.LineY)
	fill(&f.LineSeries, d.LineSeries)
}
