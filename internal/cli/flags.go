package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config   string `long:"config" short:"c" description:"Path to config file" default:"eventline.yaml"`
	LogLevel string `long:"log-level" description:"Override log level (debug, info, warn, error)"`
	Version  bool   `long:"version" description:"Show version and exit"`
}

// RenderCommand draws one frame to a PNG or SVG file.
type RenderCommand struct {
	Out     string  `long:"out" short:"o" description:"Output file (.png or .svg); - writes to stdout" default:"eventline.png"`
	Format  string  `long:"format" description:"png | svg; inferred from --out when empty" choice:"png" choice:"svg"`
	Width   float64 `long:"width" description:"Override canvas width"`
	Pan     float64 `long:"pan" description:"Initial pan offset in pixels"`
	Pointer string  `long:"pointer" description:"Hover the pointer at x,y before drawing"`
	Click   bool    `long:"click" description:"Click at --pointer instead of only hovering"`

	globals *GlobalFlags
	version string
}

// ServeCommand runs the HTTP host with scheduled data refreshes.
type ServeCommand struct {
	Listen string `long:"listen" description:"HTTP listen address (overrides config if set)"`

	globals *GlobalFlags
	version string
}

// WindowCommand opens the chart in a desktop window.
type WindowCommand struct {
	Title string `long:"title" description:"Window title" default:"eventline"`

	globals *GlobalFlags
	version string
}

// CaptureCommand renders an SVG frame and rasterizes it with headless
// Chromium.
type CaptureCommand struct {
	Out     string `long:"out" short:"o" description:"Output PNG file" default:"eventline.png"`
	SVG     string `long:"svg" description:"Keep the intermediate SVG at this path"`
	Timeout int    `long:"timeout" description:"Capture timeout in seconds" default:"30"`

	globals *GlobalFlags
	version string
}
