// Package cli wires config, data sources and chart hosts into the
// eventline command line.
package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Render  *RenderCommand
	Serve   *ServeCommand
	Window  *WindowCommand
	Capture *CaptureCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "eventline"
	parser.LongDescription = "Event timeline with an optional line chart, from a dataset file and ICS feeds."

	cmds := &commands{
		Render:  &RenderCommand{globals: &globals, version: version},
		Serve:   &ServeCommand{globals: &globals, version: version},
		Window:  &WindowCommand{globals: &globals, version: version},
		Capture: &CaptureCommand{globals: &globals, version: version},
	}

	parser.AddCommand("render", "Render one frame", "Render one frame to a PNG or SVG file, optionally with a hovered or clicked pointer.", cmds.Render)
	parser.AddCommand("serve", "Serve the chart over HTTP", "Serve frames and pointer/pan APIs over HTTP, refreshing data on the configured schedule.", cmds.Serve)
	parser.AddCommand("window", "Open the chart in a window", "Open the chart in a desktop window with mouse, wheel and arrow-key input.", cmds.Window)
	parser.AddCommand("capture", "Rasterize a frame with Chromium", "Render an SVG frame and screenshot it with headless Chromium.", cmds.Capture)

	return parser, &globals, cmds
}

// Run is the main entry point using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the
// matched subcommand.
func RunWithArgs(version string, args []string) error {
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("eventline %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
