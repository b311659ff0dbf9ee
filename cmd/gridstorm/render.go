package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dshills/gridstorm/internal/app"
	"github.com/dshills/gridstorm/internal/grid/core"
)

type renderOptions struct {
	top       int
	left      float64
	width     float64
	height    float64
	selection string
	json      bool
}

func (o *renderOptions) addFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.top, "top", 0, "first row of the viewport")
	fs.Float64Var(&o.left, "left", 0, "horizontal scroll offset")
	fs.Float64Var(&o.width, "width", 80, "viewport width")
	fs.Float64Var(&o.height, "height", 20, "viewport height")
	fs.StringVar(&o.selection, "select", "", "selection range as y:y1:x:x1")
	fs.BoolVar(&o.json, "json", false, "print the frame as JSON")
}

func init() {
	var ro renderOptions
	renderCommand := &cobra.Command{
		Use:   "render",
		Short: "Render one viewport of the grid",
		Long:  "Render the rows and columns visible in one viewport and print them as a table or as JSON.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := options()
			if err != nil {
				return err
			}
			opts.LogOutput = cmd.ErrOrStderr()
			return render(cmd, opts, ro)
		},
	}
	ro.addFlags(renderCommand.Flags())
	rootCommand.AddCommand(renderCommand)
}

func render(cmd *cobra.Command, opts app.Options, ro renderOptions) error {
	a, err := app.New(opts)
	if err != nil {
		return err
	}
	defer a.Shutdown()

	g := a.Grid()
	g.Resize(ro.width, ro.height)
	g.ScrollToRow(ro.top)
	g.ScrollLeft(ro.left)
	if ro.selection != "" {
		r, err := parseSelection(ro.selection)
		if err != nil {
			return err
		}
		g.Select(r)
	}

	frame := g.Render()
	for _, d := range frame.Body.Diagnostics {
		a.Logger().WithError(d).Warn("cell diagnostic")
	}

	out := cmd.OutOrStdout()
	if ro.json {
		raw, err := app.FrameJSON(frame)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(raw))
		return err
	}
	app.WriteTable(out, frame)
	return nil
}

// parseSelection parses "y:y1:x:x1".
func parseSelection(s string) (core.SelectionRange, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return core.SelectionRange{}, fmt.Errorf("invalid selection %q: want y:y1:x:x1", s)
	}
	var n [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 {
			return core.SelectionRange{}, fmt.Errorf("invalid selection %q: %q is not a row or column index", s, p)
		}
		n[i] = v
	}
	return core.SelectionRange{Y: n[0], Y1: n[1], X: n[2], X1: n[3]}.Normalize(), nil
}
