package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/gridstorm/internal/app"
	"github.com/dshills/gridstorm/internal/surface"
)

func init() {
	var watch bool
	var logFile string
	viewCommand := &cobra.Command{
		Use:   "view",
		Short: "Browse the grid in the terminal",
		Long: `Browse the grid in the terminal.

Arrow keys and PgUp/PgDn move the cursor, Shift extends the selection,
Enter toggles a group, < and > scroll by one column, + and - resize the
current column, ] and [ resize its column group, and q or Esc quits. Header borders can be dragged with
the mouse.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := options()
			if err != nil {
				return err
			}
			opts.LogOutput = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				opts.LogOutput = f
			}
			return view(cmd.Context(), opts, watch)
		},
	}
	viewCommand.Flags().BoolVarP(&watch, "watch", "w", false, "reload the configuration when it changes")
	viewCommand.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCommand.AddCommand(viewCommand)
}

func view(ctx context.Context, opts app.Options, watch bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(opts)
	if err != nil {
		return err
	}
	defer a.Shutdown()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()

	s := surface.New(screen, a.Grid(), surface.WithLogger(a.Logger()))

	if watch {
		w, err := a.Watch(s.Refresh)
		if err != nil {
			return err
		}
		defer w.Close()
	}

	go func() {
		<-ctx.Done()
		s.Refresh()
	}()
	if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
