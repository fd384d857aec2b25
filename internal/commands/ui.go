package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"journal/internal/logger"
	"journal/internal/session"
	"journal/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func addUI(topLevel *cobra.Command, o *globalOptions) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the terminal user interface",
		Example: `
journal ui
journal --server https://journal.example.com
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd.Context(), o)
		},
	}

	topLevel.AddCommand(cmd)
}

func runUI(ctx context.Context, o *globalOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f, err := os.OpenFile(filepath.Join(o.StateDir, "journal.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer f.Close() //nolint:errcheck
	log := logger.NewWithWriter("journal", f)

	c, auth := o.client()
	observer := session.NewObserver(auth)
	observer.Start()
	defer observer.Stop()

	p := tea.NewProgram(tui.New(tui.Options{
		Auth:    auth,
		Journal: c,
		Log:     log,
	}), tea.WithAltScreen(), tea.WithContext(ctx))

	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		return err
	})
	g.Go(func() error {
		if err := auth.Restore(ctx); err != nil {
			log.Warn().Err(err).Msg("restore session")
		}
		return nil
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case s := <-observer.Changes():
				p.Send(tui.SessionMsg(s))
			}
		}
	})
	return g.Wait()
}
