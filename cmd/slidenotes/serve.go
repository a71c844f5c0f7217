package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/slidenotes/internal/api"
	"github.com/thywilljoshua/slidenotes/internal/notes"
)

var version = "dev"

func serveCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the summary and quiz API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			size, err := notes.SizePreset(a.cfg.Defaults.Size)
			if err != nil {
				return err
			}
			gen, err := a.generator(cmd.Context())
			if err != nil {
				return err
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			h := api.NewHandler(api.Dependencies{
				Extractor: a.cfg.NewExtractor(a.log),
				Generator: gen,
				Store:     st,
				Logger:    a.log,
				Title:     a.cfg.Export.Title,
				Size:      size,
				Quiz:      a.cfg.Defaults.Quiz,
				Version:   version,
			})
			e := api.NewServer(a.cfg.Server, h)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.log.Info("server.start", "addr", a.cfg.Server.Addr, "provider", a.cfg.LLM.Provider, "extractor", a.cfg.Extractor.Mode, "db", st.Path())
				errCh <- e.Start(a.cfg.Server.Addr)
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}
			a.log.Info("server.stop")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
