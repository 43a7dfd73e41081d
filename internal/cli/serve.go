package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"chatlinks/internal/archive"
	"chatlinks/internal/server"
	"chatlinks/internal/storage"
)

func (a *app) newServeCommand() *cobra.Command {
	var (
		addr     string
		useStore bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the link search over HTTP",
		Long: `Serve exposes the search on:

  GET /search/all
  GET /search/site/{site}
  GET /search/sender/{sender}
  GET /search/site/{site}/sender/{sender}
  GET /search?site=&sender=&year=&month=&day=&archive=
  GET /archives       (with --store)
  GET /health

By default every request reads the configured archive file. With --store,
archives imported with "chatlinks import" are served instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.ServerAddr = addr
			}

			if !useStore {
				a.log.WithField("archive_path", a.cfg.ArchivePath).Info("Serving archive file")
				return a.serve(cmd.Context(), archive.NewFileSource(a.cfg.ArchivePath, a.cfg.DefaultArchive))
			}
			return a.withRepository(func(repo storage.Repository) error {
				a.log.WithField("badgerdb_path", a.cfg.BadgerDBPath).Info("Serving archive store")
				return a.serve(cmd.Context(), repo)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides configuration)")
	cmd.Flags().BoolVar(&useStore, "store", false, "serve archives from the archive store")
	return cmd
}

// serve runs the HTTP server until SIGINT/SIGTERM or a server failure.
func (a *app) serve(ctx context.Context, source server.MessageSource) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(source, server.Options{
		Addr:           a.cfg.ServerAddr,
		AllowedOrigin:  a.cfg.AllowedOrigin,
		DefaultArchive: a.cfg.DefaultArchive,
	}, a.log)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gCtx.Done()
		a.log.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.log.Info("Server stopped")
	return nil
}
