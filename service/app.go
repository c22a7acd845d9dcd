package service

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"postadmin/app/config"
	"postadmin/app/repositories"
	"postadmin/app/routes"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const shutdownTimeout = 5 * time.Second

// RunAppServer starts the posts admin service and blocks until SIGINT/SIGTERM.
func RunAppServer(args []string) int {
	fs, gf := newFlagSet("serve")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := gf.load()
	if err != nil {
		return fail("%v", err)
	}
	setupLogging(cfg)

	listener, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fail("listen on %s: %v", cfg.Addr(), err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, listener); err != nil {
		log.Errorf("server stopped: %s", err)
		return 1
	}
	log.Infoln("server stopped")
	return 0
}

// serve runs the HTTP server on listener until ctx is done, then shuts it
// down gracefully and closes the store.
func serve(ctx context.Context, cfg *config.Config, listener net.Listener) error {
	db, err := repositories.OpenDB(cfg.DBPath, cfg.InMemory)
	if err != nil {
		listener.Close()
		return err
	}

	router := routes.SetupRoutes(db.DB, routes.Options{
		AdminUsername:     cfg.AdminUsername,
		AdminPasswordHash: cfg.AdminPasswordHash,
	})

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(listener)
	}()
	log.Infof("posts admin listening on %s (db: %q, in memory: %t)", listener.Addr(), db.Path(), cfg.InMemory)

	select {
	case err = <-serveErr:
	case <-ctx.Done():
		log.Infoln("shutting down ...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = multierr.Append(srv.Shutdown(shutdownCtx), ignoreServerClosed(<-serveErr))
	}

	return multierr.Append(ignoreServerClosed(err), db.Close())
}

func ignoreServerClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
