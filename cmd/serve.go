package main

import (
	"context"
	"net/http"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const sweepInterval = 10 * time.Minute

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the web storefront",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address, overrides MEDICARE_HTTP_ADDR",
			},
		},
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	a, err := newApp(c)
	if err != nil {
		return err
	}
	defer a.Close()
	if addr := c.String("addr"); addr != "" {
		a.cfg.HTTPAddr = addr
	}

	srv, sessions := a.server()
	httpServer := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		a.log.WithField("addr", httpServer.Addr).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.WithError(err).Fatal("server error")
		}
	}()

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go func() {
		t := time.NewTicker(sweepInterval)
		defer t.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-t.C:
				if n := sessions.Sweep(); n > 0 {
					a.log.WithField("expired", n).Debug("sessions swept")
				}
			}
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		a.cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				a.log.Info("shutting down HTTP server")
				return httpServer.Shutdown(ctx)
			},
			"session-sweeper": func(context.Context) error {
				stopSweep()
				return nil
			},
		},
	)

	code := <-wait
	a.log.WithField("code", code).Info("stopped")
	if code != 0 {
		return cli.Exit("shutdown did not complete cleanly", code)
	}
	return nil
}
