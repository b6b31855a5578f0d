package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"pos-api/config"
	"pos-api/middlewares"
	"pos-api/routes"
	"pos-api/seeders"
	"pos-api/store"
)

func main() {
	app := &cli.App{
		Name:  "pos-api",
		Usage: "point of sale backend for a single clothing store",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "optional dotenv file"},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "migrate", Usage: "migrate the store before serving"}},
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create tables and indexes",
				Action: migrate,
			},
			{
				Name:  "seed",
				Usage: "create the owner, a staff member and sample products",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner-email", Value: seeders.DefaultOptions().OwnerEmail},
					&cli.StringFlag{Name: "owner-password", Value: seeders.DefaultOptions().OwnerPassword, EnvVars: []string{"SEED_OWNER_PASSWORD"}},
					&cli.StringFlag{Name: "staff-id", Value: seeders.DefaultOptions().StaffID},
					&cli.StringFlag{Name: "staff-pin", Value: seeders.DefaultOptions().StaffPin, EnvVars: []string{"SEED_STAFF_PIN"}},
				},
				Action: seed,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		zap.S().Error(err)
		os.Exit(1)
	}
}

// bootstrap loads config, sets up logging and opens the configured store.
func bootstrap(c *cli.Context) (*config.Config, store.Store, func(), error) {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := config.InitLogger(cfg.Logger)
	if err != nil {
		return nil, nil, nil, err
	}
	st, err := config.OpenStore(c.Context, cfg)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, nil, err
	}
	cleanup := func() {
		if err := st.Close(); err != nil {
			zap.S().Warnf("close store: %v", err)
		}
		_ = logger.Sync()
	}
	return cfg, st, cleanup, nil
}

func migrate(c *cli.Context) error {
	_, st, cleanup, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := st.Migrate(c.Context); err != nil {
		return err
	}
	zap.S().Info("migration completed successfully")
	return nil
}

func seed(c *cli.Context) error {
	_, st, cleanup, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := st.Migrate(c.Context); err != nil {
		return err
	}
	return seeders.Seed(c.Context, st, seeders.Options{
		OwnerEmail:    c.String("owner-email"),
		OwnerPassword: c.String("owner-password"),
		StaffID:       c.String("staff-id"),
		StaffPin:      c.String("staff-pin"),
	})
}

func serve(c *cli.Context) error {
	cfg, st, cleanup, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer cleanup()

	if c.Bool("migrate") {
		if err := st.Migrate(c.Context); err != nil {
			return err
		}
	}
	if err := middlewares.RegisterValidators(); err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(), middlewares.Timeout(cfg.RequestTimeout))
	r.Use(routes.CorsConfig(cfg.CorsOrigins))
	routes.RegisterRoutes(r, routes.Deps{Config: cfg, Store: st})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.S().Infof("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		zap.S().Infof("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
