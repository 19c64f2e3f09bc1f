package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"storefront/internal/config"
	"storefront/internal/http/handlers"
	"storefront/internal/http/server"
	applog "storefront/internal/log"
	"storefront/internal/metrics"
	"storefront/internal/repos"
	"storefront/internal/repos/mongostore"
	"storefront/internal/services"
)

func main() {
	app := &cli.App{
		Name:  "storefront",
		Usage: "customer, product and order REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "optional dotenv file"},
			&cli.StringFlag{Name: "port", Usage: "listen port, overrides PORT"},
		},
		Action: serve,
		Commands: []*cli.Command{
			{Name: "serve", Usage: "run the HTTP API", Action: serve},
			{Name: "migrate", Usage: "bring the database schema and indexes up to date", Action: migrate},
			{Name: "seed", Usage: "load the demo catalog into an empty store", Action: seed},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig reads the configuration and points the event log at stdout and
// LOG_FILE. The returned func closes the log file.
func loadConfig(c *cli.Context) (config.Config, func(), error) {
	noop := func() {}
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return cfg, noop, err
	}
	if p := c.String("port"); p != "" {
		cfg.Port = p
	}

	var out io.Writer = os.Stdout
	closeLog := noop
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			log.WithError(err).Warnf("could not open log file %s", cfg.LogFile)
		} else {
			out = io.MultiWriter(os.Stdout, f)
			closeLog = func() {
				applog.SetOutput(os.Stdout)
				if err := f.Close(); err != nil {
					log.WithError(err).Warn("close log file")
				}
			}
		}
	}
	if err := applog.Setup(cfg.LogLevel, out); err != nil {
		closeLog()
		return cfg, noop, err
	}
	return cfg, closeLog, nil
}

// openStores connects the configured backend. The returned func releases it.
func openStores(ctx context.Context, cfg config.Config) (services.Stores, func() error, error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		client, db, err := mongostore.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return services.Stores{}, nil, err
		}
		closeFn := func() error { return client.Disconnect(context.Background()) }
		return mongostore.Stores(db), closeFn, nil
	default:
		db, err := repos.OpenDB(cfg.DBDSN)
		if err != nil {
			return services.Stores{}, nil, err
		}
		return repos.Stores(db), db.Close, nil
	}
}

func serve(c *cli.Context) error {
	cfg, closeLog, err := loadConfig(c)
	if err != nil {
		return err
	}
	defer closeLog()
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStores(); err != nil {
			log.WithError(err).Error("close store")
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	app := server.New(cfg, handlers.NewDeps(stores, cfg), metrics.NewServerMetrics(reg))

	errCh := make(chan error, 1)
	applog.Info(nil, "server.start", map[string]any{"port": cfg.Port, "db_driver": cfg.DBDriver})
	go func() {
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}
	applog.Info(nil, "server.stop", map[string]any{"timeout": cfg.ShutdownTimeout.String()})
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}

func migrate(c *cli.Context) error {
	cfg, closeLog, err := loadConfig(c)
	if err != nil {
		return err
	}
	defer closeLog()
	_, closeStores, err := openStores(c.Context, cfg)
	if err != nil {
		return err
	}
	log.WithField("db_driver", cfg.DBDriver).Info("schema up to date")
	return closeStores()
}

func seed(c *cli.Context) error {
	cfg, closeLog, err := loadConfig(c)
	if err != nil {
		return err
	}
	defer closeLog()
	stores, closeStores, err := openStores(c.Context, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	n, err := services.NewCatalogService(stores.Products).SeedDemo(c.Context)
	if err != nil {
		return err
	}
	log.WithField("inserted", n).Info("demo catalog seeded")
	return nil
}
