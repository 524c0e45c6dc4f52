package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Luismorlan/hackernews/server"
	"github.com/Luismorlan/hackernews/server/resolver"
	"github.com/Luismorlan/hackernews/store"
	"github.com/Luismorlan/hackernews/utils"
	"github.com/Luismorlan/hackernews/utils/config"
	"github.com/Luismorlan/hackernews/utils/dotenv"
	. "github.com/Luismorlan/hackernews/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// newStore opens the storage backend selected by cfg and migrates its schema.
func newStore(cfg config.DBConfig) (store.Store, error) {
	if cfg.Backend == config.BackendMemory {
		return store.NewMemoryStore(), nil
	}
	db, err := utils.GetDBConnection(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "connect to database")
	}
	if err := utils.DatabaseSetupAndMigration(db); err != nil {
		return nil, err
	}
	return store.NewGormStore(db), nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	if err := dotenv.LoadDotEnvs(); err != nil {
		return err
	}
	// Environment may have changed the log settings.
	InitLogger()
	if cmd.Bool("debug") {
		SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to parse config")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("db-backend") {
		cfg.DB.Backend = cmd.String("db-backend")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	var extra []gin.HandlerFunc
	if cfg.Datadog.Enabled {
		utils.StartTracer(ServiceName, cfg.Datadog.Env)
		defer utils.CloseTracer()
		if err := utils.StartProfiler(ServiceName, cfg.Datadog.Env); err != nil {
			return err
		}
		defer utils.CloseProfiler()
		extra = append(extra, gintrace.Middleware(ServiceName))
	}

	s, err := newStore(cfg.DB)
	if err != nil {
		return err
	}

	router := server.NewRouter(&resolver.Resolver{
		Store:     s,
		AppSecret: []byte(cfg.AppSecret),
	}, extra...)

	srv := &http.Server{
		Addr:    cfg.Address(),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		Log.WithFields(logrus.Fields{"addr": srv.Addr, "db_backend": cfg.DB.Backend}).Info("api server starts up")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	Log.Info("api server shutdown")
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:   "hackernews",
		Usage:  "GraphQL api of a link sharing site",
		Action: run,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Usage: "HTTP port, overrides PORT",
			},
			&cli.StringFlag{
				Name:  "db-backend",
				Usage: "storage backend: memory, postgres or sqlite, overrides DB_BACKEND",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logs",
				Sources: cli.EnvVars("DEBUG"),
			},
		},
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		Log.WithError(err).Error("api server error")
		os.Exit(1)
	}
}
