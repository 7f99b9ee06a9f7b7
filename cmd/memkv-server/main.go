package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/yndnr/memkv/internal/infra/buildinfo"
	"github.com/yndnr/memkv/internal/infra/confloader"
	"github.com/yndnr/memkv/internal/infra/shutdown"
	"github.com/yndnr/memkv/internal/server/config"
	"github.com/yndnr/memkv/internal/server/httpserver"
	"github.com/yndnr/memkv/internal/server/redisserver"
	"github.com/yndnr/memkv/internal/storage/memory"
	"github.com/yndnr/memkv/internal/telemetry/logger"
	"github.com/yndnr/memkv/internal/telemetry/metric"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// flags holds the parsed command line.
type flags struct {
	configFile  string
	addr        string
	dir         string
	dbfilename  string
	showVersion bool
}

func parseFlags(args []string, output io.Writer) (*flags, error) {
	fs := flag.NewFlagSet("memkv-server", flag.ContinueOnError)
	fs.SetOutput(output)

	f := &flags{}
	fs.StringVar(&f.configFile, "config", "", "Path to configuration file")
	fs.StringVar(&f.addr, "addr", "", "Redis listen address (overrides server.redis.addr)")
	fs.StringVar(&f.dir, "dir", "", "Value reported by CONFIG GET dir")
	fs.StringVar(&f.dbfilename, "dbfilename", "", "Value reported by CONFIG GET dbfilename")
	fs.BoolVar(&f.showVersion, "version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return f, nil
}

// overrides maps the flags that were set onto config keys.
func (f *flags) overrides() map[string]any {
	m := make(map[string]any)
	if f.addr != "" {
		m["server.redis.addr"] = f.addr
	}
	if f.dir != "" {
		m["storage.dir"] = f.dir
	}
	if f.dbfilename != "" {
		m["storage.dbfilename"] = f.dbfilename
	}
	return m
}

func newLoader(f *flags) *confloader.Loader {
	opts := []confloader.Option{
		confloader.WithDefaults(config.DefaultMap()),
		confloader.WithOverrides(f.overrides()),
	}
	if f.configFile != "" {
		opts = append(opts, confloader.WithConfigFile(f.configFile))
	}
	return confloader.NewLoader(opts...)
}

// loadConfig loads and validates the configuration.
func loadConfig(loader *confloader.Loader) (*config.ServerConfig, error) {
	cfg := config.Default()
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	f, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	if f.showVersion {
		fmt.Fprintf(stdout, "memkv-server %s\n", buildinfo.String())
		return nil
	}

	loader := newLoader(f)
	cfg, err := loadConfig(loader)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	log.Info("starting memkv-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", f.configFile)
	log.Debug("effective configuration", config.Sanitize(cfg)...)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := memory.New(
		memory.WithShards(cfg.Storage.Shards),
		memory.WithConfig(cfg.Parameters()),
	)

	metrics := metric.NewRegistry()
	if err := metrics.Register(metric.NewStoreCollector(store)); err != nil {
		return fmt.Errorf("register store collector: %w", err)
	}

	shutdownHandler := shutdown.NewHandler(shutdownTimeout, log)

	// Registered first so it stops after the servers that write to the store.
	if cfg.Storage.SweepInterval > 0 {
		janitor := store.StartJanitor(ctx, cfg.Storage.SweepInterval, log.With("component", "janitor"))
		shutdownHandler.OnShutdown("janitor", janitor.Stop)
	}

	redisSrv := redisserver.New(&redisserver.Config{
		Addr:            cfg.Server.Redis.Addr,
		ReadBufferSize:  cfg.Server.Redis.ReadBufferSize,
		MaxRequestBytes: cfg.Server.Redis.MaxRequestBytes,
		RateLimit:       cfg.Server.Redis.RateLimit,
	}, store, metrics, log.With("component", "redisserver"))

	if err := redisSrv.Start(ctx); err != nil {
		return fmt.Errorf("start redis server: %w", err)
	}
	shutdownHandler.OnShutdown("redis", redisSrv.Shutdown)

	if cfg.Server.HTTP.Enabled {
		httpLog := log.With("component", "httpserver")
		httpSrv := httpserver.New(cfg.Server.HTTP.Addr, httpserver.NewRouter(&httpserver.RouterConfig{
			Keys:    store,
			Metrics: metrics,
			Logger:  httpLog,
		}), httpLog)
		if err := httpSrv.Start(); err != nil {
			_ = redisSrv.Shutdown(context.Background())
			return fmt.Errorf("start http server: %w", err)
		}
		shutdownHandler.OnShutdown("http", httpSrv.Shutdown)
	}

	reload := func() {
		next, err := loadConfig(loader)
		if err != nil {
			log.Error("config reload failed", "error", err)
			return
		}
		logger.SetLevel(next.Log.Level)
		log.Info("config reloaded", "log.level", logger.GetLevel())
	}
	shutdownHandler.OnReload(reload)

	if f.configFile != "" {
		// A watch failure only loses automatic reload; SIGHUP still works.
		watcher, err := confloader.NewWatcher(f.configFile, reload, confloader.WithWatcherLogger(log))
		if err != nil {
			log.Warn("config hot reload disabled", "error", err)
		} else {
			go func() {
				err := watcher.Run(ctx)
				if err != nil && !errors.Is(err, confloader.ErrWatcherClosed) && !errors.Is(err, context.Canceled) {
					log.Error("config watcher failed", "error", err)
				}
			}()
			shutdownHandler.OnShutdown("config-watcher", func(context.Context) error {
				return watcher.Close()
			})
		}
	}

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}
