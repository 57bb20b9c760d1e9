// Package main is the vectord CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/vectord/internal/cli"
	"github.com/hyperjump/vectord/internal/client"
	"github.com/hyperjump/vectord/internal/config"
	"github.com/hyperjump/vectord/internal/embedding"
	"github.com/hyperjump/vectord/internal/metrics"
	"github.com/hyperjump/vectord/internal/models"
	"github.com/hyperjump/vectord/internal/server"
	"github.com/hyperjump/vectord/internal/service"
	"github.com/hyperjump/vectord/internal/storage"
	"github.com/hyperjump/vectord/internal/watcher"
	"github.com/hyperjump/vectord/pkg/utils"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/vectord/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development). When the default file
// does not exist either, defaults plus environment are used so the server runs
// without any config file.
// Returns the config and the path that was actually loaded ("" for none).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "init":
		runInit()
	case "search":
		runSearch()
	case "status":
		runStatus()
	case "config":
		runConfig()
	case "version", "--version", "-v":
		fmt.Printf("vectord version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (search requests, dataset events)")
	addr := fs.String("addr", "", "listen address host:port (overrides config)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		if err := applyAddr(&cfg.Server, *addr); err != nil {
			fmt.Printf("Invalid --addr: %v\n", err)
			os.Exit(1)
		}
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
		zap.Int("shards", cfg.Shards.Count),
		zap.String("store_backend", cfg.Store.Backend),
		zap.String("store_path", cfg.Store.Path),
		zap.String("dataset", cfg.Dataset.Path),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer func() {
		if err := components.Close(); err != nil {
			logger.Warn("close failed", zap.Error(err))
		}
	}()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Dataset.Watch && cfg.Dataset.Path != "" {
		svc := components.Service
		watchOpts := []watcher.WatcherOption{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		w, err := watcher.NewWatcher(cfg.Dataset.Path, func() {
			resp, err := svc.Init(context.Background())
			if err != nil {
				logger.Warn("dataset reload failed", zap.Error(err))
				return
			}
			logger.Info("dataset reloaded", zap.String("result", resp.Message))
		}, watchOpts...)
		if err != nil {
			logger.Fatal("Failed to create watcher", zap.Error(err))
		}
		if err := w.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer w.Stop()
		logger.Info("watching dataset", zap.String("path", w.Path()))
	}

	srv := server.NewServer(components.Service, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// applyAddr sets host and port from a host:port string.
func applyAddr(cfg *config.ServerConfig, addr string) error {
	i := strings.LastIndex(addr, ":")
	if i < 0 {
		return fmt.Errorf("missing port in %q", addr)
	}
	var port int
	if _, err := fmt.Sscanf(addr[i+1:], "%d", &port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port in %q", addr)
	}
	if host := addr[:i]; host != "" {
		cfg.Host = host
	}
	cfg.Port = port
	return nil
}

func runInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct mode)")
	serverURL := fs.String("server", client.DefaultServerURL, "server URL (empty = initialize the store directly)")
	_ = fs.Parse(os.Args[2:])

	ctx := context.Background()
	var resp *models.InitResponse
	if *serverURL != "" {
		r, err := client.New(*serverURL).Init(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Init failed: %v\n", err)
			os.Exit(1)
		}
		resp = r
	} else {
		err := withDirectService(*configPath, func(svc *service.Service) error {
			r, err := svc.Init(ctx)
			if err != nil {
				return fmt.Errorf("init failed: %w", err)
			}
			resp = r
			return nil
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	fmt.Println(resp.Message)
}

// printSearchUsage prints search subcommand usage.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: vectord search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  vectord search hello world
  vectord search --top-n 5 "hello world"
  vectord search --output json hello         # structured JSON for other apps
  vectord search --server "" hello           # read the store directly
`)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument, so "vectord search hello -top-n 3"
// would otherwise leave -top-n unparsed.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// newSearchRequest rejects --top-n values that do not fit the uint32 wire field.
func newSearchRequest(query string, topN uint) (*models.SearchRequest, error) {
	if uint64(topN) > math.MaxUint32 {
		return nil, fmt.Errorf("--top-n %d exceeds the maximum of %d", topN, uint32(math.MaxUint32))
	}
	return &models.SearchRequest{Text: query, TopN: uint32(topN)}, nil
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct mode)")
	serverURL := fs.String("server", client.DefaultServerURL, "server URL (empty = search the store directly)")
	topN := fs.Uint("top-n", 10, "number of results")
	outputFormat := fs.String("output", "text", "output format: text (human-readable), compact (one result per line), or json (parseable)")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	req, err := newSearchRequest(queryStr, *topN)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ctx := context.Background()
	var response *models.SearchResponse
	if *serverURL != "" {
		response, err = client.New(*serverURL).Search(ctx, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		err = withDirectService(*configPath, func(svc *service.Service) error {
			r, err := svc.Search(ctx, req)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			response = r
			return nil
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct mode)")
	serverURL := fs.String("server", client.DefaultServerURL, "server URL (empty = read the store directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil || format == cli.OutputCompact {
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	ctx := context.Background()
	var status *models.StatusResponse
	if *serverURL != "" {
		status, err = client.New(*serverURL).Status(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		err = withDirectService(*configPath, func(svc *service.Service) error {
			r, err := svc.Status(ctx)
			if err != nil {
				return fmt.Errorf("status failed: %w", err)
			}
			status = r
			return nil
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if err := cli.WriteStatus(os.Stdout, status, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// runConfig prints the effective configuration (file, defaults and environment
// merged) or writes it to --out.
func runConfig() {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	out := fs.String("out", "", "write the effective config to this file instead of stdout")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *out != "" {
		if err := config.Save(*out, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config written to %s\n", *out)
		return
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
}

// withDirectService opens the store named by the config and runs fn against an
// in-process service. Used when no server URL is given.
func withDirectService(configPath string, fn func(*service.Service) error) error {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer components.Close()
	return fn(components.Service)
}

// Components holds initialized services.
type Components struct {
	Store     storage.Store
	Embedder  embedding.Embedder
	Collector *metrics.Basic
	Service   *service.Service
}

// Close releases the store and the embedder, returning every failure.
func (c *Components) Close() error {
	var err error
	if c.Embedder != nil {
		err = multierr.Append(err, c.Embedder.Close())
	}
	if c.Store != nil {
		err = multierr.Append(err, c.Store.Close())
	}
	return err
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.Open(cfg.Store.Backend, cfg.Store.Path, storage.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	embedder := embedding.NewCachedEmbedder(embedding.NewByteEmbedder(), cfg.Embedding.Capacity())
	collector := metrics.NewBasic()

	svc := service.New(service.Config{
		ShardCount:  cfg.Shards.Count,
		DatasetPath: cfg.Dataset.Path,
		StorePath:   cfg.Store.Path,
	}, store,
		service.WithLogger(logger),
		service.WithCollector(collector),
		service.WithEmbedder(embedder),
	)
	if logger != nil {
		logger.Info("vector service initialized",
			zap.Int("shards", cfg.Shards.Count),
			zap.String("store_backend", store.Backend()))
	}
	return &Components{
		Store:     store,
		Embedder:  embedder,
		Collector: collector,
		Service:   svc,
	}, nil
}

func printUsage() {
	fmt.Println(`vectord - Embedded vector similarity search service

Usage:
  vectord server [flags]           Start the HTTP server
  vectord init [flags]             Load the dataset (or persisted corpus) into the shards
  vectord search [flags] <query>   Return the records most similar to query
  vectord status [flags]           Show corpus/shard/store status
  vectord config [flags]           Print the effective configuration
  vectord version                  Show version
  vectord help                     Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/vectord/config.yaml)
  --debug            Enable debug logging
  --addr string      Listen address host:port (overrides config)

Init/Search/Status Flags:
  --config string    Config file path (for direct mode)
  --server string    Server URL (default: http://localhost:50051). Use empty (--server "") to open the store directly.

Search Flags:
  --top-n uint       Number of results (default: 10)
  --output string    Output format: text, compact or json (default: text)

Status Flags:
  --output string    Output format: text or json (default: text)

Config Flags:
  --config string    Config file path
  --out string       Write the effective config to a file instead of stdout

Environment:
  VECTORD_SHARDS         Shard count (default 1)
  VECTORD_DB             Persistent store path
  VECTORD_DATASET        Dataset JSON file (array of strings)
  VECTORD_STORE_BACKEND  bolt, sqlite or badger

Examples:
  vectord server
  vectord init
  vectord search hello world
  vectord search --output json --top-n 3 "hello"
  vectord status --output json`)
}
