package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/heysubinoy/pyazkv/internal/store"
	"github.com/heysubinoy/pyazkv/pkg/config"
	"github.com/heysubinoy/pyazkv/pkg/kv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}

	backend := openBackend(cfg, logger)
	reg := prometheus.NewRegistry()
	kvStore := store.NewInstrumentedStore(backend, reg)

	if err := kvStore.Init(); err != nil {
		logger.Fatal("failed to initialize store", zap.Error(err))
	}

	code := run(kvStore, backend, args)

	// The write buffer does not survive the process, so persist it now.
	if err := kvStore.Flush(); err != nil {
		logger.Error("flush on exit failed", zap.Error(err))
		code = 1
	}

	if cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsFile, reg); err != nil {
			logger.Error("failed to write metrics", zap.String("file", cfg.MetricsFile), zap.Error(err))
		}
	}

	_ = logger.Sync()
	os.Exit(code)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

func openBackend(cfg *config.Config, logger *zap.Logger) kv.Store {
	if cfg.Backend == config.BackendMemory {
		logger.Warn("memory backend selected, nothing is kept between runs")
		return store.NewMemStore()
	}
	return store.NewLSMStore(cfg.DataDir, cfg.FlushThreshold, store.WithLogger(logger))
}

func run(s kv.Store, backend kv.Store, args []string) int {
	switch args[0] {
	case "get":
		if len(args) < 2 {
			fmt.Println("Usage: kv-single get <key>")
			return 1
		}
		return handleGet(s, args[1])

	case "set":
		if len(args) < 3 {
			fmt.Println("Usage: kv-single set <key> <value>")
			return 1
		}
		return handleSet(s, args[1], args[2])

	case "delete":
		if len(args) < 2 {
			fmt.Println("Usage: kv-single delete <key>")
			return 1
		}
		return handleDelete(s, args[1])

	case "cas":
		if len(args) < 4 {
			fmt.Println("Usage: kv-single cas <key> <expected|-> <new>")
			return 1
		}
		return handleCheckAndSet(s, args[1], args[2], args[3])

	case "flush":
		if f, ok := s.(kv.Flusher); ok {
			if err := f.Flush(); err != nil {
				fmt.Fprintf(os.Stderr, "Flush failed: %v\n", err)
				return 1
			}
		}
		fmt.Println("Flushed")
		return 0

	case "stats":
		return handleStats(backend)

	default:
		fmt.Printf("Unknown command: %s\n", args[0])
		printUsage()
		return 1
	}
}

func handleGet(s kv.Store, key string) int {
	value, found, err := s.Get(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Get failed: %v\n", err)
		return 1
	}
	if !found {
		fmt.Printf("Key '%s' not found\n", key)
		return 1
	}
	fmt.Println(value)
	return 0
}

func handleSet(s kv.Store, key, raw string) int {
	value := parseValue(raw)
	if err := s.Set(key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Set failed: %v\n", err)
		return 1
	}
	fmt.Printf("Set '%s' = %s\n", key, value)
	return 0
}

func handleDelete(s kv.Store, key string) int {
	if err := s.Delete(key); err != nil {
		fmt.Fprintf(os.Stderr, "Delete failed: %v\n", err)
		return 1
	}
	fmt.Printf("Deleted '%s'\n", key)
	return 0
}

func handleCheckAndSet(s kv.Store, key, rawExpected, rawNew string) int {
	expected := kv.Absent()
	if rawExpected != "-" {
		expected = parseValue(rawExpected)
	}
	swapped, err := s.CheckAndSet(key, expected, parseValue(rawNew))
	if err != nil {
		fmt.Fprintf(os.Stderr, "CheckAndSet failed: %v\n", err)
		return 1
	}
	if !swapped {
		fmt.Printf("Value of '%s' did not match %s\n", key, expected)
		return 2
	}
	fmt.Printf("Set '%s' = %s\n", key, rawNew)
	return 0
}

func handleStats(backend kv.Store) int {
	lsmStore, ok := backend.(*store.LSMStore)
	if !ok {
		fmt.Println("backend: memory")
		return 0
	}
	st := lsmStore.Stats()
	fmt.Printf("backend: lsm\ndir: %s\nbuffered: %d/%d\nnext segment: %d\n",
		st.Dir, st.BufferLen, st.Threshold, st.NextSegment)
	return 0
}

// parseValue reads raw as JSON, falling back to a plain string.
func parseValue(raw string) kv.Value {
	if v, err := kv.Parse([]byte(raw)); err == nil {
		return v
	}
	return kv.String(raw)
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  kv-single [-config file] get <key>")
	fmt.Println("  kv-single [-config file] set <key> <value>")
	fmt.Println("  kv-single [-config file] delete <key>")
	fmt.Println("  kv-single [-config file] cas <key> <expected|-> <new>")
	fmt.Println("  kv-single [-config file] flush")
	fmt.Println("  kv-single [-config file] stats")
	fmt.Println("")
	fmt.Println("Values are parsed as JSON; anything else is stored as a string.")
	fmt.Println("")
	fmt.Println("Environment variables:")
	fmt.Println("  DATA_DIR        - segment directory (default: ./pyaz/data)")
	fmt.Println("  BACKEND         - lsm or memory (default: lsm)")
	fmt.Println("  FLUSH_THRESHOLD - buffered writes per segment (default: 1000)")
	fmt.Println("  LOG_LEVEL       - debug, info, warn, error (default: info)")
	fmt.Println("  METRICS_FILE    - write Prometheus metrics to this file on exit")
}
