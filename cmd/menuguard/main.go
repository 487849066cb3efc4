// menuguard keeps Alt and Windows key menu suppression active for the
// lifetime of the process.
//
//	menuguard                      run with built-in defaults
//	menuguard -config path.toml    run from a config file, hot-reloading it
//	menuguard -config path -check  validate the config file and exit
//
// With defaults, every lone Alt or Win release is suppressed by injecting
// the reserved no-effect key. A config file can pick a different dummy key
// and restrict suppression to holds longer than a threshold.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"menuguard"
	"menuguard/internal/config"
	"menuguard/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to TOML config file")
	check := flag.Bool("check", false, "validate the config file and exit")
	flag.Parse()

	if err := run(*configPath, *check); err != nil {
		fmt.Fprintln(os.Stderr, "menuguard:", err)
		os.Exit(1)
	}
}

func run(configPath string, check bool) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if check {
		if configPath == "" {
			return errors.New("-check requires -config")
		}
		fmt.Println("config ok")
		return nil
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		return err
	}

	guard := newGuard(logger)
	if err := guard.apply(cfg); err != nil {
		if errors.Is(err, menuguard.ErrNotSupported) {
			return errors.New("this platform has no global keyboard hooks; menuguard only works on windows")
		}
		return err
	}
	defer guard.shutdown()

	if configPath != "" {
		loader := config.NewLoader(configPath, logger)
		loader.OnChange(func(next *config.Config) {
			if err := guard.apply(next); err != nil {
				logger.Error("failed to apply new config", "error", err)
			}
		})
		if err := loader.Watch(); err != nil {
			return err
		}
		defer loader.Close()
	}

	logger.Info("menuguard running",
		"dummy_key", cfg.DummyKey,
		"policy", cfg.Policy.Mode,
		"config", configPath)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	sig := <-sigc
	logger.Info("shutting down", "signal", sig.String())
	return nil
}

func setupLogging(cfg *config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Config{
		Level:  level,
		Format: format,
		Output: cfg.Logging.Output,
	}), nil
}

// guard owns the active hook handle and swaps it atomically on reload.
type guard struct {
	log *slog.Logger

	mu     sync.Mutex
	handle *menuguard.Handle
}

func newGuard(log *slog.Logger) *guard {
	return &guard{log: log}
}

// apply starts a hook for cfg and replaces the previous one. The new hook
// is installed before the old one stops, so suppression never lapses
// during a reload.
func (g *guard) apply(cfg *config.Config) error {
	guardCfg := cfg.BuildGuardConfig()
	guardCfg.Logger = g.log

	next, err := menuguard.Start(guardCfg)
	if err != nil {
		return err
	}

	g.mu.Lock()
	prev := g.handle
	g.handle = next
	g.mu.Unlock()

	if prev != nil {
		prev.Stop()
		prev.Wait()
	}
	return nil
}

func (g *guard) shutdown() {
	g.mu.Lock()
	handle := g.handle
	g.handle = nil
	g.mu.Unlock()

	if handle != nil {
		handle.Stop()
		handle.Wait()
	}
}
