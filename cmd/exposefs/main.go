package main

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"exposefs/internal/config"
	"exposefs/internal/fs"
	"exposefs/internal/logging"

	"github.com/spf13/pflag"
)

var (
	logger = logging.GetLogger()
)

func main() {
	os.Exit(run())
}

func run() int {
	// Environment (and an optional .env file) provides defaults; flags
	// override.
	cfg := config.FromEnv()

	pflag.StringVarP(&cfg.Source, "source", "s", cfg.Source, "source directory to expose")
	pflag.StringVarP(&cfg.MountPoint, "mount", "m", cfg.MountPoint, "mount point for the read-only view")
	pflag.BoolVarP(&cfg.OneFileSystem, "one-file-system", "x", cfg.OneFileSystem, "hide entries on a different device than the source")
	pflag.StringVar(&cfg.BannedTypes, "banned-types", cfg.BannedTypes, "type tags to hide (default \""+fs.DefaultBannedTags+"\")")
	verbose := pflag.BoolP("verbose", "v", false, "enable debug logging")
	pflag.Parse()

	level := logging.ParseLevel(cfg.LogLevel)
	if *verbose {
		level = logging.ParseLevel("DEBUG")
	}
	logging.Setup(os.Stdout, level)

	logger.Info("starting exposefs",
		"source", cfg.Source, "mount", cfg.MountPoint,
		"one-file-system", cfg.OneFileSystem)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		pflag.Usage()
		return 1
	}

	// Policy validation happens here, before any mount attempt.
	vfs, err := fs.New(cfg.Source, fs.Options{
		OneFileSystem: cfg.OneFileSystem,
		BannedTags:    cfg.BannedTypes,
	})
	if err != nil {
		logger.Error("failed to create filesystem", "err", err)
		return 1
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if err := vfs.Mount(cfg.MountPoint); err != nil {
		logger.Error("mount failed", "err", err)
		return 1
	}

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		sig := <-sigChan
		logger.Info("received signal", "signal", sig.String())
		if err := vfs.Unmount(cfg.MountPoint); err != nil {
			logger.Error("unmount error", "err", err)
		}
	}()

	wg.Wait()
	logger.Info("clean shutdown complete")
	return 0
}
