package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/zyron/internal/config"
	"github.com/ironsheep/zyron/internal/logging"
	"github.com/ironsheep/zyron/internal/ocr"
	"github.com/ironsheep/zyron/internal/server"
	"github.com/ironsheep/zyron/internal/store"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("zyron %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			if v := ocr.Version(); v != "" {
				fmt.Printf("  Tesseract:  %s\n", v)
			} else {
				fmt.Println("  Tesseract:  not compiled in")
			}
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "--write-config":
			path := config.DefaultPath()
			if err := config.Default().Save(path); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			fmt.Printf("Wrote default configuration to %s\n", path)
			return
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "zyron: %v\n", err)
		os.Exit(1)
	}

	// Stdout is for MCP protocol
	log, err := logging.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zyron: %v\n", err)
		os.Exit(1)
	}
	log.WithFields(logrus.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
		"library": cfg.Library.Dir,
	}).Debug("starting zyron")

	fs := store.NewFS(cfg.Library.Dir, cfg.Library.DictionaryPath, store.FSOptions{
		JPEGQuality: cfg.Library.JPEGQuality,
		Logger:      log,
	})

	srv := server.New(server.Options{
		Config:     cfg,
		Repository: store.NewCached(fs, 0),
		Logger:     log,
		Version:    Version,
	})
	if err := srv.Run(); err != nil {
		log.WithError(err).Fatal("server error")
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func printHelp() {
	fmt.Println("zyron - MCP server that learns to read handwritten words")
	fmt.Println()
	fmt.Println("Usage: zyron [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println("  --write-config   Write the default configuration file and exit")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("  %s is read from next to the executable unless %s names another file.\n", config.FileName, config.EnvConfig)
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=path       Configuration file\n", config.EnvConfig)
	fmt.Printf("  %s=dir   Exemplar library root (default images)\n", config.EnvLibraryDir)
	fmt.Printf("  %s=path   Dictionary file\n", config.EnvDictionary)
	fmt.Printf("  %s=debug    Log level (panic..trace)\n", config.EnvLogLevel)
	fmt.Printf("  %s=n          Matching workers, 0 = one per CPU\n", config.EnvWorkers)
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
