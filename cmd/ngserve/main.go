// Copyright 2025 The ngserve Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the n-gram completion server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

ngserve predicts the next token of a text from the tokens before the cursor.
At startup it reads a plain text corpus, splits it on whitespace and builds
one n-gram model per order, from highest_n down to 1. A completion request
takes the tokens before the cursor, asks every model for the tokens that
followed the same context in the corpus and merges the answers. When the
cursor sits inside a partially typed token the candidates are ranked by edit
distance to it.

# Usage

Serve completions over stdin/stdout:

	ngserve -corpus corpus.txt

Use bigger contexts and enable debug mode:

	ngserve -corpus corpus.txt -n 4 -d

Run in CLI mode for interactive testing:

	ngserve -corpus corpus.txt -c -limit 10

Serve JSON over HTTP instead of stdin/stdout:

	ngserve -corpus corpus.txt -http 127.0.0.1:8080

# Configuration

Runtime configuration is read from ngserve.toml in the user config dir, or
from the file given with -config:

	[corpus]
	path_to_corpus = "corpus.txt"
	highest_n = 3

	[engine]
	max_scan_attempts = 100
	scan_step = 1
	bloom_fp_rate = 0.01

	[server]
	max_limit = 64
	http_addr = ""

	[cli]
	default_limit = 24

The config file is automatically created with defaults if it doesn't exist.
Flags override the file.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout, see package server.

	{"id": "req1", "t": "so I pet the ca", "c": [15], "l": 20}
	{"id": "req1", "s": [{"d": "car", "i": "car", "r": 1}, {"d": "cat", "i": "cat", "r": 2}], "c": 2, "t": 41}

# Command Line Flags

	-config string
	    Path to a config file
	-corpus string
	    Corpus file (overrides path_to_corpus)
	-n int
	    Highest n-gram order (overrides highest_n)
	-limit int
	    Number of suggestions to print in CLI mode
	-http string
	    Serve HTTP on this address instead of IPC
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-version
	    Show current version
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bastiangx/ngserve/internal/cli"
	"github.com/bastiangx/ngserve/internal/logger"
	"github.com/bastiangx/ngserve/internal/utils"
	"github.com/bastiangx/ngserve/pkg/config"
	"github.com/bastiangx/ngserve/pkg/corpus"
	"github.com/bastiangx/ngserve/pkg/server"
	"github.com/bastiangx/ngserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = "ngserve"
	gh      = "https://github.com/bastiangx/ngserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to a config file")
	corpusPath := flag.String("corpus", "", "Corpus file (overrides path_to_corpus)")
	highestN := flag.Int("n", 0, "Highest n-gram order (overrides highest_n)")
	limit := flag.Int("limit", 0, "Number of suggestions to print in CLI mode (default from config)")
	httpAddr := flag.String("http", "", "Serve HTTP on this address instead of IPC")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfg, usedConfig, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(usedConfig))

	if *corpusPath != "" {
		cfg.Corpus.Path = *corpusPath
	}
	if *highestN != 0 {
		cfg.Corpus.HighestN = *highestN
	}
	if *httpAddr != "" {
		cfg.Server.HTTPAddr = *httpAddr
	}
	if *limit == 0 {
		*limit = cfg.CLI.DefaultLimit
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}
	resolvedCorpus := pathResolver.GetCorpusPath(cfg.Corpus.Path)

	start := time.Now()
	tokens, stats, err := corpus.Read(resolvedCorpus)
	if err != nil {
		log.Fatalf("Failed to read corpus: %v", err)
	}
	log.Debugf("Read %s lines, %s tokens from %s",
		utils.FormatWithCommas(stats.Lines), utils.FormatWithCommas(stats.Tokens), resolvedCorpus)

	engine, err := suggest.NewEngine(tokens, suggest.Options{
		HighestN:        cfg.Corpus.HighestN,
		MaxScanAttempts: cfg.Engine.MaxScanAttempts,
		ScanStep:        cfg.Engine.ScanStep,
		BloomFPRate:     cfg.Engine.BloomFPRate,
	})
	if err != nil {
		log.Fatalf("Failed to build models: %v", err)
	}
	log.Debugf("Engine init done in %v", time.Since(start))

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:", "limit", *limit, "highest_n", cfg.Corpus.HighestN)

		inputHandler := cli.NewInputHandler(engine, *limit)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	if cfg.Server.HTTPAddr != "" {
		showStartupInfo(resolvedCorpus, "http://"+cfg.Server.HTTPAddr)
		if err := server.NewHTTPServer(engine, cfg).Run(cfg.Server.HTTPAddr); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(engine, cfg)
	showStartupInfo(resolvedCorpus, "stdin/stdout")

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func printVersion() {
	l := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ ngserve ] Next token completions from n-gram models")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(corpusPath, listen string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("=========")
	println(" ngserve ")
	println("=========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("corpus: ( %s )", corpusPath)
	log.Infof("serving: %s", listen)
	log.Info("status: ready")
	println("=========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
