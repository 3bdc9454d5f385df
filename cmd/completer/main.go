// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main runs the completion model as a MessagePack IPC server or as an
interactive CLI.

The model keeps track of a completion request, the text typed since, the span
of the token being completed and a ranked, highlighted list of candidates.
Candidates come from the client or from a word list loaded at startup.

# Usage

Start the server with default settings:

	completer

Load a word list and enable debug logging:

	completer --dict words.txt -d

Try it interactively:

	completer -c --dict words.txt --limit 10

Word lists hold one "word [frequency]" entry per line. Blank lines and lines
starting with '#' are ignored.

# Configuration

A TOML config file is created with defaults when missing:

	[model]
	legacy = false
	mark_open = "<mark>"
	mark_close = "</mark>"
	language = "und"

	[server]
	max_items = 64
	max_query = 60

	[dict]
	path = ""
	max_words = 50000
	min_frequency = 1

	[cli]
	limit = 12
	color = true

Flags win over the config file. Sections with invalid values are recovered
field by field, falling back to defaults for whatever cannot be read.

# IPC Protocol

See package server for the message layout. Logging always goes to stderr so
stdout carries nothing but MessagePack.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/completer/internal/cli"
	"github.com/bastiangx/completer/internal/logger"
	"github.com/bastiangx/completer/internal/utils"
	"github.com/bastiangx/completer/pkg/completer"
	"github.com/bastiangx/completer/pkg/config"
	"github.com/bastiangx/completer/pkg/fuzzy"
	"github.com/bastiangx/completer/pkg/server"
	"github.com/bastiangx/completer/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	ucli "github.com/urfave/cli/v3"
	"golang.org/x/text/language"
)

const (
	Version = "0.1.0"
	AppName = "completer"
	gh      = "https://github.com/bastiangx/completer"
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

func main() {
	sigHandler()
	ucli.VersionPrinter = printVersion

	app := &ucli.Command{
		Name:    AppName,
		Version: Version,
		Usage:   "Interactive completion model over MessagePack IPC",
		Flags: []ucli.Flag{
			&ucli.StringFlag{
				Name:  "config",
				Usage: "path to a TOML config file",
			},
			&ucli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "toggle debug logging",
			},
			&ucli.BoolFlag{
				Name:    "cli",
				Aliases: []string{"c"},
				Usage:   "run the interactive CLI instead of the server",
			},
			&ucli.StringFlag{
				Name:  "dict",
				Usage: "word list to complete from (overrides dict.path)",
			},
			&ucli.BoolFlag{
				Name:  "legacy",
				Usage: "use the legacy ranking (overrides model.legacy)",
			},
			&ucli.IntFlag{
				Name:  "limit",
				Usage: "number of candidates the CLI prints (overrides cli.limit)",
			},
			&ucli.BoolFlag{
				Name:  "rebuild-config",
				Usage: "write a fresh default config file and exit",
			},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// run only manages the flow; the packages it calls implement the logic.
func run(ctx context.Context, cmd *ucli.Command) error {
	logger.Setup(cmd.Bool("debug"))

	if cmd.Bool("rebuild-config") {
		path, err := config.RebuildConfigFile()
		if err != nil {
			return fmt.Errorf("rebuild config: %w", err)
		}
		fmt.Printf("Wrote default config to %s\n", path)
		return nil
	}

	cfg, configPath, err := config.LoadConfigWithPriority(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(cmd, cfg)
	log.Debugf("Using config: %s", config.GetActiveConfigPath(configPath))

	provider, err := loadDictionary(cfg.Dict)
	if err != nil {
		return err
	}

	opts := []completer.Option{
		completer.WithLegacy(cfg.Model.Legacy),
		completer.WithLanguage(parseLanguage(cfg.Model.Language)),
	}

	if cmd.Bool("cli") {
		renderer := cli.NewRenderer(os.Stdout, cfg.CLI.Color)
		model := completer.NewModel(append(opts, completer.WithMarker(renderer.Mark))...)
		defer model.Dispose()

		log.Debug("Input info:", "limit", cfg.CLI.Limit, "legacy", cfg.Model.Legacy)
		return cli.NewInputHandler(model, provider, renderer, cfg.CLI.Limit, os.Stdin, os.Stdout).Start(ctx)
	}

	model := completer.NewModel(append(opts, completer.WithMarker(fuzzy.Marker(cfg.Model.MarkOpen, cfg.Model.MarkClose)))...)
	defer model.Dispose()

	showStartupInfo(cfg, provider)
	return server.NewServer(model, provider, cfg, configPath).Start(ctx)
}

// applyFlags lets explicitly set flags override the config file.
func applyFlags(cmd *ucli.Command, cfg *config.Config) {
	if cmd.IsSet("dict") {
		cfg.Dict.Path = cmd.String("dict")
	}
	if cmd.IsSet("legacy") {
		cfg.Model.Legacy = cmd.Bool("legacy")
	}
	if cmd.IsSet("limit") {
		cfg.CLI.Limit = int(cmd.Int("limit"))
	}
}

// loadDictionary returns nil when no word list is configured.
func loadDictionary(dict config.DictConfig) (suggest.Provider, error) {
	if dict.Path == "" {
		log.Warn("No word list configured, candidates must come from the client")
		return nil, nil
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		return nil, fmt.Errorf("init path resolver: %w", err)
	}
	path, ok := pathResolver.ResolveFile(dict.Path)
	if !ok {
		return nil, fmt.Errorf("word list %s not found", dict.Path)
	}

	d := suggest.NewDictionary(
		suggest.WithMaxWords(dict.MaxWords),
		suggest.WithMinFrequency(dict.MinFrequency),
	)
	if _, err := d.LoadFile(path); err != nil {
		return nil, err
	}
	return d, nil
}

func parseLanguage(tag string) language.Tag {
	parsed, err := language.Parse(tag)
	if err != nil {
		log.Warnf("Unknown language %q, using root collation: %v", tag, err)
		return language.Und
	}
	return parsed
}

// printVersion renders the version banner on stderr.
func printVersion(cmd *ucli.Command) {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ completer ] ranked, highlighted completions as you type")
	l.Print("", "version", cmd.Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(cfg *config.Config, provider suggest.Provider) {
	l := logger.NewWithConfig(os.Stderr, "", log.InfoLevel, false, false, log.TextFormatter)
	if log.GetLevel() > log.InfoLevel {
		return
	}

	words := 0
	if provider != nil {
		words = provider.Stats()["totalWords"]
	}
	l.Infof("Version: %s", Version)
	l.Infof("Process ID: [ %d ]", os.Getpid())
	l.Infof("words: %s", utils.FormatWithCommas(words))
	l.Info("ranking", "legacy", cfg.Model.Legacy, "max_items", cfg.Server.MaxItems)
	l.Info("status: ready")
}
