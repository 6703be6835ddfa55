// Package main provides the CLI entry point for stillcut.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/stillcut/pkg/adapters/decoders"
	"github.com/user/stillcut/pkg/adapters/filesink"
	"github.com/user/stillcut/pkg/adapters/logger"
	"github.com/user/stillcut/pkg/adapters/nullsink"
	"github.com/user/stillcut/pkg/adapters/osfilesystem"
	"github.com/user/stillcut/pkg/adapters/pngencoder"
	"github.com/user/stillcut/pkg/adapters/rgbconvert"
	"github.com/user/stillcut/pkg/adapters/sheetrenderer"
	"github.com/user/stillcut/pkg/adapters/smartreader"
	"github.com/user/stillcut/pkg/config"
	"github.com/user/stillcut/pkg/media"
	"github.com/user/stillcut/pkg/orchestrator"
	"github.com/user/stillcut/pkg/pipeline"
	"github.com/user/stillcut/pkg/ports"
	"github.com/user/stillcut/pkg/stages/extract"
	"github.com/user/stillcut/pkg/stages/sheet"
	"github.com/user/stillcut/pkg/stillcut"
)

var version = "dev"

func main() {
	// Translations must be in place before the app renders any help
	// text, so the language flag is picked up ahead of flag parsing.
	registerLexicons(langFromArgs(os.Args))

	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newApp builds the CLI application.
func newApp() *cli.App {
	return &cli.App{
		Name:      "stillcut",
		Usage:     l10n.T("Extract the first frames of a media file as PNG stills"),
		ArgsUsage: "<input>",
		Version:   version,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Value:   10,
				Usage:   l10n.T("Packet budget on the video stream (the crossing packet is still processed)"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "output",
				Usage:   l10n.T("Directory for the stills (must already exist)"),
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: l10n.T("YAML configuration file"),
			},
			&cli.BoolFlag{
				Name:    "sheet",
				Aliases: []string{"s"},
				Usage:   l10n.T("Compose a contact sheet of the extracted stills"),
			},
			&cli.IntFlag{
				Name:  "sheet-columns",
				Value: 4,
				Usage: l10n.T("Contact sheet grid columns"),
			},
			&cli.StringFlag{
				Name:  "summary",
				Usage: l10n.T("Write a markdown run summary to this file"),
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: l10n.T("Run the full pipeline but discard output"),
			},
			&cli.StringFlag{
				Name:  "ffmpeg",
				Usage: l10n.T("Path to the ffmpeg executable"),
			},
			&cli.StringFlag{
				Name:  "drain",
				Value: "drop",
				Usage: l10n.T("Buffered-frame handling at stop (drop, flush)"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   l10n.T("Log level (debug, info, warn, error)"),
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"Q"},
				Usage:   l10n.T("Suppress all log output"),
			},
			&cli.StringFlag{
				Name:  "lang",
				Usage: l10n.T("Message language (en, ja)"),
			},
		},
		Action: run,
		Commands: []*cli.Command{
			{
				Name:  "version",
				Usage: l10n.T("Show version information"),
				Action: func(c *cli.Context) error {
					fmt.Println(l10n.F("stillcut version %s", version))
					return nil
				},
			},
		},
	}
}

// run executes the extraction pipeline.
func run(c *cli.Context) error {
	if c.NArg() != 1 {
		// The reference tool prints its usage on stdout, not stderr.
		fmt.Fprintln(c.App.Writer, l10n.T("Exactly one input file argument is required"))
		cli.ShowAppHelp(c)
		return cli.Exit("", 2)
	}
	inputPath := c.Args().First()

	fileCfg, err := loadFileConfig(c)
	if err != nil {
		return err
	}
	cfg := buildRunConfig(c, fileCfg)

	// The --lang flag was applied before the CLI was built; a
	// config-file language still switches runtime messages.
	if !c.IsSet("lang") && fileCfg.Lang != "" {
		registerLexicons(fileCfg.Lang)
	}

	var log ports.Logger
	if c.Bool("quiet") {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(fileCfg.LogLevel))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn(l10n.T("Interrupted, shutting down..."))
		cancel()
	}()

	// Create adapters
	fs := osfilesystem.New()
	reader := smartreader.New(log)
	converter := rgbconvert.New(log)
	encoder := pngencoder.New()

	var sink ports.FrameSink
	if cfg.DryRun {
		sink = nullsink.New(cfg.OutputDir)
	} else {
		sink = filesink.New(cfg.OutputDir, fs)
	}

	resolve := func(stream media.StreamInfo) (ports.FrameDecoder, error) {
		dec, _, err := decoders.Resolve(stream.Codec, decoders.Options{FFmpegPath: cfg.FFmpegPath}, log)
		return dec, err
	}

	renderer := sheetrenderer.New(
		sheetrenderer.WithBackground(config.ParseColor(fileCfg.Sheet.Theme.BackgroundColor)),
		sheetrenderer.WithLabelColor(config.ParseColor(fileCfg.Sheet.Theme.LabelColor)),
	)

	// Create stages
	extractStage := extract.NewStage(reader, resolve, converter, encoder, sink, log)
	sheetStage := sheet.NewStage(fs, renderer, log)

	// Create orchestrator
	orch := orchestrator.New(extractStage, sheetStage, fs, log)

	orchConfig := cfg.ToOrchestratorConfig(inputPath)
	orchConfig.Version = version

	result, err := orch.Run(ctx, orchConfig)
	if err != nil {
		return err
	}

	if cfg.DryRun {
		log.Info(l10n.F("Dry run: %d frames decoded, nothing written", result.FramesSaved))
	} else {
		log.Info(l10n.F("Saved %d frames to %s", result.FramesSaved, cfg.OutputDir))
	}
	return nil
}

// loadFileConfig resolves the file-backed configuration and the
// behavior flags that stay outside the run config.
func loadFileConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()

	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
		cfg = loaded
	}

	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("lang") {
		cfg.Lang = c.String("lang")
	}

	return cfg, nil
}

// buildRunConfig feeds the file values and explicit flag overrides
// through the stillcut builder.
func buildRunConfig(c *cli.Context, fileCfg config.Config) stillcut.Config {
	builder := fileCfg.ToBuilder()

	if c.IsSet("limit") {
		builder.WithLimit(c.Int("limit"))
	}
	if c.IsSet("output") {
		builder.WithOutputDir(c.String("output"))
	}
	if c.IsSet("drain") {
		builder.WithDrain(pipeline.DrainPolicy(c.String("drain")))
	}
	if c.IsSet("ffmpeg") {
		builder.WithFFmpegPath(c.String("ffmpeg"))
	}
	if c.IsSet("sheet") {
		builder.WithContactSheet(c.Bool("sheet"))
	}
	if c.IsSet("sheet-columns") {
		builder.WithSheetColumns(c.Int("sheet-columns"))
	}
	if c.IsSet("summary") {
		builder.WithSummaryPath(c.String("summary"))
	}
	if c.IsSet("dry-run") {
		builder.WithDryRun(c.Bool("dry-run"))
	}

	return builder.Build()
}
