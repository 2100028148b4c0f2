// Package main provides the CLI entry point for frameharvest.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	// A missing .env file is not an error; variables may come from the environment.
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, l10n.T("Interrupted, shutting down..."))
		cancel()
	}()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "frameharvest",
		Usage:   l10n.T("Extract frames from videos and crop detected objects"),
		Version: version,
		Description: l10n.T("frameharvest saves every Nth frame of each video in a directory, " +
			"resuming interrupted runs by filling only the missing frames, " +
			"and optionally crops the largest detection of a text prompt from each frame."),
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     l10n.T("Extract frames, then crop detections"),
				ArgsUsage: "[INPUT_DIR] [OUTPUT_DIR]",
				Flags:     concat(ioFlags(), extractFlags(), cropFlags(), outputFlags()),
				Action:    runAction(modeRun),
			},
			{
				Name:      "extract",
				Usage:     l10n.T("Extract missing frames without cropping"),
				ArgsUsage: "[INPUT_DIR] [OUTPUT_DIR]",
				Flags:     concat(ioFlags(), extractFlags(), outputFlags()),
				Action:    runAction(modeExtract),
			},
			{
				Name:      "crop",
				Usage:     l10n.T("Crop detections from frames already extracted"),
				ArgsUsage: "[INPUT_DIR] [OUTPUT_DIR]",
				Flags:     concat(ioFlags(), cropFlags(), outputFlags()),
				Action:    runAction(modeCrop),
			},
			{
				Name:      "plan",
				Usage:     l10n.T("Show what an extraction run would do"),
				ArgsUsage: "[INPUT_DIR] [OUTPUT_DIR]",
				Flags:     concat(ioFlags(), extractFlags(), outputFlags()),
				Action:    planAction,
			},
			{
				Name:  "version",
				Usage: l10n.T("Show version information"),
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, l10n.F("frameharvest version %s", version))
					return nil
				},
			},
		},
	}
}
