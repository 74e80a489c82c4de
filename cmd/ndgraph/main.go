// Package main provides the ndgraph CLI.
//
// Usage:
//
//	ndgraph version
//	ndgraph train [flags]
//	ndgraph eval --checkpoint FILE [flags]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const version = "v0.1.0"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal().Err(err).Msg("ndgraph failed")
	}
}

// run dispatches a subcommand.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		usage(stdout)
		return nil
	}

	switch args[0] {
	case "version":
		_, err := fmt.Fprintf(stdout, "ndgraph %s\n", version)
		return err
	case "train":
		cfg, err := parseTrainFlags(args[1:])
		if err != nil {
			return err
		}
		setLogLevel(cfg.LogLevel)
		_, err = train(ctx, cfg, log.Logger)
		return err
	case "eval":
		cfg, err := parseEvalFlags(args[1:])
		if err != nil {
			return err
		}
		setLogLevel(cfg.LogLevel)
		_, err = evaluate(cfg, log.Logger)
		return err
	case "help", "-h", "--help":
		usage(stdout)
		return nil
	default:
		usage(stdout)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "ndgraph %s - reverse-mode autodiff on n-dimensional arrays\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "  train      Train an MLP classifier (MNIST or synthetic data)")
	fmt.Fprintln(w, "  eval       Evaluate a saved checkpoint")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'ndgraph <command> -h' for flags.")
}

func setLogLevel(level string) {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Str("level", level).Msg("Unknown log level, using info")
		l = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(l)
}
