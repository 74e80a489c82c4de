package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/born-ml/ndgraph/internal/dataset"
	"github.com/born-ml/ndgraph/internal/serialization"
)

// EvalConfig gathers the eval subcommand flags.
type EvalConfig struct {
	Checkpoint string
	DataDir    string // MNIST test set; synthetic data if empty
	MaxSamples int
	Seed       uint64 // Synthetic dataset seed, must match training
	Samples    int
	LogLevel   string
}

func parseEvalFlags(args []string) (EvalConfig, error) {
	var cfg EvalConfig
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	fs.StringVar(&cfg.Checkpoint, "checkpoint", "", "Checkpoint file written by train")
	fs.StringVar(&cfg.DataDir, "data", "", "MNIST directory (IDX files); synthetic data if empty")
	fs.IntVar(&cfg.MaxSamples, "max-samples", 0, "Maximum number of samples (0 = all)")
	fs.Uint64Var(&cfg.Seed, "seed", 1, "Synthetic dataset seed")
	fs.IntVar(&cfg.Samples, "synthetic-samples", 1000, "Synthetic dataset size")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.Checkpoint == "" {
		return cfg, errors.New("--checkpoint is required")
	}
	return cfg, nil
}

// evaluate loads a checkpoint and reports its accuracy.
func evaluate(cfg EvalConfig, logger zerolog.Logger) (float64, error) {
	doc, err := serialization.ReadFile(cfg.Checkpoint)
	if err != nil {
		return 0, err
	}
	sizes, err := parseSizes(doc.Header.Metadata["sizes"])
	if err != nil {
		return 0, err
	}
	if len(sizes) < 2 {
		return 0, fmt.Errorf("checkpoint layer sizes %v: need at least input and output", sizes)
	}

	model, err := newClassifier(logger, sizes, nil)
	if err != nil {
		return 0, err
	}
	if _, err := serialization.LoadFile(cfg.Checkpoint, model.reg); err != nil {
		return 0, err
	}

	var data *dataset.Dataset
	if cfg.DataDir != "" {
		data, err = dataset.LoadMNIST(cfg.DataDir, false, cfg.MaxSamples)
	} else {
		data, err = dataset.Synthetic(cfg.Samples, sizes[0], sizes[len(sizes)-1], cfg.Seed)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load data: %w", err)
	}

	loss, acc, err := evaluateData(model, data)
	if err != nil {
		return 0, err
	}
	logger.Info().
		Int("samples", data.NumSamples()).
		Float64("loss", loss).
		Float64("accuracy", acc).
		Msg("Evaluation complete")
	return acc, nil
}
