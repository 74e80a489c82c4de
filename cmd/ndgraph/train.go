package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"go.opentelemetry.io/otel/attribute"

	"github.com/born-ml/ndgraph/internal/dataset"
	"github.com/born-ml/ndgraph/internal/optim"
	"github.com/born-ml/ndgraph/internal/serialization"
)

// TrainConfig gathers the train subcommand flags.
type TrainConfig struct {
	DataDir     string  // MNIST directory; empty trains on synthetic data
	MaxSamples  int     // 0 = all
	Epochs      int
	BatchSize   int
	Optimizer   string  // "sgd" or "adam"
	LR          float64
	Momentum    float64
	Hidden      int
	ValRatio    float64
	Seed        uint64
	Checkpoint  string  // Output checkpoint path; empty skips saving
	Half        bool    // fp16 checkpoint payloads
	MetricsAddr string  // Serve /metrics on this address
	OTel        bool    // stdout tracing
	Progress    bool
	LogLevel    string

	// Synthetic dataset shape.
	SyntheticSamples  int
	SyntheticFeatures int
	SyntheticClasses  int
}

// TrainResult summarizes a run.
type TrainResult struct {
	FinalLoss     float64
	TrainAccuracy float64
	ValAccuracy   float64
	Steps         int64
}

func parseTrainFlags(args []string) (TrainConfig, error) {
	var cfg TrainConfig
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.StringVar(&cfg.DataDir, "data", "", "MNIST directory (IDX files); synthetic data if empty")
	fs.IntVar(&cfg.MaxSamples, "max-samples", 0, "Maximum number of training samples (0 = all)")
	fs.IntVar(&cfg.Epochs, "epochs", 5, "Number of epochs")
	fs.IntVar(&cfg.BatchSize, "batch", 32, "Mini-batch size")
	fs.StringVar(&cfg.Optimizer, "optimizer", "sgd", "Optimizer (sgd, adam)")
	fs.Float64Var(&cfg.LR, "lr", 0.1, "Learning rate")
	fs.Float64Var(&cfg.Momentum, "momentum", 0.9, "SGD momentum")
	fs.IntVar(&cfg.Hidden, "hidden", 64, "Hidden layer width")
	fs.Float64Var(&cfg.ValRatio, "val", 0.1, "Fraction of samples held out for validation")
	fs.Uint64Var(&cfg.Seed, "seed", 1, "Random seed")
	fs.StringVar(&cfg.Checkpoint, "checkpoint", "", "Write a checkpoint to this file after training")
	fs.BoolVar(&cfg.Half, "half", false, "Store checkpoint tensors as float16")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	fs.BoolVar(&cfg.OTel, "otel", false, "Enable OpenTelemetry tracing (stdout)")
	fs.BoolVar(&cfg.Progress, "progress", true, "Show a progress bar per epoch")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.IntVar(&cfg.SyntheticSamples, "synthetic-samples", 1000, "Synthetic dataset size")
	fs.IntVar(&cfg.SyntheticFeatures, "synthetic-features", 8, "Synthetic feature count")
	fs.IntVar(&cfg.SyntheticClasses, "synthetic-classes", 3, "Synthetic class count")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	switch {
	case cfg.Epochs <= 0:
		return cfg, fmt.Errorf("--epochs must be positive, got %d", cfg.Epochs)
	case cfg.BatchSize <= 0:
		return cfg, fmt.Errorf("--batch must be positive, got %d", cfg.BatchSize)
	case cfg.Hidden <= 0:
		return cfg, fmt.Errorf("--hidden must be positive, got %d", cfg.Hidden)
	case cfg.LR <= 0:
		return cfg, fmt.Errorf("--lr must be positive, got %g", cfg.LR)
	case cfg.ValRatio < 0 || cfg.ValRatio >= 1:
		return cfg, fmt.Errorf("--val must be in [0, 1), got %g", cfg.ValRatio)
	}
	cfg.Optimizer = strings.ToLower(cfg.Optimizer)
	if cfg.Optimizer != "sgd" && cfg.Optimizer != "adam" {
		return cfg, fmt.Errorf("unknown optimizer %q", cfg.Optimizer)
	}
	return cfg, nil
}

func loadData(cfg TrainConfig) (*dataset.Dataset, error) {
	if cfg.DataDir != "" {
		return dataset.LoadMNIST(cfg.DataDir, true, cfg.MaxSamples)
	}
	n := cfg.SyntheticSamples
	if cfg.MaxSamples > 0 {
		n = min(n, cfg.MaxSamples)
	}
	return dataset.Synthetic(n, cfg.SyntheticFeatures, cfg.SyntheticClasses, cfg.Seed)
}

func newOptimizer(cfg TrainConfig) optim.Optimizer {
	if cfg.Optimizer == "adam" {
		return optim.NewAdam(optim.AdamConfig{LR: cfg.LR})
	}
	return optim.NewSGD(optim.SGDConfig{LR: cfg.LR, Momentum: cfg.Momentum})
}

// train runs the training loop described by cfg.
func train(ctx context.Context, cfg TrainConfig, logger zerolog.Logger) (*TrainResult, error) {
	if cfg.OTel {
		shutdown, err := initTracer()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracer: %w", err)
		}
		defer func() { _ = shutdown(context.Background()) }()
	}
	if cfg.MetricsAddr != "" {
		stop := serveMetrics(cfg.MetricsAddr, logger)
		defer stop()
	}

	data, err := loadData(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}
	trainData, valData := data.Split(cfg.ValRatio)
	if trainData.NumSamples() == 0 {
		return nil, errors.New("no training samples")
	}
	logger.Info().
		Str("train_samples", humanize.Comma(int64(trainData.NumSamples()))).
		Str("val_samples", humanize.Comma(int64(valData.NumSamples()))).
		Int("features", data.NumFeatures()).
		Int("classes", data.Classes).
		Msg("Dataset loaded")

	src := rand.NewPCG(cfg.Seed, cfg.Seed+1)
	model, err := newClassifier(logger, []int{data.NumFeatures(), cfg.Hidden, data.Classes}, src)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Str("parameters", humanize.Comma(int64(model.reg.NumElements()))).
		Str("optimizer", cfg.Optimizer).
		Msg("Model created")

	batcher, err := dataset.NewBatcher(trainData, cfg.BatchSize, true, src)
	if err != nil {
		return nil, err
	}
	opt := newOptimizer(cfg)

	result := &TrainResult{}
	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		var bar *progressbar.ProgressBar
		if cfg.Progress {
			bar = progressbar.NewOptions(batcher.NumBatches(),
				progressbar.OptionSetDescription(fmt.Sprintf("epoch %d/%d", epoch, cfg.Epochs)),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowIts(),
				progressbar.OptionSetItsString("steps"),
				progressbar.OptionSetTheme(progressbar.ThemeASCII),
				progressbar.OptionClearOnFinish(),
			)
		}

		var lossSum, accSum float64
		var seen int
		batcher.Reset()
		for batch, ok := batcher.Next(); ok; batch, ok = batcher.Next() {
			loss, acc, err := trainStep(ctx, model, opt, batch, result.Steps)
			if err != nil {
				return nil, fmt.Errorf("epoch %d step %d: %w", epoch, result.Steps, err)
			}
			result.Steps++
			lossSum += loss * float64(batch.Size)
			accSum += acc * float64(batch.Size)
			seen += batch.Size
			if bar != nil {
				_ = bar.Add(1)
			}
		}
		if bar != nil {
			_ = bar.Finish()
		}
		result.FinalLoss = lossSum / float64(seen)
		result.TrainAccuracy = accSum / float64(seen)

		ev := logger.Info().
			Int("epoch", epoch).
			Float64("loss", result.FinalLoss).
			Float64("train_acc", result.TrainAccuracy).
			Dur("elapsed", time.Since(start))
		if valData.NumSamples() > 0 {
			_, valAcc, err := evaluateData(model, valData)
			if err != nil {
				return nil, fmt.Errorf("epoch %d validation: %w", epoch, err)
			}
			result.ValAccuracy = valAcc
			ev = ev.Float64("val_acc", valAcc)
		}
		ev.Msg("Epoch complete")
	}

	if cfg.Checkpoint != "" {
		if err := saveCheckpoint(cfg, model, result, logger); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// trainStep runs forward, backward and one optimizer update in a span.
func trainStep(ctx context.Context, model *classifier, opt optim.Optimizer, batch *dataset.Batch, step int64) (loss, acc float64, err error) {
	_, span := tracer().Start(ctx, "train.step")
	defer span.End()
	span.SetAttributes(attribute.Int64("step", step), attribute.Int("batch_size", batch.Size))

	if loss, acc, err = model.forward(batch.Features, batch.Labels); err != nil {
		span.RecordError(err)
		return 0, 0, err
	}
	if err = model.backward(); err != nil {
		span.RecordError(err)
		return 0, 0, err
	}
	if err = opt.Step(model.g, model.reg); err != nil {
		span.RecordError(err)
		return 0, 0, err
	}
	span.SetAttributes(attribute.Float64("loss", loss))
	return loss, acc, nil
}

// evaluateData computes loss and accuracy over the whole dataset in one batch.
func evaluateData(model *classifier, data *dataset.Dataset) (loss, acc float64, err error) {
	batcher, err := dataset.NewBatcher(data, max(1, data.NumSamples()), false, nil)
	if err != nil {
		return 0, 0, err
	}
	batch, ok := batcher.Next()
	if !ok {
		return 0, 0, errors.New("empty dataset")
	}
	return model.forward(batch.Features, batch.Labels)
}

func saveCheckpoint(cfg TrainConfig, model *classifier, result *TrainResult, logger zerolog.Logger) error {
	opts := serialization.Options{
		Half:     cfg.Half,
		Metadata: map[string]string{"sizes": formatSizes(model.sizes)},
		Checkpoint: &serialization.CheckpointMeta{
			Epoch:         cfg.Epochs,
			Step:          result.Steps,
			Loss:          result.FinalLoss,
			OptimizerType: cfg.Optimizer,
		},
	}
	if err := serialization.SaveFile(cfg.Checkpoint, model.reg, opts); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}

	ev := logger.Info().Str("path", cfg.Checkpoint)
	if info, err := os.Stat(cfg.Checkpoint); err == nil {
		ev = ev.Str("size", humanize.Bytes(uint64(info.Size())))
	}
	ev.Msg("Checkpoint saved")
	return nil
}

// serveMetrics exposes /metrics until the returned stop is called.
func serveMetrics(addr string, logger zerolog.Logger) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info().Str("addr", addr).Msg("Serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("Metrics server failed")
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
