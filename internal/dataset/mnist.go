package dataset

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// MNISTClasses is the number of digit classes.
const MNISTClasses = 10

// LoadMNIST loads MNIST data from official IDX binary files.
//
// Parameters:
//   - dataDir: Directory containing MNIST files (train-images-idx3-ubyte, etc.)
//   - train: If true, load training set (60,000 samples), else test set (10,000 samples)
//   - maxSamples: Maximum number of samples to load (0 = load all)
//
// Returns:
//   - Dataset with pixels normalized to [0, 1]
//
// Each file may also be present gzip-compressed with a ".gz" suffix, as
// distributed.
func LoadMNIST(dataDir string, train bool, maxSamples int) (*Dataset, error) {
	prefix := "t10k"
	if train {
		prefix = "train"
	}

	var (
		imagesRaw [][]byte
		labelsRaw []byte
	)
	err := withIDXFile(filepath.Join(dataDir, prefix+"-images-idx3-ubyte"), func(r io.Reader) error {
		var err error
		imagesRaw, _, err = ReadIDXImages(r)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}
	err = withIDXFile(filepath.Join(dataDir, prefix+"-labels-idx1-ubyte"), func(r io.Reader) error {
		var err error
		labelsRaw, err = ReadIDXLabels(r)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}

	if len(imagesRaw) != len(labelsRaw) {
		return nil, fmt.Errorf("image count (%d) != label count (%d)", len(imagesRaw), len(labelsRaw))
	}

	numSamples := len(imagesRaw)
	if maxSamples > 0 && numSamples > maxSamples {
		numSamples = maxSamples
	}

	features := make([][]float64, numSamples)
	labels := make([]int, numSamples)
	for i := 0; i < numSamples; i++ {
		features[i] = make([]float64, len(imagesRaw[i]))
		for j, px := range imagesRaw[i] {
			// Normalize: 0-255 → 0.0-1.0
			features[i][j] = float64(px) / 255.0
		}
		labels[i] = int(labelsRaw[i])
	}
	return New(features, labels, MNISTClasses)
}

// withIDXFile opens name, or name+".gz" through a gzip reader, and hands
// the stream to read.
func withIDXFile(name string, read func(io.Reader) error) error {
	file, err := os.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		file, err = os.Open(name + ".gz")
		if err != nil {
			return err
		}
		defer file.Close()

		gz, err := gzip.NewReader(file)
		if err != nil {
			return fmt.Errorf("%s.gz: %w", name, err)
		}
		defer gz.Close()
		return read(gz)
	}
	if err != nil {
		return err
	}
	defer file.Close()
	return read(file)
}
