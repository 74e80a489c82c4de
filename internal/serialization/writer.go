package serialization

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/x448/float16"

	"github.com/born-ml/ndgraph/internal/nn"
)

const ndgraphVersion = "0.1.0"

// Options configures Save.
type Options struct {
	Half       bool              // Store payloads as IEEE 754 half precision
	Metadata   map[string]string // Custom metadata
	Checkpoint *CheckpointMeta   // Training state (optional)
}

// Save writes every parameter of reg to w, in registration order.
// Parameters without a value cannot be saved.
func Save(w io.Writer, reg *nn.Registry, opts Options) error {
	doc := Document{
		Header: Header{
			FormatVersion:  FormatVersion,
			NdgraphVersion: ndgraphVersion,
			CreatedAt:      time.Now().UTC(),
			Metadata:       opts.Metadata,
			Checkpoint:     opts.Checkpoint,
		},
		Tensors: make([]TensorRecord, 0, reg.Len()),
	}

	for _, p := range reg.Parameters() {
		value := p.Value()
		if value == nil {
			return fmt.Errorf("parameter %q has no value", p.Name())
		}
		if err := ValidateTensorName(p.Name()); err != nil {
			return err
		}
		rec := TensorRecord{Name: p.Name(), DType: DTypeFloat64, Shape: value.Shape().Clone()}
		if opts.Half {
			rec.DType = DTypeFloat16
			rec.Half = make([]uint16, value.NumElements())
			for i, v := range value.Data() {
				rec.Half[i] = float16.Fromfloat32(float32(v)).Bits()
			}
		} else {
			rec.Data = append([]float64(nil), value.Data()...)
		}
		doc.Tensors = append(doc.Tensors, rec)
	}

	sum, err := ComputeChecksum(doc.Tensors)
	if err != nil {
		return err
	}
	doc.Checksum = sum[:]

	if _, err := io.WriteString(w, MagicBytes); err != nil {
		return fmt.Errorf("failed to write magic bytes: %w", err)
	}
	if err := cbor.NewEncoder(w).Encode(&doc); err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	return nil
}

// SaveFile saves reg to path, replacing any existing file.
func SaveFile(path string, reg *nn.Registry, opts Options) error {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Save(file, reg, opts); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
