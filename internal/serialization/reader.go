package serialization

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/x448/float16"

	"github.com/born-ml/ndgraph/internal/nn"
	"github.com/born-ml/ndgraph/internal/tensor"
)

// decMode bounds what a checkpoint may allocate while decoding.
var decMode = func() cbor.DecMode {
	dm, err := cbor.DecOptions{
		MaxArrayElements: math.MaxInt32,
		MaxMapPairs:      MaxTensorCount,
		MaxNestedLevels:  16,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}()

// Read decodes and validates a checkpoint without applying it.
func Read(r io.Reader) (*Document, error) {
	magic := make([]byte, len(MagicBytes))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if string(magic) != MagicBytes {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidMagic, magic)
	}

	var doc Document
	if err := decMode.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %w", err)
	}
	if err := ValidateDocument(&doc); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	sum, err := ComputeChecksum(doc.Tensors)
	if err != nil {
		return nil, err
	}
	if err := ValidateChecksum(sum, doc.Checksum); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads a checkpoint and sets the value of every parameter in reg.
//
// The checkpoint must hold exactly the registry's parameter names, each
// with a shape the parameter accepts. Nothing is applied unless every
// tensor passes.
func Load(r io.Reader, reg *nn.Registry) (*Header, error) {
	doc, err := Read(r)
	if err != nil {
		return nil, err
	}

	values := make(map[*nn.Parameter]*tensor.Tensor, len(doc.Tensors))
	for i := range doc.Tensors {
		rec := &doc.Tensors[i]
		p, ok := reg.Get(rec.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnexpectedTensor, rec.Name)
		}
		t, err := rec.Tensor()
		if err != nil {
			return nil, err
		}
		if want := p.Variable().Shape(); len(want) > 0 && !want.Equal(t.Shape()) {
			return nil, &ValidationError{
				Type:    "shape_mismatch",
				Tensor:  rec.Name,
				Details: fmt.Sprintf("parameter has shape %v, checkpoint has %v", want, t.Shape()),
				Err:     tensor.ErrIncompatibleShapes,
			}
		}
		values[p] = t
	}
	for _, p := range reg.Parameters() {
		if _, ok := values[p]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingTensor, p.Name())
		}
	}

	for p, t := range values {
		if err := p.SetValue(t); err != nil {
			return nil, fmt.Errorf("parameter %q: %w", p.Name(), err)
		}
	}
	return &doc.Header, nil
}

// LoadFile loads the checkpoint at path into reg.
func LoadFile(path string, reg *nn.Registry) (*Header, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return Load(file, reg)
}

// ReadFile reads and validates the checkpoint at path without applying it.
func ReadFile(path string) (*Document, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return Read(file)
}

// Tensor decodes the record's payload into a float64 tensor.
func (rec *TensorRecord) Tensor() (*tensor.Tensor, error) {
	if err := ValidateRecord(rec); err != nil {
		return nil, err
	}
	data := rec.Data
	if rec.DType == DTypeFloat16 {
		data = make([]float64, len(rec.Half))
		for i, bits := range rec.Half {
			data[i] = float64(float16.Frombits(bits).Float32())
		}
	}
	return tensor.FromSlice(data, tensor.Shape(rec.Shape))
}
