package serialization

import (
	"time"
)

// Format constants.
const (
	MagicBytes    = "NDGR"
	FormatVersion = 1
	FileExtension = ".ndg"
)

// Data type string constants for serialization.
const (
	DTypeFloat64 = "float64"
	DTypeFloat16 = "float16"
)

// Header describes a checkpoint.
type Header struct {
	FormatVersion  int               `cbor:"format_version"`
	NdgraphVersion string            `cbor:"ndgraph_version"`
	CreatedAt      time.Time         `cbor:"created_at"`
	Metadata       map[string]string `cbor:"metadata,omitempty"`
	Checkpoint     *CheckpointMeta   `cbor:"checkpoint,omitempty"`
}

// CheckpointMeta contains training state information for checkpoints.
type CheckpointMeta struct {
	Epoch         int     `cbor:"epoch"`
	Step          int64   `cbor:"step"`
	Loss          float64 `cbor:"loss"`
	OptimizerType string  `cbor:"optimizer_type"`
}

// TensorRecord is one named parameter. Exactly one of Data and Half is
// set, according to DType.
type TensorRecord struct {
	Name  string    `cbor:"name"`
	DType string    `cbor:"dtype"`
	Shape []int     `cbor:"shape"`
	Data  []float64 `cbor:"data,omitempty"`
	Half  []uint16  `cbor:"half,omitempty"`
}

// Document is the CBOR body of a checkpoint file.
type Document struct {
	Header   Header         `cbor:"header"`
	Tensors  []TensorRecord `cbor:"tensors"`
	Checksum []byte         `cbor:"checksum"`
}
