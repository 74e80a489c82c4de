package serialization_test

import (
	"bytes"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ndgraph/internal/autodiff"
	"github.com/born-ml/ndgraph/internal/nn"
	"github.com/born-ml/ndgraph/internal/serialization"
	"github.com/born-ml/ndgraph/internal/tensor"
)

// newModel builds a small MLP so that every test works on real parameters.
func newModel(t *testing.T, seed uint64) *nn.Registry {
	t.Helper()
	reg := nn.NewRegistry()
	must.M1(nn.NewMLP(autodiff.New(), reg, "mlp", []int{3, 4, 2}, rand.NewPCG(seed, seed+1)))
	return reg
}

func save(t *testing.T, reg *nn.Registry, opts serialization.Options) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, serialization.Save(&buf, reg, opts))
	return buf.Bytes()
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	src := newModel(t, 1)
	raw := save(t, src, serialization.Options{
		Metadata:   map[string]string{"dataset": "synthetic"},
		Checkpoint: &serialization.CheckpointMeta{Epoch: 3, Step: 120, Loss: 0.25, OptimizerType: "SGD"},
	})
	assert.Equal(t, serialization.MagicBytes, string(raw[:4]))

	dst := newModel(t, 2)
	header, err := serialization.Load(bytes.NewReader(raw), dst)
	require.NoError(t, err)
	assert.Equal(t, serialization.FormatVersion, header.FormatVersion)
	assert.Equal(t, "synthetic", header.Metadata["dataset"])
	require.NotNil(t, header.Checkpoint)
	assert.Equal(t, 3, header.Checkpoint.Epoch)

	for _, p := range src.Parameters() {
		q, ok := dst.Get(p.Name())
		require.True(t, ok)
		assert.True(t, p.Value().Equal(q.Value()), p.Name())
	}
}

func TestSaveLoad_Half(t *testing.T) {
	src := newModel(t, 3)
	full := save(t, src, serialization.Options{})
	half := save(t, src, serialization.Options{Half: true})
	assert.Less(t, len(half), len(full))

	doc, err := serialization.Read(bytes.NewReader(half))
	require.NoError(t, err)
	for _, rec := range doc.Tensors {
		assert.Equal(t, serialization.DTypeFloat16, rec.DType)
		assert.Empty(t, rec.Data)
	}

	dst := newModel(t, 4)
	_, err = serialization.Load(bytes.NewReader(half), dst)
	require.NoError(t, err)
	for _, p := range src.Parameters() {
		q, _ := dst.Get(p.Name())
		assert.True(t, p.Value().AllClose(q.Value(), 1e-3), p.Name())
	}
}

func TestSaveLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model"+serialization.FileExtension)
	src := newModel(t, 5)
	require.NoError(t, serialization.SaveFile(path, src, serialization.Options{}))

	dst := newModel(t, 6)
	_, err := serialization.LoadFile(path, dst)
	require.NoError(t, err)

	_, err = serialization.LoadFile(filepath.Join(t.TempDir(), "missing"), dst)
	require.Error(t, err)
}

func TestLoad_RegistryMismatch(t *testing.T) {
	raw := save(t, newModel(t, 7), serialization.Options{})

	// Different hidden size: same names, different shapes.
	other := nn.NewRegistry()
	must.M1(nn.NewMLP(autodiff.New(), other, "mlp", []int{3, 5, 2}, nil))
	w, _ := other.Get("mlp.0.weight")
	before := w.Value().Clone()
	_, err := serialization.Load(bytes.NewReader(raw), other)
	require.ErrorIs(t, err, tensor.ErrIncompatibleShapes)
	assert.True(t, before.Equal(w.Value()), "nothing applied on failure")

	// Extra parameter in the registry.
	bigger := newModel(t, 8)
	g := autodiff.New()
	must.M1(bigger.Register("extra", g.Var("extra", tensor.Shape{1})))
	_, err = serialization.Load(bytes.NewReader(raw), bigger)
	require.ErrorIs(t, err, serialization.ErrMissingTensor)

	// Parameter in the checkpoint the registry does not know.
	_, err = serialization.Load(bytes.NewReader(raw), nn.NewRegistry())
	require.ErrorIs(t, err, serialization.ErrUnexpectedTensor)
}

func TestRead_Corruption(t *testing.T) {
	raw := save(t, newModel(t, 9), serialization.Options{})

	bad := append([]byte("XXXX"), raw[4:]...)
	_, err := serialization.Read(bytes.NewReader(bad))
	require.ErrorIs(t, err, serialization.ErrInvalidMagic)

	var doc serialization.Document
	require.NoError(t, cbor.Unmarshal(raw[4:], &doc))
	doc.Tensors[0].Data[0] += 1
	_, err = serialization.Read(bytes.NewReader(encode(t, doc)))
	require.ErrorIs(t, err, serialization.ErrChecksumMismatch)

	doc.Tensors[0].Data = doc.Tensors[0].Data[1:]
	_, err = serialization.Read(bytes.NewReader(encode(t, doc)))
	require.ErrorIs(t, err, tensor.ErrIncompatibleShapes)

	doc.Header.FormatVersion = 99
	_, err = serialization.Read(bytes.NewReader(encode(t, doc)))
	require.ErrorIs(t, err, serialization.ErrUnsupportedVersion)

	_, err = serialization.Read(bytes.NewReader(raw[:10]))
	require.Error(t, err, "truncated")
}

func encode(t *testing.T, doc serialization.Document) []byte {
	t.Helper()
	body, err := cbor.Marshal(doc)
	require.NoError(t, err)
	return append([]byte(serialization.MagicBytes), body...)
}

func TestValidateTensorName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"mlp.0.weight", false},
		{"", true},
		{"../etc/passwd", true},
		{"a/b", true},
		{"a\\b", true},
		{"a\x00b", true},
	}
	for _, tt := range tests {
		err := serialization.ValidateTensorName(tt.name)
		if tt.wantErr {
			require.ErrorIs(t, err, serialization.ErrInvalidTensorName, "%q", tt.name)
		} else {
			require.NoError(t, err, "%q", tt.name)
		}
	}
}

func TestSave_NoValue(t *testing.T) {
	reg := nn.NewRegistry()
	must.M1(reg.Register("w", autodiff.New().Var("w", tensor.Shape{2})))
	var buf bytes.Buffer
	require.Error(t, serialization.Save(&buf, reg, serialization.Options{}))
}
