package serialization

import (
	"crypto/sha256"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// checksumMode encodes tensor records deterministically for hashing.
var checksumMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// ComputeChecksum computes the SHA-256 checksum of the tensor records.
func ComputeChecksum(tensors []TensorRecord) ([32]byte, error) {
	payload, err := checksumMode.Marshal(tensors)
	if err != nil {
		return [32]byte{}, fmt.Errorf("failed to encode tensors for checksum: %w", err)
	}
	return sha256.Sum256(payload), nil
}

// ValidateChecksum compares computed checksum against stored checksum.
// Returns ErrChecksumMismatch if they don't match.
func ValidateChecksum(computed [32]byte, stored []byte) error {
	if len(stored) != len(computed) || [32]byte(stored) != computed {
		return ErrChecksumMismatch
	}
	return nil
}
