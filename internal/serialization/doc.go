// Package serialization saves and loads model parameters as checkpoints.
//
// A checkpoint stores every parameter of an nn.Registry, by name, in a
// CBOR document behind a short magic prefix:
//
//	Format Structure:
//	  [4 bytes: Magic "NDGR"]
//	  [CBOR: Document{header, tensors, checksum}]
//
// Tensor payloads are float64 by default, or IEEE 754 half precision when
// Options.Half is set. The checksum is SHA-256 over the canonical CBOR
// encoding of the tensor records.
//
// Example usage:
//
//	// Save parameters
//	err := serialization.SaveFile("model.ndg", reg, serialization.Options{})
//
//	// Load them into a registry with the same layout
//	header, err := serialization.LoadFile("model.ndg", reg)
package serialization
