package dataset

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	idxImagesMagic = 2051
	idxLabelsMagic = 2049
)

// ReadIDXImages reads an image file in IDX format.
//
// IDX file format for images:
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes
//	number of cols: 4 bytes
//	pixel data: unsigned bytes (0-255)
//
// It returns the raw pixels per image and the image size rows*cols.
func ReadIDXImages(r io.Reader) ([][]byte, int, error) {
	var header struct {
		Magic, Count, Rows, Cols uint32
	}
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, 0, fmt.Errorf("failed to read IDX image header: %w", err)
	}
	if header.Magic != idxImagesMagic {
		return nil, 0, fmt.Errorf("invalid magic number: got %d, want %d", header.Magic, idxImagesMagic)
	}

	imageSize := int(header.Rows * header.Cols)
	images := make([][]byte, header.Count)
	for i := range images {
		images[i] = make([]byte, imageSize)
		if _, err := io.ReadFull(r, images[i]); err != nil {
			return nil, 0, fmt.Errorf("failed to read image %d: %w", i, err)
		}
	}
	return images, imageSize, nil
}

// ReadIDXLabels reads a label file in IDX format.
//
// IDX file format for labels:
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes
func ReadIDXLabels(r io.Reader) ([]byte, error) {
	var header struct {
		Magic, Count uint32
	}
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read IDX label header: %w", err)
	}
	if header.Magic != idxLabelsMagic {
		return nil, fmt.Errorf("invalid magic number: got %d, want %d", header.Magic, idxLabelsMagic)
	}

	labels := make([]byte, header.Count)
	if _, err := io.ReadFull(r, labels); err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	return labels, nil
}
