// Package schematic stores clipboards as gzip-compressed JSON documents, on
// the local filesystem or in an S3-compatible bucket.
package schematic

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/voxport/pkg/domain"
)

// Ext is appended to a schematic name to form its file name or object key.
const Ext = ".schem.json.gz"

// Format identifies the document layout.
const Format = "voxport.schematic/v1"

type document struct {
	Format string `json:"format"`
	domain.Clipboard
}

// Encode writes clip as a gzip-compressed JSON document.
func Encode(w io.Writer, clip *domain.Clipboard) error {
	if clip == nil {
		return errors.New("nil clipboard")
	}
	zw := gzip.NewWriter(w)
	if err := json.NewEncoder(zw).Encode(document{Format: Format, Clipboard: *clip}); err != nil {
		_ = zw.Close()
		return fmt.Errorf("encode schematic: %w", err)
	}
	return zw.Close()
}

// Decode reads a document written by Encode.
func Decode(r io.Reader) (*domain.Clipboard, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("decode schematic: %w", err)
	}
	defer zr.Close()

	var doc document
	if err := json.NewDecoder(zr).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode schematic: %w", err)
	}
	if doc.Format != Format {
		return nil, fmt.Errorf("decode schematic: unsupported format %q", doc.Format)
	}
	return &doc.Clipboard, nil
}
