// Package imaging turns profile photo references into displayable images.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"

	// Registered formats. Graph serves JPEG; PNG and GIF show up on uploaded photos.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Image is a decoded photo. Assets carry only Ref.
type Image struct {
	Ref    string
	Format string
	Width  int
	Height int
	Data   []byte
}

// Asset returns the image bundled under name.
func Asset(name string) Image {
	return Image{Ref: name, Format: "asset"}
}

// IsAsset reports whether img refers to a bundled asset rather than photo bytes.
func (img Image) IsAsset() bool {
	return img.Format == "asset"
}

// ErrEmptyRef is returned for an empty photo reference.
var ErrEmptyRef = errors.New("empty photo reference")

// Resolver decodes base64 photo references.
type Resolver struct{}

// Resolve decodes ref and reads the image header. The pixel data is kept
// encoded in Data.
func (Resolver) Resolve(ref string) (Image, error) {
	if ref == "" {
		return Image{}, ErrEmptyRef
	}
	data, err := base64.StdEncoding.DecodeString(ref)
	if err != nil {
		return Image{}, fmt.Errorf("decoding photo reference: %w", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("reading photo header: %w", err)
	}
	return Image{
		Ref:    ref,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Data:   data,
	}, nil
}

// Describe renders a one-line summary for terminal output.
func (img Image) Describe() string {
	if img.IsAsset() {
		return img.Ref
	}
	return fmt.Sprintf("%s %dx%d (%d bytes)", img.Format, img.Width, img.Height, len(img.Data))
}
