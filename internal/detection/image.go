package detection

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Vision APIs accept these formats directly; anything else is re-encoded.
var passthrough = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// Image is a decoded upload prepared for a vision backend.
type Image struct {
	MediaType string
	Data      []byte
	Width     int
	Height    int
}

// Base64 returns the image data in standard base64 encoding.
func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// DataURI returns the image as a data: URI.
func (i Image) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", i.MediaType, i.Base64())
}

// PrepareImage decodes data and returns it in a format every backend
// accepts. Undecodable input fails with ErrInvalidImage.
func PrepareImage(data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: empty upload", ErrInvalidImage)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	bounds := img.Bounds()
	out := Image{Width: bounds.Dx(), Height: bounds.Dy()}

	if mt, ok := passthrough[format]; ok {
		out.MediaType = mt
		out.Data = data
		return out, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Image{}, fmt.Errorf("%w: re-encode %s as png: %w", ErrInvalidImage, format, err)
	}

	out.MediaType = "image/png"
	out.Data = buf.Bytes()
	return out, nil
}
