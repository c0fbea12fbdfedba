package narrative

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"
)

// Image is a decoded illustration plus the payload it came from.
type Image struct {
	Raster   image.Image
	MIMEType string
	// Format is the format image.Decode detected in Data.
	Format string
	Data   []byte
}

func decodeImage(part Part) (*Image, error) {
	raster, format, err := image.Decode(bytes.NewReader(part.Data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s payload: %w", part.MIMEType, err)
	}

	mimeType := part.MIMEType
	if mimeType == "" {
		mimeType = "image/" + format
	}

	return &Image{Raster: raster, MIMEType: mimeType, Format: format, Data: part.Data}, nil
}

// EncodePNG returns the image as PNG bytes, reusing the payload when it
// decoded as PNG. The MIME label is not trusted.
func (img *Image) EncodePNG() ([]byte, error) {
	if img.Format == "png" && len(img.Data) > 0 {
		return img.Data, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img.Raster); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

// ImageFileName is the download name for a story's illustration.
func ImageFileName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			return '_'
		}
		return r
	}, strings.TrimSpace(title))

	if name == "" {
		name = "story"
	}
	return name + "_ai_image.png"
}
