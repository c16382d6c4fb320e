// Package imaging normalizes uploaded catalog photos: it validates the
// format by sniffing bytes, downscales oversized images, and re-encodes
// everything as JPEG for storage.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"

	"golang.org/x/image/draw"
)

const (
	// maxDim is the maximum stored width or height.
	maxDim = 1024

	// jpegQuality is the compression quality for re-encoded output.
	jpegQuality = 85
)

// allowedMIME lists accepted input formats, keyed by sniffed MIME type.
var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Prepare validates raw upload bytes and returns the normalized JPEG data
// and its MIME type. Client-supplied content types are ignored; the format
// is detected from the bytes themselves.
func Prepare(data []byte) ([]byte, string, error) {
	detected := http.DetectContentType(data)
	if !allowedMIME[detected] {
		return nil, "", fmt.Errorf("unsupported image format %s (JPEG or PNG required)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}

	img = downscale(img, maxDim)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("encoding JPEG: %w", err)
	}

	return buf.Bytes(), "image/jpeg", nil
}

// downscale resizes img so neither dimension exceeds limit, preserving
// aspect ratio with Catmull-Rom interpolation. Images already within bounds
// are returned unchanged; nothing is ever upscaled.
func downscale(img image.Image, limit int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w <= limit && h <= limit {
		return img
	}

	newW, newH := limit, limit
	if w > h {
		newH = max(1, h*limit/w)
	} else {
		newW = max(1, w*limit/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
