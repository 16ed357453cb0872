// Package media provides image intake processing
package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

// ErrNotAnImage is returned for uploads whose content is not an image.
// The message is shown to users as is.
var ErrNotAnImage = errors.New("Only image files are allowed")

// ImageProcessor turns uploaded image bytes into embeddable data URLs
type ImageProcessor struct {
	maxWidth int
	quality  int
}

// ProcessedImage is the result of processing one upload
type ProcessedImage struct {
	MIME    string
	DataURL string
	Resized bool
	Bytes   int
}

// NewImageProcessor creates a processor. maxWidth <= 0 disables downscaling.
func NewImageProcessor(maxWidth, quality int) *ImageProcessor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &ImageProcessor{maxWidth: maxWidth, quality: quality}
}

// DetectImage sniffs data and returns its image MIME type
func DetectImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrNotAnImage
	}
	mime := strings.TrimSpace(strings.SplitN(mimetype.Detect(data).String(), ";", 2)[0])
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotAnImage, mime)
	}
	return mime, nil
}

// Process validates data as an image and encodes it as a data URL. Wide
// raster images are downscaled and re-encoded as WebP when a max width is
// configured; SVG and GIF are always embedded untouched.
func (p *ImageProcessor) Process(data []byte) (ProcessedImage, error) {
	mime, err := DetectImage(data)
	if err != nil {
		return ProcessedImage{}, err
	}

	out := data
	resized := false
	if p.maxWidth > 0 && isResizable(mime) {
		if scaled, ok, err := p.downscale(data); err != nil {
			return ProcessedImage{}, err
		} else if ok {
			out, mime, resized = scaled, "image/webp", true
		}
	}

	return ProcessedImage{
		MIME:    mime,
		DataURL: EncodeDataURL(mime, out),
		Resized: resized,
		Bytes:   len(out),
	}, nil
}

func isResizable(mime string) bool {
	switch mime {
	case "image/svg+xml", "image/gif":
		return false
	}
	return true
}

// downscale shrinks data to maxWidth. Images the decoder cannot read, or
// that are already narrow enough, are reported as not resized.
func (p *ImageProcessor) downscale(data []byte) ([]byte, bool, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, false, nil
	}
	if img.Bounds().Dx() <= p.maxWidth {
		return nil, false, nil
	}

	resized := imaging.Resize(img, p.maxWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := webp.Encode(&buf, resized, &webp.Options{Quality: float32(p.quality)}); err != nil {
		return nil, false, fmt.Errorf("failed to encode webp: %w", err)
	}
	return buf.Bytes(), true, nil
}

// EncodeDataURL builds a base64 data URL
func EncodeDataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL splits a base64 data URL into its MIME type and bytes
func DecodeDataURL(url string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data url")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data url")
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("data url is not base64 encoded")
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return mime, decoded, nil
}
