// Package imageproc turns arbitrary user photos into the gallery's two
// published renditions: a size-capped main image and a square thumbnail, both
// WebP. It performs no I/O beyond the byte buffers it is given.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// ImageSize caps both sides of the main rendition.
	ImageSize = 1024
	// ThumbSize is the side of the square thumbnail.
	ThumbSize = 128
	// Quality is the lossy WebP quality used for both renditions.
	Quality = 80
	// MaxPixels caps the pixel count announced by the header, above the
	// 200 MP of current phone cameras. Larger inputs fail with ErrTooLarge.
	MaxPixels = 256 << 20

	Extension   = "webp"
	ContentType = "image/webp"
)

// ErrEmptyInput is wrapped by DecodeError when no bytes were supplied.
var ErrEmptyInput = errors.New("empty input")

// ErrTooLarge reports a well-formed image above the engine's pixel cap. It is
// not a DecodeError.
var ErrTooLarge = errors.New("imageproc: image too large")

// DecodeError reports bytes that are not a recognized, well-formed image.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "imageproc: decode: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodedAsset is the pair of renditions produced for one source image.
type EncodedAsset struct {
	Main       []byte
	Thumb      []byte
	MainWidth  int
	MainHeight int
}

// Options tunes an Engine. Zero fields take the package defaults.
type Options struct {
	ImageSize int
	ThumbSize int
	Quality   float32
	MaxPixels int
}

// Engine decodes, resamples and re-encodes images with fixed settings so the
// same input always yields the same output.
type Engine struct {
	imageSize int
	thumbSize int
	maxPixels int
	encode    *encoder.Options
}

// NewEngine validates opts and prepares the WebP encoder settings.
func NewEngine(opts Options) (*Engine, error) {
	if opts.ImageSize <= 0 {
		opts.ImageSize = ImageSize
	}
	if opts.ThumbSize <= 0 {
		opts.ThumbSize = ThumbSize
	}
	if opts.Quality <= 0 {
		opts.Quality = Quality
	}
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = MaxPixels
	}
	if opts.Quality > 100 {
		return nil, fmt.Errorf("imageproc: quality %v out of range", opts.Quality)
	}
	enc, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, opts.Quality)
	if err != nil {
		return nil, fmt.Errorf("imageproc: encoder options: %w", err)
	}
	return &Engine{
		imageSize: opts.ImageSize,
		thumbSize: opts.ThumbSize,
		maxPixels: opts.MaxPixels,
		encode:    enc,
	}, nil
}

var defaultEngine = sync.OnceValues(func() (*Engine, error) {
	return NewEngine(Options{})
})

// Process runs raw through the default engine.
func Process(raw []byte) (EncodedAsset, error) {
	e, err := defaultEngine()
	if err != nil {
		return EncodedAsset{}, err
	}
	return e.Process(raw)
}

// Process decodes raw (format sniffed from content), caps the main rendition
// at the engine's image size, cuts a centered square thumbnail from it and
// encodes both as WebP.
func (e *Engine) Process(raw []byte) (EncodedAsset, error) {
	src, err := e.decode(raw)
	if err != nil {
		return EncodedAsset{}, err
	}

	main := e.resizeMain(src)
	mainBytes, err := e.encodeWebP(main)
	if err != nil {
		return EncodedAsset{}, fmt.Errorf("imageproc: encode main: %w", err)
	}

	thumb := e.thumbnail(main)
	thumbBytes, err := e.encodeWebP(thumb)
	if err != nil {
		return EncodedAsset{}, fmt.Errorf("imageproc: encode thumb: %w", err)
	}

	b := main.Bounds()
	return EncodedAsset{
		Main:       mainBytes,
		Thumb:      thumbBytes,
		MainWidth:  b.Dx(),
		MainHeight: b.Dy(),
	}, nil
}

func (e *Engine) decode(raw []byte) (image.Image, error) {
	if len(raw) == 0 {
		return nil, &DecodeError{Err: ErrEmptyInput}
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, &DecodeError{Err: fmt.Errorf("invalid dimensions %dx%d", cfg.Width, cfg.Height)}
	}
	if cfg.Width*cfg.Height > e.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, cfg.Width, cfg.Height, e.maxPixels)
	}
	// EXIF orientation is not applied; output keeps the stored pixel layout.
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return img, nil
}

func (e *Engine) resizeMain(src image.Image) image.Image {
	b := src.Bounds()
	w, h := FitWithin(b.Dx(), b.Dy(), e.imageSize)
	if w == b.Dx() && h == b.Dy() {
		return src
	}
	return imaging.Resize(src, w, h, imaging.Linear)
}

func (e *Engine) thumbnail(main image.Image) image.Image {
	square := imaging.Crop(main, CenterSquare(main.Bounds()))
	return imaging.Resize(square, e.thumbSize, e.thumbSize, imaging.Linear)
}

func (e *Engine) encodeWebP(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, e.encode); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
