// Package qrimage renders payload strings as PNG QR codes.
package qrimage

import (
	"errors"

	qr "github.com/skip2/go-qrcode"
)

const (
	// DefaultSize is the image edge in pixels when none is configured.
	DefaultSize = 320
	// MaxSize bounds caller-chosen sizes.
	MaxSize = 2048
)

var (
	ErrEmptyPayload = errors.New("empty payload")
	ErrInvalidSize  = errors.New("invalid QR image size")
	ErrEncode       = errors.New("failed to encode QR image")
)

type Renderer struct {
	size int
}

// New returns a renderer producing size x size images; non-positive sizes
// fall back to DefaultSize.
func New(size int) *Renderer {
	if size <= 0 {
		size = DefaultSize
	}
	return &Renderer{size: size}
}

// PNG renders payload at the configured size.
func (r *Renderer) PNG(payload string) ([]byte, error) {
	return r.PNGSize(payload, r.size)
}

// PNGSize renders payload at an explicit size; zero means the default.
func (r *Renderer) PNGSize(payload string, size int) ([]byte, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	if size == 0 {
		size = r.size
	}
	if size < 0 || size > MaxSize {
		return nil, ErrInvalidSize
	}
	png, err := qr.Encode(payload, qr.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrEncode, err)
	}
	return png, nil
}
