// Package qr wraps symbol rendering and frame decoding behind small
// interfaces so the transaction service never touches the underlying
// libraries directly.
package qr

import (
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/skip2/go-qrcode"
)

// Encoder renders payload bytes into a scannable PNG symbol.
type Encoder interface {
	Encode(content string, size int) ([]byte, error)
}

type encoder struct{}

func NewEncoder() Encoder {
	return &encoder{}
}

func (e *encoder) Encode(content string, size int) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		// skip2 fails here when the payload exceeds the symbol capacity.
		return nil, fmt.Errorf("rendering qr symbol: %w", err)
	}

	return png, nil
}

// Decoder recovers the embedded text from a captured camera frame.
type Decoder interface {
	DecodeFrame(img image.Image) (string, error)
}

type decoder struct {
	reader gozxing.Reader
}

func NewDecoder() Decoder {
	return &decoder{reader: zxqrcode.NewQRCodeReader()}
}

func (d *decoder) DecodeFrame(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("preparing frame: %w", err)
	}

	result, err := d.reader.Decode(bmp, nil)
	if err != nil {
		// No decodable symbol in this frame; the caller keeps scanning.
		return "", fmt.Errorf("decoding frame: %w", err)
	}

	return result.GetText(), nil
}
