package receipt

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	qrcode "github.com/skip2/go-qrcode"
)

// Raster pixel targets for the embedded images. The barcode is placed in a
// 48x14mm box, the QR in a 24mm square; rasters are sized well above the
// placed dimensions so 203dpi output stays crisp.
const (
	barcodePxW = 384
	barcodePxH = 112
	qrPx       = 192
)

type encodeResult struct {
	png []byte
	err error
}

// barcodeFuture carries a Code128 raster encoded on a background goroutine.
// The receive happens exactly once; subsequent awaits return the cached
// result, so both render passes see the same bytes.
type barcodeFuture struct {
	ch  chan encodeResult
	res *encodeResult
}

// encodeBarcodeAsync starts the Code128 encode and returns immediately.
func encodeBarcodeAsync(text string) *barcodeFuture {
	f := &barcodeFuture{ch: make(chan encodeResult, 1)}
	go func() {
		png, err := encodeCode128PNG(text)
		f.ch <- encodeResult{png: png, err: err}
	}()
	return f
}

func (f *barcodeFuture) await() ([]byte, error) {
	if f.res == nil {
		r := <-f.ch
		f.res = &r
	}
	return f.res.png, f.res.err
}

func encodeCode128PNG(text string) ([]byte, error) {
	bc, err := code128.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("encode code128 %q: %w", text, err)
	}
	scaled, err := barcode.Scale(bc, barcodePxW, barcodePxH)
	if err != nil {
		return nil, fmt.Errorf("scale code128: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("rasterize code128: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeQRPNG(payload string) ([]byte, error) {
	b, err := qrcode.Encode(payload, qrcode.Medium, qrPx)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return b, nil
}
