package contacts

import (
	"bytes"
	"image"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"
)

// Codec normalizes stored photo bytes for transport.
type Codec interface {
	Transcode(src []byte) []byte
}

// pngCodec re-encodes any decodable image as PNG so every embedder
// receives one predictable format. Bytes that do not decode pass
// through unchanged.
type pngCodec struct{}

var _ Codec = pngCodec{}

func (pngCodec) Transcode(src []byte) []byte {

	if len(src) == 0 {
		return src
	}

	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return src
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return src
	}
	return buf.Bytes()
}
