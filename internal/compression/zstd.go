// Package compression wraps zstd encoding for objects at rest. Objects
// are hashed over their raw bytes, so compression stays invisible to
// content addressing.
package compression

import (
	"bytes"

	"github.com/klauspost/compress/zstd"
)

// MinSize is the smallest payload worth compressing. Tree and blob
// objects below this tend to grow under zstd framing.
const MinSize = 128

// zstd frame magic, little-endian 0xFD2FB528.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

type Compressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	enabled bool
}

// NewCompressor returns a compressor at the given level (1 fastest, 2
// default, 3 best). The decoder is always available so a store can read
// compressed objects even when writing is disabled.
func NewCompressor(level int, enabled bool) (*Compressor, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}

	c := &Compressor{decoder: decoder, enabled: enabled}
	if !enabled {
		return c, nil
	}

	var encoderLevel zstd.EncoderLevel
	switch level {
	case 1:
		encoderLevel = zstd.SpeedFastest
	case 3:
		encoderLevel = zstd.SpeedBetterCompression
	default:
		encoderLevel = zstd.SpeedDefault
	}

	c.encoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(encoderLevel),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		decoder.Close()
		return nil, err
	}
	return c, nil
}

// Compress returns data compressed, or unchanged when compression is
// disabled, the payload is too small, or compression does not shrink it.
func (c *Compressor) Compress(data []byte) ([]byte, error) {
	if !c.enabled || len(data) < MinSize {
		return data, nil
	}

	compressed := c.encoder.EncodeAll(data, make([]byte, 0, len(data)))
	if len(compressed) >= len(data) {
		return data, nil
	}
	return compressed, nil
}

// Decompress reverses Compress. Payloads without a zstd frame header
// are returned unchanged.
func (c *Compressor) Decompress(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, zstdMagic) {
		return data, nil
	}
	return c.decoder.DecodeAll(data, nil)
}

func (c *Compressor) Close() error {
	if c.encoder != nil {
		c.encoder.Close()
	}
	if c.decoder != nil {
		c.decoder.Close()
	}
	return nil
}
