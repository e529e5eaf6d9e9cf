package audio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// writeWAV wraps raw little-endian PCM samples in a canonical 44-byte
// RIFF/WAVE header.
func writeWAV(w io.Writer, pcm []byte, sampleRate, channels, bitDepth int) error {
	if len(pcm) == 0 {
		return fmt.Errorf("no PCM data")
	}
	blockAlign := channels * bitDepth / 8
	byteRate := sampleRate * blockAlign

	header := []any{
		[4]byte{'R', 'I', 'F', 'F'},
		uint32(36 + len(pcm)),
		[4]byte{'W', 'A', 'V', 'E'},
		[4]byte{'f', 'm', 't', ' '},
		uint32(16), // fmt chunk size
		uint16(1),  // PCM
		uint16(channels),
		uint32(sampleRate),
		uint32(byteRate),
		uint16(blockAlign),
		uint16(bitDepth),
		[4]byte{'d', 'a', 't', 'a'},
		uint32(len(pcm)),
	}
	for _, v := range header {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("failed to write WAV header: %w", err)
		}
	}
	if _, err := w.Write(pcm); err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}
	return nil
}
