package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestWriteWAV(t *testing.T) {
	pcm := []byte{0x10, 0x00, 0x20, 0x00}
	var buf bytes.Buffer
	if err := writeWAV(&buf, pcm, 24000, 1, 16); err != nil {
		t.Fatalf("writeWAV() error = %v", err)
	}

	data := buf.Bytes()
	if len(data) != 48 {
		t.Fatalf("Expected 48 bytes, got %d", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" || string(data[36:40]) != "data" {
		t.Errorf("Bad chunk ids: %q", data[:40])
	}

	checks := []struct {
		name   string
		offset int
		size   int
		want   uint32
	}{
		{"riff size", 4, 4, 40},
		{"format", 20, 2, 1},
		{"channels", 22, 2, 1},
		{"sample rate", 24, 4, 24000},
		{"byte rate", 28, 4, 48000},
		{"block align", 32, 2, 2},
		{"bits", 34, 2, 16},
		{"data size", 40, 4, 4},
	}
	for _, c := range checks {
		var got uint32
		if c.size == 2 {
			got = uint32(binary.LittleEndian.Uint16(data[c.offset:]))
		} else {
			got = binary.LittleEndian.Uint32(data[c.offset:])
		}
		if got != c.want {
			t.Errorf("%s = %d, want %d", c.name, got, c.want)
		}
	}
	if !bytes.Equal(data[44:], pcm) {
		t.Error("PCM payload not copied")
	}
}

func TestWriteWAVEmpty(t *testing.T) {
	if err := writeWAV(&bytes.Buffer{}, nil, 24000, 1, 16); err == nil {
		t.Error("Expected error for empty PCM")
	}
}
