package solaraudio_test

import (
	"bytes"
	"io"
	"testing"

	solaraudio "github.com/tsbujacncl/solar-audio-sub001"
)

func TestWav(t *testing.T) {
	buffer := solaraudio.AudioBuffer{0, 0.5, -0.5, 1}
	wav, err := buffer.Wav(false)
	if err != nil {
		t.Fatalf("Wav failed: %v", err)
	}
	if !bytes.HasPrefix(wav, []byte("RIFF")) {
		t.Error("expected a RIFF header")
	}
	// 12 byte RIFF header + 26 byte float fmt chunk + 12 byte fact chunk +
	// 8 byte data header + 4 samples of 4 bytes
	if len(wav) != 12+26+12+8+4*4 {
		t.Errorf("got %v bytes, expected %v", len(wav), 12+26+12+8+4*4)
	}
	pcm, err := buffer.Wav(true)
	if err != nil {
		t.Fatalf("Wav failed: %v", err)
	}
	if len(pcm) != 12+24+8+4*2 {
		t.Errorf("got %v bytes, expected %v", len(pcm), 12+24+8+4*2)
	}
}

func TestRawClamps(t *testing.T) {
	buffer := solaraudio.AudioBuffer{2, -2}
	raw, err := buffer.Raw(true)
	if err != nil {
		t.Fatalf("Raw failed: %v", err)
	}
	if len(raw) != 4 {
		t.Fatalf("got %v bytes, expected 4", len(raw))
	}
	left := int16(raw[0]) | int16(raw[1])<<8
	if left != 32767 {
		t.Errorf("got %v, expected clipping to 32767", left)
	}
}

func TestSource(t *testing.T) {
	buffer := solaraudio.AudioBuffer{0, 1}
	b, err := io.ReadAll(buffer.Source())
	if err != nil {
		t.Fatalf("reading source failed: %v", err)
	}
	if len(b) != 4 {
		t.Errorf("got %v bytes, expected 4 (16-bit stereo frame)", len(b))
	}
}
