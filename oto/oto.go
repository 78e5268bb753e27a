// Package oto connects the engine audio output to the speakers.
package oto

import (
	"fmt"
	"io"
	"math"

	"github.com/ebitengine/oto/v3"

	solaraudio "github.com/tsbujacncl/solar-audio-sub001"
)

type (
	Context struct {
		context *oto.Context
	}

	output struct {
		player    *oto.Player
		pipe      *io.PipeWriter
		tmpBuffer []byte
	}
)

// NewContext initializes the audio device at 44100 Hz stereo and blocks
// until the device is ready.
func NewContext() (*Context, error) {
	op := &oto.NewContextOptions{
		SampleRate:   44100,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}
	context, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{context: context}, nil
}

// Output opens a playing sink. The sink converts the float32 buffers to
// 16-bit PCM and feeds them to the player through a pipe, so WriteAudio
// blocks when the device buffer is full, pacing the render loop.
func (c *Context) Output() solaraudio.AudioSink {
	pr, pw := io.Pipe()
	player := c.context.NewPlayer(pr)
	player.Play()
	return &output{player: player, pipe: pw}
}

func (c *Context) Close() error {
	if err := c.context.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

func (o *output) WriteAudio(buffer solaraudio.AudioBuffer) error {
	o.tmpBuffer = appendPCM16LE(o.tmpBuffer[:0], buffer)
	if _, err := o.pipe.Write(o.tmpBuffer); err != nil {
		return fmt.Errorf("cannot write to player: %w", err)
	}
	return nil
}

func (o *output) Close() error {
	o.pipe.Close()
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}

func appendPCM16LE(dst []byte, buffer []float32) []byte {
	for _, v := range buffer {
		var uv int16
		if v < -1.0 {
			uv = -math.MaxInt16
		} else if v > 1.0 {
			uv = math.MaxInt16
		} else {
			uv = int16(v * math.MaxInt16)
		}
		dst = append(dst, byte(uv), byte(uv>>8))
	}
	return dst
}
