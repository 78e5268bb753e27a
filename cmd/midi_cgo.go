//go:build cgo

package cmd

import (
	"github.com/tsbujacncl/solar-audio-sub001/engine"
	"github.com/tsbujacncl/solar-audio-sub001/midiin"
)

func NewMIDIContext(e *engine.Engine, trackID int) MIDIContext {
	return midiin.NewContext(e, trackID)
}
