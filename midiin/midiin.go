// Package midiin routes note events from hardware MIDI inputs to the
// engine synthesizers.
package midiin

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/tsbujacncl/solar-audio-sub001/engine"
)

type (
	Context struct {
		driver    *rtmididrv.Driver
		currentIn drivers.In
		stop      func()
		engine    *engine.Engine
		trackID   int
	}

	Device struct {
		context *Context
		in      drivers.In
	}
)

// NewContext opens the MIDI driver. Notes are sent to the given track of
// the engine; SetTrack changes the target later.
func NewContext(e *engine.Engine, trackID int) *Context {
	c := &Context{engine: e, trackID: trackID}
	// no driver means no devices, but nothing else breaks
	c.driver, _ = rtmididrv.New()
	return c
}

// InputDevices iterates over the available MIDI input devices.
func (c *Context) InputDevices(yield func(Device) bool) {
	if c.driver == nil {
		return
	}
	ins, err := c.driver.Ins()
	if err != nil {
		return
	}
	for _, in := range ins {
		if !yield(Device{context: c, in: in}) {
			break
		}
	}
}

// TryToOpenBy opens the first device whose name starts with namePrefix, or
// just the first device when takeFirst is set.
func (c *Context) TryToOpenBy(namePrefix string, takeFirst bool) error {
	if namePrefix == "" && !takeFirst {
		return nil
	}
	var opened bool
	c.InputDevices(func(d Device) bool {
		if takeFirst || strings.HasPrefix(d.String(), namePrefix) {
			opened = d.Open() == nil
			return false
		}
		return true
	})
	if !opened {
		return fmt.Errorf("no MIDI input matching %q", namePrefix)
	}
	return nil
}

// SetTrack redirects subsequent note events to another track.
func (c *Context) SetTrack(trackID int) {
	c.trackID = trackID
}

func (c *Context) Close() {
	if c.driver == nil {
		return
	}
	if c.stop != nil {
		c.stop()
	}
	if c.currentIn != nil && c.currentIn.IsOpen() {
		c.currentIn.Close()
	}
	c.driver.Close()
	c.engine.AllNotesOff()
}

func (d Device) String() string {
	return d.in.String()
}

// Open starts listening on the device, closing the currently open one if
// necessary.
func (d Device) Open() error {
	c := d.context
	if c.currentIn == d.in {
		return nil
	}
	if c.driver == nil {
		return errors.New("no driver available")
	}
	if c.currentIn != nil && c.currentIn.IsOpen() {
		if c.stop != nil {
			c.stop()
			c.stop = nil
		}
		c.currentIn.Close()
		c.engine.AllNotesOff()
	}
	c.currentIn = d.in
	if err := d.in.Open(); err != nil {
		c.currentIn = nil
		return fmt.Errorf("opening MIDI input failed: %w", err)
	}
	stop, err := midi.ListenTo(d.in, c.handleMessage)
	if err != nil {
		d.in.Close()
		c.currentIn = nil
		return fmt.Errorf("listening to MIDI input failed: %w", err)
	}
	c.stop = stop
	return nil
}

func (c *Context) handleMessage(msg midi.Message, timestampms int32) {
	var channel, key, velocity uint8
	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		c.engine.NoteOn(c.trackID, key, velocity)
	case msg.GetNoteOff(&channel, &key, &velocity):
		c.engine.NoteOff(c.trackID, key)
	}
}
