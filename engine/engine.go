package engine

import (
	"fmt"
	"sync"

	"github.com/viterin/vek/vek32"

	solaraudio "github.com/tsbujacncl/solar-audio-sub001"
)

// Engine owns the live tracks and effects. All exported methods are safe to
// call from multiple goroutines (the rpc server and the midi input run on
// their own); each call is synchronous and the mutex serializes them, so a
// caller always observes the effects of its own preceding mutation.
type Engine struct {
	mu        sync.Mutex
	name      string
	tempo     float64
	tracks    []*track
	effects   map[int]Effect
	nextID    int
	renderBuf solaraudio.AudioBuffer
}

// New builds a live engine from a project. Effect ids from the project are
// preserved, so saved automation and UI state keep referring to the same
// effects after a reload.
func New(project solaraudio.Project) (*Engine, error) {
	if err := project.Validate(); err != nil {
		return nil, fmt.Errorf("engine.New: %v", err)
	}
	e := &Engine{
		name:    project.Name,
		tempo:   project.Tempo,
		effects: make(map[int]Effect),
		nextID:  1,
	}
	for _, trackData := range project.Tracks {
		t := newTrack(trackData)
		for _, record := range trackData.FXChain {
			effect := newEffect(record.Kind)
			if effect == nil {
				return nil, fmt.Errorf("engine.New: unknown effect kind %q", record.Kind)
			}
			for name, value := range record.Parameters {
				if err := effect.SetParameter(name, value); err != nil {
					return nil, fmt.Errorf("engine.New: %v", err)
				}
			}
			effect.setBypassed(record.Bypassed)
			id := record.ID
			if id <= 0 || e.effects[id] != nil {
				id = e.nextID
			}
			if id >= e.nextID {
				e.nextID = id + 1
			}
			e.effects[id] = effect
			t.fxChain = append(t.fxChain, id)
		}
		e.tracks = append(e.tracks, t)
	}
	return e, nil
}

// Project snapshots the engine state back into a serializable project.
func (e *Engine) Project() solaraudio.Project {
	e.mu.Lock()
	defer e.mu.Unlock()
	project := solaraudio.NewProject(e.name)
	project.Tempo = e.tempo
	for _, t := range e.tracks {
		project.Tracks = append(project.Tracks, t.data(e))
	}
	return project
}

func (e *Engine) findTrack(trackID int) *track {
	for _, t := range e.tracks {
		if t.id == trackID {
			return t
		}
	}
	return nil
}

// TrackEffects implements solaraudio.Engine.
func (e *Engine) TrackEffects(trackID int) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.findTrack(trackID)
	if t == nil {
		return "", fmt.Errorf("track %v not found", trackID)
	}
	return solaraudio.FormatEffectIDs(t.fxChain), nil
}

// EffectInfo implements solaraudio.Engine.
func (e *Engine) EffectInfo(effectID int) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	effect, ok := e.effects[effectID]
	if !ok {
		return "", fmt.Errorf("effect %v not found", effectID)
	}
	record := effect.Snapshot()
	record.ID = effectID
	return solaraudio.FormatEffectInfo(record), nil
}

// SetEffectParameter implements solaraudio.Engine. The value is clamped to
// the schema range before it is applied; the engine does not trust callers
// to clamp. The pseudo parameter "bypassed" toggles the bypass state, true
// for any non-zero value.
func (e *Engine) SetEffectParameter(effectID int, param string, value float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	effect, ok := e.effects[effectID]
	if !ok {
		return fmt.Errorf("effect %v not found", effectID)
	}
	if param == "bypassed" {
		effect.setBypassed(value != 0)
		return nil
	}
	return effect.SetParameter(param, value)
}

// AddEffectToTrack implements solaraudio.Engine. The return value is the id
// of the new effect, or negative when the track does not exist or the kind
// is unknown.
func (e *Engine) AddEffectToTrack(trackID int, kind solaraudio.EffectKind) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.findTrack(trackID)
	if t == nil {
		return -1
	}
	effect := newEffect(kind)
	if effect == nil {
		return -1
	}
	id := e.nextID
	e.nextID++
	e.effects[id] = effect
	t.fxChain = append(t.fxChain, id)
	return id
}

// RemoveEffectFromTrack implements solaraudio.Engine. Removing an id that
// is not on the track is a no-op; the caller reloads afterwards either way.
func (e *Engine) RemoveEffectFromTrack(trackID, effectID int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.findTrack(trackID)
	if t == nil {
		return
	}
	for i, id := range t.fxChain {
		if id == effectID {
			t.fxChain = append(t.fxChain[:i], t.fxChain[i+1:]...)
			delete(e.effects, effectID)
			return
		}
	}
}

// NoteOn triggers a note on the track's synthesizer.
func (e *Engine) NoteOn(trackID int, note, velocity byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.findTrack(trackID)
	if t == nil {
		return fmt.Errorf("track %v not found", trackID)
	}
	t.synth.noteOn(note, velocity)
	return nil
}

// NoteOff releases a note on the track's synthesizer.
func (e *Engine) NoteOff(trackID int, note byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.findTrack(trackID)
	if t == nil {
		return fmt.Errorf("track %v not found", trackID)
	}
	t.synth.noteOff(note)
	return nil
}

// AllNotesOff silences every synthesizer voice on every track.
func (e *Engine) AllNotesOff() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range e.tracks {
		t.synth.allNotesOff()
	}
}

// Render fills the interleaved stereo buffer with the mix of all tracks.
func (e *Engine) Render(buffer solaraudio.AudioBuffer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	vek32.Zeros_Into(buffer, len(buffer))
	soloActive := false
	for _, t := range e.tracks {
		if t.solo {
			soloActive = true
			break
		}
	}
	for _, t := range e.tracks {
		t.process(e, buffer, soloActive)
	}
}

// TrackIDs returns the ids of the tracks, in mixer order.
func (e *Engine) TrackIDs() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]int, len(e.tracks))
	for i, t := range e.tracks {
		ids[i] = t.id
	}
	return ids
}
