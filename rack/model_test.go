package rack_test

import (
	"fmt"
	"io"
	"log"
	"testing"

	solaraudio "github.com/tsbujacncl/solar-audio-sub001"
	"github.com/tsbujacncl/solar-audio-sub001/rack"
)

// stubEngine serves canned descriptors and records the calls it receives.
// SetEffectParameter clamps incoming values to the schema range, the way the
// real engine does, so subsequent reloads echo the clamped value back.
type stubEngine struct {
	effects map[int]solaraudio.EffectRecord
	order   []int
	raw     map[string]float64 // last raw value received per parameter name
	nextID  int
}

func newStubEngine() *stubEngine {
	return &stubEngine{
		effects: make(map[int]solaraudio.EffectRecord),
		raw:     make(map[string]float64),
		nextID:  1,
	}
}

func (s *stubEngine) add(kind solaraudio.EffectKind, params map[string]float64) int {
	id := s.nextID
	s.nextID++
	if params == nil {
		params = make(map[string]float64)
	}
	s.effects[id] = solaraudio.EffectRecord{ID: id, Kind: kind, Parameters: params}
	s.order = append(s.order, id)
	return id
}

func (s *stubEngine) TrackEffects(trackID int) (string, error) {
	if trackID < 0 {
		return "", fmt.Errorf("no track %v", trackID)
	}
	return solaraudio.FormatEffectIDs(s.order), nil
}

func (s *stubEngine) EffectInfo(effectID int) (string, error) {
	e, ok := s.effects[effectID]
	if !ok {
		return "", fmt.Errorf("no effect %v", effectID)
	}
	return solaraudio.FormatEffectInfo(e), nil
}

func (s *stubEngine) SetEffectParameter(effectID int, param string, value float64) error {
	e, ok := s.effects[effectID]
	if !ok {
		return fmt.Errorf("no effect %v", effectID)
	}
	s.raw[param] = value
	if param == "bypassed" {
		e.Bypassed = value != 0
	} else {
		p, ok := solaraudio.FindEffectParameter(e.Kind, param)
		if !ok {
			return fmt.Errorf("no parameter %q", param)
		}
		e.Parameters[param] = p.Clamp(value)
	}
	s.effects[effectID] = e
	return nil
}

func (s *stubEngine) AddEffectToTrack(trackID int, kind solaraudio.EffectKind) int {
	if trackID < 0 {
		return -1
	}
	if _, ok := solaraudio.EffectTypes[kind]; !ok {
		return -1
	}
	return s.add(kind, nil)
}

func (s *stubEngine) RemoveEffectFromTrack(trackID, effectID int) {
	delete(s.effects, effectID)
	for i, id := range s.order {
		if id == effectID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestSetTrackLoadsEffects(t *testing.T) {
	engine := newStubEngine()
	engine.add(solaraudio.EQ, map[string]float64{"low_freq": 150})
	engine.add(solaraudio.Reverb, nil)
	m := rack.NewModel(engine, quietLogger())
	m.SetTrack(0)
	effects := m.Effects()
	if len(effects) != 2 {
		t.Fatalf("got %v effects, expected 2", len(effects))
	}
	if effects[0].Kind != solaraudio.EQ || effects[1].Kind != solaraudio.Reverb {
		t.Errorf("got kinds %v and %v, expected eq and reverb", effects[0].Kind, effects[1].Kind)
	}
	if effects[0].Parameters["low_freq"] != 150 {
		t.Errorf("got low_freq %v, expected 150", effects[0].Parameters["low_freq"])
	}
}

func TestSetTrackEmptyList(t *testing.T) {
	m := rack.NewModel(newStubEngine(), quietLogger())
	m.SetTrack(0)
	if len(m.Effects()) != 0 {
		t.Errorf("got %v effects, expected none", len(m.Effects()))
	}
}

func TestReloadDropsMalformedDescriptors(t *testing.T) {
	engine := newStubEngine()
	engine.add(solaraudio.EQ, nil)
	bad := engine.add(solaraudio.Delay, nil)
	engine.add(solaraudio.Chorus, nil)
	// sabotage the middle descriptor: an unknown kind fails its decode
	e := engine.effects[bad]
	e.Kind = "flanger"
	engine.effects[bad] = e
	m := rack.NewModel(engine, quietLogger())
	m.SetTrack(0)
	effects := m.Effects()
	if len(effects) != 2 {
		t.Fatalf("got %v effects, expected the malformed one dropped", len(effects))
	}
	if effects[0].Kind != solaraudio.EQ || effects[1].Kind != solaraudio.Chorus {
		t.Errorf("got kinds %v and %v, expected eq and chorus", effects[0].Kind, effects[1].Kind)
	}
}

func TestSetParamForwardsRawValue(t *testing.T) {
	engine := newStubEngine()
	id := engine.add(solaraudio.EQ, nil)
	m := rack.NewModel(engine, quietLogger())
	m.SetTrack(0)
	// 9000 is far above the 500 Hz schema maximum; the raw value still
	// goes to the engine untouched
	if err := m.SetParam(id, "low_freq", 9000); err != nil {
		t.Fatalf("SetParam failed: %v", err)
	}
	if engine.raw["low_freq"] != 9000 {
		t.Errorf("engine received %v, expected the raw 9000", engine.raw["low_freq"])
	}
}

func TestSetParamEchoesEngineClamp(t *testing.T) {
	engine := newStubEngine()
	id := engine.add(solaraudio.EQ, nil)
	m := rack.NewModel(engine, quietLogger())
	m.SetTrack(0)
	if err := m.SetParam(id, "low_freq", 9000); err != nil {
		t.Fatalf("SetParam failed: %v", err)
	}
	// the reload after the mutation picks up the engine's clamped value
	e, err := m.Effect(0)
	if err != nil {
		t.Fatalf("Effect failed: %v", err)
	}
	if e.Parameters["low_freq"] != 500 {
		t.Errorf("got low_freq %v after reload, expected the engine clamp 500", e.Parameters["low_freq"])
	}
}

func TestSetParamUnknownParameter(t *testing.T) {
	engine := newStubEngine()
	id := engine.add(solaraudio.Reverb, nil)
	m := rack.NewModel(engine, quietLogger())
	m.SetTrack(0)
	if err := m.SetParam(id, "wibble", 1); err == nil {
		t.Error("expected an error for a parameter outside the schema")
	}
}

func TestSetBypassed(t *testing.T) {
	engine := newStubEngine()
	id := engine.add(solaraudio.Chorus, nil)
	m := rack.NewModel(engine, quietLogger())
	m.SetTrack(0)
	m.SetBypassed(id, true)
	e, err := m.Effect(0)
	if err != nil {
		t.Fatalf("Effect failed: %v", err)
	}
	if !e.Bypassed {
		t.Error("expected the effect to be bypassed after reload")
	}
}

func TestAddEffect(t *testing.T) {
	engine := newStubEngine()
	m := rack.NewModel(engine, quietLogger())
	m.SetTrack(0)
	m.AddEffect(solaraudio.Delay)
	if len(m.Effects()) != 1 {
		t.Fatalf("got %v effects, expected 1", len(m.Effects()))
	}
	if m.Effects()[0].Kind != solaraudio.Delay {
		t.Errorf("got kind %v, expected delay", m.Effects()[0].Kind)
	}
}

func TestAddEffectFailureDoesNotReload(t *testing.T) {
	engine := newStubEngine()
	engine.add(solaraudio.EQ, nil)
	m := rack.NewModel(engine, quietLogger())
	m.SetTrack(0)
	// put the engine and the cache out of sync, then make the add fail;
	// without the reload the staleness must remain visible
	engine.add(solaraudio.Reverb, nil)
	m.AddEffect("flanger")
	if len(m.Effects()) != 1 {
		t.Errorf("got %v effects, expected the stale 1 (no reload on failed add)", len(m.Effects()))
	}
}

func TestRemoveEffectAlwaysReloads(t *testing.T) {
	engine := newStubEngine()
	engine.add(solaraudio.EQ, nil)
	m := rack.NewModel(engine, quietLogger())
	m.SetTrack(0)
	// removing an id that does not exist is a no-op in the engine, but
	// the reload still happens and picks up unrelated engine changes
	engine.add(solaraudio.Limiter, nil)
	m.RemoveEffect(999)
	if len(m.Effects()) != 2 {
		t.Errorf("got %v effects, expected 2 after the unconditional reload", len(m.Effects()))
	}
}

func TestParamDisplay(t *testing.T) {
	engine := newStubEngine()
	engine.add(solaraudio.Reverb, map[string]float64{"room_size": 2.5})
	m := rack.NewModel(engine, quietLogger())
	m.SetTrack(0)
	if n := m.NumParams(0); n != 3 {
		t.Fatalf("got %v parameters, expected 3", n)
	}
	p, err := m.Param(0, 0)
	if err != nil {
		t.Fatalf("Param failed: %v", err)
	}
	if p.Name != "room_size" {
		t.Errorf("got name %q, expected room_size", p.Name)
	}
	if p.Value != 1 {
		t.Errorf("got value %v, expected the display clamp 1", p.Value)
	}
	if p.Hint != "100 %" {
		t.Errorf("got hint %q, expected %q", p.Hint, "100 %")
	}
	// damping is absent from the record, so the schema default shows
	p, err = m.Param(0, 1)
	if err != nil {
		t.Fatalf("Param failed: %v", err)
	}
	if p.Value != 0.5 {
		t.Errorf("got value %v, expected the default 0.5", p.Value)
	}
}
