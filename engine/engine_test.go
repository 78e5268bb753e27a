package engine_test

import (
	"math"
	"strings"
	"testing"

	solaraudio "github.com/tsbujacncl/solar-audio-sub001"
	"github.com/tsbujacncl/solar-audio-sub001/engine"
)

func testProject() solaraudio.Project {
	p := solaraudio.NewProject("test")
	p.Tracks = []solaraudio.ProjectTrack{
		{ID: 0, Name: "lead", Type: "midi", FXChain: []solaraudio.EffectRecord{
			{ID: 1, Kind: solaraudio.EQ, Parameters: map[string]float64{"low_freq": 150}},
			{ID: 2, Kind: solaraudio.Reverb, Parameters: map[string]float64{"wet_dry": 0.2}},
		}},
		{ID: 1, Name: "master", Type: "master"},
	}
	return p
}

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e, err := engine.New(testProject())
	if err != nil {
		t.Fatalf("engine.New failed: %v", err)
	}
	return e
}

func TestTrackEffects(t *testing.T) {
	e := newTestEngine(t)
	list, err := e.TrackEffects(0)
	if err != nil {
		t.Fatalf("TrackEffects failed: %v", err)
	}
	if list != "1,2" {
		t.Errorf("got %q, expected %q", list, "1,2")
	}
	list, err = e.TrackEffects(1)
	if err != nil {
		t.Fatalf("TrackEffects failed: %v", err)
	}
	if list != "" {
		t.Errorf("got %q, expected the empty string for an empty chain", list)
	}
	if _, err := e.TrackEffects(99); err == nil {
		t.Error("expected an error for an unknown track")
	}
}

func TestEffectInfo(t *testing.T) {
	e := newTestEngine(t)
	info, err := e.EffectInfo(1)
	if err != nil {
		t.Fatalf("EffectInfo failed: %v", err)
	}
	record, ok := solaraudio.ParseEffectInfo(1, info)
	if !ok {
		t.Fatalf("engine produced a descriptor its own codec rejects: %q", info)
	}
	if record.Kind != solaraudio.EQ {
		t.Errorf("got kind %v, expected eq", record.Kind)
	}
	if record.Parameters["low_freq"] != 150 {
		t.Errorf("got low_freq %v, expected 150", record.Parameters["low_freq"])
	}
	if !strings.HasPrefix(info, "type:eq,bypassed:0") {
		t.Errorf("descriptor should start with type and bypassed, got %q", info)
	}
	if _, err := e.EffectInfo(99); err == nil {
		t.Error("expected an error for an unknown effect")
	}
}

func TestSetEffectParameterClamps(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetEffectParameter(1, "low_freq", 9000); err != nil {
		t.Fatalf("SetEffectParameter failed: %v", err)
	}
	info, err := e.EffectInfo(1)
	if err != nil {
		t.Fatalf("EffectInfo failed: %v", err)
	}
	record, ok := solaraudio.ParseEffectInfo(1, info)
	if !ok {
		t.Fatalf("could not decode %q", info)
	}
	if record.Parameters["low_freq"] != 500 {
		t.Errorf("got low_freq %v, expected the clamp to 500", record.Parameters["low_freq"])
	}
}

func TestSetEffectParameterBypassed(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetEffectParameter(2, "bypassed", 1); err != nil {
		t.Fatalf("SetEffectParameter failed: %v", err)
	}
	info, _ := e.EffectInfo(2)
	record, ok := solaraudio.ParseEffectInfo(2, info)
	if !ok || !record.Bypassed {
		t.Errorf("expected effect 2 to report bypassed, got %q", info)
	}
}

func TestSetEffectParameterUnknown(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetEffectParameter(1, "wibble", 1); err == nil {
		t.Error("expected an error for a parameter outside the schema")
	}
	if err := e.SetEffectParameter(99, "low_freq", 100); err == nil {
		t.Error("expected an error for an unknown effect")
	}
}

func TestAddEffectToTrack(t *testing.T) {
	e := newTestEngine(t)
	id := e.AddEffectToTrack(1, solaraudio.Limiter)
	if id < 0 {
		t.Fatalf("got %v, expected a new id", id)
	}
	list, _ := e.TrackEffects(1)
	ids, err := solaraudio.ParseEffectIDs(list)
	if err != nil || len(ids) != 1 || ids[0] != id {
		t.Errorf("got list %q, expected just %v", list, id)
	}
}

func TestAddEffectToTrackFailures(t *testing.T) {
	e := newTestEngine(t)
	if id := e.AddEffectToTrack(99, solaraudio.EQ); id >= 0 {
		t.Errorf("got %v, expected a negative id for an unknown track", id)
	}
	if id := e.AddEffectToTrack(0, "flanger"); id >= 0 {
		t.Errorf("got %v, expected a negative id for an unknown kind", id)
	}
}

func TestRemoveEffectFromTrack(t *testing.T) {
	e := newTestEngine(t)
	e.RemoveEffectFromTrack(0, 1)
	list, _ := e.TrackEffects(0)
	if list != "2" {
		t.Errorf("got %q, expected %q", list, "2")
	}
	if _, err := e.EffectInfo(1); err == nil {
		t.Error("expected the removed effect to be gone")
	}
	// unknown ids and tracks are no-ops
	e.RemoveEffectFromTrack(0, 999)
	e.RemoveEffectFromTrack(99, 2)
	list, _ = e.TrackEffects(0)
	if list != "2" {
		t.Errorf("got %q, expected the chain untouched", list)
	}
}

func TestNewEffectIDsPreserved(t *testing.T) {
	p := testProject()
	p.Tracks[0].FXChain[0].ID = 7
	p.Tracks[0].FXChain[1].ID = 3
	e, err := engine.New(p)
	if err != nil {
		t.Fatalf("engine.New failed: %v", err)
	}
	list, _ := e.TrackEffects(0)
	if list != "7,3" {
		t.Errorf("got %q, expected the persisted ids %q", list, "7,3")
	}
	// new ids keep counting above the highest persisted one
	if id := e.AddEffectToTrack(0, solaraudio.Delay); id != 8 {
		t.Errorf("got %v, expected 8", id)
	}
}

func TestProjectRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetEffectParameter(1, "low_gain", 6); err != nil {
		t.Fatalf("SetEffectParameter failed: %v", err)
	}
	p := e.Project()
	if len(p.Tracks) != 2 {
		t.Fatalf("got %v tracks, expected 2", len(p.Tracks))
	}
	chain := p.Tracks[0].FXChain
	if len(chain) != 2 || chain[0].ID != 1 || chain[0].Kind != solaraudio.EQ {
		t.Fatalf("unexpected chain %#v", chain)
	}
	if chain[0].Parameters["low_gain"] != 6 {
		t.Errorf("got low_gain %v, expected 6", chain[0].Parameters["low_gain"])
	}
	if err := p.Validate(); err != nil {
		t.Errorf("snapshot should validate: %v", err)
	}
}

func TestRenderProducesSound(t *testing.T) {
	e := newTestEngine(t)
	if err := e.NoteOn(0, 69, 100); err != nil {
		t.Fatalf("NoteOn failed: %v", err)
	}
	buffer := make(solaraudio.AudioBuffer, 2*512)
	e.Render(buffer)
	peak := 0.0
	for _, s := range buffer {
		peak = math.Max(peak, math.Abs(float64(s)))
	}
	if peak == 0 {
		t.Error("expected a triggered note to produce a non-silent buffer")
	}
	if peak > 2 {
		t.Errorf("peak %v is unreasonably loud", peak)
	}
	if err := e.NoteOff(0, 69); err != nil {
		t.Fatalf("NoteOff failed: %v", err)
	}
}

func TestRenderMuteAndSolo(t *testing.T) {
	p := testProject()
	p.Tracks[0].Mute = true
	e, err := engine.New(p)
	if err != nil {
		t.Fatalf("engine.New failed: %v", err)
	}
	e.NoteOn(0, 60, 100)
	buffer := make(solaraudio.AudioBuffer, 2*256)
	e.Render(buffer)
	for _, s := range buffer {
		if s != 0 {
			t.Fatal("expected a muted track to stay silent")
		}
	}
}
