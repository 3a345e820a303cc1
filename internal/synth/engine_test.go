// ABOUTME: Tests for the demo pattern synthesizer
// ABOUTME: Covers the transport gate, note scheduling and output bounds
package synth

import (
	"testing"

	"github.com/Stepline-Audio/stepline-go/internal/song"
)

// fakeSink is a minimal Output implementation backing the engine in tests.
type fakeSink struct {
	rate       int
	outL, outR []float32
}

func newFakeSink(rate, bufferSize int) *fakeSink {
	return &fakeSink{
		rate: rate,
		outL: make([]float32, bufferSize),
		outR: make([]float32, bufferSize),
	}
}

func (s *fakeSink) Init(int) error  { return nil }
func (s *fakeSink) Connect() error  { return nil }
func (s *fakeSink) Disconnect()     {}
func (s *fakeSink) SampleRate() int { return s.rate }
func (s *fakeSink) OutL() []float32 { return s.outL }
func (s *fakeSink) OutR() []float32 { return s.outR }

func testSong() *song.Song {
	return &song.Song{
		Name:       "t",
		BPM:        120,
		Resolution: 4,
		Columns: []*song.Column{
			{Patterns: []*song.Pattern{{
				Name:   "p",
				Length: 4,
				Notes:  []song.Note{{Position: 0, Pitch: 69, Velocity: 1}},
			}}},
		},
	}
}

func TestProcessNotReadyUntilPlaying(t *testing.T) {
	sink := newFakeSink(8000, 256)
	e := New(testSong(), 8000)
	e.Bind(sink)

	if got := e.Process(256); got == 0 {
		t.Error("expected not-ready before Play")
	}

	e.Play()
	if got := e.Process(256); got != 0 {
		t.Errorf("expected ready after Play, got %d", got)
	}

	e.Stop()
	if got := e.Process(256); got == 0 {
		t.Error("expected not-ready after Stop")
	}
}

func TestNoteProducesBoundedAudio(t *testing.T) {
	sink := newFakeSink(8000, 256)
	e := New(testSong(), 8000)
	e.Bind(sink)
	e.Play()

	if got := e.Process(256); got != 0 {
		t.Fatalf("process not ready: %d", got)
	}

	var peak float32
	for i := 0; i < 256; i++ {
		if sink.outL[i] != sink.outR[i] {
			t.Fatal("expected identical left/right output")
		}
		if v := sink.outL[i]; v > peak {
			peak = v
		} else if -v > peak {
			peak = -v
		}
	}
	if peak == 0 {
		t.Error("expected the scheduled note to produce audio")
	}
	if peak > 1 {
		t.Errorf("expected output within [-1,1], peak %g", peak)
	}
}

func TestVoicesDecayToSilence(t *testing.T) {
	sink := newFakeSink(8000, 256)
	e := New(testSong(), 8000)
	e.Bind(sink)
	e.Play()

	// the only note fires at frame 0 and decays by 60 dB over 0.3 s;
	// after a full second the engine should be silent
	for i := 0; i < 8000/256; i++ {
		e.Process(256)
	}

	e.Process(256)
	for i := 0; i < 256; i++ {
		if v := sink.outL[i]; v > 0.001 || v < -0.001 {
			t.Fatalf("expected near-silence after decay, sample %d = %g", i, v)
		}
	}
}

func TestScheduleRespectsColumnBoundaries(t *testing.T) {
	// a note positioned past its column's tick length is never scheduled
	s := testSong()
	s.Columns[0].Patterns[0].Notes = append(s.Columns[0].Patterns[0].Notes,
		song.Note{Position: 10, Pitch: 60, Velocity: 1})

	e := New(s, 8000)
	if len(e.events) != 1 {
		t.Errorf("expected 1 scheduled event, got %d", len(e.events))
	}
}
