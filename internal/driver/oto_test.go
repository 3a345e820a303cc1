// ABOUTME: Tests for the live driver's pull reader
// ABOUTME: Uses a stub sink so no audio device is needed
package driver

import (
	"encoding/binary"
	"testing"
)

// stubSink backs pullReader tests with plain in-memory buffers.
type stubSink struct {
	rate       int
	outL, outR []float32
}

func (s *stubSink) Init(int) error  { return nil }
func (s *stubSink) Connect() error  { return nil }
func (s *stubSink) Disconnect()     {}
func (s *stubSink) SampleRate() int { return s.rate }
func (s *stubSink) OutL() []float32 { return s.outL }
func (s *stubSink) OutR() []float32 { return s.outR }

func TestPullReaderConvertsAndClamps(t *testing.T) {
	sink := &stubSink{
		rate: 44100,
		outL: make([]float32, 8),
		outR: make([]float32, 8),
	}

	calls := 0
	r := &pullReader{
		sink:       sink,
		bufferSize: 8,
		process: func(frames int) int {
			calls++
			// not ready on the first two pulls, then fill
			if calls <= 2 {
				return 1
			}
			for i := 0; i < frames; i++ {
				sink.outL[i] = 0.5
				sink.outR[i] = -2.0
			}
			return 0
		},
	}

	b := make([]byte, 6*4)
	n, err := r.Read(b)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if n != 24 {
		t.Fatalf("expected 24 bytes, got %d", n)
	}
	if calls != 3 {
		t.Errorf("expected 3 callback invocations with retries, got %d", calls)
	}

	half := float32(0.5)
	wantL := int16(half * 32767.0)
	wantR := int16(-32767) // -2.0 clamps to -1
	for i := 0; i < 6; i++ {
		l := int16(binary.LittleEndian.Uint16(b[i*4:]))
		rr := int16(binary.LittleEndian.Uint16(b[i*4+2:]))
		if l != wantL {
			t.Errorf("frame %d left: expected %d, got %d", i, wantL, l)
		}
		if rr != wantR {
			t.Errorf("frame %d right: expected %d, got %d", i, wantR, rr)
		}
	}
}

func TestPullReaderCapsAtBufferSize(t *testing.T) {
	sink := &stubSink{
		rate: 44100,
		outL: make([]float32, 4),
		outR: make([]float32, 4),
	}

	var asked int
	r := &pullReader{
		sink:       sink,
		bufferSize: 4,
		process: func(frames int) int {
			asked = frames
			return 0
		},
	}

	// oto may hand over a slice far larger than one processing cycle
	b := make([]byte, 64)
	n, err := r.Read(b)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if n != 4*4 {
		t.Errorf("expected 16 bytes for one buffer of frames, got %d", n)
	}
	if asked != 4 {
		t.Errorf("expected callback asked for 4 frames, got %d", asked)
	}
}

func TestPullReaderIgnoresSubFrameReads(t *testing.T) {
	r := &pullReader{
		sink:       &stubSink{},
		bufferSize: 8,
		process: func(int) int {
			panic("callback must not run for a sub-frame read")
		},
	}

	n, err := r.Read(make([]byte, 3))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 bytes, got %d", n)
	}
}

func TestLivePlayerInitValidation(t *testing.T) {
	p := NewLivePlayer(48000, func(int) int { return 0 })

	if err := p.Init(0); err == nil {
		t.Error("expected error for zero buffer size")
	}
	if err := p.Init(512); err != nil {
		t.Errorf("unexpected init error: %v", err)
	}
	if got := p.SampleRate(); got != 48000 {
		t.Errorf("expected sample rate 48000, got %d", got)
	}
}
