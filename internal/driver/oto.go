// ABOUTME: Live playback driver built on oto, sharing the Output contract
// ABOUTME: Pulls frames through the same processing callback the disk writer uses
package driver

import (
	"encoding/binary"
	"fmt"
	"log"

	"github.com/ebitengine/oto/v3"
)

// LivePlayer plays the engine's output on the default sound device. It
// exists so the same processing callback can drive speakers or a file
// export interchangeably.
type LivePlayer struct {
	sampleRate int
	bufferSize int
	process    ProcessCallback

	outL, outR []float32
	otoCtx     *oto.Context
	player     *oto.Player
}

// NewLivePlayer creates a live sink at the given output rate.
func NewLivePlayer(sampleRate int, cb ProcessCallback) *LivePlayer {
	return &LivePlayer{
		sampleRate: sampleRate,
		process:    cb,
	}
}

// Init records the per-cycle buffer length.
func (p *LivePlayer) Init(bufferSize int) error {
	if p.outL != nil {
		return ErrAlreadyConnected
	}
	if bufferSize <= 0 {
		return fmt.Errorf("invalid buffer size %d", bufferSize)
	}
	p.bufferSize = bufferSize
	return nil
}

// Connect allocates the planar buffers, opens the sound device and starts
// pulling audio through the processing callback.
func (p *LivePlayer) Connect() error {
	if p.bufferSize == 0 {
		return fmt.Errorf("buffer size not configured, call Init first")
	}

	p.outL = make([]float32, p.bufferSize)
	p.outR = make([]float32, p.bufferSize)

	op := &oto.NewContextOptions{
		SampleRate:   p.sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	p.otoCtx = ctx
	p.player = ctx.NewPlayer(&pullReader{sink: p, process: p.process, bufferSize: p.bufferSize})
	p.player.Play()

	log.Printf("Live output connected: %d Hz, buffer %d", p.sampleRate, p.bufferSize)
	return nil
}

// Disconnect stops playback and releases the buffers.
func (p *LivePlayer) Disconnect() {
	if p.player != nil {
		p.player.Close()
		p.player = nil
	}
	if p.otoCtx != nil {
		p.otoCtx.Suspend()
		p.otoCtx = nil
	}
	p.outL = nil
	p.outR = nil
}

// SampleRate returns the configured output rate.
func (p *LivePlayer) SampleRate() int { return p.sampleRate }

// OutL returns the left planar buffer.
func (p *LivePlayer) OutL() []float32 { return p.outL }

// OutR returns the right planar buffer.
func (p *LivePlayer) OutR() []float32 { return p.outR }

// pullReader adapts the processing callback to the io.Reader oto consumes,
// one clamped, interleaved int16 chunk at a time.
type pullReader struct {
	sink       Output
	process    ProcessCallback
	bufferSize int
}

func (r *pullReader) Read(b []byte) (int, error) {
	const frameBytes = 4 // 2 channels x int16

	frames := len(b) / frameBytes
	if frames > r.bufferSize {
		frames = r.bufferSize
	}
	if frames == 0 {
		return 0, nil
	}

	for r.process(frames) != 0 {
	}

	outL, outR := r.sink.OutL(), r.sink.OutR()
	for i := 0; i < frames; i++ {
		l := int16(clamp(outL[i]) * 32767.0)
		rr := int16(clamp(outR[i]) * 32767.0)
		binary.LittleEndian.PutUint16(b[i*frameBytes:], uint16(l))
		binary.LittleEndian.PutUint16(b[i*frameBytes+2:], uint16(rr))
	}

	return frames * frameBytes, nil
}
