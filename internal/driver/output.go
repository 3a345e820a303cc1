// ABOUTME: The uniform audio sink contract shared by live and offline drivers
// ABOUTME: Sinks expose planar buffers the processing callback fills per cycle
package driver

import "errors"

// ProcessCallback is the synchronous pull contract supplied by the
// synthesis/mixing engine. The sink asks for frames frames; a return of 0
// means the sink's left/right buffers hold that many valid frames, any
// nonzero value means "not ready, ask again with the same count".
type ProcessCallback func(frames int) int

// Output is the lifecycle every audio sink implements, so the engine can
// drive a sound card or a file export through the same contract.
type Output interface {
	// Init records the fixed per-cycle buffer length. It fails once
	// buffers have been allocated by Connect.
	Init(bufferSize int) error
	// Connect allocates the planar buffers and starts the sink's
	// background activity.
	Connect() error
	// Disconnect releases the buffers. Safe to call after a failed
	// Connect.
	Disconnect()
	// SampleRate returns the configured output rate.
	SampleRate() int
	// OutL and OutR expose the planar channel buffers the processing
	// callback fills. Valid only between Connect and Disconnect.
	OutL() []float32
	OutR() []float32
}

// Transport controls the sequencer's rolling state. The offline driver
// forces it into continuous playback for the duration of a render.
type Transport interface {
	Play()
	Stop()
}

// Errors shared by sink implementations.
var (
	ErrAlreadyConnected = errors.New("output already connected")
	ErrBusy             = errors.New("render already in progress")
	ErrStalled          = errors.New("processing callback never became ready")
)
