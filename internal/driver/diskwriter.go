// ABOUTME: Offline render driver: walks pattern columns and streams frames to disk
// ABOUTME: Owns the render goroutine, frame accounting and progress reporting
package driver

import (
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/Stepline-Audio/stepline-go/internal/encoder"
	"github.com/Stepline-Audio/stepline-go/internal/event"
	"github.com/Stepline-Audio/stepline-go/internal/song"
	"github.com/Stepline-Audio/stepline-go/internal/timing"
)

// State is the render job lifecycle. There is no paused state; a render is
// a single uninterruptible pass.
type State int

const (
	Idle State = iota
	Rendering
	Finished
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Rendering:
		return "rendering"
	case Finished:
		return "finished"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// DefaultMaxRetries bounds the busy-retry loop on the processing callback
// per sub-buffer, converting an engine livelock into a reported failure.
const DefaultMaxRetries = 1 << 20

// Config holds the fixed parameters of one render job. Changing any of
// them requires a new job.
type Config struct {
	Path       string // destination file; extension selects the container
	SampleRate int
	BitDepth   int // 8, 16, 24 or 32
	MaxRetries int // 0 means DefaultMaxRetries
}

// DiskWriter renders a song to a sound file through the same Output
// contract the live drivers implement. One DiskWriter is one job: it runs
// exactly once and terminates in Finished or Failed.
type DiskWriter struct {
	cfg       Config
	song      *song.Song
	transport Transport
	process   ProcessCallback
	events    *event.Queue

	jobID      uuid.UUID
	bufferSize int
	outL, outR []float32

	// test seam; production always uses encoder.Open
	openEncoder func(path string, spec encoder.Spec) (encoder.Encoder, error)

	mu          sync.Mutex
	state       State
	err         error
	shortWrites int
	done        chan struct{}
}

// NewDiskWriter wires a render job to its song, transport control,
// processing callback and event queue.
func NewDiskWriter(cfg Config, s *song.Song, t Transport, cb ProcessCallback, ev *event.Queue) *DiskWriter {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	return &DiskWriter{
		cfg:         cfg,
		song:        s,
		transport:   t,
		process:     cb,
		events:      ev,
		jobID:       uuid.New(),
		openEncoder: encoder.Open,
		done:        make(chan struct{}),
	}
}

// Init records the per-cycle buffer length used for every processing call.
func (d *DiskWriter) Init(bufferSize int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.outL != nil {
		return ErrAlreadyConnected
	}
	if bufferSize <= 0 {
		return fmt.Errorf("invalid buffer size %d", bufferSize)
	}
	log.Printf("Render job %s: init, buffer size %d", d.jobID, bufferSize)
	d.bufferSize = bufferSize
	return nil
}

// Connect allocates the planar buffers and starts the render goroutine.
// A job can only be started once; a second Connect reports ErrBusy.
func (d *DiskWriter) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != Idle {
		return ErrBusy
	}
	if d.bufferSize == 0 {
		return fmt.Errorf("buffer size not configured, call Init first")
	}

	d.outL = make([]float32, d.bufferSize)
	d.outR = make([]float32, d.bufferSize)
	d.state = Rendering

	go d.run()
	return nil
}

// Disconnect releases the planar buffers. Call it after Done is closed;
// it is safe after a failed Connect.
func (d *DiskWriter) Disconnect() {
	d.outL = nil
	d.outR = nil
}

// SampleRate returns the configured output rate.
func (d *DiskWriter) SampleRate() int { return d.cfg.SampleRate }

// OutL returns the left planar buffer the processing callback fills.
func (d *DiskWriter) OutL() []float32 { return d.outL }

// OutR returns the right planar buffer the processing callback fills.
func (d *DiskWriter) OutR() []float32 { return d.outR }

// Done is closed when the render goroutine terminates, successfully or not.
func (d *DiskWriter) Done() <-chan struct{} { return d.done }

// Err returns the terminal error, nil unless State is Failed.
func (d *DiskWriter) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// State returns the job's lifecycle state.
func (d *DiskWriter) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// run is the render goroutine: the entire job from format selection to the
// terminal event happens here, so frames reach the file strictly in column
// and time order.
func (d *DiskWriter) run() {
	defer close(d.done)

	log.Printf("Render job %s: start, rendering to %s", d.jobID, d.cfg.Path)
	d.events.Push(event.Event{Kind: event.Progress, Percent: 0})

	// always rolling, no user interaction during an offline render
	d.transport.Play()
	defer d.transport.Stop()

	spec := encoder.Spec{
		Format:     encoder.Detect(d.cfg.Path),
		SampleRate: d.cfg.SampleRate,
		BitDepth:   d.cfg.BitDepth,
	}
	enc, err := d.openEncoder(d.cfg.Path, spec)
	if err != nil {
		d.fail(fmt.Errorf("cannot encode to %s: %w", d.cfg.Path, err))
		return
	}

	// interleave scratch, reused for every sub-buffer
	scratch := make([]float32, 2*d.bufferSize)

	columns := d.song.Columns
	for pos, col := range columns {
		framesPerTick := timing.FramesPerTick(d.cfg.SampleRate, d.song.BPMAt(pos), d.song.Resolution)
		columnFrames := timing.ColumnFrames(framesPerTick, col.LengthTicks())

		var rendered uint32
		for rendered < columnFrames {
			// the last sub-buffer of a column is the only short one
			used := d.bufferSize
			if remaining := columnFrames - rendered; remaining < uint32(used) {
				used = int(remaining)
			}

			retries := 0
			for d.process(used) != 0 {
				retries++
				if retries > d.cfg.MaxRetries {
					enc.Close()
					d.fail(fmt.Errorf("%w after %d retries (column %d)", ErrStalled, retries, pos))
					return
				}
			}

			out := clampInterleave(d.outL, d.outR, scratch, used)
			n, werr := enc.WriteFrames(out)
			if werr != nil || n != used {
				// a short write is reported, never fatal
				d.recordShortWrite()
				log.Printf("Render job %s: short write at column %d: %d of %d frames (%v)",
					d.jobID, pos, n, used, werr)
			}
			rendered += uint32(used)
		}

		percent := int(float64(pos+1) / float64(len(columns)) * 100.0)
		d.events.Push(event.Event{Kind: event.Progress, Percent: percent})
	}

	if err := enc.Close(); err != nil {
		d.fail(fmt.Errorf("cannot finalize %s: %w", d.cfg.Path, err))
		return
	}

	d.mu.Lock()
	d.state = Finished
	short := d.shortWrites
	d.mu.Unlock()

	log.Printf("Render job %s: finished", d.jobID)
	d.events.Push(event.Event{Kind: event.Finished, ShortWrites: short})
}

func (d *DiskWriter) recordShortWrite() {
	d.mu.Lock()
	d.shortWrites++
	d.mu.Unlock()
}

func (d *DiskWriter) fail(err error) {
	d.mu.Lock()
	d.state = Failed
	d.err = err
	d.mu.Unlock()

	log.Printf("Render job %s: failed: %v", d.jobID, err)
	d.events.Push(event.Event{Kind: event.Failed, Err: err})
}
