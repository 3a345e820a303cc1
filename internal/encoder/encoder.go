// ABOUTME: Sound encoder adapter writing interleaved stereo float frames
// ABOUTME: Maps clamped [-1,1] samples to each container's native representation
package encoder

import (
	"fmt"
	"log"
	"os"
)

// Encoder accepts interleaved stereo frames ([L0,R0,L1,R1,...], samples
// already clamped to [-1,1]) and writes them sequentially to one file.
type Encoder interface {
	// WriteFrames writes len(interleaved)/2 frames and returns how many
	// were actually written. A short count with a nil error is possible
	// and is the caller's to report.
	WriteFrames(interleaved []float32) (int, error)
	Close() error
}

// Open validates spec and opens the destination for sequential writing.
// Nothing is created on disk if validation fails.
func Open(path string, spec Spec) (Encoder, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open destination %s: %w", path, err)
	}

	var enc Encoder
	switch spec.Format {
	case Wav:
		enc = newWavEncoder(f, spec)
	case Aiff:
		enc = newAiffEncoder(f, spec)
	case Flac:
		enc, err = newFlacEncoder(f, spec)
	}
	if err != nil {
		f.Close()
		if rmErr := os.Remove(path); rmErr != nil {
			log.Printf("Warning: could not remove unusable destination %s: %v", path, rmErr)
		}
		return nil, err
	}

	log.Printf("Encoder opened: %s (%s, %d bit, %d Hz)", path, spec.Format, spec.BitDepth, spec.SampleRate)
	return enc, nil
}

// pcmSample maps one clamped float sample to the signed integer range of
// the given bit depth.
func pcmSample(x float32, bitDepth int) int {
	switch bitDepth {
	case 8:
		return int(x * 127.0)
	case 16:
		return int(x * 32767.0)
	case 24:
		return int(x * 8388607.0)
	default: // 32
		return int(float64(x) * 2147483647.0)
	}
}

// wavSample maps one clamped float sample to WAV's integer representation.
// WAV 8-bit is unsigned, unlike every other depth (and unlike AIFF 8-bit).
func wavSample(x float32, bitDepth int) int {
	if bitDepth == 8 {
		return int(x*127.0) + 128
	}
	return pcmSample(x, bitDepth)
}
