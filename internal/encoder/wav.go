// ABOUTME: WAV container adapter built on go-audio/wav
// ABOUTME: Little endian PCM; 8-bit output is unsigned per the WAV format
package encoder

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

type wavEncoder struct {
	f    *os.File
	enc  *wav.Encoder
	spec Spec
}

func newWavEncoder(f *os.File, spec Spec) *wavEncoder {
	return &wavEncoder{
		f:    f,
		enc:  wav.NewEncoder(f, spec.SampleRate, spec.BitDepth, NumChannels, 1),
		spec: spec,
	}
}

func (e *wavEncoder) WriteFrames(interleaved []float32) (int, error) {
	frames := len(interleaved) / NumChannels

	data := make([]int, frames*NumChannels)
	for i, x := range interleaved[:frames*NumChannels] {
		data[i] = wavSample(x, e.spec.BitDepth)
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: NumChannels, SampleRate: e.spec.SampleRate},
		Data:           data,
		SourceBitDepth: e.spec.BitDepth,
	}
	if err := e.enc.Write(buf); err != nil {
		return 0, fmt.Errorf("wav write failed: %w", err)
	}
	return frames, nil
}

func (e *wavEncoder) Close() error {
	if err := e.enc.Close(); err != nil {
		e.f.Close()
		return fmt.Errorf("failed to finalize wav: %w", err)
	}
	return e.f.Close()
}
