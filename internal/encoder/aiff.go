// ABOUTME: AIFF container adapter built on go-audio/aiff
// ABOUTME: Big endian PCM; 8-bit output stays signed, unlike WAV
package encoder

import (
	"fmt"
	"os"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
)

type aiffEncoder struct {
	f    *os.File
	enc  *aiff.Encoder
	spec Spec
}

func newAiffEncoder(f *os.File, spec Spec) *aiffEncoder {
	return &aiffEncoder{
		f:    f,
		enc:  aiff.NewEncoder(f, spec.SampleRate, spec.BitDepth, NumChannels),
		spec: spec,
	}
}

func (e *aiffEncoder) WriteFrames(interleaved []float32) (int, error) {
	frames := len(interleaved) / NumChannels

	data := make([]int, frames*NumChannels)
	for i, x := range interleaved[:frames*NumChannels] {
		data[i] = pcmSample(x, e.spec.BitDepth)
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: NumChannels, SampleRate: e.spec.SampleRate},
		Data:           data,
		SourceBitDepth: e.spec.BitDepth,
	}
	if err := e.enc.Write(buf); err != nil {
		return 0, fmt.Errorf("aiff write failed: %w", err)
	}
	return frames, nil
}

func (e *aiffEncoder) Close() error {
	if err := e.enc.Close(); err != nil {
		e.f.Close()
		return fmt.Errorf("failed to finalize aiff: %w", err)
	}
	return e.f.Close()
}
