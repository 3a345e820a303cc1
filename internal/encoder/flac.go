// ABOUTME: FLAC container adapter built on mewkiz/flac
// ABOUTME: Buffers samples into fixed-size blocks so StreamInfo stays valid
package encoder

import (
	"fmt"
	"os"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

const (
	// flacBlockSize is the target inter-channel sample count per emitted
	// frame.
	flacBlockSize = 4096
	// flacMinBlock is the smallest block size FLAC StreamInfo may declare.
	flacMinBlock = 16
)

type flacEncoder struct {
	enc      *flac.Encoder
	spec     Spec
	left     []int32 // pending samples not yet emitted as a frame
	right    []int32
	nwritten uint64 // sample index of the next frame's first sample
}

func newFlacEncoder(f *os.File, spec Spec) (*flacEncoder, error) {
	info := &meta.StreamInfo{
		BlockSizeMin:  flacMinBlock,
		BlockSizeMax:  65535,
		SampleRate:    uint32(spec.SampleRate),
		NChannels:     NumChannels,
		BitsPerSample: uint8(spec.BitDepth),
	}

	enc, err := flac.NewEncoder(f, info)
	if err != nil {
		return nil, fmt.Errorf("failed to create flac encoder: %w", err)
	}

	return &flacEncoder{enc: enc, spec: spec}, nil
}

// WriteFrames buffers the samples and emits flacBlockSize-sample frames.
// Flushing holds back flacMinBlock samples so every emitted block,
// including the tail written at Close, stays at or above the StreamInfo
// minimum block size no matter how short the caller's final write is.
func (e *flacEncoder) WriteFrames(interleaved []float32) (int, error) {
	frames := len(interleaved) / NumChannels
	for i := 0; i < frames; i++ {
		e.left = append(e.left, int32(pcmSample(interleaved[i*2], e.spec.BitDepth)))
		e.right = append(e.right, int32(pcmSample(interleaved[i*2+1], e.spec.BitDepth)))
	}

	for len(e.left) >= flacBlockSize+flacMinBlock {
		if err := e.writeBlock(flacBlockSize); err != nil {
			return 0, err
		}
	}

	return frames, nil
}

// writeBlock emits the first n pending samples as one variable-size frame.
func (e *flacEncoder) writeBlock(n int) error {
	hdr := frame.Header{
		HasFixedBlockSize: false,
		BlockSize:         uint16(n),
		SampleRate:        uint32(e.spec.SampleRate),
		Channels:          frame.ChannelsLR,
		BitsPerSample:     uint8(e.spec.BitDepth),
		Num:               e.nwritten,
	}

	subframes := make([]*frame.Subframe, NumChannels)
	for ch, samples := range [][]int32{e.left[:n], e.right[:n]} {
		subframes[ch] = &frame.Subframe{
			SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
			Samples:   samples,
			NSamples:  n,
		}
	}

	if err := e.enc.WriteFrame(&frame.Frame{Header: hdr, Subframes: subframes}); err != nil {
		return fmt.Errorf("flac write failed: %w", err)
	}

	e.left = append(e.left[:0], e.left[n:]...)
	e.right = append(e.right[:0], e.right[n:]...)
	e.nwritten += uint64(n)
	return nil
}

// Close flushes the buffered tail and finalizes the stream. flac.Encoder
// closes the underlying file itself.
func (e *flacEncoder) Close() error {
	if len(e.left) > 0 {
		if err := e.writeBlock(len(e.left)); err != nil {
			e.enc.Close()
			return err
		}
	}
	if err := e.enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize flac: %w", err)
	}
	return nil
}
