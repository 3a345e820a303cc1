// ABOUTME: Output container format policy for rendered audio files
// ABOUTME: Filename inference is a helper; validation happens on an explicit spec
package encoder

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies the output container.
type Format int

const (
	Wav Format = iota // Microsoft WAV (little endian)
	Aiff              // Apple/SGI AIFF (big endian)
	Flac              // FLAC lossless
	OggVorbis         // Ogg/Vorbis
)

func (f Format) String() string {
	switch f {
	case Wav:
		return "wav"
	case Aiff:
		return "aiff"
	case Flac:
		return "flac"
	case OggVorbis:
		return "ogg/vorbis"
	}
	return "unknown"
}

// ErrUnsupportedFormat marks a format/bit-depth combination the encoder
// cannot produce. It is always reported before any file is created.
var ErrUnsupportedFormat = errors.New("unsupported format")

// NumChannels is fixed: the pipeline is stereo only.
const NumChannels = 2

// DefaultBitDepth is used when a job does not override the depth.
const DefaultBitDepth = 16

// Detect infers a container format from the destination filename's
// extension, case-insensitively. Anything unrecognized falls back to WAV.
func Detect(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".aiff":
		return Aiff
	case ".flac":
		return Flac
	case ".ogg":
		return OggVorbis
	default:
		return Wav
	}
}

// Spec is the explicit encoding configuration for one render job, decided
// once before the destination file is opened.
type Spec struct {
	Format     Format
	SampleRate int
	BitDepth   int // 8, 16, 24 or 32; ignored for Ogg/Vorbis
}

// Validate rejects combinations the adapter cannot encode. A spec that
// fails validation must never reach Open.
func (s Spec) Validate() error {
	if s.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", s.SampleRate)
	}

	switch s.Format {
	case Wav, Aiff:
		switch s.BitDepth {
		case 8, 16, 24, 32:
			return nil
		}
		return fmt.Errorf("%w: %s at %d bit", ErrUnsupportedFormat, s.Format, s.BitDepth)
	case Flac:
		// FLAC tops out at 24-bit PCM here, as with libsndfile.
		switch s.BitDepth {
		case 8, 16, 24:
			return nil
		}
		return fmt.Errorf("%w: %s at %d bit", ErrUnsupportedFormat, s.Format, s.BitDepth)
	case OggVorbis:
		// Recognized by the filename policy, but no Vorbis encoder is
		// available to this build.
		return fmt.Errorf("%w: %s encoding is not available", ErrUnsupportedFormat, s.Format)
	}
	return fmt.Errorf("%w: unknown container %d", ErrUnsupportedFormat, int(s.Format))
}
