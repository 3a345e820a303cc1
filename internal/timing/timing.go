// ABOUTME: Tempo/frame translation for pattern columns
// ABOUTME: Converts BPM and tick resolution into audio frame counts
package timing

// FramesPerTick returns how many audio frames one tick spans at the given
// tempo and resolution (ticks per beat).
func FramesPerTick(sampleRate int, bpm float64, resolution int) float64 {
	return float64(sampleRate) * 60.0 / bpm / float64(resolution)
}

// ColumnFrames returns the frame length of a column spanning ticks ticks.
// Fractional frames are truncated; the resulting drift across columns is
// accepted rather than compensated.
func ColumnFrames(framesPerTick float64, ticks int) uint32 {
	if ticks < 0 {
		return 0
	}
	return uint32(framesPerTick * float64(ticks))
}
