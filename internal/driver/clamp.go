// ABOUTME: Sample clamping and channel interleaving for encoder handoff
// ABOUTME: Pure per-frame transform writing into a caller-owned scratch buffer
package driver

// clamp limits one sample to the closed range [-1, 1].
func clamp(x float32) float32 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// clampInterleave clamps frames frames of the planar left/right buffers and
// interleaves them as [L0,R0,L1,R1,...] into out, returning the filled
// prefix. out is a scratch slice of at least 2*frames samples, allocated
// once per render.
func clampInterleave(left, right, out []float32, frames int) []float32 {
	for i := 0; i < frames; i++ {
		out[i*2] = clamp(left[i])
		out[i*2+1] = clamp(right[i])
	}
	return out[:frames*2]
}
