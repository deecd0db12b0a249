package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// Stereo is a two-channel block of samples: index 0 is left, 1 is right.
type Stereo [2][]float64

// NewStereo allocates a zeroed stereo block of n frames.
func NewStereo(n int) Stereo {
	return Stereo{make([]float64, n), make([]float64, n)}
}

// Len returns the number of frames in the block.
func (s Stereo) Len() int {
	return len(s[0])
}

// Zero clears both channels.
func (s Stereo) Zero() {
	Zero(s[0])
	Zero(s[1])
}

// AddInto accumulates src into s frame by frame. Extra frames are ignored.
func (s Stereo) AddInto(src Stereo) {
	for ch := range s {
		dst := s[ch]
		in := src[ch]
		n := len(dst)
		if len(in) < n {
			n = len(in)
		}
		for i := 0; i < n; i++ {
			dst[i] += in[i]
		}
	}
}

// Resize returns a block of n frames, reusing the channel capacity of s.
func (s Stereo) Resize(n int) Stereo {
	return Stereo{EnsureLen(s[0], n), EnsureLen(s[1], n)}
}
