package kernel

import "math"

// Bluestein holds the precomputed chirp and frequency-domain convolution
// kernel for a length-N Bluestein (chirp-z) transform. All fields are
// computed once at construction time from N alone and are read-only
// afterwards, mirroring the teacher's approach of resolving dispatch state
// once and reusing it across calls (see Plan1D, which owns one of these per
// plan rather than recomputing it per transform).
type Bluestein struct {
	N int
	M int

	chirp      []complex128 // length N: exp(-i*pi*k^2/N)
	filterFreq []complex128 // length M: FFT_M(b), the convolution kernel in the frequency domain
	twiddleM   []complex128 // length M: forward twiddle table for the internal size-M transforms
	factorsM   []int        // power-of-two factorization of M
}

// NewBluestein precomputes the chirp sequence and convolution kernel for a
// length-N transform. M is the smallest power of two >= 2N-1.
func NewBluestein(n, m int, twiddleM []complex128, factorsM []int) *Bluestein {
	chirp := make([]complex128, n)
	for k := 0; k < n; k++ {
		angle := -math.Pi * float64(k) * float64(k) / float64(n)
		chirp[k] = complex(math.Cos(angle), math.Sin(angle))
	}

	b := make([]complex128, m)
	b[0] = 1

	for k := 1; k < n; k++ {
		angle := math.Pi * float64(k) * float64(k) / float64(n)
		v := complex(math.Cos(angle), math.Sin(angle))
		b[k] = v

		if wrap := m - k; wrap != k {
			b[wrap] = v
		}
	}

	filterFreq := Forward(b, twiddleM, 1, factorsM)

	return &Bluestein{
		N:          n,
		M:          m,
		chirp:      chirp,
		filterFreq: filterFreq,
		twiddleM:   twiddleM,
		factorsM:   factorsM,
	}
}

// Forward computes the length-N forward DFT of x via chirp-z convolution:
// embed x by pointwise chirp multiplication, convolve with the precomputed
// length-M kernel using two internal power-of-two transforms, multiply by
// the chirp again, and extract the N leading samples.
func (bs *Bluestein) Forward(x []complex128) []complex128 {
	a := make([]complex128, bs.M)
	for k := 0; k < bs.N; k++ {
		a[k] = x[k] * bs.chirp[k]
	}

	A := Forward(a, bs.twiddleM, 1, bs.factorsM)

	for k := range A {
		A[k] *= bs.filterFreq[k]
	}

	c := Conjugate(Forward(Conjugate(A), bs.twiddleM, 1, bs.factorsM))

	scale := complex(1/float64(bs.M), 0)

	out := make([]complex128, bs.N)
	for k := 0; k < bs.N; k++ {
		out[k] = c[k] * scale * bs.chirp[k]
	}

	return out
}
