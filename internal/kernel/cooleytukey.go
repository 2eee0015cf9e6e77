// Package kernel implements the pure arithmetic cores of the FFT engine:
// a generalized Cooley-Tukey decimation-in-time transform that covers both
// the power-of-two (split-radix-selected) and smooth-composite
// (mixed-radix-selected) paths from a single implementation, plus the
// Bluestein chirp-z transform for lengths that factor outside {2,3,4,5}.
//
// Every exported entry point is a forward DFT. The inverse is always
// derived from the identity IDFT(x) = conj(DFT(conj(x))) / N (applied by
// the caller, see Conjugate and the Plan1D wrapper in the parent package),
// so the kernels below never duplicate forward/inverse arithmetic.
package kernel

// Forward computes the forward DFT of x (length n, n = product of factors)
// using the generalized radix-p decimation-in-time recombination:
//
//	X[k] = sum_{j=0}^{p-1} W_n^{jk} * Y_j[k mod q]
//
// where p = factors[0], q = n/p, and Y_j is the length-q DFT of the stride-p
// decimated subsequence x[j], x[j+p], x[j+2p], .... W_n^{jk} is read from
// twiddle, a precomputed length-N table (N the top-level transform length,
// a multiple of n), by indexing twiddle[(j*k*step) % N] since
// W_n^m = W_N^{m*step} for step = N/n.
//
// twiddle must have length N; step must equal N/len(x) at every call,
// which Forward maintains across recursion. The product of factors must
// equal len(x).
func Forward(x []complex128, twiddle []complex128, step int, factors []int) []complex128 {
	n := len(x)
	if n == 1 {
		return []complex128{x[0]}
	}

	N := len(twiddle)
	p := factors[0]
	q := n / p
	childStep := step * p
	childFactors := factors[1:]

	subForward := make([][]complex128, p)

	for j := 0; j < p; j++ {
		sub := make([]complex128, q)
		for k := 0; k < q; k++ {
			sub[k] = x[j+p*k]
		}

		subForward[j] = Forward(sub, twiddle, childStep, childFactors)
	}

	out := make([]complex128, n)

	for k := 0; k < n; k++ {
		kq := k % q

		var sum complex128

		for j := 0; j < p; j++ {
			idx := (j * k * step) % N
			sum += twiddle[idx] * subForward[j][kq]
		}

		out[k] = sum
	}

	return out
}

// Conjugate returns a new slice holding the complex conjugate of each
// element of x. Used to derive inverse transforms from Forward via
// IDFT(x) = conj(Forward(conj(x))) / N.
func Conjugate(x []complex128) []complex128 {
	out := make([]complex128, len(x))
	for i, v := range x {
		out[i] = complex(real(v), -imag(v))
	}

	return out
}
