package gofft

import (
	"fmt"

	"github.com/cwbudde/gofft/internal/kernel"
	"github.com/cwbudde/gofft/internal/mathutil"
	"github.com/cwbudde/gofft/internal/twiddle"
)

// Algorithm identifies which of the three 1-D strategies a Plan1D selected
// at construction time, per spec §4.D.
type Algorithm int

const (
	// SplitRadix is selected for power-of-two lengths.
	SplitRadix Algorithm = iota
	// MixedRadix is selected for non-power-of-two lengths that factor
	// entirely into {2, 3, 4, 5}, including the primes 3 and 5.
	MixedRadix
	// Bluestein is selected for every other length, including every prime
	// greater than 5.
	Bluestein
)

// String returns a human-readable algorithm name.
func (a Algorithm) String() string {
	switch a {
	case SplitRadix:
		return "split-radix"
	case MixedRadix:
		return "mixed-radix"
	case Bluestein:
		return "bluestein"
	default:
		return "unknown"
	}
}

// Plan1D is an immutable object bound to a transform length N, per spec
// §3. It selects one of the three algorithms, precomputes the tables that
// algorithm needs, and exposes the six buffer operations from §4.E. A
// Plan1D has no mutable state after construction (it keeps a reference to
// its Config, re-reading the worker count and 1-D thresholds at each
// transform call, but never modifies it), so it may be shared across goroutines
// for distinct input buffers without locking — the caller only needs to
// avoid handing overlapping buffers to concurrent calls on the same plan.
type Plan1D struct {
	n         int
	algorithm Algorithm

	factors []int        // radix sequence for SplitRadix/MixedRadix; unused for Bluestein
	twiddle []complex128 // length-n forward twiddle table; unused for Bluestein

	bluestein *kernel.Bluestein // present only for Bluestein

	cfg  *Config
	pool *Pool
}

// NewPlan1D constructs a Plan1D for length n using the process-wide default
// Config and worker Pool. Returns ErrInvalidLength if n <= 0.
func NewPlan1D(n int) (*Plan1D, error) {
	return NewPlan1DWithConfig(n, defaultConfig)
}

// NewPlan1DWithConfig constructs a Plan1D for length n, capturing cfg's
// worker count to size (or reuse) the pool it will dispatch parallel
// decomposition to, and reading cfg's thresholds live at each transform
// call as specified by §5 ("Configuration races").
func NewPlan1DWithConfig(n int, cfg *Config) (*Plan1D, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: n=%d", ErrInvalidLength, n)
	}

	p := &Plan1D{
		n:   n,
		cfg: cfg,
	}

	switch {
	case mathutil.IsPowerOfTwo(n):
		p.algorithm = SplitRadix
		p.factors = radix2Factors(n)
		p.twiddle = twiddle.Table(n)
	default:
		if factors, ok := mathutil.SmallPrimeFactors(n); ok {
			p.algorithm = MixedRadix
			p.factors = factors
			p.twiddle = twiddle.Table(n)
		} else {
			p.algorithm = Bluestein
			m := mathutil.NextPowerOfTwo(2*n - 1)
			p.bluestein = kernel.NewBluestein(n, m, twiddle.Table(m), radix2Factors(m))
		}
	}

	p.pool = sharedPool(cfg)

	return p, nil
}

// radix2Factors factors a power-of-two n into a radix-4/radix-2 sequence,
// preferring 4 wherever it divides evenly so that a run of four 2s
// collapses into two radix-4 stages, echoing split-radix's combination of
// radix-2 and radix-4 butterflies (spec §4.E).
func radix2Factors(n int) []int {
	factors := make([]int, 0, mathutil.Log2(n))
	for n > 1 {
		if n%4 == 0 {
			factors = append(factors, 4)
			n /= 4
		} else {
			factors = append(factors, 2)
			n /= 2
		}
	}

	return factors
}

// Len returns the transform length N.
func (p *Plan1D) Len() int { return p.n }

// Algorithm returns the algorithm this plan selected at construction.
func (p *Plan1D) Algorithm() Algorithm { return p.algorithm }

// BitReversal returns the bit-reversal permutation of [0, N) for a
// SplitRadix plan, recomputed on demand rather than cached: the
// generalized recursive kernel (kernel.Forward) never consults it, since
// it decomposes N by repeated indexing rather than an explicit
// reversal-then-butterfly pass. It exists so callers — and this package's
// own tests — can check the permutation invariant §3 states for
// split-radix plans. Returns nil for MixedRadix and Bluestein plans.
func (p *Plan1D) BitReversal() []int {
	if p.algorithm != SplitRadix {
		return nil
	}

	return twiddle.BitReversal(p.n)
}

// ComplexForward computes x <- DFT(x) in place on the 2N-length interleaved
// complex buffer x (real at 2k, imaginary at 2k+1).
func (p *Plan1D) ComplexForward(x []float64) error {
	if len(x) != 2*p.n {
		return fmt.Errorf("%w: complexForward wants len %d, got %d", ErrDimensionMismatch, 2*p.n, len(x))
	}

	return p.complexForwardBuf(x)
}

// ComplexInverse computes x <- IDFT(x) in place on the 2N-length
// interleaved complex buffer x, dividing by N iff scale is true.
func (p *Plan1D) ComplexInverse(x []float64, scale bool) error {
	if len(x) != 2*p.n {
		return fmt.Errorf("%w: complexInverse wants len %d, got %d", ErrDimensionMismatch, 2*p.n, len(x))
	}

	return p.complexInverseBuf(x, scale)
}

// RealForward computes the packed-Hermitian encoding (spec §3) of the DFT
// of the N-length real buffer x, in place.
func (p *Plan1D) RealForward(x []float64) error {
	if len(x) != p.n {
		return fmt.Errorf("%w: realForward wants len %d, got %d", ErrDimensionMismatch, p.n, len(x))
	}

	z := make([]complex128, p.n)
	for k, v := range x {
		z[k] = complex(v, 0)
	}

	spectrum, err := p.forwardDispatch(z)
	if err != nil {
		return err
	}

	encodePackedHermitian(spectrum, x, p.n)

	return nil
}

// RealInverse inverts RealForward in place: x is interpreted as a
// packed-Hermitian spectrum of length N and replaced by its real-valued
// IDFT, dividing by N iff scale is true.
func (p *Plan1D) RealInverse(x []float64, scale bool) error {
	if len(x) != p.n {
		return fmt.Errorf("%w: realInverse wants len %d, got %d", ErrDimensionMismatch, p.n, len(x))
	}

	spectrum := decodePackedHermitian(x, p.n)

	result, err := p.inverseSpectrum(spectrum, scale)
	if err != nil {
		return err
	}

	for k := 0; k < p.n; k++ {
		x[k] = real(result[k])
	}

	return nil
}

// RealForwardFull computes the full (non-packed) complex DFT of the
// N real samples held in x[0:N] before the call, leaving the result as a
// 2N-length interleaved complex buffer.
func (p *Plan1D) RealForwardFull(x []float64) error {
	if len(x) != 2*p.n {
		return fmt.Errorf("%w: realForwardFull wants len %d, got %d", ErrDimensionMismatch, 2*p.n, len(x))
	}

	// Spread the N real samples packed at x[0:N] into interleaved complex
	// form across the full 2N buffer. Walking from the top down means a
	// write to x[2k] never clobbers an x[k'] we have not read yet, since
	// any earlier (larger) step k'' > k that could target position k would
	// require k'' = k/2 < k, a contradiction.
	for k := p.n - 1; k >= 0; k-- {
		v := x[k]
		x[2*k] = v
		x[2*k+1] = 0
	}

	return p.complexForwardBuf(x)
}

// RealInverseFull computes the full complex IDFT of x, a 2N-length
// interleaved complex buffer assumed to hold a Hermitian-symmetric
// spectrum, dividing by N iff scale is true. Unlike RealInverse, the
// result is left in full interleaved form (imaginary parts are not
// discarded).
func (p *Plan1D) RealInverseFull(x []float64, scale bool) error {
	if len(x) != 2*p.n {
		return fmt.Errorf("%w: realInverseFull wants len %d, got %d", ErrDimensionMismatch, 2*p.n, len(x))
	}

	return p.complexInverseBuf(x, scale)
}

func (p *Plan1D) complexForwardBuf(buf []float64) error {
	z := bufToComplex(buf)

	spectrum, err := p.forwardDispatch(z)
	if err != nil {
		return err
	}

	complexToBuf(spectrum, buf)

	return nil
}

func (p *Plan1D) complexInverseBuf(buf []float64, scale bool) error {
	z := bufToComplex(buf)

	result, err := p.inverseSpectrum(z, scale)
	if err != nil {
		return err
	}

	complexToBuf(result, buf)

	return nil
}

// inverseSpectrum derives IDFT(z) from the forward engine via the identity
// IDFT(z) = conj(DFT(conj(z))) / N, applied iff scale is true. Every
// inverse operation in this file routes through here so the forward
// dispatch (including its parallel fan-out and Bluestein path) never needs
// a duplicated inverse implementation.
func (p *Plan1D) inverseSpectrum(z []complex128, scale bool) ([]complex128, error) {
	conjugated, err := p.forwardDispatch(kernel.Conjugate(z))
	if err != nil {
		return nil, err
	}

	result := kernel.Conjugate(conjugated)

	if scale {
		s := complex(1/float64(p.n), 0)
		for i := range result {
			result[i] *= s
		}
	}

	return result, nil
}

// forwardDispatch computes the forward DFT of a length-N complex128
// slice, selecting Bluestein or the shared Cooley-Tukey kernel and, for
// the latter, engaging the worker pool for the outermost decomposition
// pass when N reaches the configured threshold (§4.E).
func (p *Plan1D) forwardDispatch(z []complex128) ([]complex128, error) {
	if p.algorithm == Bluestein {
		return p.bluestein.Forward(z), nil
	}

	return p.parallelForward(z)
}

// parallelForward mirrors kernel.Forward's first decimation step, but
// splits the outermost pass into exactly fanoutRadix(n) (2 or 4, per
// §4.E's "fan-out is always 2 or 4" invariant) residue-class
// sub-transforms, computed concurrently through the pool and joined
// before combining — a single bulk-synchronous pass, matching §4.E and
// §5's "each pass is a barrier" ordering rule.
//
// The split radix is forced to fanoutRadix's answer rather than taken
// from p.factors[0]: SmallPrimeFactors/radix2Factors choose the leading
// factor for the algorithm's own recursion (largest available radix
// first), which need not be 2 or 4 — e.g. SmallPrimeFactors(9000) leads
// with 5. Cooley-Tukey's decimation identity holds for any radix
// dividing n, not just the plan's natural leading one, so the top-level
// split can be forced to whatever fanoutRadix picks without touching
// correctness; only the sub-problem's own factor list (childFactors)
// needs recomputing for the reduced length.
//
// "Equal contiguous index ranges" in §4.E is Cooley-Tukey's strided
// decimation grouping (residue classes z[j], z[j+radix], z[j+2*radix],
// ...), not a memory-contiguous block partition — a literal block split
// is not a valid Cooley-Tukey decomposition of a single 1-D DFT.
func (p *Plan1D) parallelForward(z []complex128) ([]complex128, error) {
	n := len(z)
	if n == 1 || len(p.factors) == 0 {
		return kernel.Forward(z, p.twiddle, 1, p.factors), nil
	}

	radix := p.fanoutRadix(n)
	if radix <= 1 {
		return kernel.Forward(z, p.twiddle, 1, p.factors), nil
	}

	q := n / radix
	childFactors := p.childFactors(q)

	subs := make([][]complex128, radix)
	for j := 0; j < radix; j++ {
		sub := make([]complex128, q)
		for k := 0; k < q; k++ {
			sub[k] = z[j+radix*k]
		}

		subs[j] = sub
	}

	subResults := make([][]complex128, radix)
	tasks := make([]func(), radix)

	for j := 0; j < radix; j++ {
		j := j

		tasks[j] = func() {
			subResults[j] = kernel.Forward(subs[j], p.twiddle, radix, childFactors)
		}
	}

	if err := RunAll(p.pool, tasks); err != nil {
		return nil, err
	}

	out := make([]complex128, n)
	N := len(p.twiddle)

	for k := 0; k < n; k++ {
		kq := k % q

		var sum complex128

		for j := 0; j < radix; j++ {
			idx := (j * k) % N
			sum += p.twiddle[idx] * subResults[j][kq]
		}

		out[k] = sum
	}

	return out, nil
}

// fanoutCap reads the live configuration (per §5, thresholds are consulted
// at each call, not cached at construction) and returns how many
// concurrent branches the outermost pass should use: 4, 2, or 1.
func (p *Plan1D) fanoutCap(n int) int {
	workers := p.cfg.NumWorkers()
	if workers < 2 {
		return 1
	}

	if n >= p.cfg.Threshold1D4() && workers >= 4 {
		return 4
	}

	if n >= p.cfg.Threshold1D2() && workers >= 2 {
		return 2
	}

	return 1
}

// fanoutRadix returns the radix parallelForward splits n into: fanoutCap's
// answer (4 or 2), stepped down to whichever of {4, 2} actually divides n,
// or 1 if neither does. SplitRadix lengths are always divisible by both
// (power-of-two n >= a tier's threshold is divisible by 4 and by 2), but
// MixedRadix lengths can lack a factor of 2 entirely (e.g. 75 = 3*5*5), in
// which case the outermost pass falls back to the sequential kernel.
func (p *Plan1D) fanoutRadix(n int) int {
	fanout := p.fanoutCap(n)
	for fanout > 1 {
		if n%fanout == 0 {
			return fanout
		}

		fanout /= 2
	}

	return 1
}

// childFactors computes the radix sequence for a length-q sub-transform
// produced by forcing the top-level split to fanoutRadix instead of
// p.factors[0]; p.factors[1:] assumed a split led by the algorithm's own
// leading factor and so is only valid when that happens to match.
func (p *Plan1D) childFactors(q int) []int {
	if p.algorithm == SplitRadix {
		return radix2Factors(q)
	}

	factors, _ := mathutil.SmallPrimeFactors(q)

	return factors
}

func bufToComplex(buf []float64) []complex128 {
	n := len(buf) / 2

	z := make([]complex128, n)
	for k := 0; k < n; k++ {
		z[k] = complex(buf[2*k], buf[2*k+1])
	}

	return z
}

func complexToBuf(z []complex128, buf []float64) {
	for k, v := range z {
		buf[2*k] = real(v)
		buf[2*k+1] = imag(v)
	}
}

// encodePackedHermitian writes the length-N conjugate-symmetric spectrum
// into the N-length real buffer using spec §3's packed encoding for even
// N, extended in the natural way for odd N (no Nyquist bin, so there is no
// separate slot for it — every independent bin after X[0] gets a
// real/imaginary pair).
func encodePackedHermitian(spectrum []complex128, buf []float64, n int) {
	if n%2 == 0 {
		half := n / 2
		buf[0] = real(spectrum[0])
		buf[1] = real(spectrum[half])

		for k := 1; k < half; k++ {
			buf[2*k] = real(spectrum[k])
			buf[2*k+1] = imag(spectrum[k])
		}

		return
	}

	m := (n - 1) / 2
	buf[0] = real(spectrum[0])

	for k := 1; k <= m; k++ {
		buf[2*k-1] = real(spectrum[k])
		buf[2*k] = imag(spectrum[k])
	}
}

// decodePackedHermitian is the inverse of encodePackedHermitian: it
// reconstructs the full length-N spectrum (including the conjugate-mirror
// half that packing never stores) from the packed real buffer.
func decodePackedHermitian(buf []float64, n int) []complex128 {
	spectrum := make([]complex128, n)

	if n%2 == 0 {
		half := n / 2
		spectrum[0] = complex(buf[0], 0)
		spectrum[half] = complex(buf[1], 0)

		for k := 1; k < half; k++ {
			re, im := buf[2*k], buf[2*k+1]
			spectrum[k] = complex(re, im)
			spectrum[n-k] = complex(re, -im)
		}

		return spectrum
	}

	m := (n - 1) / 2
	spectrum[0] = complex(buf[0], 0)

	for k := 1; k <= m; k++ {
		re, im := buf[2*k-1], buf[2*k]
		spectrum[k] = complex(re, im)
		spectrum[n-k] = complex(re, -im)
	}

	return spectrum
}
