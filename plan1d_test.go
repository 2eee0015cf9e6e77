package gofft

import (
	"math"
	"math/rand"
	"testing"
)

func l2Norm(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}

	return math.Sqrt(sum)
}

func l2Diff(a, b []float64) float64 {
	diff := make([]float64, len(a))
	for i := range a {
		diff[i] = a[i] - b[i]
	}

	return l2Norm(diff)
}

func randomComplexBuf(n int, seed int64) []float64 {
	r := rand.New(rand.NewSource(seed))

	buf := make([]float64, 2*n)
	for i := range buf {
		buf[i] = r.NormFloat64()
	}

	return buf
}

func randomRealBuf(n int, seed int64) []float64 {
	r := rand.New(rand.NewSource(seed))

	buf := make([]float64, n)
	for i := range buf {
		buf[i] = r.NormFloat64()
	}

	return buf
}

// S1 from spec §8.
func TestPlan1D_ComplexForward_N4(t *testing.T) {
	t.Parallel()

	plan, err := NewPlan1D(4)
	if err != nil {
		t.Fatalf("NewPlan1D: %v", err)
	}

	if plan.Algorithm() != SplitRadix {
		t.Fatalf("Algorithm() = %v, want SplitRadix", plan.Algorithm())
	}

	x := []float64{1, 0, 2, 0, 3, 0, 4, 0}
	if err := plan.ComplexForward(x); err != nil {
		t.Fatalf("ComplexForward: %v", err)
	}

	want := []float64{10, 0, -2, 2, -2, 0, -2, -2}
	if d := l2Diff(x, want); d > 1e-9 {
		t.Errorf("ComplexForward(N=4) = %v, want %v (diff %v)", x, want, d)
	}
}

// S4 from spec §8.
func TestPlan1D_ComplexForward_N3(t *testing.T) {
	t.Parallel()

	plan, err := NewPlan1D(3)
	if err != nil {
		t.Fatalf("NewPlan1D: %v", err)
	}

	if plan.Algorithm() != MixedRadix {
		t.Fatalf("Algorithm() = %v, want MixedRadix", plan.Algorithm())
	}

	x := []float64{1, 0, 1, 0, 1, 0}
	if err := plan.ComplexForward(x); err != nil {
		t.Fatalf("ComplexForward: %v", err)
	}

	want := []float64{3, 0, 0, 0, 0, 0}
	if d := l2Diff(x, want); d > 1e-9 {
		t.Errorf("ComplexForward(N=3) = %v, want %v (diff %v)", x, want, d)
	}
}

// S3 from spec §8.
func TestPlan1D_ComplexForward_N5_Impulse(t *testing.T) {
	t.Parallel()

	plan, err := NewPlan1D(5)
	if err != nil {
		t.Fatalf("NewPlan1D: %v", err)
	}

	if plan.Algorithm() != MixedRadix {
		t.Fatalf("Algorithm() = %v, want MixedRadix", plan.Algorithm())
	}

	x := []float64{1, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	if err := plan.ComplexForward(x); err != nil {
		t.Fatalf("ComplexForward: %v", err)
	}

	for k := 0; k < 5; k++ {
		re, im := x[2*k], x[2*k+1]
		if math.Abs(re-1) > 1e-13 || math.Abs(im) > 1e-13 {
			t.Errorf("ComplexForward(N=5 impulse)[%d] = (%v, %v), want (1, 0)", k, re, im)
		}
	}
}

// S2 from spec §8.
func TestPlan1D_RealForward_N8(t *testing.T) {
	t.Parallel()

	plan, err := NewPlan1D(8)
	if err != nil {
		t.Fatalf("NewPlan1D: %v", err)
	}

	x := []float64{1, 1, 1, 1, 0, 0, 0, 0}
	if err := plan.RealForward(x); err != nil {
		t.Fatalf("RealForward: %v", err)
	}

	if math.Abs(x[0]-4.0) > 1e-12 {
		t.Errorf("DC = %v, want 4.0", x[0])
	}

	if math.Abs(x[1]-0.0) > 1e-12 {
		t.Errorf("Nyquist real part = %v, want 0.0", x[1])
	}
}

func TestPlan1D_InvalidLength(t *testing.T) {
	t.Parallel()

	if _, err := NewPlan1D(0); err == nil {
		t.Fatal("NewPlan1D(0) succeeded, want ErrInvalidLength")
	}

	if _, err := NewPlan1D(-3); err == nil {
		t.Fatal("NewPlan1D(-3) succeeded, want ErrInvalidLength")
	}
}

func TestPlan1D_DimensionMismatch(t *testing.T) {
	t.Parallel()

	plan, err := NewPlan1D(8)
	if err != nil {
		t.Fatalf("NewPlan1D: %v", err)
	}

	if err := plan.ComplexForward(make([]float64, 3)); err == nil {
		t.Fatal("ComplexForward with wrong length succeeded, want ErrDimensionMismatch")
	}

	if err := plan.RealForward(make([]float64, 3)); err == nil {
		t.Fatal("RealForward with wrong length succeeded, want ErrDimensionMismatch")
	}
}

// §3 states a split-radix plan's bit-reversal table is a permutation of
// [0, N); BitReversal is not consulted by the forward/inverse dispatch
// itself (see its doc comment), so this is the one place that invariant
// is checked against a live Plan1D.
func TestPlan1D_BitReversal(t *testing.T) {
	t.Parallel()

	splitRadix, err := NewPlan1D(16)
	if err != nil {
		t.Fatalf("NewPlan1D(16): %v", err)
	}

	if splitRadix.Algorithm() != SplitRadix {
		t.Fatalf("NewPlan1D(16).Algorithm() = %v, want SplitRadix", splitRadix.Algorithm())
	}

	rev := splitRadix.BitReversal()
	if len(rev) != 16 {
		t.Fatalf("len(BitReversal()) = %d, want 16", len(rev))
	}

	seen := make([]bool, 16)
	for _, idx := range rev {
		if idx < 0 || idx >= 16 || seen[idx] {
			t.Fatalf("BitReversal() = %v is not a permutation of [0,16)", rev)
		}

		seen[idx] = true
	}

	mixedRadix, err := NewPlan1D(60)
	if err != nil {
		t.Fatalf("NewPlan1D(60): %v", err)
	}

	if mixedRadix.Algorithm() != MixedRadix {
		t.Fatalf("NewPlan1D(60).Algorithm() = %v, want MixedRadix", mixedRadix.Algorithm())
	}

	if rev := mixedRadix.BitReversal(); rev != nil {
		t.Errorf("MixedRadix plan BitReversal() = %v, want nil", rev)
	}

	bluestein, err := NewPlan1D(7)
	if err != nil {
		t.Fatalf("NewPlan1D(7): %v", err)
	}

	if bluestein.Algorithm() != Bluestein {
		t.Fatalf("NewPlan1D(7).Algorithm() = %v, want Bluestein", bluestein.Algorithm())
	}

	if rev := bluestein.BitReversal(); rev != nil {
		t.Errorf("Bluestein plan BitReversal() = %v, want nil", rev)
	}
}

func TestPlan1D_ComplexRoundTrip(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 16, 40, 64} {
		plan, err := NewPlan1D(n)
		if err != nil {
			t.Fatalf("NewPlan1D(%d): %v", n, err)
		}

		x := randomComplexBuf(n, int64(n))
		original := append([]float64(nil), x...)

		if err := plan.ComplexForward(x); err != nil {
			t.Fatalf("ComplexForward(%d): %v", n, err)
		}

		if err := plan.ComplexInverse(x, true); err != nil {
			t.Fatalf("ComplexInverse(%d): %v", n, err)
		}

		tol := 1e-9 * math.Log2(float64(n)+1) * l2Norm(original)
		if tol < 1e-9 {
			tol = 1e-9
		}

		if d := l2Diff(x, original); d > tol {
			t.Errorf("round trip scaled (N=%d): l2 diff %v exceeds tolerance %v", n, d, tol)
		}
	}
}

func TestPlan1D_ComplexRoundTripUnscaled(t *testing.T) {
	t.Parallel()

	const n = 12

	plan, err := NewPlan1D(n)
	if err != nil {
		t.Fatalf("NewPlan1D: %v", err)
	}

	x := randomComplexBuf(n, 99)
	original := append([]float64(nil), x...)

	if err := plan.ComplexForward(x); err != nil {
		t.Fatalf("ComplexForward: %v", err)
	}

	if err := plan.ComplexInverse(x, false); err != nil {
		t.Fatalf("ComplexInverse: %v", err)
	}

	want := make([]float64, len(original))
	for i, v := range original {
		want[i] = v * float64(n)
	}

	if d := l2Diff(x, want); d > 1e-7*l2Norm(want) {
		t.Errorf("round trip unscaled: l2 diff %v exceeds tolerance", d)
	}
}

func TestPlan1D_RealRoundTrip(t *testing.T) {
	t.Parallel()

	for _, n := range []int{2, 3, 4, 5, 6, 7, 8, 9, 16, 40} {
		plan, err := NewPlan1D(n)
		if err != nil {
			t.Fatalf("NewPlan1D(%d): %v", n, err)
		}

		x := randomRealBuf(n, int64(1000+n))
		original := append([]float64(nil), x...)

		if err := plan.RealForward(x); err != nil {
			t.Fatalf("RealForward(%d): %v", n, err)
		}

		if err := plan.RealInverse(x, true); err != nil {
			t.Fatalf("RealInverse(%d): %v", n, err)
		}

		tol := 1e-9 * math.Log2(float64(n)+1) * l2Norm(original)
		if tol < 1e-9 {
			tol = 1e-9
		}

		if d := l2Diff(x, original); d > tol {
			t.Errorf("real round trip (N=%d): l2 diff %v exceeds tolerance %v", n, d, tol)
		}
	}
}

func TestPlan1D_RealForwardFullRoundTrip(t *testing.T) {
	t.Parallel()

	const n = 10

	plan, err := NewPlan1D(n)
	if err != nil {
		t.Fatalf("NewPlan1D: %v", err)
	}

	samples := randomRealBuf(n, 7)

	buf := make([]float64, 2*n)
	copy(buf, samples)

	if err := plan.RealForwardFull(buf); err != nil {
		t.Fatalf("RealForwardFull: %v", err)
	}

	if err := plan.RealInverseFull(buf, true); err != nil {
		t.Fatalf("RealInverseFull: %v", err)
	}

	got := make([]float64, n)
	for k := 0; k < n; k++ {
		got[k] = buf[2*k]
	}

	if d := l2Diff(got, samples); d > 1e-9*l2Norm(samples) {
		t.Errorf("RealForwardFull round trip: l2 diff %v", d)
	}
}

func TestPlan1D_Parseval(t *testing.T) {
	t.Parallel()

	for _, n := range []int{8, 9, 16, 40} {
		plan, err := NewPlan1D(n)
		if err != nil {
			t.Fatalf("NewPlan1D(%d): %v", n, err)
		}

		x := randomComplexBuf(n, int64(2000+n))

		var inputEnergy float64
		for _, v := range x {
			inputEnergy += v * v
		}

		if err := plan.ComplexForward(x); err != nil {
			t.Fatalf("ComplexForward(%d): %v", n, err)
		}

		var outputEnergy float64
		for _, v := range x {
			outputEnergy += v * v
		}

		want := float64(n) * inputEnergy
		if math.Abs(outputEnergy-want) > 1e-6*want+1e-9 {
			t.Errorf("Parseval (N=%d): ||X||^2 = %v, want %v", n, outputEnergy, want)
		}
	}
}

func TestPlan1D_PlanReuseIdempotence(t *testing.T) {
	t.Parallel()

	plan, err := NewPlan1D(40)
	if err != nil {
		t.Fatalf("NewPlan1D: %v", err)
	}

	a := randomComplexBuf(40, 1)
	b := append([]float64(nil), a...)

	if err := plan.ComplexForward(a); err != nil {
		t.Fatalf("ComplexForward(a): %v", err)
	}

	if err := plan.ComplexForward(b); err != nil {
		t.Fatalf("ComplexForward(b): %v", err)
	}

	if d := l2Diff(a, b); d > 0 {
		t.Errorf("plan reuse produced different results for identical input: diff %v", d)
	}
}

func TestPlan1D_WorkerCountIndependence(t *testing.T) {
	t.Parallel()

	const n = 512

	cfgSeq := NewConfig()
	cfgSeq.SetNumWorkers(1)

	cfgPar := NewConfig()
	cfgPar.SetNumWorkers(4)
	cfgPar.SetThreshold1D2(512)
	cfgPar.SetThreshold1D4(512)

	seqPlan, err := NewPlan1DWithConfig(n, cfgSeq)
	if err != nil {
		t.Fatalf("NewPlan1DWithConfig(seq): %v", err)
	}

	parPlan, err := NewPlan1DWithConfig(n, cfgPar)
	if err != nil {
		t.Fatalf("NewPlan1DWithConfig(par): %v", err)
	}

	x := randomComplexBuf(n, 42)
	seq := append([]float64(nil), x...)
	par := append([]float64(nil), x...)

	if err := seqPlan.ComplexForward(seq); err != nil {
		t.Fatalf("seq ComplexForward: %v", err)
	}

	if err := parPlan.ComplexForward(par); err != nil {
		t.Fatalf("par ComplexForward: %v", err)
	}

	if d := l2Diff(seq, par); d > 1e-9*l2Norm(seq) {
		t.Errorf("worker-count independence: l2 diff %v between W=1 and W=4", d)
	}
}

// TestPlan1D_WorkerCountIndependence_MixedRadixLeadingFive exercises a
// length whose SmallPrimeFactors leads with 5 (9000 = 5*5*5*4*3*3*2) while
// only the 2-way parallel tier is crossed: parallelForward must still
// force a genuine radix-2 split at the top level rather than forking
// 5-way off of factors[0].
func TestPlan1D_WorkerCountIndependence_MixedRadixLeadingFive(t *testing.T) {
	t.Parallel()

	const n = 9000

	cfgSeq := NewConfig()
	cfgSeq.SetNumWorkers(1)

	cfgPar := NewConfig()
	cfgPar.SetNumWorkers(2)
	cfgPar.SetThreshold1D2(8192)
	cfgPar.SetThreshold1D4(65536)

	seqPlan, err := NewPlan1DWithConfig(n, cfgSeq)
	if err != nil {
		t.Fatalf("NewPlan1DWithConfig(seq): %v", err)
	}

	parPlan, err := NewPlan1DWithConfig(n, cfgPar)
	if err != nil {
		t.Fatalf("NewPlan1DWithConfig(par): %v", err)
	}

	if parPlan.fanoutRadix(n) != 2 {
		t.Fatalf("fanoutRadix(%d) = %d, want 2", n, parPlan.fanoutRadix(n))
	}

	x := randomComplexBuf(n, 7)
	seq := append([]float64(nil), x...)
	par := append([]float64(nil), x...)

	if err := seqPlan.ComplexForward(seq); err != nil {
		t.Fatalf("seq ComplexForward: %v", err)
	}

	if err := parPlan.ComplexForward(par); err != nil {
		t.Fatalf("par ComplexForward: %v", err)
	}

	if d := l2Diff(seq, par); d > 1e-8*l2Norm(seq) {
		t.Errorf("worker-count independence: l2 diff %v between W=1 and W=2", d)
	}
}
