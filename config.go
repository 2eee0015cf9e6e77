package gofft

import (
	"runtime"
	"sync"

	"github.com/cwbudde/gofft/internal/mathutil"
)

// Default threshold values, restored by ResetThresholds1D and
// ResetThresholds2D3D. Ported from ConcurrencyUtils's
// THREADS_BEGIN_N_1D_FFT_2THREADS / _4THREADS / _2D / _3D statics.
const (
	defaultThreshold1D2 = 8192
	defaultThreshold1D4 = 65536
	defaultThreshold2D  = 65536
	defaultThreshold3D  = 65536

	// minThreshold1D is the floor enforced by SetThreshold1D2/SetThreshold1D4.
	// The 2-D/3-D setters accept any non-negative value; §9 flags this
	// asymmetry as a possible bug in the original but preserves it here.
	minThreshold1D = 512
)

// Config holds the process-wide tunables described in spec §4.B: the
// worker count used by parallel transforms, and the four size thresholds
// beyond which a transform engages the worker pool. A Config is safe for
// concurrent use. A Plan1D keeps a reference to its Config and re-reads the
// worker count and 1-D thresholds at each transform call; a Plan2D reads
// Threshold2D and the worker count once at construction; the shared pool
// reads the worker count once, when it is first created.
type Config struct {
	mu sync.RWMutex

	numWorkers   int
	threshold1D2 int
	threshold1D4 int
	threshold2D  int
	threshold3D  int
}

// NewConfig returns a Config initialized with the default worker count
// (the largest power of two not exceeding GOMAXPROCS) and the default
// thresholds.
func NewConfig() *Config {
	c := &Config{}
	c.numWorkers = defaultWorkerCount()
	c.ResetThresholds1D()
	c.ResetThresholds2D3D()

	return c
}

func defaultWorkerCount() int {
	n := runtime.GOMAXPROCS(0)
	if n > 1 {
		return mathutil.PrevPowerOfTwo(n)
	}

	return 1
}

// NumWorkers returns the current worker count.
func (c *Config) NumWorkers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.numWorkers
}

// SetNumWorkers sets the worker count. A non-power-of-two value is rounded
// down to the nearest power of two, per §4.B and §9 ("balanced chunks is
// an invariant relied on by the kernels").
func (c *Config) SetNumWorkers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n < 1 {
		n = 1
	}

	if mathutil.IsPowerOfTwo(n) {
		c.numWorkers = n
	} else {
		c.numWorkers = mathutil.PrevPowerOfTwo(n)
	}
}

// Threshold1D2 returns the minimal 1-D transform length for which two
// worker threads are used.
func (c *Config) Threshold1D2() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.threshold1D2
}

// Threshold1D4 returns the minimal 1-D transform length for which four
// worker threads are used.
func (c *Config) Threshold1D4() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.threshold1D4
}

// Threshold2D returns the minimal 2-D element count (rows*cols) for which
// the worker pool is used.
func (c *Config) Threshold2D() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.threshold2D
}

// Threshold3D returns the minimal 3-D element count for which the worker
// pool is used. Retained for future use; no 3-D transform consults it yet.
func (c *Config) Threshold3D() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.threshold3D
}

// SetThreshold1D2 sets Threshold1D2, clamped to a minimum of 512.
func (c *Config) SetThreshold1D2(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.threshold1D2 = clampMin1D(n)
}

// SetThreshold1D4 sets Threshold1D4, clamped to a minimum of 512.
func (c *Config) SetThreshold1D4(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.threshold1D4 = clampMin1D(n)
}

// SetThreshold2D sets Threshold2D. Unlike the 1-D thresholds, any
// non-negative value is accepted without clamping.
func (c *Config) SetThreshold2D(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n < 0 {
		n = 0
	}

	c.threshold2D = n
}

// SetThreshold3D sets Threshold3D. Unlike the 1-D thresholds, any
// non-negative value is accepted without clamping.
func (c *Config) SetThreshold3D(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n < 0 {
		n = 0
	}

	c.threshold3D = n
}

// ResetThresholds1D restores Threshold1D2 and Threshold1D4 to their
// defaults (8192 and 65536).
func (c *Config) ResetThresholds1D() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.threshold1D2 = defaultThreshold1D2
	c.threshold1D4 = defaultThreshold1D4
}

// ResetThresholds2D3D restores Threshold2D and Threshold3D to their
// defaults (65536 each).
func (c *Config) ResetThresholds2D3D() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.threshold2D = defaultThreshold2D
	c.threshold3D = defaultThreshold3D
}

func clampMin1D(n int) int {
	if n < minThreshold1D {
		return minThreshold1D
	}

	return n
}

// defaultConfig is the process-wide Configuration instance consulted by
// plans and the package-level helper functions below, mirroring
// ConcurrencyUtils's static fields. Holding it behind the same Config type
// that callers can instantiate directly means tests (and callers who want
// isolation) are never forced through the singleton.
var defaultConfig = NewConfig()

// NumWorkers returns the default Config's current worker count.
func NumWorkers() int { return defaultConfig.NumWorkers() }

// SetNumWorkers sets the default Config's worker count.
func SetNumWorkers(n int) { defaultConfig.SetNumWorkers(n) }

// Threshold1D2 returns the default Config's Threshold1D2.
func Threshold1D2() int { return defaultConfig.Threshold1D2() }

// Threshold1D4 returns the default Config's Threshold1D4.
func Threshold1D4() int { return defaultConfig.Threshold1D4() }

// Threshold2D returns the default Config's Threshold2D.
func Threshold2D() int { return defaultConfig.Threshold2D() }

// Threshold3D returns the default Config's Threshold3D.
func Threshold3D() int { return defaultConfig.Threshold3D() }

// SetThreshold1D2 sets the default Config's Threshold1D2.
func SetThreshold1D2(n int) { defaultConfig.SetThreshold1D2(n) }

// SetThreshold1D4 sets the default Config's Threshold1D4.
func SetThreshold1D4(n int) { defaultConfig.SetThreshold1D4(n) }

// SetThreshold2D sets the default Config's Threshold2D.
func SetThreshold2D(n int) { defaultConfig.SetThreshold2D(n) }

// SetThreshold3D sets the default Config's Threshold3D.
func SetThreshold3D(n int) { defaultConfig.SetThreshold3D(n) }

// ResetThresholds1D resets the default Config's 1-D thresholds.
func ResetThresholds1D() { defaultConfig.ResetThresholds1D() }

// ResetThresholds2D3D resets the default Config's 2-D/3-D thresholds.
func ResetThresholds2D3D() { defaultConfig.ResetThresholds2D3D() }
