package gofft

import "fmt"

// Plan2D is the two-dimensional counterpart of Plan1D, per spec §5: it
// holds a row plan (length cols) and a column plan (length rows), and
// drives a transform as a row pass followed by a column pass (or the
// reverse for the inverse direction), separated by a barrier so every row
// is finished before any column read begins.
//
// Unlike Plan1D, whose parallel fan-out threshold is read live from Config
// at every call, Plan2D decides once at construction time whether row/col
// passes dispatch through the worker pool, caching that decision in
// useParallel. Re-reading Config's Threshold2D on every call would let a
// single Plan2D flip behavior mid-use if some other part of the program
// reconfigures the default Config; caching matches the "plans are
// immutable after construction" contract more literally for the 2-D case,
// where a pass touches every row or column anyway and the threshold
// decision is comparatively coarse-grained.
type Plan2D struct {
	rows, cols int

	rowPlan *Plan1D
	colPlan *Plan1D

	// codec is non-nil iff rows and cols are both even, per §6 ("odd rows
	// or cols... the packed layout does not apply"). RealForward/
	// RealInverse require it; RealForwardFull/RealInverseFull do not.
	codec *Codec2D

	useParallel bool
	pool        *Pool
}

// NewPlan2D constructs a Plan2D for a rows x cols array using the
// process-wide default Config and worker Pool.
func NewPlan2D(rows, cols int) (*Plan2D, error) {
	return NewPlan2DWithConfig(rows, cols, defaultConfig)
}

// NewPlan2DWithConfig constructs a Plan2D for a rows x cols array,
// capturing cfg's Threshold2D and worker count once to decide whether row
// and column passes are dispatched through the pool.
func NewPlan2DWithConfig(rows, cols int, cfg *Config) (*Plan2D, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: rows=%d cols=%d", ErrInvalidLength, rows, cols)
	}

	rowPlan, err := NewPlan1DWithConfig(cols, cfg)
	if err != nil {
		return nil, fmt.Errorf("row plan: %w", err)
	}

	colPlan, err := NewPlan1DWithConfig(rows, cfg)
	if err != nil {
		return nil, fmt.Errorf("column plan: %w", err)
	}

	useParallel := cfg.NumWorkers() > 1 && rows*cols >= cfg.Threshold2D()

	var codec *Codec2D
	if rows%2 == 0 && cols%2 == 0 {
		codec, err = NewCodec2D(rows, cols)
		if err != nil {
			return nil, err
		}
	}

	return &Plan2D{
		rows:        rows,
		cols:        cols,
		rowPlan:     rowPlan,
		colPlan:     colPlan,
		codec:       codec,
		useParallel: useParallel,
		pool:        sharedPool(cfg),
	}, nil
}

// Rows returns the row count.
func (p *Plan2D) Rows() int { return p.rows }

// Cols returns the column count.
func (p *Plan2D) Cols() int { return p.cols }

// ComplexForward computes the 2-D DFT of buf in place. buf is row-major
// interleaved complex data of length 2*rows*cols: row r occupies
// buf[r*2*cols : (r+1)*2*cols].
func (p *Plan2D) ComplexForward(buf []float64) error {
	if err := p.checkComplexLen(buf); err != nil {
		return err
	}

	if err := p.forEachRow(buf, p.rowPlan.ComplexForward); err != nil {
		return err
	}

	return p.forEachCol(buf, p.colPlan.ComplexForward)
}

// ComplexInverse computes the 2-D IDFT of buf in place, dividing by
// rows*cols iff scale is true. It undoes ComplexForward's passes in
// reverse order (columns, then rows).
func (p *Plan2D) ComplexInverse(buf []float64, scale bool) error {
	if err := p.checkComplexLen(buf); err != nil {
		return err
	}

	if err := p.forEachCol(buf, func(col []float64) error {
		return p.colPlan.ComplexInverse(col, scale)
	}); err != nil {
		return err
	}

	return p.forEachRow(buf, func(row []float64) error {
		return p.rowPlan.ComplexInverse(row, scale)
	})
}

// RealForwardFull computes the full (non-packed) 2-D DFT of the rows*cols
// real samples in real, writing the row-major interleaved complex result
// into full (length 2*rows*cols). It is implemented as a row-wise
// RealForwardFull embedding followed by a column-wise ComplexForward,
// which is exactly the 2-D complex DFT of real embedded with a zero
// imaginary part — so its correctness follows directly from Plan1D's,
// with no separate real-valued arithmetic to get right. It works for any
// rows/cols parity; RealForward additionally requires both even and packs
// the result into a rows*cols buffer per §6.
func (p *Plan2D) RealForwardFull(real, full []float64) error {
	if len(real) != p.rows*p.cols {
		return fmt.Errorf("%w: realForward2D wants real len %d, got %d", ErrDimensionMismatch, p.rows*p.cols, len(real))
	}

	if err := p.checkComplexLen(full); err != nil {
		return err
	}

	rowLen := 2 * p.cols

	for r := 0; r < p.rows; r++ {
		row := full[r*rowLen : (r+1)*rowLen]
		copy(row[:p.cols], real[r*p.cols:(r+1)*p.cols])
	}

	if err := p.forEachRow(full, p.rowPlan.RealForwardFull); err != nil {
		return err
	}

	return p.forEachCol(full, p.colPlan.ComplexForward)
}

// RealInverseFull inverts RealForwardFull: full (length 2*rows*cols) holds
// a Hermitian-symmetric spectrum, and the rows*cols real samples recovered
// from it are written into real. full is read but not modified; scale
// divides by rows*cols iff true.
func (p *Plan2D) RealInverseFull(full, real []float64, scale bool) error {
	if err := p.checkComplexLen(full); err != nil {
		return err
	}

	if len(real) != p.rows*p.cols {
		return fmt.Errorf("%w: realInverse2D wants real len %d, got %d", ErrDimensionMismatch, p.rows*p.cols, len(real))
	}

	work := make([]float64, len(full))
	copy(work, full)

	if err := p.forEachCol(work, func(col []float64) error {
		return p.colPlan.ComplexInverse(col, scale)
	}); err != nil {
		return err
	}

	if err := p.forEachRow(work, func(row []float64) error {
		return p.rowPlan.ComplexInverse(row, scale)
	}); err != nil {
		return err
	}

	rowLen := 2 * p.cols
	for r := 0; r < p.rows; r++ {
		row := work[r*rowLen : (r+1)*rowLen]
		for c := 0; c < p.cols; c++ {
			real[r*p.cols+c] = row[2*c]
		}
	}

	return nil
}

// RealForward computes the 2-D DFT of the rows*cols real samples in real,
// writing the §6 packed-Hermitian layout directly into packed (length
// rows*cols). It requires rows and cols both even; for odd dimensions use
// RealForwardFull, per §6 ("the packed layout does not apply").
func (p *Plan2D) RealForward(real, packed []float64) error {
	if p.codec == nil {
		return fmt.Errorf("%w: packed 2-D real transform requires even rows and cols, got %dx%d", ErrDimensionMismatch, p.rows, p.cols)
	}

	if len(packed) != p.rows*p.cols {
		return fmt.Errorf("%w: realForward2D wants packed len %d, got %d", ErrDimensionMismatch, p.rows*p.cols, len(packed))
	}

	full := make([]float64, 2*p.rows*p.cols)
	if err := p.RealForwardFull(real, full); err != nil {
		return err
	}

	return p.codec.Pack(full, packed)
}

// RealInverse inverts RealForward: packed (length rows*cols) holds the §6
// packed-Hermitian spectrum, and the rows*cols real samples recovered from
// it are written into real. It requires rows and cols both even; scale
// divides by rows*cols iff true.
func (p *Plan2D) RealInverse(packed, real []float64, scale bool) error {
	if p.codec == nil {
		return fmt.Errorf("%w: packed 2-D real transform requires even rows and cols, got %dx%d", ErrDimensionMismatch, p.rows, p.cols)
	}

	if len(packed) != p.rows*p.cols {
		return fmt.Errorf("%w: realInverse2D wants packed len %d, got %d", ErrDimensionMismatch, p.rows*p.cols, len(packed))
	}

	full := make([]float64, 2*p.rows*p.cols)
	if err := p.codec.Unpack(packed, full); err != nil {
		return err
	}

	return p.RealInverseFull(full, real, scale)
}

func (p *Plan2D) checkComplexLen(buf []float64) error {
	want := 2 * p.rows * p.cols
	if len(buf) != want {
		return fmt.Errorf("%w: 2-D complex buffer wants len %d, got %d", ErrDimensionMismatch, want, len(buf))
	}

	return nil
}

// forEachRow runs f on each row's interleaved-complex slice (length
// 2*cols). When useParallel, it partitions [0, rows) into the pool's
// worker count worth of contiguous row-index chunks (§4.F: "partition the
// row index range into W contiguous chunks submitted to the pool") and
// submits one task per chunk, each looping sequentially over its range;
// otherwise it runs every row in order. Either way it joins before
// returning.
func (p *Plan2D) forEachRow(buf []float64, f func(row []float64) error) error {
	rowLen := 2 * p.cols
	errs := make([]error, p.rows)

	apply := func(r int) {
		errs[r] = f(buf[r*rowLen : (r+1)*rowLen])
	}

	if p.useParallel {
		chunks := chunkRanges(p.rows, p.pool.Size())
		tasks := make([]func(), len(chunks))

		for i, c := range chunks {
			c := c
			tasks[i] = func() {
				for r := c.start; r < c.end; r++ {
					apply(r)
				}
			}
		}

		if err := RunAll(p.pool, tasks); err != nil {
			return err
		}
	} else {
		for r := 0; r < p.rows; r++ {
			apply(r)
		}
	}

	return firstNonNil(errs)
}

// forEachCol runs f on each column, gathering it into a contiguous
// interleaved-complex scratch slice (length 2*rows), then scattering the
// (possibly modified) result back into buf. Columns are not contiguous in
// the row-major layout, so each one is copied out and back in regardless
// of whether the pass runs sequentially or through the pool. When
// useParallel, columns are partitioned into the pool's worker count worth
// of contiguous column-index chunks (§4.F), one task per chunk.
func (p *Plan2D) forEachCol(buf []float64, f func(col []float64) error) error {
	rowLen := 2 * p.cols
	colLen := 2 * p.rows
	errs := make([]error, p.cols)

	apply := func(c int) {
		col := make([]float64, colLen)
		for r := 0; r < p.rows; r++ {
			col[2*r] = buf[r*rowLen+2*c]
			col[2*r+1] = buf[r*rowLen+2*c+1]
		}

		if err := f(col); err != nil {
			errs[c] = err
			return
		}

		for r := 0; r < p.rows; r++ {
			buf[r*rowLen+2*c] = col[2*r]
			buf[r*rowLen+2*c+1] = col[2*r+1]
		}
	}

	if p.useParallel {
		chunks := chunkRanges(p.cols, p.pool.Size())
		tasks := make([]func(), len(chunks))

		for i, c := range chunks {
			c := c
			tasks[i] = func() {
				for col := c.start; col < c.end; col++ {
					apply(col)
				}
			}
		}

		if err := RunAll(p.pool, tasks); err != nil {
			return err
		}
	} else {
		for c := 0; c < p.cols; c++ {
			apply(c)
		}
	}

	return firstNonNil(errs)
}

// indexRange is a half-open [start, end) chunk of row or column indices.
type indexRange struct{ start, end int }

// chunkRanges partitions [0, n) into min(workers, n) contiguous, roughly
// equal-sized ranges (earlier ranges absorb the remainder), one per pool
// worker, per §4.F's "W contiguous chunks submitted to the pool".
func chunkRanges(n, workers int) []indexRange {
	if workers < 1 {
		workers = 1
	}

	if workers > n {
		workers = n
	}

	base := n / workers
	rem := n % workers

	ranges := make([]indexRange, workers)
	start := 0

	for i := 0; i < workers; i++ {
		size := base
		if i < rem {
			size++
		}

		ranges[i] = indexRange{start: start, end: start + size}
		start += size
	}

	return ranges
}

func firstNonNil(errs []error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}

	return nil
}
