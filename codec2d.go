package gofft

import (
	"fmt"
	"math"
)

// Codec2D implements the §6 packed-Hermitian 2-D address map: the bijection
// between logical (row, col) coordinates of a rows x cols real-input
// spectrum and the physical cells of a tightly-packed rows*cols real
// buffer. It is the direct equivalent of JTransforms' RealFFTUtils_2D
// pack/unpack pair, restricted to the case that buffer covers: rows and
// cols both even (odd dimensions fall back to the unpacked full-spectrum
// representation Plan2D.RealForwardFull produces instead).
//
// Two columns, 0 and cols/2, carry row-direction conjugate symmetry
// (X[r,0] and X[r,cols/2] each pair with their row-mirror rows-r) the same
// way a 1-D real spectrum's DC and Nyquist bins pair under index mirroring.
// Packing them costs only 2 reals per row: row r's own slots hold
// Re/Im(X[r,0]), and row rows-r's slots (otherwise unused by column 0,
// since X[rows-r,0] is just the conjugate of what row r already stores)
// are reused to hold Re/Im(X[r,cols/2]). Rows 0 and rows/2 are their own
// mirrors, so each contributes only two independent reals (the two DC-like
// values), packed into the same slot pair. Every other column c in
// [1, cols/2) has no row-direction simplification and is stored directly,
// for every row, at buf[r*cols+2c] / buf[r*cols+2c+1].
type Codec2D struct {
	rows, cols int
}

// NewCodec2D returns a Codec2D for a rows x cols real array. Both
// dimensions must be even; the packed layout is undefined otherwise (§6).
func NewCodec2D(rows, cols int) (*Codec2D, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: rows=%d cols=%d", ErrInvalidLength, rows, cols)
	}

	if rows%2 != 0 || cols%2 != 0 {
		return nil, fmt.Errorf("%w: packed 2-D layout requires even rows and cols, got %dx%d", ErrDimensionMismatch, rows, cols)
	}

	return &Codec2D{rows: rows, cols: cols}, nil
}

// Rows returns the row count.
func (c *Codec2D) Rows() int { return c.rows }

// Cols returns the column count.
func (c *Codec2D) Cols() int { return c.cols }

// Pack compacts full (row-major interleaved complex, length 2*rows*cols)
// into packed (length rows*cols) using §6's address map directly.
func (c *Codec2D) Pack(full, packed []float64) error {
	if err := c.checkFullLen(full); err != nil {
		return err
	}

	if err := c.checkPackedLen(packed); err != nil {
		return err
	}

	rows, cols := c.rows, c.cols
	half := cols / 2
	rowsHalf := rows / 2
	rowLen := 2 * cols

	at := func(r, col int) complex128 {
		return complex(full[r*rowLen+2*col], full[r*rowLen+2*col+1])
	}

	packed[0] = real(at(0, 0))
	packed[1] = real(at(0, half))
	packed[rowsHalf*cols+0] = real(at(rowsHalf, 0))
	packed[rowsHalf*cols+1] = real(at(rowsHalf, half))

	for r := 1; r < rowsHalf; r++ {
		v0 := at(r, 0)
		packed[r*cols+0] = real(v0)
		packed[r*cols+1] = imag(v0)

		mirror := rows - r
		vHalf := at(r, half)
		packed[mirror*cols+0] = real(vHalf)
		packed[mirror*cols+1] = imag(vHalf)
	}

	for r := 0; r < rows; r++ {
		for k := 1; k < half; k++ {
			v := at(r, k)
			packed[r*cols+2*k] = real(v)
			packed[r*cols+2*k+1] = imag(v)
		}
	}

	return nil
}

// Unpack expands packed (length rows*cols) back into full (length
// 2*rows*cols), the inverse of Pack, reconstructing every cell Pack does
// not store directly via CellValue's conjugate-symmetry derivation.
func (c *Codec2D) Unpack(packed, full []float64) error {
	if err := c.checkPackedLen(packed); err != nil {
		return err
	}

	if err := c.checkFullLen(full); err != nil {
		return err
	}

	rowLen := 2 * c.cols

	for r := 0; r < c.rows; r++ {
		for col := 0; col < c.cols; col++ {
			v, err := c.CellValue(packed, r, col)
			if err != nil {
				return err
			}

			full[r*rowLen+2*col] = real(v)
			full[r*rowLen+2*col+1] = imag(v)
		}
	}

	return nil
}

// CellValue returns the complex value that logically lives at (r, col) of
// the rows x cols spectrum, per §4.H's unpack(r, c, buf). Returns
// ErrInvalidPackedCoordinate if r or col is out of range.
func (c *Codec2D) CellValue(packed []float64, r, col int) (complex128, error) {
	if err := c.checkCoordinate(r, col); err != nil {
		return 0, err
	}

	idxRe, idxIm, conj, forceReal := c.address(r, col)

	if forceReal {
		return complex(packed[idxRe], 0), nil
	}

	re, im := packed[idxRe], packed[idxIm]
	if conj {
		im = -im
	}

	return complex(re, im), nil
}

// SetCellValue writes v into the packed buffer's entry for coordinate
// (r, col), per §4.H's pack(value, r, c, buf). When (r, col) maps to a
// structurally real cell (one of the four with r in {0, rows/2} and col in
// {0, cols/2}: DC or Nyquist in both axes), v's imaginary
// part must be zero within tol; a nonzero mismatch returns
// ErrInvalidPackedCoordinate rather than silently discarding it.
func (c *Codec2D) SetCellValue(packed []float64, r, col int, v complex128, tol float64) error {
	if err := c.checkCoordinate(r, col); err != nil {
		return err
	}

	idxRe, idxIm, conj, forceReal := c.address(r, col)

	if forceReal {
		if math.Abs(imag(v)) > tol {
			return fmt.Errorf("%w: (%d,%d) must be real, got imag=%g", ErrInvalidPackedCoordinate, r, col, imag(v))
		}

		packed[idxRe] = real(v)

		return nil
	}

	im := imag(v)
	if conj {
		im = -im
	}

	packed[idxRe] = real(v)
	packed[idxIm] = im

	return nil
}

// address resolves the logical coordinate (r, col) to the physical buffer
// slots that store it, per §6: idxRe/idxIm are the indices holding the
// real/imaginary parts as actually stored, conj reports whether the
// logical value is the conjugate of what is stored there, and forceReal
// reports one of the four cells that store no imaginary part at all (idxIm
// is -1 in that case). It is purely algebraic on (r, col, rows, cols), per
// §4.H, and never consults the buffer.
func (c *Codec2D) address(r, col int) (idxRe, idxIm int, conj, forceReal bool) {
	rows, cols := c.rows, c.cols
	half := cols / 2
	rowsHalf := rows / 2

	switch {
	case col == 0:
		switch {
		case r == 0:
			return 0, -1, false, true
		case r == rowsHalf:
			return rowsHalf * cols, -1, false, true
		case r < rowsHalf:
			return r*cols + 0, r*cols + 1, false, false
		default:
			mirror := rows - r
			return mirror*cols + 0, mirror*cols + 1, true, false
		}

	case col == half:
		switch {
		case r == 0:
			return 1, -1, false, true
		case r == rowsHalf:
			return rowsHalf*cols + 1, -1, false, true
		case r < rowsHalf:
			mirror := rows - r
			return mirror*cols + 0, mirror*cols + 1, false, false
		default:
			return r*cols + 0, r*cols + 1, true, false
		}

	case col > 0 && col < half:
		return r*cols + 2*col, r*cols + 2*col + 1, false, false

	default: // half < col < cols
		r2 := (rows - r) % rows
		c2 := cols - col

		idxRe, idxIm, conj2, forceReal2 := c.address(r2, c2)

		return idxRe, idxIm, !conj2, forceReal2
	}
}

func (c *Codec2D) checkCoordinate(r, col int) error {
	if r < 0 || r >= c.rows || col < 0 || col >= c.cols {
		return fmt.Errorf("%w: (%d,%d) out of range for %dx%d", ErrInvalidPackedCoordinate, r, col, c.rows, c.cols)
	}

	return nil
}

func (c *Codec2D) checkFullLen(full []float64) error {
	want := 2 * c.rows * c.cols
	if len(full) != want {
		return fmt.Errorf("%w: full buffer wants len %d, got %d", ErrDimensionMismatch, want, len(full))
	}

	return nil
}

func (c *Codec2D) checkPackedLen(packed []float64) error {
	want := c.rows * c.cols
	if len(packed) != want {
		return fmt.Errorf("%w: packed buffer wants len %d, got %d", ErrDimensionMismatch, want, len(packed))
	}

	return nil
}
