// Package gofft computes fast Fourier transforms of one- and
// two-dimensional double-precision arrays of arbitrary length.
//
// Plan1D selects split-radix, mixed-radix, or Bluestein depending on how
// its length factors, and exposes six in-place buffer operations:
// ComplexForward, ComplexInverse, RealForward, RealInverse,
// RealForwardFull, and RealInverseFull. Plan2D composes a row Plan1D and
// a column Plan1D to transform rows x cols arrays, and Codec2D compacts a
// real-input 2-D spectrum into a rows*cols packed buffer.
//
// Transforms above a configurable size threshold fan their outermost
// decomposition pass out across a fixed-size worker Pool; Config holds the
// thresholds and worker count that decision consults. See DESIGN.md for
// how each piece maps onto its source material.
package gofft
