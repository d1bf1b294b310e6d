// SPDX-License-Identifier: MIT

// Functional options for constructors and solvers. Two knobs exist: the
// tolerance eps (LeastSquares pivot cut-off) and the finite-only policy.

package matrix

const (
	// DefaultEpsilon is the relative pivot tolerance of LeastSquares.
	DefaultEpsilon = 1e-12

	// DefaultValidateNaNInf: new matrices reject NaN and ±Inf unless told otherwise.
	DefaultValidateNaNInf = true
)

const panicEpsilonInvalid = "matrix: WithEpsilon: eps must be finite, non-negative"

// Option sets one field of Options. Later options win.
type Option func(*Options)

// Options is the resolved configuration. Read it through the accessors.
type Options struct {
	eps            float64
	validateNaNInf bool
}

// Epsilon reports the resolved tolerance.
func (o Options) Epsilon() float64 { return o.eps }

// ValidateNaNInf reports whether the finite-only policy is on.
func (o Options) ValidateNaNInf() bool { return o.validateNaNInf }

// WithEpsilon sets eps. It panics on a negative or non-finite value, which
// is a programming error rather than bad input.
func WithEpsilon(eps float64) Option {
	if isNonFinite(eps) || eps < 0 {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithValidateNaNInf turns the finite-only policy on (the default).
func WithValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = true }
}

// WithNoValidateNaNInf turns the finite-only policy off, so a matrix may hold
// NaN, as undefined proportion rows and missing table cells do.
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// NewMatrixOptions resolves opts against the defaults.
func NewMatrixOptions(opts ...Option) Options {
	return gatherOptions(opts...)
}

func gatherOptions(user ...Option) Options {
	o := Options{eps: DefaultEpsilon, validateNaNInf: DefaultValidateNaNInf}
	for _, set := range user {
		if set != nil {
			set(&o)
		}
	}

	return o
}
