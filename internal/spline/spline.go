// Package spline fits parametric cubic smoothing splines through ordered 2D
// points, either as an open segment or as a closed (periodic) loop.
//
// The curve is parameterized by cumulative chord length u. For a smoothing
// factor s the fit minimizes the integrated squared second derivative subject
// to
//
//	Σ‖pᵢ − f(uᵢ)‖² ≤ s
//
// so s = 0 interpolates every input point and larger values trade fidelity
// for smoothness. This is the Reinsch formulation of the smoothing spline:
// with knot spacings h, the tridiagonal matrices Q and R, and a penalty λ,
//
//	(R + λQᵀQ)γ = Qᵀy,  g = y − λQγ
//
// gives the knot values g and second derivatives γ. Both coordinates share
// one λ, found by bisection on log λ until the residual sum matches s.
package spline

import (
	"math"
	"sort"

	"github.com/yildizm/trackedit/internal/geom"
	"gonum.org/v1/gonum/mat"
)

// MinPoints is the number of distinct points a cubic fit needs.
const MinPoints = 4

const (
	lambdaLow     = 1e-8
	lambdaHigh    = 1e8
	maxBisections = 100
	residualTol   = 1e-3
)

// Curve is a fitted cubic spline. For every dimension it stores the value
// and second derivative at each knot.
type Curve struct {
	knots  []float64
	period float64 // zero for open curves
	vals   [2][]float64
	derivs [2][]float64

	// Residual is the achieved Σ‖pᵢ − f(uᵢ)‖² over the distinct input
	// points.
	Residual float64
	// Lambda is the penalty weight selected for the requested smoothing.
	Lambda float64
}

// FitOpen fits a non-periodic smoothing spline through pts in order.
func FitOpen(pts []geom.Point, s float64) (*Curve, error) {
	return fit(pts, s, false)
}

// FitPeriodic fits a closed-loop smoothing spline through pts. The segment
// from the last point back to the first is part of the curve.
func FitPeriodic(pts []geom.Point, s float64) (*Curve, error) {
	return fit(pts, s, true)
}

// Periodic reports whether c is a closed loop.
func (c *Curve) Periodic() bool { return c.period > 0 }

// Domain returns the parameter range of c. For a periodic curve hi − lo is
// the period and hi maps to the same point as lo.
func (c *Curve) Domain() (lo, hi float64) {
	lo = c.knots[0]
	if c.Periodic() {
		return lo, lo + c.period
	}
	return lo, c.knots[len(c.knots)-1]
}

// Sample evaluates c at count evenly spaced parameters. Open curves are
// sampled over the closed interval of their domain, periodic curves over
// one period excluding the endpoint that repeats the start.
func (c *Curve) Sample(count int) []geom.Point {
	if count <= 0 {
		return nil
	}
	lo, hi := c.Domain()
	out := make([]geom.Point, count)
	if count == 1 {
		out[0] = c.Eval(lo)
		return out
	}
	div := float64(count - 1)
	if c.Periodic() {
		div = float64(count)
	}
	step := (hi - lo) / div
	for i := range out {
		out[i] = c.Eval(lo + float64(i)*step)
	}
	return out
}

// Eval returns the point of c at parameter u. Open curves clamp u to their
// domain; periodic curves wrap it.
func (c *Curve) Eval(u float64) geom.Point {
	n := len(c.knots)
	lo, hi := c.Domain()

	if c.Periodic() {
		u = lo + math.Mod(u-lo, c.period)
		if u < lo {
			u += c.period
		}
	} else {
		u = math.Max(lo, math.Min(hi, u))
	}

	// Segment i spans knots[i] .. knots[i+1] (or the closing span).
	i := sort.SearchFloat64s(c.knots, u)
	if i == n || c.knots[i] > u {
		i--
	}
	if i < 0 {
		i = 0
	}
	last := n - 2
	if c.Periodic() {
		last = n - 1
	}
	if i > last {
		i = last
	}

	j := i + 1
	var right float64
	if j == n {
		j = 0
		right = c.knots[0] + c.period
	} else {
		right = c.knots[j]
	}
	h := right - c.knots[i]
	a := (right - u) / h
	b := (u - c.knots[i]) / h

	var out [2]float64
	for d := 0; d < 2; d++ {
		out[d] = a*c.vals[d][i] + b*c.vals[d][j] +
			((a*a*a-a)*c.derivs[d][i]+(b*b*b-b)*c.derivs[d][j])*h*h/6
	}
	return geom.Point{X: out[0], Y: out[1]}
}

func fit(pts []geom.Point, s float64, periodic bool) (*Curve, error) {
	for _, p := range pts {
		if !p.IsFinite() {
			return nil, &FittingError{Kind: DegenerateGeometry, Message: "non-finite coordinate in input"}
		}
	}
	if s < 0 || math.IsNaN(s) {
		s = 0
	}

	distinct := Distinct(pts, periodic)
	if len(distinct) < MinPoints {
		return nil, insufficient(len(distinct))
	}

	u := geom.ChordLengths(distinct, periodic)
	n := len(distinct)
	c := &Curve{knots: u[:n]}
	if periodic {
		c.period = u[n]
	}

	sys := newSystem(c.knots, c.period)
	var y [2]*mat.VecDense
	y[0] = mat.NewVecDense(n, nil)
	y[1] = mat.NewVecDense(n, nil)
	for i, p := range distinct {
		y[0].SetVec(i, p.X)
		y[1].SetVec(i, p.Y)
	}

	lambda, sol, err := sys.solveFor(y, s)
	if err != nil {
		return nil, err
	}
	c.Lambda = lambda
	c.Residual = sol.residual

	for d := 0; d < 2; d++ {
		c.vals[d] = sol.vals[d]
		c.derivs[d] = sys.expand(sol.gamma[d])
		for i := range c.vals[d] {
			if math.IsNaN(c.vals[d][i]) || math.IsInf(c.vals[d][i], 0) ||
				math.IsNaN(c.derivs[d][i]) || math.IsInf(c.derivs[d][i], 0) {
				return nil, &FittingError{Kind: NumericalFailure, Message: "fit produced non-finite coefficients"}
			}
		}
	}
	return c, nil
}

// Distinct returns pts with consecutive coincident points collapsed. For a
// closed loop, trailing points that coincide with the first are dropped too.
func Distinct(pts []geom.Point, periodic bool) []geom.Point {
	out := make([]geom.Point, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	if periodic {
		for len(out) > 1 && out[len(out)-1] == out[0] {
			out = out[:len(out)-1]
		}
	}
	return out
}

// system holds the Reinsch matrices for one set of knots.
type system struct {
	n     int // number of knots
	m     int // number of unknown second derivatives
	open  bool
	q     *mat.Dense
	r     *mat.SymDense
	qtq   *mat.SymDense
	scale float64
}

func newSystem(knots []float64, period float64) *system {
	n := len(knots)
	open := period == 0

	h := make([]float64, 0, n)
	for i := 0; i+1 < n; i++ {
		h = append(h, knots[i+1]-knots[i])
	}
	if !open {
		h = append(h, knots[0]+period-knots[n-1])
	}

	sys := &system{n: n, open: open}
	var total float64
	for _, v := range h {
		total += v
	}
	mean := total / float64(len(h))
	sys.scale = mean * mean * mean

	if open {
		sys.m = n - 2
		sys.q = mat.NewDense(n, sys.m, nil)
		sys.r = mat.NewSymDense(sys.m, nil)
		for j := 0; j < sys.m; j++ {
			i := j + 1
			sys.q.Set(i-1, j, 1/h[i-1])
			sys.q.Set(i, j, -1/h[i-1]-1/h[i])
			sys.q.Set(i+1, j, 1/h[i])
			sys.r.SetSym(j, j, (h[i-1]+h[i])/3)
			if j+1 < sys.m {
				sys.r.SetSym(j, j+1, h[i]/6)
			}
		}
	} else {
		sys.m = n
		sys.q = mat.NewDense(n, n, nil)
		sys.r = mat.NewSymDense(n, nil)
		for i := 0; i < n; i++ {
			prev := (i - 1 + n) % n
			next := (i + 1) % n
			sys.q.Set(prev, i, sys.q.At(prev, i)+1/h[prev])
			sys.q.Set(i, i, sys.q.At(i, i)-1/h[prev]-1/h[i])
			sys.q.Set(next, i, sys.q.At(next, i)+1/h[i])
			sys.r.SetSym(i, i, sys.r.At(i, i)+(h[prev]+h[i])/3)
			sys.r.SetSym(i, next, sys.r.At(i, next)+h[i]/6)
		}
	}

	sys.qtq = mat.NewSymDense(sys.m, nil)
	sys.qtq.SymOuterK(1, sys.q.T())
	return sys
}

// expand turns the unknown second derivatives into one value per knot.
// Natural end conditions pin both ends of an open curve to zero.
func (sys *system) expand(gamma []float64) []float64 {
	if !sys.open {
		return gamma
	}
	out := make([]float64, sys.n)
	copy(out[1:], gamma)
	return out
}

type solution struct {
	vals     [2][]float64
	gamma    [2][]float64
	residual float64
}

// solve computes the smoothing spline for a fixed λ.
func (sys *system) solve(y [2]*mat.VecDense, lambda float64) (*solution, error) {
	a := mat.NewSymDense(sys.m, nil)
	scaled := mat.NewSymDense(sys.m, nil)
	scaled.ScaleSym(lambda, sys.qtq)
	a.AddSym(sys.r, scaled)

	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		return nil, &FittingError{Kind: NumericalFailure, Message: "system matrix is not positive definite"}
	}

	sol := &solution{}
	for d := 0; d < 2; d++ {
		b := mat.NewVecDense(sys.m, nil)
		b.MulVec(sys.q.T(), y[d])

		gamma := mat.NewVecDense(sys.m, nil)
		if err := chol.SolveVecTo(gamma, b); err != nil {
			return nil, &FittingError{Kind: NumericalFailure, Message: "cannot solve smoothing system", Cause: err}
		}

		qg := mat.NewVecDense(sys.n, nil)
		qg.MulVec(sys.q, gamma)

		vals := make([]float64, sys.n)
		for i := range vals {
			r := lambda * qg.AtVec(i)
			vals[i] = y[d].AtVec(i) - r
			sol.residual += r * r
		}
		sol.vals[d] = vals
		sol.gamma[d] = mat.Col(nil, 0, gamma)
	}
	return sol, nil
}

// solveFor picks λ so that the residual sum matches s as closely as the
// bisection tolerance allows.
func (sys *system) solveFor(y [2]*mat.VecDense, s float64) (float64, *solution, error) {
	if s == 0 {
		sol, err := sys.solve(y, 0)
		return 0, sol, err
	}

	hi := lambdaHigh * sys.scale
	hiSol, err := sys.solve(y, hi)
	if err != nil {
		return 0, nil, err
	}
	if hiSol.residual <= s {
		return hi, hiSol, nil
	}

	logLo := math.Log(lambdaLow * sys.scale)
	logHi := math.Log(hi)
	var best float64
	var bestSol *solution
	for iter := 0; iter < maxBisections; iter++ {
		mid := math.Exp((logLo + logHi) / 2)
		sol, err := sys.solve(y, mid)
		if err != nil {
			return 0, nil, err
		}
		if sol.residual <= s {
			best, bestSol = mid, sol
			logLo = math.Log(mid)
		} else {
			logHi = math.Log(mid)
		}
		if math.Abs(sol.residual-s) <= residualTol*s {
			return mid, sol, nil
		}
	}
	if bestSol == nil {
		// Nothing under the bound was found; fall back to interpolation.
		sol, err := sys.solve(y, 0)
		return 0, sol, err
	}
	return best, bestSol, nil
}
