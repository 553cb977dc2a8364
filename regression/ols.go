package regression

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LinearModel is an ordinary least squares fit with intercept.
type LinearModel struct {
	Intercept float64   `json:"intercept"`
	Coef      []float64 `json:"coef"`
}

// rankTol is the relative singular value cutoff for the least squares solve.
const rankTol = 1e-10

// Fit solves min ||y - b0 - X b||. Collinear or constant columns are
// handled through the SVD pseudo-inverse and get zero weight.
func (m *LinearModel) Fit(X [][]float64, y []float64) error {
	n := len(y)
	if n == 0 || len(X) != n {
		return fmt.Errorf("ols: %d rows for %d targets", len(X), n)
	}
	p := len(X[0])

	design := mat.NewDense(n, p+1, nil)
	for i, row := range X {
		design.Set(i, 0, 1)
		for j, v := range row {
			design.Set(i, j+1, v)
		}
	}

	var svd mat.SVD
	if !svd.Factorize(design, mat.SVDThin) {
		return errors.New("ols: SVD factorization failed")
	}
	rank := svd.Rank(rankTol)
	if rank == 0 {
		return errors.New("ols: design matrix has rank 0")
	}

	var beta mat.Dense
	svd.SolveTo(&beta, mat.NewDense(n, 1, append([]float64(nil), y...)), rank)

	m.Intercept = beta.At(0, 0)
	m.Coef = make([]float64, p)
	for j := range m.Coef {
		m.Coef[j] = beta.At(j+1, 0)
	}
	return nil
}

// Predict evaluates the fitted linear function on each row.
func (m *LinearModel) Predict(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i, row := range X {
		if len(row) != len(m.Coef) {
			return nil, fmt.Errorf("ols: row %d has %d features, want %d", i, len(row), len(m.Coef))
		}
		v := m.Intercept
		for j, x := range row {
			v += m.Coef[j] * x
		}
		out[i] = v
	}
	return out, nil
}
