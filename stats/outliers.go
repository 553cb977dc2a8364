package stats

import "sort"

// DefaultIQRMultiplier flags values beyond 1.5 IQR from the quartiles.
const DefaultIQRMultiplier = 1.5

// IQRBounds holds the quartiles and the outlier fences derived from them.
type IQRBounds struct {
	Q1    float64
	Q3    float64
	IQR   float64
	Lower float64
	Upper float64
}

// NewIQRBounds computes fences [Q1 - k*IQR, Q3 + k*IQR]. A non-positive k
// uses DefaultIQRMultiplier.
func NewIQRBounds(values []float64, k float64) (*IQRBounds, error) {
	if len(values) == 0 {
		return nil, ErrEmpty
	}
	if k <= 0 {
		k = DefaultIQRMultiplier
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q1, _, q3 := Quartiles(sorted)
	iqr := q3 - q1
	return &IQRBounds{
		Q1:    q1,
		Q3:    q3,
		IQR:   iqr,
		Lower: q1 - k*iqr,
		Upper: q3 + k*iqr,
	}, nil
}

// Contains reports whether v lies within the fences, inclusive.
func (b *IQRBounds) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// Outliers returns the indices of values outside the fences.
func (b *IQRBounds) Outliers(values []float64) []int {
	var idx []int
	for i, v := range values {
		if !b.Contains(v) {
			idx = append(idx, i)
		}
	}
	return idx
}
