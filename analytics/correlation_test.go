package analytics

import (
	"math"
	"testing"

	"delivery-trends/trends"
)

func TestCorrelateSymmetryAndDiagonal(t *testing.T) {
	series := weeklySeries(map[string][]*float64{
		"Swiggy":  dense(30, 45, 50, 70, 60, 80),
		"Zomato":  dense(40, 42, 55, 65, 70, 75),
		"Blinkit": dense(20, 80, 35, 90, 25, 95),
	})

	matrix := Correlate(series)

	for _, a := range matrix.Brands {
		diag := matrix.Coef[a][a]
		if diag == nil || *diag != 1.0 {
			t.Errorf("diagonal for %s: expected exactly 1.0, got %v", a, diag)
		}
		for _, b := range matrix.Brands {
			ab, ba := matrix.Coef[a][b], matrix.Coef[b][a]
			if (ab == nil) != (ba == nil) {
				t.Fatalf("asymmetric definedness for %s/%s", a, b)
			}
			if ab != nil && *ab != *ba {
				t.Errorf("matrix not symmetric for %s/%s: %v vs %v", a, b, *ab, *ba)
			}
			if ab != nil && (*ab < -1 || *ab > 1) {
				t.Errorf("coefficient out of range for %s/%s: %v", a, b, *ab)
			}
		}
	}
}

func TestCorrelatePerfectLinearRelation(t *testing.T) {
	base := []float64{10, 25, 30, 42, 55, 61, 70, 85}
	derived := make([]float64, len(base))
	for i, v := range base {
		derived[i] = 2*v + 3
	}

	series := weeklySeries(map[string][]*float64{
		"Swiggy": dense(base...),
		"Zomato": dense(derived...),
	})

	matrix := Correlate(series)
	coef := matrix.Coef["Swiggy"]["Zomato"]
	if coef == nil {
		t.Fatal("expected defined coefficient for perfectly correlated pair")
	}
	if math.Abs(*coef-1.0) > tolerance {
		t.Errorf("expected coefficient ~1.0, got %v", *coef)
	}
}

func TestCorrelateZeroVarianceFlaggedUndefined(t *testing.T) {
	series := weeklySeries(map[string][]*float64{
		"Swiggy":  dense(10, 20, 30, 40),
		"Blinkit": dense(50, 50, 50, 50),
	})

	matrix := Correlate(series)

	if coef := matrix.Coef["Blinkit"]["Swiggy"]; coef != nil {
		t.Errorf("zero-variance pair must be undefined, got %v", *coef)
	}
	if diag := matrix.Coef["Blinkit"]["Blinkit"]; diag == nil || *diag != 1.0 {
		t.Errorf("zero-variance diagonal must still be 1.0, got %v", diag)
	}
}

func TestCorrelatePairwiseComplete(t *testing.T) {
	// Rows 1 and 4 are incomplete for the pair and must be excluded; the
	// remaining rows are perfectly correlated.
	series := weeklySeries(map[string][]*float64{
		"Swiggy": {trends.Float(10), nil, trends.Float(20), trends.Float(30), trends.Float(99), trends.Float(40)},
		"Zomato": {trends.Float(20), trends.Float(5), trends.Float(40), trends.Float(60), nil, trends.Float(80)},
	})

	matrix := Correlate(series)
	coef := matrix.Coef["Swiggy"]["Zomato"]
	if coef == nil {
		t.Fatal("expected defined coefficient")
	}
	if math.Abs(*coef-1.0) > tolerance {
		t.Errorf("pairwise-complete rows are perfectly correlated, got %v", *coef)
	}
}

func TestCorrelateTooFewObservations(t *testing.T) {
	series := weeklySeries(map[string][]*float64{
		"Swiggy": {trends.Float(10), nil, nil},
		"Zomato": {trends.Float(20), nil, nil},
	})

	matrix := Correlate(series)
	if coef := matrix.Coef["Swiggy"]["Zomato"]; coef != nil {
		t.Errorf("a single complete row cannot define a correlation, got %v", *coef)
	}
}
