package factor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWinsorizeIdempotent(t *testing.T) {
	values := make([]float64, 0, 200)
	for i := 1; i <= 200; i++ {
		values = append(values, float64(i))
	}
	values[0] = -1000 // extreme tails
	values[199] = 1e6

	once := Winsorize(values, 0.01, 0.99)
	twice := Winsorize(once, 0.01, 0.99)
	assert.Equal(t, once, twice)
}

func TestWinsorizePreservesInteriorOrder(t *testing.T) {
	values := []float64{5, 1, 9, 3, 7, 2, 8, 4, 6, 100, -100}
	out := Winsorize(values, 0.1, 0.9)

	// interior values untouched, tails clipped to the boundary
	assert.Equal(t, 5.0, out[0])
	assert.Equal(t, 9.0, out[2])
	assert.LessOrEqual(t, out[9], 9.0)
	assert.GreaterOrEqual(t, out[10], -100.0)
	assert.Greater(t, out[10], -100.0+1) // actually clipped
}

func TestWinsorizeMissingPassThrough(t *testing.T) {
	values := []float64{1, math.NaN(), 3, 4, 5, math.NaN(), 7, 8, 9, 1000}
	out := Winsorize(values, 0.1, 0.9)

	assert.True(t, math.IsNaN(out[1]))
	assert.True(t, math.IsNaN(out[5]))
	assert.Equal(t, 3.0, out[2])
}

func TestWinsorizeAllMissing(t *testing.T) {
	values := []float64{math.NaN(), math.NaN()}
	out := Winsorize(values, 0.01, 0.99)
	require.Len(t, out, 2)
	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
}

func TestWinsorizeSigma(t *testing.T) {
	values := []float64{1, 2, 3, 2, 1, 2, 3, 2, 1, 2, 1000}
	out := WinsorizeSigma(values, 3)
	assert.Less(t, out[10], 1000.0)
	assert.Equal(t, 1.0, out[0])
}

func TestIndustryNeutralizeIdenticalGroupYieldsZero(t *testing.T) {
	values := []float64{5, 5, 5, 5, 5}
	groups := []string{"bank", "bank", "bank", "bank", "bank"}

	out := IndustryNeutralize(values, groups)
	for i, v := range out {
		assert.Zero(t, v, "member %d", i)
	}
}

func TestIndustryNeutralizeZScoresWithinGroup(t *testing.T) {
	values := []float64{1, 2, 3, 10, 20, 30}
	groups := []string{"a", "a", "a", "b", "b", "b"}

	out := IndustryNeutralize(values, groups)

	// both groups standardize to the same shape
	assert.InDelta(t, -1.0, out[0], 1e-9)
	assert.InDelta(t, 0.0, out[1], 1e-9)
	assert.InDelta(t, 1.0, out[2], 1e-9)
	assert.InDelta(t, out[0], out[3], 1e-9)
	assert.InDelta(t, out[2], out[5], 1e-9)
}

func TestIndustryNeutralizeSingleMember(t *testing.T) {
	out := IndustryNeutralize([]float64{7}, []string{"solo"})
	assert.Zero(t, out[0])
}

func TestSizeNeutralizeConstantPredictorIsNoOp(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	logCap := make([]float64, len(values))
	for i := range logCap {
		logCap[i] = 23.0
	}
	out := SizeNeutralize(values, logCap, 10)
	assert.Equal(t, values, out)
}

func TestSizeNeutralizeTooFewRowsIsNoOp(t *testing.T) {
	values := []float64{1, 2, 3}
	logCap := []float64{20, 21, 22}
	out := SizeNeutralize(values, logCap, 10)
	assert.Equal(t, values, out)
}

func TestSizeNeutralizeRemovesLinearEffect(t *testing.T) {
	n := 20
	values := make([]float64, n)
	logCap := make([]float64, n)
	for i := 0; i < n; i++ {
		logCap[i] = 20 + float64(i)*0.1
		values[i] = 3*logCap[i] + 1 // perfectly explained by size
	}
	out := SizeNeutralize(values, logCap, 10)
	for i, v := range out {
		assert.InDelta(t, 0.0, v, 1e-9, "row %d", i)
	}
}

func TestSizeNeutralizeMissingRowsPassThrough(t *testing.T) {
	n := 15
	values := make([]float64, n)
	logCap := make([]float64, n)
	for i := 0; i < n; i++ {
		logCap[i] = 20 + float64(i)*0.1
		values[i] = float64(i)
	}
	values[3] = math.NaN()
	logCap[7] = math.NaN()

	out := SizeNeutralize(values, logCap, 10)
	assert.True(t, math.IsNaN(out[3]))
	assert.Equal(t, 7.0, out[7]) // missing cap: original value kept
}

func TestOrthogonalizePreservesMean(t *testing.T) {
	n := 20
	primary := make([]float64, n)
	secondary := make([]float64, n)
	for i := 0; i < n; i++ {
		primary[i] = float64(i)
		secondary[i] = 2*float64(i) + 5 + math.Sin(float64(i))
	}
	out := Orthogonalize(primary, secondary)

	var wantMean, gotMean float64
	for i := 0; i < n; i++ {
		wantMean += secondary[i]
		gotMean += out[i]
	}
	assert.InDelta(t, wantMean/float64(n), gotMean/float64(n), 1e-9)
}

func TestOrthogonalizeDegenerateFallbacks(t *testing.T) {
	// zero-variance primary
	secondary := []float64{1, 2, 3, 4}
	out := Orthogonalize([]float64{5, 5, 5, 5}, secondary)
	assert.Equal(t, secondary, out)

	// fewer than 2 valid rows
	out = Orthogonalize([]float64{1, math.NaN(), math.NaN(), math.NaN()}, secondary)
	assert.Equal(t, secondary, out)
}

func TestFillMissingByGroup(t *testing.T) {
	values := []float64{1, 3, math.NaN(), 10, math.NaN()}
	groups := []string{"a", "a", "a", "b", "c"}

	out := FillMissingByGroup(values, groups)
	assert.InDelta(t, 2.0, out[2], 1e-9)             // group mean of a
	assert.InDelta(t, (1+3+10)/3.0, out[4], 1e-9)    // no data in c: overall mean
	assert.Equal(t, 10.0, out[3])
}

func TestRankNormalizeBounds(t *testing.T) {
	values := []float64{3, 1, 4, 1.5, 9, 2.6}
	out := RankNormalize(values)

	for i, v := range out {
		assert.GreaterOrEqual(t, v, -1.0, "row %d", i)
		assert.LessOrEqual(t, v, 1.0, "row %d", i)
	}
	// highest input gets the highest normalized value
	assert.Equal(t, 1.0, out[4])
	// ordering preserved
	assert.Less(t, out[1], out[3])
	assert.Less(t, out[3], out[5])
}

func TestRankNormalizeTiesAverage(t *testing.T) {
	out := RankNormalize([]float64{2, 2, 2})
	// identical values average out to the middle of the scale
	for _, v := range out {
		assert.InDelta(t, 2.0/3.0*2-1, v, 1e-9)
	}
	assert.Equal(t, out[0], out[1])
	assert.Equal(t, out[1], out[2])
}
