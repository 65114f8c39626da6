package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	cases := []struct {
		total float64
		max   int
		want  Result
	}{
		{0, 30, Result{"F", 0, 0}},
		{27, 30, Result{"A+", 10, 90}},
		{15, 30, Result{"C+", 6, 50}},
		{8.5, 10, Result{"A", 9, 85}},
		{2.9, 10, Result{"E", 2, 29}},
		{0.9, 10, Result{"F", 0, 9}},
		{12, 0, Result{"F", 0, 0}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Calculate(tc.total, tc.max), "total=%v max=%v", tc.total, tc.max)
	}
}

func TestCalculate_Monotonic(t *testing.T) {
	const max = 30
	prev := Calculate(0, max)
	for i := 1; i <= max*10; i++ {
		cur := Calculate(float64(i)/10, max)
		require.GreaterOrEqual(t, cur.GradePoint, prev.GradePoint, "total=%v", float64(i)/10)
		require.GreaterOrEqual(t, cur.NormalizedScore, prev.NormalizedScore)
		prev = cur
	}
}

func TestCalculateGeneric_UsesSeparateTable(t *testing.T) {
	// 同样 70 分，两张表给出不同结果
	detail := Calculate(21, 30)
	generic := CalculateGeneric(21, 30)
	assert.Equal(t, "B+", detail.Grade)
	assert.Equal(t, 8, detail.GradePoint)
	assert.Equal(t, "A", generic.Grade)
	assert.Equal(t, 4, generic.GradePoint)
	assert.Equal(t, detail.NormalizedScore, generic.NormalizedScore)

	assert.Equal(t, Result{"C", 1, 0}, CalculateGeneric(0, 0))
	assert.Equal(t, Result{"A+", 5, 100}, CalculateGeneric(10, 10))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, 33.3, Normalize(10, 30))
	assert.Equal(t, 66.7, Normalize(20, 30))
	assert.Equal(t, 0.0, Normalize(5, 0))
}
