package stream_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stream_tool/pkg/stream"
)

func TestSummaryStatistics(t *testing.T) {
	tests := []struct {
		name  string
		input []int
		want  stream.Summary[int]
		avg   float64
	}{
		{"Empty", nil, stream.Summary[int]{}, 0},
		{"Single", []int{-4}, stream.Summary[int]{Count: 1, Sum: -4, Min: -4, Max: -4}, -4},
		{"UserIDs", []int{1, 2, 3, 4, 5, 1}, stream.Summary[int]{Count: 6, Sum: 16, Min: 1, Max: 5}, 16.0 / 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := stream.SummaryStatistics(stream.FromCollection(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, s)
			assert.InDelta(t, tt.avg, s.Average(), 1e-9)
		})
	}
}

// 窄整数类型求和不会在元素类型里溢出
func TestSummaryWideSum(t *testing.T) {
	s, err := stream.SummaryStatistics(stream.Of[int8](100, 100))
	require.NoError(t, err)
	assert.Equal(t, stream.Summary[int8]{Count: 2, Sum: 200, Min: 100, Max: 100}, s)
	assert.Equal(t, 100.0, s.Average())
	assert.Equal(t, "Summary{count=2, sum=200, min=100, average=100.000000, max=100}", s.String())

	u, err := stream.SummarizingBy(stream.FromRange(0, 300), func(n int) uint8 { return 255 })
	require.NoError(t, err)
	assert.Equal(t, float64(255*300), u.Sum)
	assert.Equal(t, uint8(255), u.Max)
}

func TestSummarizingBy(t *testing.T) {
	s, err := stream.SummarizingBy(stream.FromCollection(newUsers()), func(u User) float64 { return float64(u.ID) })
	require.NoError(t, err)
	assert.Equal(t, int64(6), s.Count)
	assert.Equal(t, 16.0, s.Sum)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.Equal(t, "Summary{count=6, sum=16, min=1, average=2.666667, max=5}", s.String())
}

func TestSumAverage(t *testing.T) {
	sum, err := stream.Sum(stream.FromRange(0, 100))
	require.NoError(t, err)
	assert.Equal(t, 4950, sum)

	zero, err := stream.Sum(stream.Empty[float64]())
	require.NoError(t, err)
	assert.Equal(t, 0.0, zero)

	avg, ok, err := stream.Average(stream.Of(1, 2, 3, 4))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2.5, avg)

	_, ok, err = stream.Average(stream.Empty[int]())
	require.NoError(t, err)
	assert.False(t, ok)
}
