package stream

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Number 可以做求和统计的数值类型
type Number interface {
	constraints.Integer | constraints.Float
}

// Summary 单次遍历得到的统计结果
// Count 为 0 时 Sum/Min/Max 都是零值，Average 为 0
// Sum 统一用 float64 累加，int8 这种窄类型不会溢出；整数和超过 2^53 以后会丢精度
type Summary[N Number] struct {
	Count int64   `json:"count"`
	Sum   float64 `json:"sum"`
	Min   N       `json:"min"`
	Max   N       `json:"max"`
}

func (s *Summary[N]) accept(v N) {
	if s.Count == 0 {
		s.Min, s.Max = v, v
	} else {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Count++
	s.Sum += float64(v)
}

// Average 平均值，没有元素时为 0
func (s Summary[N]) Average() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

func (s Summary[N]) String() string {
	return fmt.Sprintf("Summary{count=%d, sum=%v, min=%v, average=%f, max=%v}",
		s.Count, s.Sum, s.Min, s.Average(), s.Max)
}

// SummaryStatistics 一次遍历算出 count/sum/min/max/average
func SummaryStatistics[N Number](p Pipeline[N]) (Summary[N], error) {
	return SummarizingBy(p, func(v N) N { return v })
}

// SummarizingBy 先用 fn 取数值再统计，相当于 summarizingXxx(fn)
func SummarizingBy[T any, N Number](p Pipeline[T], fn func(T) N) (Summary[N], error) {
	var s Summary[N]
	err := p.run("SummaryStatistics", func(v T) (bool, error) {
		s.accept(fn(v))
		return true, nil
	})
	if err != nil {
		return Summary[N]{}, err
	}
	return s, nil
}

// Sum 空流得到 0
func Sum[N Number](p Pipeline[N]) (N, error) {
	return Fold(p, N(0), func(acc, v N) N { return acc + v })
}

// Average 空流返回 false
func Average[N Number](p Pipeline[N]) (float64, bool, error) {
	s, err := SummaryStatistics(p)
	if err != nil || s.Count == 0 {
		return 0, false, err
	}
	return s.Average(), true, nil
}

// MinNatural 自然顺序的最小值
func MinNatural[T Ordered](p Pipeline[T]) (T, bool, error) {
	return p.Min(Natural[T])
}

// MaxNatural 自然顺序的最大值
func MaxNatural[T Ordered](p Pipeline[T]) (T, bool, error) {
	return p.Max(Natural[T])
}
