package stream

import "golang.org/x/exp/constraints"

// Ordered 可以用 < > 比较大小的类型
type Ordered = constraints.Ordered

// Natural 自然顺序比较器
// 浮点数的 NaN 排在最大，两个 NaN 相等，排序和 Min/Max 的结果不随输入顺序变化
func Natural[T Ordered](a, b T) int {
	aNaN, bNaN := a != a, b != b
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Comparing 按 key 的自然顺序比较，例如 Comparing(func(u User) string { return u.Name })
func Comparing[T any, K Ordered](key func(T) K) func(a, b T) int {
	return func(a, b T) int {
		return Natural(key(a), key(b))
	}
}

// Reversed 反转比较器
func Reversed[T any](cmp func(a, b T) int) func(a, b T) int {
	return func(a, b T) int {
		return cmp(b, a)
	}
}

// ThenComparing 第一个比较器相等的时候再用第二个
func ThenComparing[T any](first, second func(a, b T) int) func(a, b T) int {
	return func(a, b T) int {
		if c := first(a, b); c != 0 {
			return c
		}
		return second(a, b)
	}
}
