package stream

import (
	"fmt"
	"iter"
)

// FromCollection 把已有的切片包装成流水线的源，不拷贝数据
func FromCollection[T any](c []T) Pipeline[T] {
	return newSource(fmt.Sprintf("FromCollection(%d)", len(c)), func() Iterator[T] {
		return &sliceIter[T]{items: c}
	})
}

// Of 用可变参数构造源，等价于 FromCollection(values)
func Of[T any](values ...T) Pipeline[T] {
	return FromCollection(values)
}

// Empty 没有任何元素的源
func Empty[T any]() Pipeline[T] {
	return newSource("Empty", func() Iterator[T] {
		return emptyIter[T]{}
	})
}

// FromRange 生成 [start, end) 的整数序列，end <= start 时为空
func FromRange(start, end int) Pipeline[int] {
	return newSource(fmt.Sprintf("FromRange(%d,%d)", start, end), func() Iterator[int] {
		if end <= start {
			return emptyIter[int]{}
		}
		return newRangeIter(start, end-1)
	})
}

// FromRangeClosed 生成 [start, end] 的整数序列，end 可以是 math.MaxInt
func FromRangeClosed(start, end int) Pipeline[int] {
	return newSource(fmt.Sprintf("FromRangeClosed(%d,%d)", start, end), func() Iterator[int] {
		return newRangeIter(start, end)
	})
}

// FromIterator 直接使用调用者提供的迭代器
// 迭代器本身是有状态的，所以这种源天然只能遍历一次
func FromIterator[T any](it Iterator[T]) Pipeline[T] {
	return newSource("FromIterator", func() Iterator[T] {
		return it
	})
}

// FromSeq 适配 Go 1.23 的 iter.Seq
func FromSeq[T any](seq iter.Seq[T]) Pipeline[T] {
	return newSource("FromSeq", func() Iterator[T] {
		next, stop := iter.Pull(seq)
		return &seqIter[T]{next: next, stop: stop}
	})
}

type seqIter[T any] struct {
	next func() (T, bool)
	stop func()
}

func (it *seqIter[T]) Next() (T, bool, error) {
	v, ok := it.next()
	return v, ok, nil
}

// Close 释放 iter.Pull 占用的协程，短路的时候必须调用
func (it *seqIter[T]) Close() error {
	it.stop()
	return nil
}

// Iterate 无限序列 seed, next(seed), next(next(seed)) ...
// 必须配合 Limit 或者短路终结操作使用
func Iterate[T any](seed T, next func(T) T) Pipeline[T] {
	return newSource("Iterate", func() Iterator[T] {
		cur, started := seed, false
		return IteratorFunc[T](func() (T, bool, error) {
			if started {
				cur = next(cur)
			}
			started = true
			return cur, true, nil
		})
	})
}
