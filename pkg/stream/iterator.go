package stream

// Iterator 是拉取式的迭代器，流水线的每一级都是一个 Iterator
// 返回 (零值, false, nil) 表示已经耗尽
type Iterator[T any] interface {
	Next() (T, bool, error)
}

// IteratorFunc 让普通函数直接满足 Iterator 接口
type IteratorFunc[T any] func() (T, bool, error)

func (f IteratorFunc[T]) Next() (T, bool, error) {
	return f()
}

type sliceIter[T any] struct {
	items []T
	index int
}

// 只持有切片头，不拷贝数据，遍历期间修改切片是调用者的责任
func (it *sliceIter[T]) Next() (T, bool, error) {
	if it.index >= len(it.items) {
		var zero T
		return zero, false, nil
	}
	v := it.items[it.index]
	it.index++
	return v, true, nil
}

// rangeIter 按闭区间 [cur, last] 计数，不做 last+1，避免 last == math.MaxInt 时溢出
type rangeIter struct {
	cur  int
	last int
	done bool
}

func newRangeIter(start, last int) *rangeIter {
	return &rangeIter{cur: start, last: last, done: start > last}
}

func (it *rangeIter) Next() (int, bool, error) {
	if it.done {
		return 0, false, nil
	}
	v := it.cur
	if v == it.last {
		it.done = true
	} else {
		it.cur++
	}
	return v, true, nil
}

type emptyIter[T any] struct{}

func (emptyIter[T]) Next() (T, bool, error) {
	var zero T
	return zero, false, nil
}

// CloseableIterator 需要调用者释放的迭代器，Close 可以重复调用
type CloseableIterator[T any] interface {
	Iterator[T]
	Close() error
}

type ownedIter[T any] struct {
	Iterator[T]
	closed bool
}

func (it *ownedIter[T]) Next() (T, bool, error) {
	if it.closed {
		var zero T
		return zero, false, nil
	}
	return it.Iterator.Next()
}

func (it *ownedIter[T]) Close() error {
	if !it.closed {
		it.closed = true
		closeIter(it.Iterator)
	}
	return nil
}

// closeIter 如果迭代器持有资源(实现了 Close)就释放掉
func closeIter[T any](it Iterator[T]) {
	if c, ok := it.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}

// drain 把迭代器一直拉到底，fn 返回 false 表示提前终止(短路)
func drain[T any](it Iterator[T], fn func(T) (bool, error)) error {
	for {
		v, ok, err := it.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		more, err := fn(v)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}
