package stream

import (
	"fmt"
	"sort"

	"github.com/mohae/deepcopy"
)

// Filter 只保留满足 pred 的元素
func (p Pipeline[T]) Filter(pred func(T) bool) Pipeline[T] {
	return p.FilterErr(func(v T) (bool, error) { return pred(v), nil })
}

// FilterErr 谓词自己可能失败，错误原样抛给终结操作的调用者
func (p Pipeline[T]) FilterErr(pred func(T) (bool, error)) Pipeline[T] {
	return derive(p, "Filter", func(src Iterator[T]) Iterator[T] {
		return &filterIter[T]{source: src, pred: pred}
	})
}

// Peek 对每个经过的元素执行副作用，元素本身原样往下游传
// 副作用和下游消费是交错执行的，不会攒批
func (p Pipeline[T]) Peek(fn func(T)) Pipeline[T] {
	return p.PeekErr(func(v T) error { fn(v); return nil })
}

func (p Pipeline[T]) PeekErr(fn func(T) error) Pipeline[T] {
	return derive(p, "Peek", func(src Iterator[T]) Iterator[T] {
		return &peekIter[T]{source: src, fn: fn}
	})
}

// Sorted 稳定排序，cmp 返回负数表示 a 排在 b 前面
//
// 注意: Sorted 是惰性链中的一道屏障，第一次被拉取时会把上游全部读进缓冲区
// 排好序后才吐出第一个元素，下游的 Limit/FindFirst 也无法让上游少干活
func (p Pipeline[T]) Sorted(cmp func(a, b T) int) Pipeline[T] {
	return derive(p, "Sorted", func(src Iterator[T]) Iterator[T] {
		return &sortedIter[T]{source: src, cmp: cmp}
	})
}

// Skip 丢掉前 n 个元素
func (p Pipeline[T]) Skip(n int) Pipeline[T] {
	return derive(p, fmt.Sprintf("Skip(%d)", n), func(src Iterator[T]) Iterator[T] {
		return &skipIter[T]{source: src, n: n}
	})
}

// Limit 最多放行 n 个元素，放够了就不再向上游拉取
func (p Pipeline[T]) Limit(n int) Pipeline[T] {
	return derive(p, fmt.Sprintf("Limit(%d)", n), func(src Iterator[T]) Iterator[T] {
		return &limitIter[T]{source: src, n: n}
	})
}

// Detached 对每个经过的元素做深拷贝，下游通过指针/切片字段做的修改不会污染源数据
func (p Pipeline[T]) Detached() Pipeline[T] {
	return derive(p, "Detached", func(src Iterator[T]) Iterator[T] {
		return &mapIter[T, T]{source: src, fn: func(v T) (T, error) {
			// nil 接口拷贝出来还是 nil，断言会失败，原样返回即可
			if c, ok := deepcopy.Copy(v).(T); ok {
				return c, nil
			}
			return v, nil
		}}
	})
}

// Map 映射元素为另一个类型
func Map[T, U any](p Pipeline[T], fn func(T) U) Pipeline[U] {
	return MapErr(p, func(v T) (U, error) { return fn(v), nil })
}

func MapErr[T, U any](p Pipeline[T], fn func(T) (U, error)) Pipeline[U] {
	return derive(p, "Map", func(src Iterator[T]) Iterator[U] {
		return &mapIter[T, U]{source: src, fn: fn}
	})
}

// FlatMap 把每个元素展开成一个子序列，子序列之间保持上游的先后顺序
func FlatMap[T, U any](p Pipeline[T], fn func(T) []U) Pipeline[U] {
	return FlatMapErr(p, func(v T) ([]U, error) { return fn(v), nil })
}

func FlatMapErr[T, U any](p Pipeline[T], fn func(T) ([]U, error)) Pipeline[U] {
	return derive(p, "FlatMap", func(src Iterator[T]) Iterator[U] {
		return &flatMapIter[T, U]{source: src, fn: func(v T) (Iterator[U], error) {
			items, err := fn(v)
			if err != nil {
				return nil, err
			}
			return &sliceIter[U]{items: items}, nil
		}}
	})
}

// FlatMapPipeline 子序列本身也是一条流水线，每条子流水线会被完整消费
func FlatMapPipeline[T, U any](p Pipeline[T], fn func(T) Pipeline[U]) Pipeline[U] {
	return derive(p, "FlatMap", func(src Iterator[T]) Iterator[U] {
		return &flatMapIter[T, U]{source: src, fn: func(v T) (Iterator[U], error) {
			return fn(v).begin("FlatMap")
		}}
	})
}

// Distinct 按值去重，保留第一次出现的顺序
func Distinct[T comparable](p Pipeline[T]) Pipeline[T] {
	return distinctBy(p, "Distinct", func(v T) T { return v })
}

// DistinctBy 按 key 去重，key 相同的只保留第一个
func DistinctBy[T any, K comparable](p Pipeline[T], key func(T) K) Pipeline[T] {
	return distinctBy(p, "DistinctBy", key)
}

func distinctBy[T any, K comparable](p Pipeline[T], name string, key func(T) K) Pipeline[T] {
	return derive(p, name, func(src Iterator[T]) Iterator[T] {
		// seen 只属于这一次遍历
		return &distinctIter[T, K]{source: src, key: key, seen: make(map[K]struct{})}
	})
}

// SortedNatural 按自然顺序升序
func SortedNatural[T Ordered](p Pipeline[T]) Pipeline[T] {
	return p.Sorted(Natural[T])
}

// SortedBy 按提取出来的 key 升序
func SortedBy[T any, K Ordered](p Pipeline[T], key func(T) K) Pipeline[T] {
	return p.Sorted(Comparing(key))
}

// --- 阶段迭代器 ---

type filterIter[T any] struct {
	source Iterator[T]
	pred   func(T) (bool, error)
}

func (it *filterIter[T]) Next() (T, bool, error) {
	var zero T
	for {
		v, ok, err := it.source.Next()
		if err != nil || !ok {
			return zero, false, err
		}
		keep, err := it.pred(v)
		if err != nil {
			return zero, false, err
		}
		if keep {
			return v, true, nil
		}
	}
}

func (it *filterIter[T]) Close() error { closeIter(it.source); return nil }

type peekIter[T any] struct {
	source Iterator[T]
	fn     func(T) error
}

func (it *peekIter[T]) Next() (T, bool, error) {
	var zero T
	v, ok, err := it.source.Next()
	if err != nil || !ok {
		return zero, false, err
	}
	if err := it.fn(v); err != nil {
		return zero, false, err
	}
	return v, true, nil
}

func (it *peekIter[T]) Close() error { closeIter(it.source); return nil }

type mapIter[T, U any] struct {
	source Iterator[T]
	fn     func(T) (U, error)
}

func (it *mapIter[T, U]) Next() (U, bool, error) {
	var zero U
	v, ok, err := it.source.Next()
	if err != nil || !ok {
		return zero, false, err
	}
	out, err := it.fn(v)
	if err != nil {
		return zero, false, err
	}
	return out, true, nil
}

func (it *mapIter[T, U]) Close() error { closeIter(it.source); return nil }

type flatMapIter[T, U any] struct {
	source  Iterator[T]
	fn      func(T) (Iterator[U], error)
	current Iterator[U]
}

// 当前子序列耗尽之前不会向上游拉取下一个元素
func (it *flatMapIter[T, U]) Next() (U, bool, error) {
	var zero U
	for {
		if it.current != nil {
			v, ok, err := it.current.Next()
			if err != nil {
				return zero, false, err
			}
			if ok {
				return v, true, nil
			}
			closeIter(it.current)
			it.current = nil
		}

		v, ok, err := it.source.Next()
		if err != nil || !ok {
			return zero, false, err
		}
		sub, err := it.fn(v)
		if err != nil {
			return zero, false, err
		}
		it.current = sub
	}
}

func (it *flatMapIter[T, U]) Close() error {
	if it.current != nil {
		closeIter(it.current)
	}
	closeIter(it.source)
	return nil
}

type distinctIter[T any, K comparable] struct {
	source Iterator[T]
	key    func(T) K
	seen   map[K]struct{}
}

func (it *distinctIter[T, K]) Next() (T, bool, error) {
	var zero T
	for {
		v, ok, err := it.source.Next()
		if err != nil || !ok {
			return zero, false, err
		}
		k := it.key(v)
		var dup bool
		if err := guardKey(func() {
			if _, dup = it.seen[k]; !dup {
				it.seen[k] = struct{}{}
			}
		}); err != nil {
			return zero, false, err
		}
		if dup {
			continue
		}
		return v, true, nil
	}
}

func (it *distinctIter[T, K]) Close() error { closeIter(it.source); return nil }

type sortedIter[T any] struct {
	source Iterator[T]
	cmp    func(a, b T) int
	buf    []T
	loaded bool
	index  int
}

func (it *sortedIter[T]) Next() (T, bool, error) {
	var zero T
	if !it.loaded {
		err := drain(it.source, func(v T) (bool, error) {
			it.buf = append(it.buf, v)
			return true, nil
		})
		if err != nil {
			it.buf = nil
			return zero, false, err
		}
		sort.SliceStable(it.buf, func(i, j int) bool {
			return it.cmp(it.buf[i], it.buf[j]) < 0
		})
		it.loaded = true
	}
	if it.index >= len(it.buf) {
		return zero, false, nil
	}
	v := it.buf[it.index]
	it.index++
	return v, true, nil
}

func (it *sortedIter[T]) Close() error { closeIter(it.source); return nil }

type skipIter[T any] struct {
	source  Iterator[T]
	n       int
	skipped bool
}

func (it *skipIter[T]) Next() (T, bool, error) {
	var zero T
	if !it.skipped {
		if it.n < 0 {
			return zero, false, ErrNegativeCount
		}
		it.skipped = true
		for i := 0; i < it.n; i++ {
			_, ok, err := it.source.Next()
			if err != nil || !ok {
				return zero, false, err
			}
		}
	}
	return it.source.Next()
}

func (it *skipIter[T]) Close() error { closeIter(it.source); return nil }

type limitIter[T any] struct {
	source Iterator[T]
	n      int
	count  int
}

func (it *limitIter[T]) Next() (T, bool, error) {
	var zero T
	if it.n < 0 {
		return zero, false, ErrNegativeCount
	}
	if it.count >= it.n {
		return zero, false, nil
	}
	v, ok, err := it.source.Next()
	if err != nil || !ok {
		return zero, false, err
	}
	it.count++
	return v, true, nil
}

func (it *limitIter[T]) Close() error { closeIter(it.source); return nil }
