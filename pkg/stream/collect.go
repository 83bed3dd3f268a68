package stream

import (
	"strings"

	"github.com/armon/go-radix"
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/google/btree"
)

// Fold 和 Reduce 一样从左到右折叠，但累加器可以是别的类型
func Fold[T, R any](p Pipeline[T], identity R, op func(acc R, v T) R) (R, error) {
	acc := identity
	err := p.run("Reduce", func(v T) (bool, error) {
		acc = op(acc, v)
		return true, nil
	})
	if err != nil {
		var zero R
		return zero, err
	}
	return acc, nil
}

// ToSet 按值去重收集，集合本身无序
func ToSet[T comparable](p Pipeline[T]) (map[T]struct{}, error) {
	set := make(map[T]struct{})
	err := p.run("ToSet", func(v T) (bool, error) {
		return true, guardKey(func() { set[v] = struct{}{} })
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// MapToList 先映射再收集，相当于 mapping(fn, toList())
func MapToList[T, U any](p Pipeline[T], fn func(T) U) ([]U, error) {
	return Map(p, fn).ToList()
}

// Joining 把每个元素转成字符串后用 sep 连接，空流得到空串
func Joining[T any](p Pipeline[T], toString func(T) string, sep string) (string, error) {
	var b strings.Builder
	first := true
	err := p.run("Joining", func(v T) (bool, error) {
		if !first {
			b.WriteString(sep)
		}
		first = false
		b.WriteString(toString(v))
		return true, nil
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// JoinStrings 字符串流直接连接
func JoinStrings(p Pipeline[string], sep string) (string, error) {
	return Joining(p, func(s string) string { return s }, sep)
}

// Partition 是 PartitioningBy 的结果，两个分支总是存在(可能为空)
type Partition[T any] struct {
	Matched   []T `json:"true"`
	Unmatched []T `json:"false"`
}

// Get 按布尔键取分支
func (pt Partition[T]) Get(key bool) []T {
	if key {
		return pt.Matched
	}
	return pt.Unmatched
}

// PartitioningBy 按 pred 一分为二，两边都保持输入顺序
func (p Pipeline[T]) PartitioningBy(pred func(T) bool) (Partition[T], error) {
	pt := Partition[T]{Matched: make([]T, 0), Unmatched: make([]T, 0)}
	err := p.run("PartitioningBy", func(v T) (bool, error) {
		if pred(v) {
			pt.Matched = append(pt.Matched, v)
		} else {
			pt.Unmatched = append(pt.Unmatched, v)
		}
		return true, nil
	})
	if err != nil {
		return Partition[T]{}, err
	}
	return pt, nil
}

// Grouping 保持 key 首次出现顺序的分组结果
// 底层是 gods 的 linkedhashmap，只有真正出现过的 key 才会存在
type Grouping[K comparable, T any] struct {
	m *linkedhashmap.Map
}

func (g *Grouping[K, T]) add(k K, v T) error {
	return guardKey(func() {
		var items []T
		if old, found := g.m.Get(k); found {
			items = old.([]T)
		}
		g.m.Put(k, append(items, v))
	})
}

// Get 取某个 key 的元素，保持插入顺序
func (g *Grouping[K, T]) Get(k K) ([]T, bool) {
	v, found := g.m.Get(k)
	if !found {
		return nil, false
	}
	return v.([]T), true
}

// Keys 按首次出现顺序返回所有 key
func (g *Grouping[K, T]) Keys() []K {
	keys := make([]K, 0, g.m.Size())
	for _, k := range g.m.Keys() {
		keys = append(keys, k.(K))
	}
	return keys
}

func (g *Grouping[K, T]) Len() int {
	return g.m.Size()
}

// Each 按 key 顺序遍历
func (g *Grouping[K, T]) Each(fn func(k K, items []T)) {
	g.m.Each(func(k, v interface{}) {
		fn(k.(K), v.([]T))
	})
}

// GroupingBy 按 keyFn 分组，分组内保持元素的插入顺序
func GroupingBy[T any, K comparable](p Pipeline[T], keyFn func(T) K) (*Grouping[K, T], error) {
	g := &Grouping[K, T]{m: linkedhashmap.New()}
	err := p.run("GroupingBy", func(v T) (bool, error) {
		return true, g.add(keyFn(v), v)
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Counting 分组计数结果，key 保持首次出现的顺序
type Counting[K comparable] struct {
	m *linkedhashmap.Map
}

func (c *Counting[K]) Get(k K) (int64, bool) {
	v, found := c.m.Get(k)
	if !found {
		return 0, false
	}
	return v.(int64), true
}

func (c *Counting[K]) Keys() []K {
	keys := make([]K, 0, c.m.Size())
	for _, k := range c.m.Keys() {
		keys = append(keys, k.(K))
	}
	return keys
}

func (c *Counting[K]) Len() int {
	return c.m.Size()
}

// GroupingByCounting 相当于 groupingBy(fn, counting())，不保留元素本身
func GroupingByCounting[T any, K comparable](p Pipeline[T], keyFn func(T) K) (*Counting[K], error) {
	m := linkedhashmap.New()
	err := p.run("GroupingByCounting", func(v T) (bool, error) {
		k := keyFn(v)
		return true, guardKey(func() {
			var n int64
			if old, found := m.Get(k); found {
				n = old.(int64)
			}
			m.Put(k, n+1)
		})
	})
	if err != nil {
		return nil, err
	}
	return &Counting[K]{m: m}, nil
}

// SortedGrouping 按比较器给 key 排序的分组结果(gods treemap)
type SortedGrouping[K any, T any] struct {
	m *treemap.Map
}

func (g *SortedGrouping[K, T]) Get(k K) ([]T, bool) {
	v, found := g.m.Get(k)
	if !found {
		return nil, false
	}
	return v.([]T), true
}

// Keys 按比较器升序
func (g *SortedGrouping[K, T]) Keys() []K {
	keys := make([]K, 0, g.m.Size())
	for _, k := range g.m.Keys() {
		keys = append(keys, k.(K))
	}
	return keys
}

func (g *SortedGrouping[K, T]) Len() int {
	return g.m.Size()
}

func (g *SortedGrouping[K, T]) Each(fn func(k K, items []T)) {
	g.m.Each(func(k, v interface{}) {
		fn(k.(K), v.([]T))
	})
}

// GroupingBySorted 类似 groupingBy(fn, TreeMap::new)，key 按 cmp 有序
func GroupingBySorted[T any, K any](p Pipeline[T], keyFn func(T) K, cmp func(a, b K) int) (*SortedGrouping[K, T], error) {
	m := treemap.NewWith(func(a, b interface{}) int {
		return cmp(a.(K), b.(K))
	})
	err := p.run("GroupingBySorted", func(v T) (bool, error) {
		k := keyFn(v)
		var items []T
		if old, found := m.Get(k); found {
			items = old.([]T)
		}
		m.Put(k, append(items, v))
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &SortedGrouping[K, T]{m: m}, nil
}

// ToSortedSet 收集成有序且去重的切片，less 判定相等的元素只保留第一个
func ToSortedSet[T any](p Pipeline[T], less func(a, b T) bool) ([]T, error) {
	tr := btree.NewG(2, btree.LessFunc[T](less))
	err := p.run("ToSortedSet", func(v T) (bool, error) {
		if !tr.Has(v) {
			tr.ReplaceOrInsert(v)
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, tr.Len())
	tr.Ascend(func(v T) bool {
		out = append(out, v)
		return true
	})
	return out, nil
}

// PrefixIndex 按字符串 key 建立的前缀索引(go-radix)
type PrefixIndex[T any] struct {
	tree *radix.Tree
}

// Get 精确匹配 key
func (ix *PrefixIndex[T]) Get(key string) ([]T, bool) {
	v, found := ix.tree.Get(key)
	if !found {
		return nil, false
	}
	return v.([]T), true
}

// WithPrefix 返回 key 以 prefix 开头的所有元素，key 按字典序，同 key 内保持插入顺序
func (ix *PrefixIndex[T]) WithPrefix(prefix string) []T {
	out := make([]T, 0)
	ix.tree.WalkPrefix(prefix, func(_ string, v interface{}) bool {
		out = append(out, v.([]T)...)
		return false
	})
	return out
}

// Len 不同 key 的个数
func (ix *PrefixIndex[T]) Len() int {
	return ix.tree.Len()
}

// ToPrefixIndex 按 key 收集元素，之后可以做前缀查询
func ToPrefixIndex[T any](p Pipeline[T], key func(T) string) (*PrefixIndex[T], error) {
	tree := radix.New()
	err := p.run("ToPrefixIndex", func(v T) (bool, error) {
		k := key(v)
		var items []T
		if old, found := tree.Get(k); found {
			items = old.([]T)
		}
		tree.Insert(k, append(items, v))
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &PrefixIndex[T]{tree: tree}, nil
}
