package stream_test

import (
	"errors"
	"iter"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stream_tool/internal/testutils"
	"stream_tool/pkg/stream"
)

type User struct {
	ID   int
	Name string
}

func newUsers() []User {
	return []User{
		{ID: 1, Name: "Alberto"},
		{ID: 2, Name: "Marta"},
		{ID: 3, Name: "Maria"},
		{ID: 4, Name: "Pablo"},
		{ID: 5, Name: "Adolfo"},
		{ID: 1, Name: "Alberto"},
	}
}

var errBoom = errors.New("boom")

// 没有终结操作之前任何回调都不会执行
func TestLazyUntilTerminal(t *testing.T) {
	spy := &testutils.Spy[int]{}
	p := stream.Map(
		stream.Of(1, 2, 3).Filter(spy.Pred("filter", func(int) bool { return true })).Peek(spy.Action("peek")),
		func(n int) int { spy.Record("map", n); return n },
	)
	assert.Equal(t, 0, spy.Count())
	assert.Equal(t, []string{"FromCollection(3)", "Filter", "Peek", "Map"}, p.Stages())
	assert.False(t, p.Consumed(), "Stages 不应该消费流水线")

	_, err := p.ToList()
	require.NoError(t, err)
	assert.Equal(t, 9, spy.Count())
}

// 每个元素走完整条链之后才轮到下一个
func TestElementsInterleave(t *testing.T) {
	spy := &testutils.Spy[int]{}
	err := stream.Of(1, 2).
		Peek(spy.Action("peek")).
		Filter(spy.Pred("filter", func(int) bool { return true })).
		ForEach(spy.Action("each"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"peek:1", "filter:1", "each:1",
		"peek:2", "filter:2", "each:2",
	}, spy.Calls)
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		pred func(User) bool
		want []int
	}{
		{"AllPass", func(User) bool { return true }, []int{1, 2, 3, 4, 5, 1}},
		{"NonePass", func(User) bool { return false }, []int{}},
		{"IDLessThan3", func(u User) bool { return u.ID < 3 }, []int{1, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := stream.Map(stream.FromCollection(newUsers()).Filter(tt.pred), func(u User) int { return u.ID })
			got, err := p.ToList()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// 连续两个 Filter 等价于 与 的关系
func TestFilterChain(t *testing.T) {
	got, err := stream.FromCollection(newUsers()).
		Filter(func(u User) bool { return u.Name != "Alberto" }).
		Filter(func(u User) bool { return u.ID < 3 }).
		ToList()
	require.NoError(t, err)
	assert.Equal(t, []User{{ID: 2, Name: "Marta"}}, got)
}

func TestMap(t *testing.T) {
	got, err := stream.Map(stream.FromCollection(newUsers()), func(u User) string { return u.Name }).ToList()
	require.NoError(t, err)
	assert.Equal(t, []string{"Alberto", "Marta", "Maria", "Pablo", "Adolfo", "Alberto"}, got)
}

func TestFlatMap(t *testing.T) {
	lists := [][]string{{"Alberto", "Maria", "Pedro"}, {}, {"Mónica", "Pablo"}}

	t.Run("Slices", func(t *testing.T) {
		got, err := stream.FlatMap(stream.FromCollection(lists), func(l []string) []string { return l }).ToList()
		require.NoError(t, err)
		assert.Equal(t, []string{"Alberto", "Maria", "Pedro", "Mónica", "Pablo"}, got)
	})

	t.Run("SubPipelines", func(t *testing.T) {
		p := stream.FlatMapPipeline(stream.FromRangeClosed(1, 3), func(n int) stream.Pipeline[int] {
			return stream.FromRange(0, n)
		})
		got, err := p.ToList()
		require.NoError(t, err)
		assert.Equal(t, []int{0, 0, 1, 0, 1, 2}, got)
	})

	// 当前子序列没吐完之前不会拉上游的下一个元素
	t.Run("PullsUpstreamLazily", func(t *testing.T) {
		spy := &testutils.Spy[[]string]{}
		first, ok, err := stream.FlatMap(stream.FromCollection(lists).Peek(spy.Action("up")),
			func(l []string) []string { return l }).FindFirst()
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "Alberto", first)
		assert.Equal(t, 1, spy.Count())
	})
}

func TestPeek(t *testing.T) {
	t.Run("PassesElementsThrough", func(t *testing.T) {
		var seen []int
		got, err := stream.Of(3, 1, 2).Peek(func(n int) { seen = append(seen, n) }).ToList()
		require.NoError(t, err)
		assert.Equal(t, []int{3, 1, 2}, got)
		assert.Equal(t, got, seen)
	})

	// 指针元素在 Peek 里修改会影响源数据
	t.Run("MutatesReferences", func(t *testing.T) {
		users := []*User{{ID: 1, Name: "Alberto"}, {ID: 2, Name: "Marta"}}
		_, err := stream.FromCollection(users).Peek(func(u *User) { u.Name += " Apellido" }).ToList()
		require.NoError(t, err)
		assert.Equal(t, "Alberto Apellido", users[0].Name)
	})

	t.Run("DetachedKeepsSource", func(t *testing.T) {
		users := []*User{{ID: 1, Name: "Alberto"}, {ID: 2, Name: "Marta"}}
		out, err := stream.FromCollection(users).Detached().Peek(func(u *User) { u.Name += " Apellido" }).ToList()
		require.NoError(t, err)
		assert.Equal(t, "Alberto", users[0].Name)
		assert.Equal(t, "Alberto Apellido", out[0].Name)
	})
}

func TestSkipLimit(t *testing.T) {
	tests := []struct {
		name        string
		skip, limit int
		want        []string
	}{
		{"Middle", 2, 4, []string{"c", "d", "e", "f"}},
		{"SkipNothing", 0, 3, []string{"a", "b", "c"}},
		{"LimitZero", 2, 0, []string{}},
		{"SkipPastEnd", 20, 4, []string{}},
		{"LimitPastEnd", 8, 10, []string{"i", "j"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := stream.FromCollection(testutils.Letters()).Skip(tt.skip).Limit(tt.limit).ToList()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Limit 放够了就不再向上游要数据
func TestLimitStopsPulling(t *testing.T) {
	spy := &testutils.Spy[int]{}
	got, err := stream.FromRange(0, 1000).Peek(spy.Action("up")).Limit(3).ToList()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.Equal(t, 3, spy.Count())

	spy.Reset()
	_, err = stream.FromRange(0, 1000).Peek(spy.Action("up")).Limit(0).Count()
	require.NoError(t, err)
	assert.Equal(t, 0, spy.Count())
}

func TestNegativeCount(t *testing.T) {
	_, err := stream.Of(1, 2, 3).Skip(-1).ToList()
	assert.ErrorIs(t, err, stream.ErrNegativeCount)

	_, err = stream.Of(1, 2, 3).Limit(-1).Count()
	assert.ErrorIs(t, err, stream.ErrNegativeCount)
}

func TestSorted(t *testing.T) {
	t.Run("Natural", func(t *testing.T) {
		got, err := stream.SortedNatural(stream.Of(5, 3, 9, 1, 3)).ToList()
		require.NoError(t, err)
		assert.Equal(t, []int{1, 3, 3, 5, 9}, got)
	})

	t.Run("ByNameStable", func(t *testing.T) {
		got, err := stream.Map(stream.SortedBy(stream.FromCollection(newUsers()), func(u User) string { return u.Name }),
			func(u User) string { return u.Name }).ToList()
		require.NoError(t, err)
		assert.Equal(t, []string{"Adolfo", "Alberto", "Alberto", "Maria", "Marta", "Pablo"}, got)
	})

	// 比较器相等的元素保持原来的先后顺序
	t.Run("Stable", func(t *testing.T) {
		type pair struct{ k, seq int }
		in := []pair{{2, 0}, {1, 1}, {2, 2}, {1, 3}}
		got, err := stream.SortedBy(stream.FromCollection(in), func(p pair) int { return p.k }).ToList()
		require.NoError(t, err)
		assert.Equal(t, []pair{{1, 1}, {1, 3}, {2, 0}, {2, 2}}, got)
	})

	t.Run("Reversed", func(t *testing.T) {
		got, err := stream.Of("b", "c", "a").Sorted(stream.Reversed(stream.Natural[string])).ToList()
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "b", "a"}, got)
	})

	t.Run("ThenComparing", func(t *testing.T) {
		byLen := stream.Comparing(func(s string) int { return len(s) })
		got, err := stream.Of("ccc", "b", "aa", "a").Sorted(stream.ThenComparing(byLen, stream.Natural[string])).ToList()
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "aa", "ccc"}, got)
	})

	// Sorted 是屏障: 上游全部读完以后下游才看到第一个元素
	t.Run("Barrier", func(t *testing.T) {
		spy := &testutils.Spy[int]{}
		first, ok, err := stream.SortedNatural(stream.Of(3, 1, 2).Peek(spy.Action("up"))).
			Peek(spy.Action("down")).
			FindFirst()
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, first)
		assert.Equal(t, []string{"up:3", "up:1", "up:2", "down:1"}, spy.Calls)
	})
}

func TestDistinct(t *testing.T) {
	got, err := stream.Distinct(stream.Of("a", "b", "c", "d", "e", "f", "g", "g", "i", "j", "a")).ToList()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g", "i", "j"}, got)

	users, err := stream.Distinct(stream.FromCollection(newUsers())).Count()
	require.NoError(t, err)
	assert.Equal(t, 5, users)

	byLetter, err := stream.Map(stream.DistinctBy(stream.FromCollection(newUsers()), func(u User) byte { return u.Name[0] }),
		func(u User) string { return u.Name }).ToList()
	require.NoError(t, err)
	assert.Equal(t, []string{"Alberto", "Marta", "Pablo"}, byLetter)
}

// 调用者函数返回的错误原样交给终结操作，之后的元素不再处理
func TestCallerErrorPropagates(t *testing.T) {
	tests := []struct {
		name string
		run  func(spy *testutils.Spy[int]) error
	}{
		{"MapErr", func(spy *testutils.Spy[int]) error {
			_, err := stream.MapErr(stream.FromRange(0, 10).Peek(spy.Action("up")), func(n int) (int, error) {
				if n == 2 {
					return 0, errBoom
				}
				return n, nil
			}).ToList()
			return err
		}},
		{"FilterErr", func(spy *testutils.Spy[int]) error {
			_, err := stream.FromRange(0, 10).Peek(spy.Action("up")).FilterErr(func(n int) (bool, error) {
				if n == 2 {
					return false, errBoom
				}
				return true, nil
			}).Count()
			return err
		}},
		{"PeekErr", func(spy *testutils.Spy[int]) error {
			return stream.FromRange(0, 10).Peek(spy.Action("up")).PeekErr(func(n int) error {
				if n == 2 {
					return errBoom
				}
				return nil
			}).ForEach(func(int) {})
		}},
		{"FlatMapErr", func(spy *testutils.Spy[int]) error {
			_, err := stream.FlatMapErr(stream.FromRange(0, 10).Peek(spy.Action("up")), func(n int) ([]int, error) {
				if n == 2 {
					return nil, errBoom
				}
				return []int{n}, nil
			}).ToList()
			return err
		}},
		{"ForEachErr", func(spy *testutils.Spy[int]) error {
			return stream.FromRange(0, 10).Peek(spy.Action("up")).ForEachErr(func(n int) error {
				if n == 2 {
					return errBoom
				}
				return nil
			})
		}},
		{"Sorted", func(spy *testutils.Spy[int]) error {
			_, err := stream.SortedNatural(stream.MapErr(stream.FromRange(0, 10).Peek(spy.Action("up")), func(n int) (int, error) {
				if n == 2 {
					return 0, errBoom
				}
				return n, nil
			})).ToList()
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spy := &testutils.Spy[int]{}
			err := tt.run(spy)
			assert.Same(t, errBoom, err)
			assert.Equal(t, 3, spy.Count(), "出错之后不应该继续拉取")
		})
	}
}

func TestSources(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		got, err := stream.Empty[string]().ToList()
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("Range", func(t *testing.T) {
		got, err := stream.FromRange(3, 6).ToList()
		require.NoError(t, err)
		assert.Equal(t, []int{3, 4, 5}, got)

		n, err := stream.FromRange(5, 5).Count()
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		n, err = stream.FromRange(5, 1).Count()
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("RangeClosed", func(t *testing.T) {
		got, err := stream.FromRangeClosed(1, 5).ToList()
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, got)

		one, err := stream.FromRangeClosed(7, 7).ToList()
		require.NoError(t, err)
		assert.Equal(t, []int{7}, one)

		n, err := stream.FromRangeClosed(5, 4).Count()
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	// 上界取到 int 的边界也不能溢出
	t.Run("RangeBounds", func(t *testing.T) {
		got, err := stream.FromRangeClosed(math.MaxInt-1, math.MaxInt).ToList()
		require.NoError(t, err)
		assert.Equal(t, []int{math.MaxInt - 1, math.MaxInt}, got)

		got, err = stream.FromRange(math.MaxInt-2, math.MaxInt).ToList()
		require.NoError(t, err)
		assert.Equal(t, []int{math.MaxInt - 2, math.MaxInt - 1}, got)

		got, err = stream.FromRangeClosed(math.MinInt, math.MinInt+1).ToList()
		require.NoError(t, err)
		assert.Equal(t, []int{math.MinInt, math.MinInt + 1}, got)
	})

	t.Run("Iterate", func(t *testing.T) {
		got, err := stream.Iterate(1, func(n int) int { return n * 2 }).Limit(5).ToList()
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 4, 8, 16}, got)
	})

	t.Run("FromIterator", func(t *testing.T) {
		n := 0
		it := stream.IteratorFunc[int](func() (int, bool, error) {
			if n >= 3 {
				return 0, false, nil
			}
			n++
			return n, true, nil
		})
		got, err := stream.FromIterator[int](it).ToList()
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, got)
	})

	t.Run("FromIteratorError", func(t *testing.T) {
		it := stream.IteratorFunc[int](func() (int, bool, error) { return 0, false, errBoom })
		_, err := stream.FromIterator[int](it).Count()
		assert.Same(t, errBoom, err)
	})
}

// 短路终结之后 iter.Pull 的协程要被释放
func TestFromSeqStopsEarly(t *testing.T) {
	stopped := false
	var seq iter.Seq[int] = func(yield func(int) bool) {
		defer func() { stopped = true }()
		for i := 0; ; i++ {
			if !yield(i) {
				return
			}
		}
	}

	got, err := stream.FromSeq(seq).Filter(func(n int) bool { return n > 3 }).Limit(2).ToList()
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, got)
	assert.True(t, stopped)
}

func TestSeq(t *testing.T) {
	var got []string
	for v, err := range stream.FromCollection(testutils.Letters()).Seq() {
		require.NoError(t, err)
		if v == "d" {
			break
		}
		got = append(got, v)
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)

	var errs []error
	p := stream.MapErr(stream.Of(1, 2), func(n int) (int, error) { return 0, errBoom })
	for _, err := range p.Seq() {
		errs = append(errs, err)
	}
	assert.Equal(t, []error{errBoom}, errs)
}

func TestIter(t *testing.T) {
	it, err := stream.Map(stream.Of("x", "yy"), func(s string) int { return len(s) }).Iter()
	require.NoError(t, err)
	defer it.Close()

	var got []int
	for {
		v, ok, err := it.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, v)
	}
	assert.Equal(t, []int{1, 2}, got)
}

// 手动拉取的迭代器提前 Close 也能释放 iter.Pull 的协程
func TestIterClose(t *testing.T) {
	stopped := false
	var seq iter.Seq[int] = func(yield func(int) bool) {
		defer func() { stopped = true }()
		for i := 0; ; i++ {
			if !yield(i) {
				return
			}
		}
	}

	p := stream.Map(stream.FromSeq(seq), func(n int) int { return n * 10 })
	it, err := p.Iter()
	require.NoError(t, err)

	v, ok, err := it.Next()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, v)
	assert.False(t, stopped)

	require.NoError(t, it.Close())
	assert.True(t, stopped)

	// 关闭之后不再产出元素，重复 Close 没有副作用
	_, ok, err = it.Next()
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, it.Close())

	_, err = p.Iter()
	assert.ErrorIs(t, err, stream.ErrPipelineConsumed)
}

func TestStagesNames(t *testing.T) {
	p := stream.Map(stream.FromCollection(testutils.Letters()).Skip(2).Limit(4), strings.ToUpper)
	assert.Equal(t, []string{"FromCollection(10)", "Skip(2)", "Limit(4)", "Map"}, p.Stages())
	assert.Equal(t, []string{"FromRange(0,3)", "Sorted"}, stream.SortedNatural(stream.FromRange(0, 3)).Stages())
}

// 没有任何阶段时 ToList 和源数据顺序完全一致
func TestRoundTrip(t *testing.T) {
	for _, in := range [][]string{nil, {"x"}, testutils.Letters()} {
		got, err := stream.FromCollection(in).ToList()
		require.NoError(t, err)
		assert.Equal(t, len(in), len(got))
		for i := range in {
			assert.Equal(t, in[i], got[i])
		}
	}
}

// Filter 之后的 Count 等于满足谓词的元素个数
func TestCountAfterFilter(t *testing.T) {
	inputs := [][]int{{}, {1}, {5, 7, 34, 56, 2, 3, 67, 4, 98}, {1, 2, 3, 4, 5, 1}}
	preds := map[string]func(int) bool{
		"gt10": func(n int) bool { return n > 10 },
		"even": func(n int) bool { return n%2 == 0 },
		"none": func(int) bool { return false },
	}

	for name, pred := range preds {
		t.Run(name, func(t *testing.T) {
			for _, in := range inputs {
				want := 0
				for _, v := range in {
					if pred(v) {
						want++
					}
				}
				n, err := stream.FromCollection(in).Filter(pred).Count()
				require.NoError(t, err)
				assert.Equal(t, want, n, "input %v", in)
			}
		})
	}
}
