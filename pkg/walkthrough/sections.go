package walkthrough

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"stream_tool/pkg/diffutil"
	"stream_tool/pkg/stream"
)

// Group 分组章节的输出，保持 key 首次出现的顺序
type Group struct {
	Key   string   `json:"key"`
	Names []string `json:"names"`
}

func init() {
	register("create", "创建流水线", sectionCreate)
	register("foreach", "ForEach", sectionForEach)
	register("map", "Map", sectionMap)
	register("filter", "Filter", sectionFilter)
	register("findfirst", "FindFirst", sectionFindFirst)
	register("flatmap", "FlatMap", sectionFlatMap)
	register("peek", "Peek", sectionPeek)
	register("count", "Count", sectionCount)
	register("skiplimit", "Skip 和 Limit", sectionSkipLimit)
	register("sorted", "Sorted", sectionSorted)
	register("minmax", "Min 和 Max", sectionMinMax)
	register("distinct", "Distinct", sectionDistinct)
	register("match", "AllMatch / AnyMatch / NoneMatch", sectionMatch)
	register("sumavg", "Sum / Average / Range", sectionSumAverage)
	register("reduce", "Reduce", sectionReduce)
	register("joining", "Joining", sectionJoining)
	register("set", "ToSet", sectionSet)
	register("statistics", "SummaryStatistics", sectionStatistics)
	register("partition", "PartitioningBy", sectionPartition)
	register("grouping", "GroupingBy", sectionGrouping)
	register("counting", "GroupingBy + Counting", sectionCounting)
	register("mapping", "Mapping", sectionMapping)
	register("prefix", "前缀索引", sectionPrefix)
	register("sortedset", "有序去重", sectionSortedSet)
}

func sectionCreate(r *Result) error {
	users := NewUsers()
	fromCollection := stream.FromCollection(users)
	r.Stages = fromCollection.Stages()

	n1, err := fromCollection.Count()
	if err != nil {
		return err
	}
	n2, err := stream.Of(users...).Count()
	if err != nil {
		return err
	}
	r.Lines = append([]string{
		fmt.Sprintf("FromCollection: %d", n1),
		fmt.Sprintf("Of: %d", n2),
	}, userTable(users)...)
	r.Value = n1
	return nil
}

func sectionForEach(r *Result) error {
	users := NewUserRefs()
	before := refNames(users)

	p := stream.FromCollection(users)
	r.Stages = p.Stages()
	// 指针元素，ForEach 里的修改会直接作用到源数据上
	if err := p.ForEach(func(u *User) { u.Name += " Apellido" }); err != nil {
		return err
	}

	after := refNames(users)
	diff := diffutil.CompareListings(before, after)
	r.Lines = strings.Split(diffutil.FormatSideBySide(diff), "\n")
	r.Lines = append(r.Lines, fmt.Sprintf("源数据被修改: %t", diffutil.Changed(diff)))
	r.Value = after
	return nil
}

func sectionMap(r *Result) error {
	p := stream.Map(stream.FromCollection(NewUsers()), func(u User) string { return u.Name })
	r.Stages = p.Stages()
	names, err := p.ToList()
	if err != nil {
		return err
	}
	r.Lines, r.Value = names, names
	return nil
}

func sectionFilter(r *Result) error {
	// 按值比较字符串
	p := stream.FromCollection(NewUsers()).
		Filter(func(u User) bool { return u.Name != "Alberto" }).
		Filter(func(u User) bool { return u.ID < 3 })
	r.Stages = p.Stages()
	users, err := p.ToList()
	if err != nil {
		return err
	}
	r.Lines, r.Value = userNames(users), userNames(users)
	return nil
}

func sectionFindFirst(r *Result) error {
	p := stream.FromCollection(NewUsers()).Filter(func(u User) bool { return u.ID < 4 })
	r.Stages = p.Stages()
	u, ok, err := p.FindFirst()
	if err != nil {
		return err
	}
	if !ok {
		r.Lines = []string{"absent"}
		return nil
	}
	r.Lines, r.Value = []string{u.Name}, u.Name
	return nil
}

func sectionFlatMap(r *Result) error {
	lists := [][]string{
		{"Alberto", "Maria", "Pedro"},
		{"Mónica", "Pablo"},
	}
	p := stream.FlatMap(stream.FromCollection(lists), func(l []string) []string { return l })
	r.Stages = p.Stages()
	names, err := p.ToList()
	if err != nil {
		return err
	}
	r.Lines, r.Value = names, names
	return nil
}

func sectionPeek(r *Result) error {
	users := NewUserRefs()
	before := refNames(users)
	// Detached 先深拷贝，Peek 改的是副本
	p := stream.FromCollection(users).
		Detached().
		Peek(func(u *User) { u.Name += " Apellido" })
	r.Stages = p.Stages()
	out, err := p.ToList()
	if err != nil {
		return err
	}

	names := refNames(out)
	changed := diffutil.Changed(diffutil.CompareListings(before, refNames(users)))
	r.Lines = append(refNames(out),
		fmt.Sprintf("源数据: %s", strings.Join(refNames(users), ", ")),
		fmt.Sprintf("源数据被修改: %t", changed))
	r.Value = names
	return nil
}

func sectionCount(r *Result) error {
	p := stream.FromCollection(NewUsers()).Filter(func(u User) bool { return u.ID < 3 })
	r.Stages = p.Stages()
	n, err := p.Count()
	if err != nil {
		return err
	}
	r.Lines, r.Value = []string{fmt.Sprint(n)}, n
	return nil
}

func sectionSkipLimit(r *Result) error {
	p := stream.Of("a", "b", "c", "d", "e", "f", "g", "h", "i", "j").Skip(2).Limit(4)
	r.Stages = p.Stages()
	out, err := p.ToList()
	if err != nil {
		return err
	}
	r.Lines, r.Value = out, out
	return nil
}

func sectionSorted(r *Result) error {
	p := stream.SortedBy(stream.FromCollection(NewUsers()), func(u User) string { return u.Name })
	r.Stages = p.Stages()
	users, err := p.ToList()
	if err != nil {
		return err
	}
	r.Lines, r.Value = userTable(users), userNames(users)
	return nil
}

func sectionMinMax(r *Result) error {
	byID := stream.Comparing(func(u User) int { return u.ID })

	minPipe := stream.FromCollection(NewUsers())
	r.Stages = minPipe.Stages()
	lo, ok, err := minPipe.Min(byID)
	if err != nil || !ok {
		return orAbsent(err, "min")
	}
	hi, ok, err := stream.FromCollection(NewUsers()).Max(byID)
	if err != nil || !ok {
		return orAbsent(err, "max")
	}

	r.Lines = []string{fmt.Sprintf("min: %d", lo.ID), fmt.Sprintf("max: %d", hi.ID)}
	r.Value = map[string]int{"min": lo.ID, "max": hi.ID}
	return nil
}

func sectionDistinct(r *Result) error {
	p := stream.Distinct(stream.Of("a", "b", "c", "d", "e", "f", "g", "g", "i", "j", "a"))
	r.Stages = p.Stages()
	out, err := p.ToList()
	if err != nil {
		return err
	}
	r.Lines, r.Value = out, out
	return nil
}

func sectionMatch(r *Result) error {
	numbers := []int{1000, 300, 900, 5000}
	gt := func(limit int) func(int) bool { return func(n int) bool { return n > limit } }

	p := stream.FromCollection(numbers)
	r.Stages = p.Stages()
	all, err := p.AllMatch(gt(301))
	if err != nil {
		return err
	}
	anyMatched, err := stream.FromCollection(numbers).AnyMatch(gt(301))
	if err != nil {
		return err
	}
	none, err := stream.FromCollection(numbers).NoneMatch(gt(10000))
	if err != nil {
		return err
	}

	r.Lines = []string{
		fmt.Sprintf("全部大于 301: %t", all),
		fmt.Sprintf("至少一个大于 301: %t", anyMatched),
		fmt.Sprintf("没有一个大于 10000: %t", none),
	}
	r.Value = map[string]bool{"all": all, "any": anyMatched, "none": none}
	return nil
}

func ids(users []User) stream.Pipeline[int] {
	return stream.Map(stream.FromCollection(users), func(u User) int { return u.ID })
}

func sectionSumAverage(r *Result) error {
	avgPipe := ids(NewUsers())
	r.Stages = avgPipe.Stages()
	// 空流时 avg 为 0
	avg, _, err := stream.Average(avgPipe)
	if err != nil {
		return err
	}
	sum, err := stream.Sum(ids(NewUsers()))
	if err != nil {
		return err
	}
	rangeSum, err := stream.Sum(stream.FromRange(0, 100))
	if err != nil {
		return err
	}

	r.Lines = []string{
		"average: " + humanize.FormatFloat("#,###.##", avg),
		"sum: " + humanize.Comma(int64(sum)),
		"range(0,100) sum: " + humanize.Comma(int64(rangeSum)),
	}
	r.Value = map[string]any{"average": avg, "sum": sum, "rangeSum": rangeSum}
	return nil
}

func sectionReduce(r *Result) error {
	p := ids(NewUsers())
	r.Stages = p.Stages()
	total, err := p.Reduce(0, func(acc, v int) int { return acc + v })
	if err != nil {
		return err
	}
	r.Lines, r.Value = []string{fmt.Sprintf("reduce: %d", total)}, total
	return nil
}

func sectionJoining(r *Result) error {
	p := stream.FromCollection(NewUsers())
	r.Stages = p.Stages()
	names, err := stream.Joining(p, func(u User) string { return u.Name }, " - ")
	if err != nil {
		return err
	}
	r.Lines, r.Value = []string{names}, names
	return nil
}

func sectionSet(r *Result) error {
	p := stream.Map(stream.FromCollection(NewUsers()), func(u User) string { return u.Name })
	r.Stages = p.Stages()
	set, err := stream.ToSet(p)
	if err != nil {
		return err
	}
	// 集合无序，输出前排一下保证结果稳定
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	r.Lines, r.Value = names, names
	return nil
}

func sectionStatistics(r *Result) error {
	p := stream.FromCollection(NewUsers())
	r.Stages = p.Stages()
	stats, err := stream.SummarizingBy(p, func(u User) float64 { return float64(u.ID) })
	if err != nil {
		return err
	}
	// 另一种写法: 先映射成数值流再统计
	again, err := stream.SummaryStatistics(stream.Map(stream.FromCollection(NewUsers()),
		func(u User) float64 { return float64(u.ID) }))
	if err != nil {
		return err
	}

	format := func(s stream.Summary[float64]) string {
		return fmt.Sprintf("%s %s %s %d",
			humanize.FormatFloat("#,###.##", s.Average()),
			humanize.FormatFloat("#,###.##", s.Max),
			humanize.FormatFloat("#,###.##", s.Sum),
			s.Count)
	}
	r.Lines = []string{format(stats), format(again)}
	r.Value = map[string]any{
		"count":   stats.Count,
		"sum":     stats.Sum,
		"min":     stats.Min,
		"max":     stats.Max,
		"average": stats.Average(),
	}
	return nil
}

func sectionPartition(r *Result) error {
	p := stream.Of(5, 7, 34, 56, 2, 3, 67, 4, 98)
	r.Stages = p.Stages()
	pt, err := p.PartitioningBy(func(n int) bool { return n > 10 })
	if err != nil {
		return err
	}
	r.Lines = []string{
		fmt.Sprintf("true: %v", pt.Get(true)),
		fmt.Sprintf("false: %v", pt.Get(false)),
	}
	r.Value = pt
	return nil
}

func sectionGrouping(r *Result) error {
	p := stream.FromCollection(NewUsers())
	r.Stages = p.Stages()
	g, err := stream.GroupingBy(p, func(u User) rune { return []rune(u.Name)[0] })
	if err != nil {
		return err
	}

	groups := make([]Group, 0, g.Len())
	g.Each(func(k rune, users []User) {
		groups = append(groups, Group{Key: string(k), Names: userNames(users)})
		r.Lines = append(r.Lines, fmt.Sprintf("%c: %s", k, strings.Join(userNames(users), ", ")))
	})
	r.Value = groups
	return nil
}

// KeyCount 分组计数章节的输出
type KeyCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

func sectionCounting(r *Result) error {
	p := stream.FromCollection(NewUsers())
	r.Stages = p.Stages()
	c, err := stream.GroupingByCounting(p, func(u User) string { return u.Name })
	if err != nil {
		return err
	}

	counts := make([]KeyCount, 0, c.Len())
	for _, k := range c.Keys() {
		n, _ := c.Get(k)
		counts = append(counts, KeyCount{Key: k, Count: n})
		r.Lines = append(r.Lines, fmt.Sprintf("%s: %d", k, n))
	}
	r.Value = counts
	return nil
}

func sectionMapping(r *Result) error {
	p := stream.FromCollection(NewUsers())
	r.Stages = p.Stages()
	names, err := stream.MapToList(p, func(u User) string { return u.Name })
	if err != nil {
		return err
	}
	r.Lines, r.Value = names, names
	return nil
}

func sectionPrefix(r *Result) error {
	p := stream.Distinct(stream.FromCollection(NewUsers()))
	r.Stages = p.Stages()
	ix, err := stream.ToPrefixIndex(p, func(u User) string { return u.Name })
	if err != nil {
		return err
	}
	names := userNames(ix.WithPrefix("Ma"))
	r.Lines, r.Value = names, names
	return nil
}

func sectionSortedSet(r *Result) error {
	p := ids(NewUsers())
	r.Stages = p.Stages()
	out, err := stream.ToSortedSet(p, func(a, b int) bool { return a < b })
	if err != nil {
		return err
	}
	r.Lines, r.Value = []string{fmt.Sprint(out)}, out
	return nil
}

func orAbsent(err error, what string) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("%s: 结果为空", what)
}
