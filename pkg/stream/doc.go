// Package stream 是一个单线程、拉取式的惰性流水线引擎
//
// 一条流水线 = 一个源 + 零个或多个中间阶段 + 一个终结操作
// 中间阶段只是描述，终结操作开始拉取时数据才会逐个流过整条链
//
//  1. 基本用法 Filter + Map + ToList
//     names, err := stream.Map(
//     stream.FromCollection(users).Filter(func(u User) bool { return u.ID < 3 }),
//     func(u User) string { return u.Name },
//     ).ToList()
//
//  2. Skip + Limit
//     out, _ := stream.Of("a", "b", "c", "d", "e", "f", "g", "h", "i", "j").Skip(2).Limit(4).ToList()
//     // [c d e f]
//
//  3. Distinct 保留第一次出现的顺序
//     out, _ := stream.Distinct(stream.Of("a", "b", "a", "c")).ToList()
//     // [a b c]
//
//  4. 分组 和 分区
//     g, _ := stream.GroupingBy(stream.FromCollection(users), func(u User) byte { return u.Name[0] })
//     pt, _ := stream.Of(5, 7, 34, 56).PartitioningBy(func(n int) bool { return n > 10 })
//     // pt.Get(true) = [34 56]  pt.Get(false) = [5 7]
//
//  5. 统计
//     s, _ := stream.SummaryStatistics(stream.FromRange(0, 100))
//     // s.Sum = 4950
//
// 每条流水线只能被终结一次，再次终结(包括从它派生出来的流水线)会得到 ErrPipelineConsumed
// Sorted 会在第一次拉取时缓冲全部上游数据，其它阶段都是逐个元素处理
// 调用者传入的函数返回的错误会原样返回，不做包装
package stream
