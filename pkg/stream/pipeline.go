package stream

import (
	"strings"

	"stream_tool/pkg/logutil"
)

// node 是执行计划中的一个节点，记录阶段名称和消费状态
// 同一条链上的 Pipeline 共享上游节点
type node struct {
	name     string
	parent   *node
	consumed bool
}

// Pipeline 是不可变的惰性流水线描述: 一个源 + 有序的阶段链
// 追加阶段总是返回新的 Pipeline，原来的 Pipeline 不会被修改
// 任何终结操作之前都不会触碰数据源
//
// Pipeline 只能在单个 goroutine 里使用
type Pipeline[T any] struct {
	create func() Iterator[T]
	node   *node
}

func newSource[T any](name string, create func() Iterator[T]) Pipeline[T] {
	return Pipeline[T]{create: create, node: &node{name: name}}
}

// derive 在 p 后面挂一个阶段，wrap 负责把上游迭代器包装成本阶段的迭代器
func derive[T, U any](p Pipeline[T], name string, wrap func(Iterator[T]) Iterator[U]) Pipeline[U] {
	upstream := p.create
	return Pipeline[U]{
		create: func() Iterator[U] {
			if upstream == nil {
				return wrap(emptyIter[T]{})
			}
			return wrap(upstream())
		},
		node: &node{name: name, parent: p.node},
	}
}

// Stages 返回执行计划，源在最前面，不会消费流水线
func (p Pipeline[T]) Stages() []string {
	var names []string
	for n := p.node; n != nil; n = n.parent {
		names = append(names, n.name)
	}
	// 反转成 源 -> 终点 的顺序
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names
}

// Consumed 当前链上是否有节点已经被终结操作消费过
func (p Pipeline[T]) Consumed() bool {
	for n := p.node; n != nil; n = n.parent {
		if n.consumed {
			return true
		}
	}
	return false
}

// begin 是所有终结操作的入口: 检查并标记消费状态，然后才创建迭代器
func (p Pipeline[T]) begin(terminal string) (Iterator[T], error) {
	plan := strings.Join(p.Stages(), " -> ")
	if p.Consumed() {
		logutil.Warn("拒绝重复消费 %s: %s", terminal, plan)
		return nil, ErrPipelineConsumed
	}
	for n := p.node; n != nil; n = n.parent {
		n.consumed = true
	}
	logutil.Debug("终结操作 %s 开始拉取: %s", terminal, plan)

	if p.create == nil {
		return emptyIter[T]{}, nil
	}
	return p.create(), nil
}
