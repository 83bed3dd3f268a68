package stream

import "iter"

// run 给终结操作用: 标记消费、创建迭代器、拉取完毕后释放资源
func (p Pipeline[T]) run(terminal string, fn func(T) (bool, error)) error {
	it, err := p.begin(terminal)
	if err != nil {
		return err
	}
	defer closeIter(it)
	return drain(it, fn)
}

// ForEach 按源顺序对每个元素执行 action
func (p Pipeline[T]) ForEach(action func(T)) error {
	return p.run("ForEach", func(v T) (bool, error) {
		action(v)
		return true, nil
	})
}

// ForEachErr action 返回错误时立刻终止
func (p Pipeline[T]) ForEachErr(action func(T) error) error {
	return p.run("ForEach", func(v T) (bool, error) {
		return true, action(v)
	})
}

// ToList 按顺序收集所有元素，空流返回非 nil 的空切片
func (p Pipeline[T]) ToList() ([]T, error) {
	out := make([]T, 0)
	err := p.run("ToList", func(v T) (bool, error) {
		out = append(out, v)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Count 经过整条链之后剩下的元素个数
func (p Pipeline[T]) Count() (int, error) {
	n := 0
	err := p.run("Count", func(T) (bool, error) {
		n++
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Reduce 严格从左到右折叠: acc = op(acc, v)
func (p Pipeline[T]) Reduce(identity T, op func(acc, v T) T) (T, error) {
	return Fold(p, identity, op)
}

// Min 空流返回 false；多个最小值时取遍历顺序中的第一个
func (p Pipeline[T]) Min(cmp func(a, b T) int) (T, bool, error) {
	return p.extremum("Min", func(v, best T) bool { return cmp(v, best) < 0 })
}

// Max 空流返回 false；多个最大值时取遍历顺序中的第一个
func (p Pipeline[T]) Max(cmp func(a, b T) int) (T, bool, error) {
	return p.extremum("Max", func(v, best T) bool { return cmp(v, best) > 0 })
}

func (p Pipeline[T]) extremum(name string, better func(v, best T) bool) (T, bool, error) {
	var best T
	found := false
	err := p.run(name, func(v T) (bool, error) {
		if !found || better(v, best) {
			best, found = v, true
		}
		return true, nil
	})
	if err != nil || !found {
		var zero T
		return zero, false, err
	}
	return best, true, nil
}

// FindFirst 拿到第一个元素就停止拉取
func (p Pipeline[T]) FindFirst() (T, bool, error) {
	var first T
	found := false
	err := p.run("FindFirst", func(v T) (bool, error) {
		first, found = v, true
		return false, nil
	})
	if err != nil || !found {
		var zero T
		return zero, false, err
	}
	return first, true, nil
}

// AnyMatch 遇到第一个 true 就停止，空流返回 false
func (p Pipeline[T]) AnyMatch(pred func(T) bool) (bool, error) {
	matched := false
	err := p.run("AnyMatch", func(v T) (bool, error) {
		matched = pred(v)
		return !matched, nil
	})
	if err != nil {
		return false, err
	}
	return matched, nil
}

// AllMatch 遇到第一个 false 就停止，空流返回 true
func (p Pipeline[T]) AllMatch(pred func(T) bool) (bool, error) {
	all := true
	err := p.run("AllMatch", func(v T) (bool, error) {
		all = pred(v)
		return all, nil
	})
	if err != nil {
		return false, err
	}
	return all, nil
}

// NoneMatch 遇到第一个 true 就停止，空流返回 true
func (p Pipeline[T]) NoneMatch(pred func(T) bool) (bool, error) {
	none := true
	err := p.run("NoneMatch", func(v T) (bool, error) {
		none = !pred(v)
		return none, nil
	})
	if err != nil {
		return false, err
	}
	return none, nil
}

// Iter 直接拿到底层迭代器，同样算作一次消费
// 调用者负责 Close，提前放弃时也要调用，否则 FromSeq 的协程不会退出
//
//	it, err := p.Iter()
//	if err != nil { ... }
//	defer it.Close()
func (p Pipeline[T]) Iter() (CloseableIterator[T], error) {
	it, err := p.begin("Iter")
	if err != nil {
		return nil, err
	}
	return &ownedIter[T]{Iterator: it}, nil
}

// Seq 适配 range-over-func，第一次 range 时才消费流水线
//
//	for v, err := range p.Seq() { ... }
func (p Pipeline[T]) Seq() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		err := p.run("Seq", func(v T) (bool, error) {
			return yield(v, nil), nil
		})
		if err != nil {
			var zero T
			yield(zero, err)
		}
	}
}
