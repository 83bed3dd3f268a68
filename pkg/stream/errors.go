package stream

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

var (
	// ErrPipelineConsumed 流水线(或者它的上游)已经执行过终结操作
	ErrPipelineConsumed = errors.New("stream: pipeline already consumed")

	// ErrNegativeCount Skip/Limit 收到了负数
	ErrNegativeCount = errors.New("stream: negative count")

	// ErrUnhashable key 的动态类型不能做 map key，比如 any 里装了切片
	ErrUnhashable = errors.New("stream: unhashable key")
)

// guardKey 执行一次以 k 为 key 的 map 操作
// 只把不可哈希 key 引起的 runtime panic 转成 ErrUnhashable，其它 panic 继续往上抛
func guardKey(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if re, ok := r.(runtime.Error); ok && strings.Contains(re.Error(), "unhashable") {
			err = fmt.Errorf("%w: %v", ErrUnhashable, re)
			return
		}
		panic(r)
	}()
	fn()
	return nil
}
