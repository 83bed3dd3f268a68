package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"stream_tool/pkg/logutil"
)

// Spy 记录回调被调用的顺序，用来验证惰性求值和短路
// 同一个 Spy 可以挂在多个阶段上，用 tag 区分
type Spy[T any] struct {
	Calls []string
}

// Record 记一次调用，例如 "filter:3"
func (s *Spy[T]) Record(tag string, v T) {
	s.Calls = append(s.Calls, fmt.Sprintf("%s:%v", tag, v))
}

// Pred 包装一个谓词，调用时先记录
func (s *Spy[T]) Pred(tag string, pred func(T) bool) func(T) bool {
	return func(v T) bool {
		s.Record(tag, v)
		return pred(v)
	}
}

// Action 返回一个只做记录的副作用函数
func (s *Spy[T]) Action(tag string) func(T) {
	return func(v T) { s.Record(tag, v) }
}

func (s *Spy[T]) Count() int {
	return len(s.Calls)
}

func (s *Spy[T]) Reset() {
	s.Calls = nil
}

// Letters 十个字母 a..j
func Letters() []string {
	return []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
}

// CaptureLog 把日志重定向到缓冲区，测试结束后恢复成标准输出
func CaptureLog(t *testing.T, level logutil.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logutil.SetOutput(&buf, level)
	t.Cleanup(func() {
		logutil.SetOutput(os.Stderr, logutil.WARN)
	})
	return &buf
}

// DecodeJSON 解析 JSON 的泛型函数，失败直接终止用例
func DecodeJSON[T any](t *testing.T, data []byte) T {
	t.Helper()
	var result T
	require.NoError(t, json.Unmarshal(data, &result), "JSON 解析失败: %s", data)
	return result
}

// TempFile 在测试临时目录下返回一个文件路径
func TempFile(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}
