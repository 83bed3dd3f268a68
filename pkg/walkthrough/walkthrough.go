package walkthrough

import (
	"fmt"

	"stream_tool/pkg/logutil"
)

// Result 一个章节的执行结果
type Result struct {
	Name   string   `json:"name"`
	Title  string   `json:"title"`
	Lines  []string `json:"lines"`
	Value  any      `json:"value"`
	Stages []string `json:"stages"`
}

// Section 演示章节，run 负责填充 Lines/Value/Stages
type Section struct {
	Name  string
	Title string
	run   func(r *Result) error
}

// Run 执行章节，每次执行都会重新构造自己的数据
func (s Section) Run() (Result, error) {
	r := Result{Name: s.Name, Title: s.Title}
	logutil.Info("执行章节 %s: %s", s.Name, s.Title)
	if err := s.run(&r); err != nil {
		return Result{}, fmt.Errorf("章节 %s 执行失败: %w", s.Name, err)
	}
	logutil.Debug("章节 %s 结果: %v", s.Name, r.Lines)
	return r, nil
}

// 按注册顺序保存
var registry []Section

func register(name, title string, run func(r *Result) error) {
	registry = append(registry, Section{Name: name, Title: title, run: run})
}

// Sections 返回所有章节(拷贝)
func Sections() []Section {
	out := make([]Section, len(registry))
	copy(out, registry)
	return out
}

// Lookup 按名字查找章节
func Lookup(name string) (Section, bool) {
	for _, s := range registry {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// RunAll 依次执行所有章节，遇到错误立刻返回
func RunAll() ([]Result, error) {
	return RunNamed(nil)
}

// RunNamed 执行指定的章节，names 为空时执行全部
func RunNamed(names []string) ([]Result, error) {
	targets := registry
	if len(names) > 0 {
		targets = make([]Section, 0, len(names))
		for _, n := range names {
			s, ok := Lookup(n)
			if !ok {
				return nil, &UnknownSectionError{Name: n}
			}
			targets = append(targets, s)
		}
	}

	results := make([]Result, 0, len(targets))
	for _, s := range targets {
		r, err := s.Run()
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// UnknownSectionError 指定的章节不存在
type UnknownSectionError struct {
	Name string
}

func (e *UnknownSectionError) Error() string {
	return fmt.Sprintf("未知章节: %s", e.Name)
}
