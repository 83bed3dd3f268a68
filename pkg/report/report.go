package report

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"stream_tool/pkg/walkthrough"
)

type JSONFormat string

const (
	JSONFormatOne JSONFormat = "one"
	JSONFormatMul JSONFormat = "mul"
)

// 为了让 VarP 接收自定义类型，实现 flag.Value 接口(String Set Type)即可
func (f *JSONFormat) String() string { return string(*f) }

func (f *JSONFormat) Set(val string) error {
	switch val {
	case string(JSONFormatMul), string(JSONFormatOne):
		*f = JSONFormat(val)
		return nil
	default:
		return fmt.Errorf("无效的 jsonformat 值: %s", val)
	}
}

func (f *JSONFormat) Type() string {
	return "jsonformat"
}

// 列出所有的合法值
func (JSONFormat) Values() []string {
	return []string{string(JSONFormatMul), string(JSONFormatOne)}
}

// Build 把章节结果写成一个 JSON 文档
//
//	{"tool":..., "count":N, "sections":[{"name","title","stages","lines","value"}...]}
func Build(tool string, results []walkthrough.Result) ([]byte, error) {
	doc := []byte(`{}`)
	var err error

	set := func(path string, v any) {
		if err != nil {
			return
		}
		doc, err = sjson.SetBytes(doc, path, v)
	}

	set("tool", tool)
	set("count", len(results))
	set("sections", []any{})
	for _, r := range results {
		// -1 表示追加到数组末尾
		set("sections.-1", entry{
			Name:   r.Name,
			Title:  r.Title,
			Stages: nonNil(r.Stages),
			Lines:  nonNil(r.Lines),
			Value:  r.Value,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("构造报告失败: %w", err)
	}
	return doc, nil
}

type entry struct {
	Name   string   `json:"name"`
	Title  string   `json:"title"`
	Stages []string `json:"stages"`
	Lines  []string `json:"lines"`
	Value  any      `json:"value"`
}

// sjson 对 nil 切片会写成 null，统一成空数组
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Format 按多行美化或者单行输出
func Format(doc []byte, f JSONFormat) ([]byte, error) {
	switch f {
	case JSONFormatMul:
		return pretty.PrettyOptions(doc, &pretty.Options{Indent: "    ", Width: 80}), nil
	case JSONFormatOne:
		return append(pretty.Ugly(doc), '\n'), nil
	default:
		return nil, fmt.Errorf("不支持的选项内容: %s", f)
	}
}

// Query 用 gjson 路径取报告的一部分，路径为空时返回整个文档
func Query(doc []byte, path string) ([]byte, error) {
	if !gjson.ValidBytes(doc) {
		return nil, fmt.Errorf("报告不是有效的 JSON")
	}
	if strings.TrimSpace(path) == "" {
		return doc, nil
	}
	res := gjson.GetBytes(doc, path)
	if !res.Exists() {
		return nil, fmt.Errorf("字段 %q 不存在", path)
	}
	return []byte(res.Raw), nil
}

// Text 纯文本输出，每个章节一个标题块
func Text(results []walkthrough.Result) []byte {
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "-------------------- %s --------------------\n", r.Title)
		for _, l := range r.Lines {
			b.WriteString(l)
			b.WriteByte('\n')
		}
	}
	return []byte(b.String())
}
