package diffutil

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

type DiffLine struct {
	Left  string
	Right string
	Mark  string // "|" 相同, "+" 新增, "-" 删除, "~" 修改
}

// CompareListings 按行比较两份元素清单，典型用法是对比一次 ForEach/Peek 修改前后的数据
// 相邻的 删除+新增 块会按行配对成 "~"
func CompareListings(before, after []string) []DiffLine {
	dmp := diffmatchpatch.New()
	text1, text2, lineArray := dmp.DiffLinesToChars(joinLines(before), joinLines(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(text1, text2, false), lineArray)

	var result []DiffLine
	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		lines := splitLines(d.Text)

		switch d.Type {
		case diffmatchpatch.DiffEqual:
			for _, l := range lines {
				result = append(result, DiffLine{Left: l, Right: l, Mark: "|"})
			}
		case diffmatchpatch.DiffInsert:
			for _, l := range lines {
				result = append(result, DiffLine{Right: l, Mark: "+"})
			}
		case diffmatchpatch.DiffDelete:
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				result = append(result, pairLines(lines, splitLines(diffs[i+1].Text))...)
				i++
				continue
			}
			for _, l := range lines {
				result = append(result, DiffLine{Left: l, Mark: "-"})
			}
		}
	}
	return result
}

// 行数不一样多的时候，多出来的部分按纯删除/纯新增处理
func pairLines(deleted, inserted []string) []DiffLine {
	out := make([]DiffLine, 0, max(len(deleted), len(inserted)))
	for i := range max(len(deleted), len(inserted)) {
		switch {
		case i < len(deleted) && i < len(inserted):
			out = append(out, DiffLine{Left: deleted[i], Right: inserted[i], Mark: "~"})
		case i < len(deleted):
			out = append(out, DiffLine{Left: deleted[i], Mark: "-"})
		default:
			out = append(out, DiffLine{Right: inserted[i], Mark: "+"})
		}
	}
	return out
}

// Changed 是否存在任何差异
func Changed(diff []DiffLine) bool {
	for _, d := range diff {
		if d.Mark != "|" {
			return true
		}
	}
	return false
}

// 每行都带换行符，这样最后一行也能参与按行比较
func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
