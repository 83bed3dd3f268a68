package diffutil

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// FormatSideBySide 左右两栏对比输出
// fmt 的宽度是按字符数算的，带全角/重音字符时要按显示宽度补空格
func FormatSideBySide(diff []DiffLine) string {
	cond := runewidth.NewCondition()
	// 模糊宽度字符按 1 计算
	cond.EastAsianWidth = false

	width := cond.StringWidth("* Before")
	for _, d := range diff {
		width = max(width, cond.StringWidth(d.Left))
	}

	out := make([]string, 0, len(diff)+2)
	header := fmt.Sprintf("%s  %s  %s", cond.FillRight("* Before", width), " ", "* After")
	out = append(out, header, strings.Repeat("-", cond.StringWidth(header)))
	for _, d := range diff {
		out = append(out, fmt.Sprintf("%s  %s  %s", cond.FillRight(d.Left, width), d.Mark, d.Right))
	}
	return strings.Join(out, "\n")
}
