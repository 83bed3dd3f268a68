package graph

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/awalterschulze/gographviz"
)

// 执行计划里每个阶段对应的 DOT 节点名
func stageID(i int) string {
	return fmt.Sprintf("s%d", i)
}

// PlanGraph 把流水线的阶段链(源在最前)画成一张有向图
// 源用 box，终点用 doublecircle，其它阶段用 ellipse
func PlanGraph(name string, stages []string) (*gographviz.Graph, error) {
	g := gographviz.NewGraph()
	if err := g.SetName(name); err != nil {
		return nil, err
	}
	if err := g.SetDir(true); err != nil {
		return nil, err
	}
	if err := g.AddAttr(name, "rankdir", "LR"); err != nil {
		return nil, err
	}

	for i, stage := range stages {
		shape := "ellipse"
		switch {
		case i == 0:
			shape = "box"
		case i == len(stages)-1:
			shape = "doublecircle"
		}
		attrs := map[string]string{
			"label": strconv.Quote(stage),
			"shape": shape,
		}
		if err := g.AddNode(name, stageID(i), attrs); err != nil {
			return nil, fmt.Errorf("添加节点 %s 失败: %w", stage, err)
		}
		if i > 0 {
			if err := g.AddEdge(stageID(i-1), stageID(i), true, nil); err != nil {
				return nil, fmt.Errorf("添加边 %s -> %s 失败: %w", stages[i-1], stage, err)
			}
		}
	}
	return g, nil
}

// RenderDOT 生成 DOT 文本，生成前校验阶段链不存在环
// 生成后再解析一遍，阶段标签取不回来就报错，不输出坏掉的 DOT
func RenderDOT(name string, stages []string) (string, error) {
	g, err := PlanGraph(name, stages)
	if err != nil {
		return "", err
	}
	if cyclic, start := HasCycleDFS(g); cyclic {
		return "", fmt.Errorf("执行计划中出现环路, 起点: %s", start)
	}
	dot := g.String()
	parsed, err := ParseDOT(dot)
	if err != nil {
		return "", err
	}
	if !slices.Equal(parsed, stages) {
		return "", fmt.Errorf("DOT 校验失败: 期望 %v, 解析得到 %v", stages, parsed)
	}
	return dot, nil
}

// ParseDOT 解析 RenderDOT 的输出，按顺序取回阶段标签
func ParseDOT(dot string) ([]string, error) {
	ast, err := gographviz.Parse([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("解析 DOT 失败: %w", err)
	}
	g := gographviz.NewGraph()
	if err := gographviz.Analyse(ast, g); err != nil {
		return nil, fmt.Errorf("解析 DOT 失败: %w", err)
	}
	return StageLabels(g), nil
}

// HasCycleDFS DFS + 递归栈判断有向图里是否有环，有的话返回首次发现环的起点
func HasCycleDFS(g *gographviz.Graph) (bool, string) {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)

	var dfs func(string) bool
	dfs = func(n string) bool {
		if onStack[n] {
			return true
		}
		if visited[n] {
			return false
		}
		visited[n], onStack[n] = true, true
		for _, edges := range g.Edges.SrcToDsts[n] {
			for _, e := range edges {
				if dfs(e.Dst) {
					return true
				}
			}
		}
		onStack[n] = false
		return false
	}

	for _, n := range g.Nodes.Nodes {
		if dfs(n.Name) {
			return true, n.Name
		}
	}
	return false, ""
}

// StageLabels 从图里按边的方向取回阶段标签，和 PlanGraph 互逆
func StageLabels(g *gographviz.Graph) []string {
	var labels []string
	for i := 0; ; i++ {
		n, ok := g.Nodes.Lookup[stageID(i)]
		if !ok {
			return labels
		}
		label := n.Attrs["label"]
		if s, err := strconv.Unquote(label); err == nil {
			label = s
		}
		labels = append(labels, label)
	}
}

// FormatPlan 单行显示，例如 "FromCollection(6) → Filter → Map"
func FormatPlan(stages []string) string {
	return strings.Join(stages, " → ")
}

// PrintPlanTree 每个阶段挂在上一个阶段下面，style 0 = ascii, 1 = unicode
func PrintPlanTree(stages []string, style int) string {
	if len(stages) == 0 {
		return "plan is empty\n"
	}
	connector, space := "'-- ", "    "
	if style == 1 {
		connector = "└── "
	}

	var b strings.Builder
	for depth, stage := range stages {
		fmt.Fprintf(&b, "%s%s%s\n", strings.Repeat(space, depth), connector, stage)
	}
	return b.String()
}
