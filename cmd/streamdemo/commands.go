package main

import (
	"errors"
	"fmt"
	"io"

	"stream_tool/pkg/errorutil"
	"stream_tool/pkg/graph"
	"stream_tool/pkg/logutil"
	"stream_tool/pkg/report"
	"stream_tool/pkg/walkthrough"

	"github.com/spf13/cobra"
)

type runOptions struct {
	Format     string
	JSONFormat report.JSONFormat
	Query      string
}

type explainOptions struct {
	Dot   bool
	Style int
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "列出所有演示章节",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listSections(cmd.OutOrStdout())
		},
	}
}

func runCmd() *cobra.Command {
	opts := &runOptions{JSONFormat: report.JSONFormatMul}

	cmd := &cobra.Command{
		Use:   "run [section...]",
		Short: "执行演示章节，不指定时按顺序执行全部",
		Long: `执行演示章节，不指定时按顺序执行全部

范例:
	./streamdemo run
	./streamdemo run map filter -t json
	./streamdemo run grouping -t json -F one --query sections.0.value`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSections(cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "t", "txt", "输出格式：txt/json")
	cmd.Flags().VarP(&opts.JSONFormat, "jsonformat", "F", "输出的 JSON 的格式(mul|one)，代表多行或者一行")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "gjson 路径，只输出报告的一部分(仅 json 格式)")
	return cmd
}

func explainCmd() *cobra.Command {
	opts := &explainOptions{}

	cmd := &cobra.Command{
		Use:   "explain <section>",
		Short: "显示某个章节的执行计划",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return explainSection(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Dot, "dot", "d", false, "输出 graphviz DOT 格式")
	cmd.Flags().IntVarP(&opts.Style, "style", "s", 1, "树形输出风格 0 = ascii, 1 = unicode")
	return cmd
}

func listSections(w io.Writer) error {
	for _, s := range walkthrough.Sections() {
		if _, err := fmt.Fprintf(w, "%-12s %s\n", s.Name, s.Title); err != nil {
			return errorutil.NewExitError(errorutil.CodeOutputError, err)
		}
	}
	return nil
}

func runSections(w io.Writer, names []string, opts *runOptions) error {
	results, err := walkthrough.RunNamed(names)
	if err != nil {
		return classify(err)
	}

	var out []byte
	switch opts.Format {
	case "txt":
		if opts.Query != "" {
			return errorutil.NewExitErrorWithMessage(errorutil.CodeInvalidUsage, "--query 只能和 -t json 一起使用", nil)
		}
		out = report.Text(results)
	case "json":
		doc, err := report.Build("streamdemo", results)
		if err != nil {
			return errorutil.NewExitError(errorutil.CodeOutputError, err)
		}
		if doc, err = report.Query(doc, opts.Query); err != nil {
			return errorutil.NewExitError(errorutil.CodeInvalidUsage, err)
		}
		if out, err = report.Format(doc, opts.JSONFormat); err != nil {
			return errorutil.NewExitError(errorutil.CodeInvalidUsage, err)
		}
	default:
		return errorutil.NewExitErrorWithMessage(errorutil.CodeInvalidUsage,
			fmt.Sprintf("不支持的输出格式: %s", opts.Format), nil)
	}

	if _, err := w.Write(out); err != nil {
		return errorutil.NewExitError(errorutil.CodeOutputError, err)
	}
	return nil
}

func explainSection(w io.Writer, name string, opts *explainOptions) error {
	results, err := walkthrough.RunNamed([]string{name})
	if err != nil {
		return classify(err)
	}
	r := results[0]
	logutil.Debug("章节 %s 的执行计划: %v", name, r.Stages)

	var text string
	if opts.Dot {
		if text, err = graph.RenderDOT(r.Name, r.Stages); err != nil {
			return errorutil.NewExitError(errorutil.CodeOutputError, err)
		}
	} else {
		text = graph.FormatPlan(r.Stages) + "\n" + graph.PrintPlanTree(r.Stages, opts.Style)
	}

	if _, err := io.WriteString(w, text); err != nil {
		return errorutil.NewExitError(errorutil.CodeOutputError, err)
	}
	return nil
}

// classify 给章节执行错误分配退出码
func classify(err error) error {
	var unknown *walkthrough.UnknownSectionError
	if errors.As(err, &unknown) {
		return errorutil.NewExitError(errorutil.CodeUnknownSection, err)
	}
	return errorutil.NewExitError(errorutil.CodePipelineFailed, err)
}

// cobra 自己的参数/flag 解析错误没有退出码，按用法错误处理
func usageError(err error) error {
	if errorutil.HasExitCode(err) {
		return err
	}
	return errorutil.NewExitError(errorutil.CodeInvalidUsage, err)
}
