package main

import (
	"fmt"
	"os"

	"stream_tool/pkg/errorutil"
	"stream_tool/pkg/logutil"

	"github.com/spf13/cobra"
)

const TOOL_VERSION = "1.0.0+20261014"

// 默认日志文件，日志和堆栈不能混进标准输出的 JSON 结果里
const DEFAULT_LOG_FILE = "streamdemo.log"

func newRootCmd() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "streamdemo",
		Short: fmt.Sprintf("streamdemo v%s 惰性流水线演示，支持 list/run/explain 子命令", TOOL_VERSION),
		Long: fmt.Sprintf("streamdemo v%s 惰性流水线演示\n\n"+
			"每个章节构造一条 源 -> 中间阶段 -> 终结操作 的流水线并输出结果\n", TOOL_VERSION),
	}

	rootCmd.AddCommand(listCmd(), runCmd(), explainCmd())
	var logFile string
	logLevel := logutil.WARN

	// 定义全局flag(屁股后面带P的函数才支持短选项)
	rootCmd.PersistentFlags().VarP(&logLevel, "log-level", "e", "日志等级(DEBUG/INFO/WARN/ERROR)")
	rootCmd.PersistentFlags().StringVarP(&logFile, "log-file", "l", DEFAULT_LOG_FILE, "日志文件名(stdout/stderr 表示标准输出/标准错误)")
	// 阻止 Cobra 在命令参数错误时输出帮助
	rootCmd.SilenceUsage = true
	// 阻止Cobra自动打印RunEs返回的错误内容
	rootCmd.SilenceErrors = true

	// PersistentPreRunE 在 flag 值填充后执行
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := logutil.InitLogger(logFile, logLevel); err != nil {
			return errorutil.NewExitError(errorutil.CodeInvalidUsage, err)
		}
		return nil
	}
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		msg, code := errorutil.FormatErrorAndCode(usageError(err))
		logutil.Error("命令执行失败: %v", err)
		fmt.Fprintln(os.Stderr, msg)
		logutil.CloseLogger()
		os.Exit(code)
	}

	// 不要用defer，因为defer是在函数返回前执行的，而不是os.Exit()执行前执行
	logutil.CloseLogger()
	os.Exit(errorutil.CodeSuccess)
}
