package logutil

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"sync"
)

// Level 日志级别，实现了 pflag.Value，可以直接给 cobra 的 VarP 用
type Level int

const (
	DEBUG Level = iota // 0
	INFO               // 1
	WARN               // 2
	ERROR              // 3
)

// 定义日志级别映射字符串
var LOG_LEVELS = map[string]Level{
	"DEBUG": DEBUG,
	"INFO":  INFO,
	"WARN":  WARN,
	"ERROR": ERROR,
}

func (l *Level) String() string {
	for name, v := range LOG_LEVELS {
		if v == *l {
			return name
		}
	}
	return fmt.Sprintf("Level(%d)", int(*l))
}

func (l *Level) Set(val string) error {
	v, ok := LOG_LEVELS[strings.ToUpper(val)]
	if !ok {
		return fmt.Errorf("无效的日志级别: %s (DEBUG/INFO/WARN/ERROR)", val)
	}
	*l = v
	return nil
}

func (l *Level) Type() string {
	return "loglevel"
}

var (
	mu           sync.Mutex
	logger       *log.Logger
	logFile      *os.File
	currentLevel = INFO // 默认日志级别
)

// InitLogger 初始化日志，output 为 stdout/stderr 或者文件路径(追加写入)
func InitLogger(output string, level Level) error {
	mu.Lock()
	defer mu.Unlock()

	var w io.Writer
	switch output {
	case "stdout":
		w = os.Stdout
	case "stderr", "":
		w = os.Stderr
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("无法创建日志文件 %s: %w", output, err)
		}
		w = f
	}
	closeFileLocked()
	if f, ok := w.(*os.File); ok && f != os.Stdout && f != os.Stderr {
		logFile = f
	}
	logger = log.New(w, "", log.LstdFlags)
	currentLevel = level
	return nil
}

// SetOutput 把日志重定向到任意 writer，测试里用来捕获输出
func SetOutput(w io.Writer, level Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = log.New(w, "", 0)
	currentLevel = level
}

// 设置日志级别
func SetLogLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
}

// 判断某个级别当前是否会输出，避免无谓的格式化
func Enabled(level Level) bool {
	mu.Lock()
	defer mu.Unlock()
	return level >= currentLevel
}

// logMessage 只输出不低于当前级别的日志
func logMessage(level Level, msg string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if level < currentLevel {
		return
	}
	// 没初始化过就写 stderr，不污染标准输出
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	_, file, line, _ := runtime.Caller(2) // 获取真正调用的文件+行号
	file = filepath.Base(file)

	formattedArgs := make([]any, 0, len(args))
	for _, arg := range args {
		formattedArgs = append(formattedArgs, formatArg(arg))
	}

	logger.Printf("[%s:%d] %s", file, line, fmt.Sprintf(msg, formattedArgs...))
}

// 结构体逐字段打印，集合转 JSON，其它原样
func formatArg(arg any) any {
	if arg == nil {
		return arg
	}
	// error 和 Stringer 自己知道怎么打印
	switch arg.(type) {
	case error, fmt.Stringer:
		return arg
	}

	v := reflect.ValueOf(arg)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return arg
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		return strings.TrimRight(PrintStruct(arg, false), "\n")
	case reflect.Slice, reflect.Map:
		jsonData, err := json.Marshal(arg)
		if err != nil {
			return fmt.Sprintf("无法格式化: %v", err)
		}
		return string(jsonData)
	}
	return arg
}

func Info(msg string, args ...any) {
	logMessage(INFO, "[INFO] "+msg, args...)
}

func Warn(msg string, args ...any) {
	logMessage(WARN, "[WARN] "+msg, args...)
}

// Error 附带调用堆栈
func Error(msg string, args ...any) {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	// 堆栈里可能有 % 号，不能拼进格式串
	logMessage(ERROR, "[ERR] "+msg+"\n调用堆栈:\n%s", append(args, string(buf[:n]))...)
}

func Debug(msg string, args ...any) {
	logMessage(DEBUG, "[DBG] "+msg, args...)
}

// 关闭日志文件（如果有的话）
func CloseLogger() error {
	mu.Lock()
	defer mu.Unlock()
	return closeFileLocked()
}

func closeFileLocked() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// 递归格式化结构体信息
func formatStruct(s any, indent string) string {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return fmt.Sprintf("%s非结构体类型: %#v\n", indent, v.Kind())
	}
	t := v.Type()

	var builder strings.Builder
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		value := v.Field(i)

		if value.Kind() != reflect.Struct {
			builder.WriteString(fmt.Sprintf("%s%s: %#v\n", indent, field.Name, value.Interface()))
		} else {
			// 嵌套结构体先打印字段名，再递归
			builder.WriteString(fmt.Sprintf("%s%s:\n", indent, field.Name))
			builder.WriteString(formatStruct(value.Interface(), indent+"    "))
		}
	}

	return builder.String()
}

// 打印结构体信息（支持控制是否输出到标准输出）
func PrintStruct(s any, printToStdout bool) string {
	result := formatStruct(s, "")
	if printToStdout {
		fmt.Print(result)
	}
	return result
}
