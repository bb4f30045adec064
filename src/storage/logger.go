package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// LogLevel 定义日志级别类型
type LogLevel int

// 日志级别常量定义
const (
	DEBUG   LogLevel = iota // 调试信息
	INFO                    // 普通信息
	WARNING                 // 警告信息
	ERROR                   // 错误信息
	FATAL                   // 致命错误
)

const timeLayout = "2006-01-02 15:04:05"

// Logger 日志记录器结构体
type Logger struct {
	name        string        // 日志文件路径
	maxSize     int64         // 超过该大小时轮转，0表示不轮转
	file        *os.File      // 日志文件句柄
	mu          sync.Mutex    // 互斥锁，保证并发安全
	subscribers []chan string // 订阅者通道列表
}

// NewLogger 创建新的日志记录器
// 参数:
//
//	filename: 日志文件路径
//	maxSize: 轮转大小表达式，如 "10 * 1024 * 1024"，空值表示不轮转
//
// 返回值:
//
//	*Logger: 日志记录器实例
//	error: 创建过程中的错误
func NewLogger(filename, maxSize string) (*Logger, error) {
	size, err := ParseSize(maxSize)
	if err != nil {
		return nil, err
	}

	file, err := openLogFile(filename)
	if err != nil {
		return nil, err
	}

	return &Logger{
		name:    filename,
		maxSize: size,
		file:    file,
	}, nil
}

func openLogFile(filename string) (*os.File, error) {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	// 打开或创建日志文件，权限设置为0644
	return os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// Close 关闭日志文件并关闭所有订阅通道
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, ch := range l.subscribers {
		close(ch)
	}
	l.subscribers = nil

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Reopen 重新打开日志文件，用于外部轮转后(SIGHUP)
func (l *Logger) Reopen() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// 关闭旧文件
	if l.file != nil {
		_ = l.file.Close()
	}

	file, err := openLogFile(l.name)
	if err != nil {
		l.file = nil
		return err
	}
	l.file = file
	return nil
}

// Log 记录日志方法
// 参数:
//
//	level: 日志级别
//	message: 日志消息内容
func (l *Logger) Log(level LogLevel, message string) {
	l.mu.Lock()         // 加锁保证线程安全
	defer l.mu.Unlock() // 方法结束时自动解锁

	// 格式化日志条目: [时间] 级别: 消息
	entry := fmt.Sprintf("[%s] %s: %s\n",
		time.Now().Format(timeLayout),
		level.String(),
		message)

	if l.file != nil {
		l.file.WriteString(entry)
	}

	// 通知所有订阅者
	for _, ch := range l.subscribers {
		select {
		case ch <- entry: // 尝试发送日志条目
		default: // 如果通道已满则跳过
		}
	}
}

// Logf 格式化后记录日志
func (l *Logger) Logf(level LogLevel, format string, args ...any) {
	l.Log(level, fmt.Sprintf(format, args...))
}

// CheckRotate 文件超过maxSize时轮转
// 旧文件重命名为 <name>.<时间戳><扩展名>
func (l *Logger) CheckRotate() (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.maxSize <= 0 || l.file == nil {
		return false, nil
	}
	info, err := l.file.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() <= l.maxSize {
		return false, nil
	}
	return true, l.rotate()
}

func (l *Logger) rotate() error {
	if err := l.file.Close(); err != nil {
		return err
	}
	l.file = nil

	ext := filepath.Ext(l.name)
	rotated := fmt.Sprintf("%s.%s%s",
		strings.TrimSuffix(l.name, ext),
		time.Now().Format("20060102150405.000000000"),
		ext)
	if err := os.Rename(l.name, rotated); err != nil {
		return err
	}

	file, err := openLogFile(l.name)
	if err != nil {
		return err
	}
	l.file = file
	return nil
}

// Subscribe 订阅日志消息
// 返回值:
//
//	<-chan string: 只读通道，用于接收日志消息
func (l *Logger) Subscribe() <-chan string {
	l.mu.Lock()
	defer l.mu.Unlock()

	// 创建带缓冲的通道(容量100)
	ch := make(chan string, 100)
	// 将新通道加入订阅者列表
	l.subscribers = append(l.subscribers, ch)
	return ch
}

// String 实现LogLevel的String方法
// 返回值:
//
//	string: 日志级别的字符串表示
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseSize 解析 "a * b * c" 形式的字节数表达式
func ParseSize(expr string) (int64, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0, nil
	}
	var result int64 = 1
	for _, part := range strings.Split(expr, "*") {
		num, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid log size %q: %w", expr, err)
		}
		if num < 0 {
			return 0, fmt.Errorf("invalid log size %q: negative factor", expr)
		}
		result *= num
	}
	return result, nil
}

// 以下是快捷日志方法
func (l *Logger) Debug(msg string)   { l.Log(DEBUG, msg) }   // 记录调试信息
func (l *Logger) Info(msg string)    { l.Log(INFO, msg) }    // 记录普通信息
func (l *Logger) Warning(msg string) { l.Log(WARNING, msg) } // 记录警告信息
func (l *Logger) Error(msg string)   { l.Log(ERROR, msg) }   // 记录错误信息
func (l *Logger) Fatal(msg string)   { l.Log(FATAL, msg) }   // 记录致命错误
