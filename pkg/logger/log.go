package logger

import (
	"fmt"
	"io"
	"runtime"
	"strconv"
	"sync"
	"time"

	golocalv1 "github.com/caiflower/tinyhttp/pkg/golocal/v1"
)

const (
	_trace = iota
	_debug
	_info
	_warn
	_error
	_fatal

	TraceLevel = "TRACE"
	DebugLevel = "DEBUG"
	InfoLevel  = "INFO"
	WarnLevel  = "WARN"
	ErrorLevel = "ERROR"
	FatalLevel = "FATAL"

	_timeFormat = "2006-01-02 15:04:05"

	RollingPolicyTime        = "time"
	RollingPolicySize        = "size"
	RollingPolicyTimeAndSize = "timeAndSize"
	RollingPolicyClose       = "close"
)

type ILog interface {
	Trace(text string, v ...interface{})
	Debug(text string, v ...interface{})
	Info(text string, v ...interface{})
	Warn(text string, v ...interface{})
	Error(text string, v ...interface{})
	Fatal(text string, v ...interface{})
}

type data struct {
	timestamp time.Time
	traceID   string
	position  string
	level     string
	content   string
}

type Config struct {
	Level          string    `yaml:"level" default:"INFO"`              // 日志级别
	EnableTrace    string    `yaml:"trace"`                             // 是否输出TraceID, True/False。默认True
	QueueLength    int       `yaml:"queueLength" default:"50000"`       // 缓存队列大小
	AppenderNum    int       `yaml:"appenderNum" default:"2"`           // 日志输出协程数量
	TimeFormat     string    `yaml:"timeFormat" default:"2006-01-02 15:04:05"`
	Path           string    `yaml:"path"`                              // 日志存储目录，为空时输出到控制台
	FileName       string    `yaml:"fileName" default:"app.log"`        // 日志文件名称
	RollingPolicy  string    `yaml:"rollingPolicy" default:"timeAndSize"`
	MaxSize        string    `yaml:"maxSize" default:"500MB"`           // 1MB, 10KB, 1GB
	MaxTime        string    `yaml:"maxTime" default:"24h"`             // 60s, 60m, 1h
	Compress       string    `yaml:"compress"`                          // 是否压缩备份日志, True/False。默认True
	CleanBackup    string    `yaml:"cleanBackup"`                       // 是否清理备份日志, True/False。默认True
	BackupMaxCount int       `yaml:"backupMaxCount" default:"10"`       // 保留备份日志文件最大数量
	EnableColor    string    `yaml:"color"`                             // 是否开启颜色
	Writer         io.Writer `yaml:"-"`                                 // 控制台模式下的输出，默认os.Stdout
}

var defaultLogger = newLoggerHandler(&Config{})

func Trace(text string, v ...interface{}) {
	defaultLogger.log(TraceLevel, text, v...)
}
func Debug(text string, v ...interface{}) {
	defaultLogger.log(DebugLevel, text, v...)
}
func Info(text string, v ...interface{}) {
	defaultLogger.log(InfoLevel, text, v...)
}
func Warn(text string, v ...interface{}) {
	defaultLogger.log(WarnLevel, text, v...)
}
func Error(text string, v ...interface{}) {
	defaultLogger.log(ErrorLevel, text, v...)
}
func Fatal(text string, v ...interface{}) {
	defaultLogger.log(FatalLevel, text, v...)
}

type LoggerHandler struct {
	lock        sync.RWMutex
	level       int
	dataQueue   chan data
	logAppender Appender
	workers     sync.WaitGroup
	closed      bool
}

func DefaultLogger() *LoggerHandler {
	return defaultLogger
}

// InitLogger 替换默认日志，旧的默认日志会被关闭
func InitLogger(config *Config) {
	old := defaultLogger
	defaultLogger = newLoggerHandler(config)
	old.Close()
}

func NewLogger(config *Config) *LoggerHandler {
	return newLoggerHandler(config)
}

func parseBool(s string, def bool) bool {
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

func newLoggerHandler(config *Config) *LoggerHandler {
	if config.Level == "" {
		config.Level = InfoLevel
	}
	if config.QueueLength <= 0 {
		config.QueueLength = 50000
	}
	if config.AppenderNum <= 0 {
		config.AppenderNum = 2
	}
	if config.TimeFormat == "" {
		config.TimeFormat = _timeFormat
	}
	if config.FileName == "" {
		config.FileName = "app.log"
	}
	if config.RollingPolicy == "" {
		config.RollingPolicy = RollingPolicyTimeAndSize
	}
	if config.MaxSize == "" {
		config.MaxSize = "500MB"
	}
	if config.MaxTime == "" {
		config.MaxTime = "24h"
	}
	if config.BackupMaxCount <= 0 {
		config.BackupMaxCount = 10
	}

	lh := &LoggerHandler{
		level:     getLevel(config.Level),
		dataQueue: make(chan data, config.QueueLength),
		logAppender: newLogAppender(appenderConfig{
			timeFormat:        config.TimeFormat,
			dir:               config.Path,
			fileName:          config.FileName,
			rollingPolicy:     config.RollingPolicy,
			maxTime:           getMaxTime(config.MaxTime),
			maxSize:           getMaxSize(config.MaxSize),
			backupMaxCount:    config.BackupMaxCount,
			enableTrace:       parseBool(config.EnableTrace, true),
			enableCompress:    parseBool(config.Compress, true),
			enableCleanBackup: parseBool(config.CleanBackup, true),
			enableColor:       parseBool(config.EnableColor, false),
			writer:            config.Writer,
		}),
	}

	for i := 0; i < config.AppenderNum; i++ {
		lh.workers.Add(1)
		go func() {
			defer lh.workers.Done()
			for d := range lh.dataQueue {
				lh.logAppender.write(d)
			}
		}()
	}

	return lh
}

// Close 等待队列中的日志全部输出后关闭
func (lh *LoggerHandler) Close() {
	lh.lock.Lock()
	if lh.closed {
		lh.lock.Unlock()
		return
	}
	lh.closed = true
	close(lh.dataQueue)
	lh.lock.Unlock()

	lh.workers.Wait()
	lh.logAppender.close()
}

func (lh *LoggerHandler) Trace(text string, v ...interface{}) {
	lh.log(TraceLevel, text, v...)
}

func (lh *LoggerHandler) Debug(text string, v ...interface{}) {
	lh.log(DebugLevel, text, v...)
}

func (lh *LoggerHandler) Info(text string, v ...interface{}) {
	lh.log(InfoLevel, text, v...)
}

func (lh *LoggerHandler) Warn(text string, v ...interface{}) {
	lh.log(WarnLevel, text, v...)
}

func (lh *LoggerHandler) Error(text string, v ...interface{}) {
	lh.log(ErrorLevel, text, v...)
}

func (lh *LoggerHandler) Fatal(text string, v ...interface{}) {
	lh.log(FatalLevel, text, v...)
}

func getLevel(level string) int {
	switch level {
	case TraceLevel:
		return _trace
	case DebugLevel:
		return _debug
	case InfoLevel:
		return _info
	case WarnLevel:
		return _warn
	case ErrorLevel:
		return _error
	case FatalLevel:
		return _fatal
	default:
		return _trace
	}
}

func getLevelColor(level string) string {
	switch level {
	case TraceLevel:
		return fmt.Sprintf("\033[1;37m%s\033[0m", TraceLevel)
	case DebugLevel:
		return fmt.Sprintf("\033[1;36m%s\033[0m", DebugLevel)
	case InfoLevel:
		return fmt.Sprintf("\033[1;32m%s\033[0m", InfoLevel)
	case WarnLevel:
		return fmt.Sprintf("\033[1;33m%s\033[0m", WarnLevel)
	case ErrorLevel, FatalLevel:
		return fmt.Sprintf("\033[1;31m%s\033[0m", level)
	default:
		return level
	}
}

func (lh *LoggerHandler) log(level string, text string, v ...interface{}) {
	if lh.level > getLevel(level) {
		return
	}

	// skip log和Info等导出方法
	_, file, line, _ := runtime.Caller(2)
	for i := len(file) - 1; i > 0; i-- {
		if file[i] == '/' {
			file = file[i+1:]
			break
		}
	}

	d := data{
		timestamp: time.Now(),
		level:     level,
		content:   fmt.Sprintf(text, v...),
		traceID:   golocalv1.GetTraceID(),
		position:  file + ":" + strconv.Itoa(line),
	}

	lh.lock.RLock()
	defer lh.lock.RUnlock()
	if lh.closed {
		return
	}
	lh.dataQueue <- d
}
