/*
 * Copyright 2024 caiflower Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package logger

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/caiflower/tinyhttp/pkg/e"
	"github.com/caiflower/tinyhttp/pkg/syncx"
	"github.com/caiflower/tinyhttp/pkg/tools"
)

type Appender interface {
	write(data data)
	close()
}

const gz = ".gz"

type appenderConfig struct {
	timeFormat        string
	dir               string
	fileName          string
	rollingPolicy     string
	maxTime           time.Duration
	maxSize           int64
	backupMaxCount    int
	enableTrace       bool
	enableCompress    bool
	enableCleanBackup bool
	enableColor       bool
	writer            io.Writer
}

type logAppender struct {
	appenderConfig

	bufPool      sync.Pool
	writeLock    sync.Locker
	compressLock sync.Locker
	out          io.Writer
	logFile      *os.File
	filesize     int64
	lastTime     time.Time
	backups      sync.WaitGroup
}

func newLogAppender(config appenderConfig) Appender {
	appender := &logAppender{
		appenderConfig: config,
		bufPool: sync.Pool{
			New: func() interface{} {
				return new(strings.Builder)
			}},
		writeLock:    syncx.NewSpinLock(),
		compressLock: syncx.NewSpinLock(),
	}

	if appender.dir == "" {
		appender.out = config.writer
		if appender.out == nil {
			appender.out = os.Stdout
		}
		return appender
	}

	if err := tools.Mkdir(appender.dir, 0755); err != nil {
		panic(fmt.Sprintf("[logger appender] mkdir err: %s\n", err))
	}
	appender.openLogFile()
	appender.backupAsync()

	return appender
}

func getMaxTime(maxTime string) time.Duration {
	if maxTime == "" {
		return 0
	}
	d, err := time.ParseDuration(maxTime)
	if err != nil {
		panic(fmt.Sprintf("[logger appender] maxTime unKnown %s", maxTime))
	}
	return d
}

func getMaxSize(maxSize string) int64 {
	if maxSize == "" {
		return 0
	}
	units := []struct {
		suffix string
		size   int64
	}{{"KB", 1 << 10}, {"MB", 1 << 20}, {"GB", 1 << 30}}
	for _, unit := range units {
		if strings.HasSuffix(maxSize, unit.suffix) {
			numStr := strings.TrimSuffix(maxSize, unit.suffix)
			num, err := strconv.ParseInt(numStr, 10, 64)
			if err != nil {
				panic(fmt.Sprintf("[logger appender] convert %s num err: %s", numStr, err.Error()))
			}
			return num * unit.size
		}
	}
	panic(fmt.Sprintf("[logger appender] maxSize unKnown %s", maxSize))
}

func (appender *logAppender) filePath() string {
	return filepath.Join(appender.dir, appender.fileName)
}

func (appender *logAppender) openLogFile() {
	logfile, err := os.OpenFile(appender.filePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		panic(fmt.Errorf("[logger appender] open logfile err: %s\n", err))
	}
	appender.logFile = logfile
	appender.out = logfile
	appender.filesize, _ = tools.FileSize(appender.filePath())
	appender.lastTime = time.Now()
}

func (appender *logAppender) format(d data) *strings.Builder {
	buf := appender.bufPool.Get().(*strings.Builder)
	buf.Reset()

	level := d.level
	if appender.enableColor {
		level = getLevelColor(level)
	}
	buf.WriteString(d.timestamp.Format(appender.timeFormat))
	buf.WriteString(" [")
	buf.WriteString(level)
	buf.WriteString("] ")
	if appender.enableTrace && d.traceID != "" {
		buf.WriteString("[")
		buf.WriteString(d.traceID)
		buf.WriteString("] ")
	}
	buf.WriteString(d.position)
	buf.WriteString(" - ")
	buf.WriteString(d.content)
	buf.WriteString("\n")
	return buf
}

func (appender *logAppender) write(d data) {
	defer e.OnError("[logger appender]")

	buf := appender.format(d)
	defer appender.bufPool.Put(buf)

	appender.writeLock.Lock()
	defer appender.writeLock.Unlock()

	if appender.needCutLog() {
		appender.cutLog()
	}
	if appender.out == nil {
		return
	}
	n, err := io.WriteString(appender.out, buf.String())
	if err != nil {
		fmt.Printf("[logger appender] output err %s\n", err.Error())
	}
	appender.filesize += int64(n)
}

func (appender *logAppender) needCutLog() bool {
	if appender.logFile == nil {
		return false
	}
	timeUp := appender.maxTime > 0 && time.Since(appender.lastTime) > appender.maxTime
	sizeUp := appender.maxSize > 0 && appender.filesize > appender.maxSize
	switch appender.rollingPolicy {
	case RollingPolicyTimeAndSize:
		return timeUp || sizeUp
	case RollingPolicyTime:
		return timeUp
	case RollingPolicySize:
		return sizeUp
	default:
		return false
	}
}

// cutLog 调用方需持有writeLock
func (appender *logAppender) cutLog() {
	if err := appender.logFile.Close(); err != nil {
		fmt.Printf("[logger appender] close logfile err: %s\n", err)
	}
	appender.logFile = nil

	target := appender.fileName + "-" + time.Now().Format("20060102150405")
	backups := appender.backupFiles()
	for i := 1; tools.StringSliceContains(backups, target) || tools.StringSliceContains(backups, target+gz); i++ {
		target = appender.fileName + "-" + time.Now().Format("20060102150405") + "-" + strconv.Itoa(i)
	}
	if err := os.Rename(appender.filePath(), filepath.Join(appender.dir, target)); err != nil {
		fmt.Printf("[logger appender] rename logfile err: %s\n", err)
	}

	appender.openLogFile()
	appender.backupAsync()
}

func (appender *logAppender) backupAsync() {
	appender.backups.Add(1)
	go func() {
		defer appender.backups.Done()
		defer e.OnError("[logger backup]")
		appender.compressLog()
		appender.cleanLog()
	}()
}

// backupFiles 按切分时间升序返回备份文件
func (appender *logAppender) backupFiles() []string {
	entries, err := os.ReadDir(appender.dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, v := range entries {
		if name := v.Name(); !v.IsDir() && strings.HasPrefix(name, appender.fileName+"-") {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	return files
}

func (appender *logAppender) compressLog() {
	if !appender.enableCompress {
		return
	}
	appender.compressLock.Lock()
	defer appender.compressLock.Unlock()

	for _, v := range appender.backupFiles() {
		if strings.HasSuffix(v, gz) {
			continue
		}
		if err := compressFile(filepath.Join(appender.dir, v)); err != nil {
			fmt.Printf("[logger compress] compress %s err: %s\n", v, err)
		}
	}
}

func compressFile(path string) error {
	from, err := os.Open(path)
	if err != nil {
		return err
	}
	defer from.Close()

	target, err := os.Create(path + gz)
	if err != nil {
		return err
	}
	defer target.Close()

	gzipWriter := gzip.NewWriter(target)
	if _, err = io.Copy(gzipWriter, from); err != nil {
		return err
	}
	if err = gzipWriter.Close(); err != nil {
		return err
	}
	return os.Remove(path)
}

func (appender *logAppender) cleanLog() {
	if !appender.enableCleanBackup {
		return
	}
	appender.compressLock.Lock()
	defer appender.compressLock.Unlock()

	files := appender.backupFiles()
	for i := 0; len(files)-i > appender.backupMaxCount; i++ {
		if err := os.Remove(filepath.Join(appender.dir, files[i])); err != nil {
			fmt.Printf("[logger clean] remove %s err: %s\n", files[i], err)
		}
	}
}

func (appender *logAppender) close() {
	appender.writeLock.Lock()
	if appender.logFile != nil {
		if err := appender.logFile.Sync(); err != nil {
			fmt.Printf("[logger close] sync log file err: %s\n", err)
		}
		if err := appender.logFile.Close(); err != nil {
			fmt.Printf("[logger close] close logfile err: %s\n", err)
		}
		appender.logFile = nil
		appender.out = nil
	}
	appender.writeLock.Unlock()

	appender.backups.Wait()
}
