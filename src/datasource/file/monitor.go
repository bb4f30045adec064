// monitor.go
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileMonitor 监听数据文件的写入
// 监听的是文件所在目录，编辑器整体替换文件时也能收到事件
type FileMonitor struct {
	watchDir string
	target   string
	watcher  *fsnotify.Watcher
	lastMod  time.Time
	mu       sync.Mutex
}

func NewFileMonitor(path string) (*FileMonitor, error) {
	target, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", target, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(target)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	return &FileMonitor{
		watchDir: dir,
		target:   target,
		watcher:  watcher,
		lastMod:  info.ModTime(),
	}, nil
}

// Watch 阻塞直到ctx结束或watcher出错
// 每次目标文件的修改时间前进时同步调用一次handler
func (m *FileMonitor) Watch(ctx context.Context, handler func(string)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != m.target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}
			if m.advance(info.ModTime()) {
				handler(m.target)
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

func (m *FileMonitor) advance(mod time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !mod.After(m.lastMod) {
		return false
	}
	m.lastMod = mod
	return true
}

func (m *FileMonitor) Close() error {
	return m.watcher.Close()
}
