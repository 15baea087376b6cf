// Package alert 面向用户的一次性提示
package alert

import (
	"sync"

	"go.uber.org/zap"
)

// Alerter 展示一次性提示
type Alerter interface {
	Alert(title, message string)
}

// Func 函数适配器
type Func func(title, message string)

// Alert 实现 Alerter
func (f Func) Alert(title, message string) {
	if f != nil {
		f(title, message)
	}
}

// Nop 丢弃所有提示
var Nop Alerter = Func(nil)

// LogAlerter 把提示写入结构化日志
type LogAlerter struct {
	log *zap.SugaredLogger
}

// NewLogAlerter 创建日志提示器，log 为空时使用全局日志
func NewLogAlerter(log *zap.Logger) *LogAlerter {
	if log == nil {
		log = zap.L()
	}
	return &LogAlerter{log: log.Sugar()}
}

// Alert 实现 Alerter
func (a *LogAlerter) Alert(title, message string) {
	a.log.Infow("user_alert", "title", title, "message", message)
}

// Entry 一条已记录的提示
type Entry struct {
	Title   string
	Message string
}

// Recorder 记录所有提示，测试用
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Alert 实现 Alerter
func (r *Recorder) Alert(title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Title: title, Message: message})
}

// Entries 已记录的提示副本
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Last 最近一条提示
func (r *Recorder) Last() (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return Entry{}, false
	}
	return r.entries[len(r.entries)-1], true
}

// Reset 清空记录
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}
