// Package logging 保存 typeloop 各子包共享的 slog 日志器，默认静默。
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler 丢弃所有记录；Enabled 返回 false，调用方因此跳过格式化开销。
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger 设置全局日志器，可并发调用；传 nil 恢复静默。
//
// 级别约定：
//   - Debug：逐帧诊断（theme、time、phase、frame）
//   - Info：生命周期事件（字体加载、播放器启停、导出完成）
//   - Warn：可恢复的问题（字体回退、输出设备不可用）
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger 返回当前日志器。
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
