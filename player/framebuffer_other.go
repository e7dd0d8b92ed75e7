//go:build !linux

package player

import (
	"errors"
	"image"
)

// FramebufferSink 只在 Linux 上可用。
type FramebufferSink struct{}

var _ Sink = (*FramebufferSink)(nil)

// OpenFramebuffer 在非 Linux 平台总是失败。
func OpenFramebuffer(path string) (*FramebufferSink, error) {
	return nil, errors.New("帧缓冲预览仅支持 Linux")
}

func (s *FramebufferSink) Present(*image.RGBA) error {
	return errors.New("帧缓冲预览仅支持 Linux")
}

func (s *FramebufferSink) Close() {}
