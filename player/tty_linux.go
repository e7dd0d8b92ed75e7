//go:build linux

package player

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// linux/kd.h 中的控制台模式
const (
	kdText     = 0x00
	kdGraphics = 0x01
	kdSetMode  = 0x4B3A
)

var consolePaths = []string{"/dev/tty", "/dev/tty0"}

// setConsoleMode 切换当前虚拟终端的显示模式。图形模式下内核不再在帧缓冲上绘制光标与文字。
func setConsoleMode(mode int) error {
	var lastErr error
	for _, p := range consolePaths {
		fd, err := unix.Open(p, unix.O_RDONLY, 0)
		if err != nil {
			lastErr = fmt.Errorf("打开 %s 失败: %w", p, err)
			continue
		}
		err = unix.IoctlSetInt(fd, kdSetMode, mode)
		unix.Close(fd)
		if err != nil {
			lastErr = fmt.Errorf("设置 %s 控制台模式失败: %w", p, err)
			continue
		}
		return nil
	}
	return lastErr
}
