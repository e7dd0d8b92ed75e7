// Package anim 提供与渲染后端无关的动画数学：时间归一化、字重动画、颜色循环与特殊字形规则。
// 这里的函数都是纯函数，导出流程可以在没有渲染器的情况下直接调用它们做预估。
package anim

import "math"

const (
	// BaseCycleFrames 是速度为 1 时一个动画循环的帧数。
	BaseCycleFrames = 150
	// FPS 是动画时钟的离散帧率。
	FPS = 30

	// frameEpsilon 吸收 i/fps*fps 的浮点误差，使定位到 i/fps 的请求总是落在第 i 帧。
	frameEpsilon = 1e-6
)

// CycleFrames 返回一个循环包含的整数帧数（至少为 1）。
// speed 必须大于 0，由 Settings 校验保证。
func CycleFrames(speed float64, baseCycleFrames, fps int) int {
	maxFrames := math.Round(float64(baseCycleFrames) / speed)
	if maxFrames < 1 || math.IsNaN(maxFrames) {
		return 1
	}
	return int(maxFrames)
}

// CyclePeriod 返回一个循环的秒数：maxFrames / fps。
func CyclePeriod(speed float64, baseCycleFrames, fps int) float64 {
	return float64(CycleFrames(speed, baseCycleFrames, fps)) / float64(fps)
}

// NormalizeTime 把动画时钟时间映射到 [0, 2π) 的相位。
// 循环帧数取整，因此任意速度下都在整数帧后回到相位 0，导出的循环首尾无缝。
func NormalizeTime(t, speed float64, baseCycleFrames, fps int) float64 {
	maxFrames := float64(CycleFrames(speed, baseCycleFrames, fps))
	frame := math.Mod(math.Floor(t*float64(fps)+frameEpsilon), maxFrames)
	if frame < 0 {
		frame += maxFrames
	}
	return frame / maxFrames * 2 * math.Pi
}

// FrameIndex 返回时间 t 所在循环内的帧序号，与 NormalizeTime 使用同一取整规则。
func FrameIndex(t, speed float64, baseCycleFrames, fps int) int {
	maxFrames := CycleFrames(speed, baseCycleFrames, fps)
	frame := int(math.Floor(t*float64(fps)+frameEpsilon)) % maxFrames
	if frame < 0 {
		frame += maxFrames
	}
	return frame
}
