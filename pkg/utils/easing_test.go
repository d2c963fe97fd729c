package utils

import (
	"math"
	"testing"
)

// TestEasingEndpoints 测试所有缓动函数的端点
func TestEasingEndpoints(t *testing.T) {
	funcs := map[string]func(float64) float64{
		"EaseOutCubic": EaseOutCubic,
		"EaseOutQuad":  EaseOutQuad,
		"SmoothStep":   SmoothStep,
	}

	for name, fn := range funcs {
		t.Run(name, func(t *testing.T) {
			if got := fn(0); math.Abs(got) > 0.001 {
				t.Errorf("%s(0) = %v, 期望 0", name, got)
			}
			if got := fn(1); math.Abs(got-1) > 0.001 {
				t.Errorf("%s(1) = %v, 期望 1", name, got)
			}
		})
	}
}

// TestEaseOutCubic 测试三次方缓出函数
func TestEaseOutCubic(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"中点", 0.5, 0.875},
		{"四分之一", 0.25, 0.578125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EaseOutCubic(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("EaseOutCubic(%v) = %v, 期望 %v", tt.input, result, tt.expected)
			}
		})
	}
}

// TestSmoothStepClamp 测试 SmoothStep 的输入限制
func TestSmoothStepClamp(t *testing.T) {
	if got := SmoothStep(-1); got != 0 {
		t.Errorf("SmoothStep(-1) = %v, 期望 0", got)
	}
	if got := SmoothStep(2); got != 1 {
		t.Errorf("SmoothStep(2) = %v, 期望 1", got)
	}
}
