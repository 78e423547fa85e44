package pinpolicy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeypadPoint(t *testing.T) {
	p, ok := KeypadPoint('0')
	assert.True(t, ok)
	assert.Equal(t, Point{X: 1, Y: 3}, p)

	p, ok = KeypadPoint('7')
	assert.True(t, ok)
	assert.Equal(t, Point{X: 0, Y: 2}, p)

	_, ok = KeypadPoint('*')
	assert.False(t, ok)
}

func TestIsKeypadPattern(t *testing.T) {
	tests := []struct {
		name     string
		pin      string
		expected bool
	}{
		{name: "vertical line through zero", pin: "2580", expected: true},
		{name: "horizontal line", pin: "4566", expected: true},
		{name: "diagonal line", pin: "1595", expected: true},
		{name: "six digit column walk", pin: "258085", expected: true},
		{name: "L-shape", pin: "1478", expected: true},
		{name: "L-shape mirrored", pin: "3698", expected: true},
		{name: "corner cycle", pin: "1397", expected: true},
		{name: "corner cycle reversed", pin: "1793", expected: true},
		{name: "corner cycle rotated", pin: "9713", expected: true},
		{name: "corners out of order", pin: "1739", expected: false},
		{name: "square walk has two right angles", pin: "1254", expected: false},
		{name: "zigzag", pin: "8068", expected: false},
		{name: "non keypad symbol", pin: "12*4", expected: false},
		{name: "too short", pin: "12", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsKeypadPattern(tt.pin))
		})
	}
}
