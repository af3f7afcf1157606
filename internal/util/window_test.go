package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetWindowMax(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(3)
	window.Append(1)
	window.Append(2)
	window.Append(3)

	// WHEN
	maximum := GetWindowMax(window)

	// THEN
	assert.Equal(t, 3.0, maximum)
}

func TestGetWindowAvg(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(2)
	window.Append(1)
	window.Append(2)
	window.Append(4)

	// WHEN
	avg := GetWindowAvg(window)

	// THEN
	assert.Equal(t, 3.0, avg)
}
