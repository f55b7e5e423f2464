package placement

import "math"

// randomAngles are the quarter turns drawn by the random rotation rule.
var randomAngles = [4]int{0, 90, 180, -90}

// Angle returns the rotation in degrees for the cell at (row, col).
// Unknown rules yield 0.
func Angle(rule Rotation, row, col, gridSize int, rng Rand) int {
	switch rule {
	case RotationRandom:
		return randomAngles[rng.IntN(len(randomAngles))]
	case RotationPyramid:
		return pyramidAngle(row, col, gridSize)
	default:
		return 0
	}
}

// pyramidAngle points every cell away from the grid center along the nearest
// cardinal direction: east 0, south 90, west 180, north -90. Screen
// coordinates are used, so y grows downward.
func pyramidAngle(row, col, gridSize int) int {
	center := float64(gridSize) / 2
	dx := float64(col) + 0.5 - center
	dy := float64(row) + 0.5 - center
	deg := math.Atan2(dy, dx) * 180 / math.Pi

	switch {
	case deg >= -45 && deg < 45:
		return 0
	case deg >= 45 && deg < 135:
		return 90
	case deg >= -135 && deg < -45:
		return -90
	default:
		return 180
	}
}
