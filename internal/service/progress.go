package service

import "math"

// ComputeProgress derives a completion percentage from the number of completed
// gradable items versus the course total. A course with no gradable content
// yields 0 rather than dividing by zero. Rounding is half-up.
func ComputeProgress(completedCount, totalGradableCount int) int {
	if totalGradableCount <= 0 {
		return 0
	}
	if completedCount <= 0 {
		return 0
	}
	if completedCount >= totalGradableCount {
		return 100
	}

	return int(math.Round(100 * float64(completedCount) / float64(totalGradableCount)))
}
