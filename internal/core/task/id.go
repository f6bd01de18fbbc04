package task

import "fmt"

// GenerateTaskID generates a task ID from the current max number.
// This is a pure function that defines the ID format as a business rule.
// The format is MT-XXXX where XXXX is a zero-padded 4-digit number.
func GenerateTaskID(currentMax int) string {
	return fmt.Sprintf("MT-%04d", currentMax+1)
}

// ParseTaskNumber extracts the numeric portion from a task ID.
// Returns -1 if the ID format is invalid.
func ParseTaskNumber(id string) int {
	var num int
	_, err := fmt.Sscanf(id, "MT-%d", &num)
	if err != nil {
		return -1
	}
	return num
}
