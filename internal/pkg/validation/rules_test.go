package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDNumberPattern(t *testing.T) {
	valid := []string{"20230001", "00000000", "99999999"}
	for _, s := range valid {
		assert.True(t, CompiledPatterns.IDNumber.MatchString(s), s)
	}

	invalid := []string{"", "2023001", "202300011", "2023000a", "2023-001"}
	for _, s := range invalid {
		assert.False(t, CompiledPatterns.IDNumber.MatchString(s), s)
	}
}

func TestLabRoomPattern(t *testing.T) {
	valid := []string{"Lab 1", "Lab 9", "Lab 10", "Lab 11"}
	for _, s := range valid {
		assert.True(t, CompiledPatterns.LabRoom.MatchString(s), s)
	}

	invalid := []string{"", "Lab 0", "Lab 12", "lab 1", "Lab1", "Lab 01", "Room 1"}
	for _, s := range invalid {
		assert.False(t, CompiledPatterns.LabRoom.MatchString(s), s)
	}
}
