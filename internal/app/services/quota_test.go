package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignQuota(t *testing.T) {
	tests := []struct {
		course string
		want   int
	}{
		{"BSIT", 30},
		{"BSCS", 30},
		{"BSCE", 30},
		{"BSED", 25},
		{"BSBA", 25},
		{"", 25},
		// Matching is case sensitive, unknown spellings fall to the standard tier
		{"bsit", 25},
	}

	for _, tt := range tests {
		t.Run(tt.course, func(t *testing.T) {
			assert.Equal(t, tt.want, AssignQuota(tt.course))
		})
	}
}
