package services

// Session quota tiers. Three designated programs get the elevated ceiling,
// every other course the standard one. The ceiling is assigned at
// registration and re-derived whenever the course changes.
const (
	// StandardMaxSessions is the default sit-in quota ceiling
	StandardMaxSessions = 25
	// ElevatedMaxSessions is the ceiling for the designated computing programs
	ElevatedMaxSessions = 30
)

// ElevatedPrograms lists the course codes entitled to the elevated ceiling
var ElevatedPrograms = []string{"BSIT", "BSCS", "BSCE"}

// AssignQuota derives the sit-in quota ceiling for a program of study
func AssignQuota(course string) int {
	for _, program := range ElevatedPrograms {
		if course == program {
			return ElevatedMaxSessions
		}
	}
	return StandardMaxSessions
}
