package validation

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Student ID number pattern - 8 digits
	IDNumberPattern = `^\d{8}$`

	// Lab room pattern - "Lab" followed by a room number
	LabRoomPattern = `^Lab ([1-9]|1[0-1])$`

	// Password min length
	PasswordMinLength = 8
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	IDNumber *regexp.Regexp
	LabRoom  *regexp.Regexp
}{
	IDNumber: regexp.MustCompile(IDNumberPattern),
	LabRoom:  regexp.MustCompile(LabRoomPattern),
}

// RegisterCustomValidators wires application-specific rules into the gin
// binding validator so request DTOs can use them as struct tags.
func RegisterCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("idno", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.IDNumber.MatchString(fl.Field().String())
	})

	_ = v.RegisterValidation("labroom", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.LabRoom.MatchString(fl.Field().String())
	})
}
