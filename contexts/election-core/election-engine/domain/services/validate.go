package services

import "unicode/utf8"

const (
	NameMinLength        = 3
	NameMaxLength        = 50
	DescriptionMinLength = 3
	DescriptionMaxLength = 100
)

// RuneLengthInRange validates length limits as a count of Unicode code
// points, not storage bytes, so non-ASCII names get the same allowance.
func RuneLengthInRange(value string, min int, max int) bool {
	length := utf8.RuneCountInString(value)
	return length >= min && length <= max
}

func ValidName(name string) bool {
	return RuneLengthInRange(name, NameMinLength, NameMaxLength)
}

func ValidDescription(description string) bool {
	return RuneLengthInRange(description, DescriptionMinLength, DescriptionMaxLength)
}
