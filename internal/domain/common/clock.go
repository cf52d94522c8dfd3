// Package common holds small types shared across domains.
package common

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var clockRx = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// ParseClock converts an HH:MM wall-clock string into minutes since
// midnight. Times are local to the event's day and carry no zone.
func ParseClock(s string) (int, error) {
	if !clockRx.MatchString(s) {
		return 0, fmt.Errorf("invalid clock time %q, expected HH:MM", s)
	}
	parts := strings.SplitN(s, ":", 2)
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	return hours*60 + minutes, nil
}

// FormatClock renders minutes since midnight as a zero-padded HH:MM
// string. Values are wrapped modulo 24 hours.
func FormatClock(minutes int) string {
	minutes = ((minutes % 1440) + 1440) % 1440
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// IsClock reports whether s is a valid HH:MM wall-clock string.
func IsClock(s string) bool {
	return clockRx.MatchString(s)
}
