package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParsePositive parses a positive integer argument such as a count, a
// weight or an id. name is used in the error message.
func ParsePositive(name, s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrInvalidInput, name, s)
	}
	return n, nil
}

// ParseSince parses a YYYY-MM-DD date as midnight UTC. An empty string is
// the zero time, meaning "since the beginning".
func ParseSince(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must look like %s, got %q", ErrInvalidInput, DateLayout, s)
	}
	return t, nil
}
