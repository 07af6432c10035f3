package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrMissingComponent = errors.New("missing component")
	ErrNotNumeric       = errors.New("not a number")
)

// ParseError reports which component of a version string failed
type ParseError struct {
	Input     string
	Component string
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("version %q: %s: %v", e.Input, e.Component, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Version is the MAJOR.MINOR part of a version string
type Version struct {
	Major int
	Minor int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Parse reads MAJOR and MINOR from s. Components past MINOR are ignored.
// Whitespace around each component is allowed.
func Parse(s string) (Version, error) {
	parts := strings.Split(s, ".")

	major, err := component(s, "major", parts, 0)
	if err != nil {
		return Version{}, err
	}
	minor, err := component(s, "minor", parts, 1)
	if err != nil {
		return Version{}, err
	}
	return Version{Major: major, Minor: minor}, nil
}

func component(input, name string, parts []string, i int) (int, error) {
	if i >= len(parts) {
		return 0, &ParseError{Input: input, Component: name, Err: ErrMissingComponent}
	}
	part := strings.TrimSpace(parts[i])
	if part == "" {
		return 0, &ParseError{Input: input, Component: name, Err: ErrMissingComponent}
	}
	n, err := strconv.Atoi(part)
	if err != nil {
		return 0, &ParseError{Input: input, Component: name, Err: ErrNotNumeric}
	}
	return n, nil
}
