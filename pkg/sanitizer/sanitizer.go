package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reRoomIDUnsafe = regexp.MustCompile(`[^0-9\p{L}_-]+`)
	reMultiHyphen  = regexp.MustCompile(`-+`)
)

func trimAndLower(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return s
}

func collapseHyphens(s string) string {
	s = reMultiHyphen.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SanitizeRoomID turns a user supplied room name into an identifier that is
// safe to use as a file name: "Board Room #2" becomes "board-room-2".
func SanitizeRoomID(input string) string {
	p := Pipeline{
		trimAndLower,
		func(s string) string { return reRoomIDUnsafe.ReplaceAllString(s, "-") },
		collapseHyphens,
	}
	return p.Apply(input)
}
