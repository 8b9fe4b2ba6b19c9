package core

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects the assistant's behavior profile.
type Mode string

const (
	ModeEmotionix Mode = "emotionix"
	ModeStudy     Mode = "alphaStudy"
	ModeExam      Mode = "alphaExam"
)

var ErrUnknownMode = errors.New("unknown ai mode")

// Modes lists every supported mode in display order.
var Modes = []Mode{ModeEmotionix, ModeStudy, ModeExam}

// ParseMode maps a mode tag to a Mode. An empty tag means ModeEmotionix.
func ParseMode(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ModeEmotionix, nil
	}
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) String() string {
	return string(m)
}
