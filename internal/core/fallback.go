package core

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"emotionix.ai/emotionix/internal/utils"
)

const (
	shortAnswerChars  = 120
	studySummaryChars = 500

	SuffixSad   = "\n\nTake it gently. You are doing better than you think, and one small step at a time is enough."
	SuffixAngry = "\n\nStraight to the point: focus on the one thing you can change right now."
	SuffixHappy = "\n\nLove the energy! Keep that momentum going."
)

var explanatoryKeywords = map[string]bool{
	"why": true, "how": true, "what": true, "when": true, "where": true,
	"which": true, "who": true, "explain": true, "describe": true,
	"define": true, "compare": true, "difference": true, "elaborate": true,
}

// FallbackGenerator synthesizes a reply locally from the prompt and tags.
// Its output depends only on the request's Prompt, Mode, Emotion, Board and Grade.
type FallbackGenerator struct{}

func (FallbackGenerator) Generate(_ context.Context, req Request) (string, error) {
	return FallbackGenerator{}.Compose(req), nil
}

func (FallbackGenerator) Compose(req Request) string {
	return Fallback(req.Prompt, req.Mode, req.Emotion, req.Board, req.Grade)
}

// Fallback is the rule-based reply used when no remote model answers.
func Fallback(prompt string, mode Mode, emotion, board, grade string) string {
	p := strings.TrimSpace(prompt)

	var body string
	switch mode {
	case ModeExam:
		return fmt.Sprintf("Exam on: %s\n1) Define the topic.\n2) Short question.\n3) Long question.", p)
	case ModeStudy:
		body = fmt.Sprintf("(Alpha Study AI for %s, grade %s) \nSummary: %s.\nExplanation: Break it into simple steps and give an example.",
			orDefault(board, "Generic Board"), orDefault(grade, "N/A"), utils.Truncate(p, studySummaryChars))
	default:
		if asksForExplanation(p) {
			body = fmt.Sprintf("I understand you're asking: %s\nHere's a fuller explanation: start from what you already know, "+
				"break the question into smaller parts, work through each one with a concrete example, and finish with a short action step.", p)
		} else {
			body = fmt.Sprintf("I understand: %s\nHere's a short take: try reframing it and pick one small next step.",
				utils.Excerpt(p, shortAnswerChars))
		}
	}
	return body + ToneSuffix(emotion)
}

// ToneSuffix maps an emotion tag to the sentence appended to fallback replies.
func ToneSuffix(emotion string) string {
	switch strings.ToLower(strings.TrimSpace(emotion)) {
	case "sad":
		return SuffixSad
	case "angry":
		return SuffixAngry
	case "happy":
		return SuffixHappy
	}
	return ""
}

func asksForExplanation(p string) bool {
	if strings.Contains(p, "?") {
		return true
	}
	words := strings.FieldsFunc(strings.ToLower(p), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, w := range words {
		if explanatoryKeywords[w] {
			return true
		}
	}
	return false
}
