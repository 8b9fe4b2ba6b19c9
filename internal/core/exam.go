package core

import (
	"fmt"

	"emotionix.ai/emotionix/internal/utils"
)

const (
	ExamSystemInstruction = "You are Alpha Exam AI that generates clear exam papers with marks and answer key."

	DefaultExamTopic     = "Exam"
	DefaultQuestionCount = 10

	// MaxSourceChars bounds the source material embedded in a prompt.
	MaxSourceChars = 4000
	// ExcerptChars bounds the source excerpt appended to fallback exams.
	ExcerptChars = 800
)

// ExamPrompt builds the user prompt for exam generation.
func ExamPrompt(topic string, count int, source string) string {
	return fmt.Sprintf("Create an exam paper on '%s' with %d questions from the following material.\n"+
		"Distribute the questions as 20%% multiple-choice, 30%% short-answer and 50%% long-answer.\n"+
		"Show the marks for every question and finish with an answer key.\n\n%s",
		topic, count, utils.Truncate(source, MaxSourceChars))
}

// FallbackExam is the exam produced without a remote model.
func FallbackExam(topic, source string) string {
	return Fallback(topic, ModeExam, "", "", "") + "\n\nSource excerpt:\n" + utils.Truncate(source, ExcerptChars)
}
