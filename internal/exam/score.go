package exam

import (
	"math"
	"strings"

	"github.com/castellanr/quizbank/internal/model"
)

// NoAnswer is the review marker for questions left unanswered.
const NoAnswer = "Sin responder"

// Score tallies a finished answer sheet into an ExamResult. It is pure:
// the same questions and answers always produce the same result.
//
// Open questions count as correct when any non-blank text was entered;
// the bank has no answer key for them, so a response only proves the
// question was attempted.
func Score(questions []model.Question, answers []model.Answer) model.ExamResult {
	total := len(questions)
	correct := 0
	sections := make(map[string]model.SectionStat)
	review := make([]model.ReviewEntry, 0, total)

	for i, q := range questions {
		var a model.Answer
		if i < len(answers) {
			a = answers[i]
		}
		ok := answerCorrect(q, a)
		if ok {
			correct++
		}

		st := sections[q.Section()]
		st.Total++
		if ok {
			st.Correct++
		}
		sections[q.Section()] = st

		review = append(review, model.ReviewEntry{
			Question:      q.Text,
			UserAnswer:    renderUserAnswer(q, a),
			CorrectAnswer: renderCorrectAnswer(q),
			IsCorrect:     ok,
			Solution:      q.Solution,
		})
	}

	score := 0
	if total > 0 {
		score = int(math.Round(float64(correct) / float64(total) * 100))
	}

	return model.ExamResult{
		Correct:      correct,
		Total:        total,
		Score:        score,
		Grade:        GradeFor(score),
		SectionStats: sections,
		Review:       review,
	}
}

func answerCorrect(q model.Question, a model.Answer) bool {
	if q.HasOptions {
		return a.Kind == model.AnswerOption && a.Option == q.CorrectOption
	}
	return a.Kind == model.AnswerText && strings.TrimSpace(a.Text) != ""
}

// GradeFor buckets a 0-100 score into a letter grade. Boundaries are
// closed on the lower bound: 90 is already an A.
func GradeFor(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

func optionLetter(index int) string {
	return string(rune('A' + index))
}

func renderUserAnswer(q model.Question, a model.Answer) string {
	if q.HasOptions {
		if a.Kind != model.AnswerOption || a.Option < 0 || a.Option >= len(q.Options) {
			return NoAnswer
		}
		return optionLetter(a.Option) + ". " + q.Options[a.Option]
	}
	if a.Kind == model.AnswerText && strings.TrimSpace(a.Text) != "" {
		return a.Text
	}
	return NoAnswer
}

func renderCorrectAnswer(q model.Question) string {
	if q.HasOptions {
		if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
			return "N/A"
		}
		return optionLetter(q.CorrectOption) + ". " + q.Options[q.CorrectOption]
	}
	return q.CorrectAnswer
}
