// Package scoring turns an ordered interview transcript into a score and
// feedback text. It is deterministic and side-effect free: no clock, no
// randomness, no external calls.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/voxhire/voxhire/internal/callengine"
)

// Turn is one finalized utterance of the conversation, in arrival order.
type Turn struct {
	Speaker string
	Text    string
}

// Result is the finalized artifact of one interview.
type Result struct {
	Score    int
	Feedback string
}

const noResponseFeedback = `Interview Summary:
- Total Responses: 0

No responses were recorded during this interview. Start another session and answer each question out loud.

Keep practicing to improve your interview skills!`

// Evaluate scores the candidate turns of a transcript. Score is
// min(responses*15, 60) + min(avgWords*2, 40), clamped to [0,100] and
// rounded to the nearest integer.
func Evaluate(turns []Turn) Result {
	var responses int
	var totalWords int
	for _, t := range turns {
		if t.Speaker != callengine.SpeakerCandidate {
			continue
		}
		responses++
		totalWords += len(strings.Fields(t.Text))
	}

	if responses == 0 {
		return Result{Score: 0, Feedback: noResponseFeedback}
	}

	avgWords := float64(totalWords) / float64(responses)

	score := math.Min(float64(responses)*15, 60)
	score += math.Min(avgWords*2, 40)
	score = math.Round(score)
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return Result{Score: int(score), Feedback: feedback(responses, avgWords)}
}

func feedback(responses int, avgWords float64) string {
	communication := "Concise"
	if avgWords > 20 {
		communication = "Detailed and thorough"
	}
	articulation := "clear and to the point"
	if avgWords > 15 {
		articulation = "well-articulated"
	}
	improvement := "Continue practicing to maintain consistency"
	if avgWords < 15 {
		improvement = "Consider providing more detailed examples in your responses"
	}

	return fmt.Sprintf(`Interview Summary:
- Total Responses: %d
- Average Response Length: %d words
- Communication: %s

Strengths:
- You participated actively in the interview
- Your responses were %s

Areas for Improvement:
- %s
- Focus on highlighting specific achievements and metrics

Keep practicing to improve your interview skills!`,
		responses, int(math.Round(avgWords)), communication, articulation, improvement)
}

// JoinTranscript renders the ordered turns as the persisted transcript text.
func JoinTranscript(turns []Turn) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		speaker := "User"
		if t.Speaker == callengine.SpeakerAssistant {
			speaker = "AI"
		}
		lines = append(lines, speaker+": "+t.Text)
	}
	return strings.Join(lines, "\n\n")
}
