package scoring

import (
	"strings"
	"testing"

	"github.com/voxhire/voxhire/internal/callengine"
)

func candidateTurn(words int) Turn {
	return Turn{
		Speaker: callengine.SpeakerCandidate,
		Text:    strings.TrimSpace(strings.Repeat("word ", words)),
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		turns     []Turn
		wantScore int
	}{
		{
			name:      "empty transcript",
			turns:     nil,
			wantScore: 0,
		},
		{
			name: "assistant only",
			turns: []Turn{
				{Speaker: callengine.SpeakerAssistant, Text: "Tell me about yourself"},
			},
			wantScore: 0,
		},
		{
			name: "three responses averaging ten words",
			turns: []Turn{
				{Speaker: callengine.SpeakerAssistant, Text: "First question"},
				candidateTurn(10),
				candidateTurn(10),
				candidateTurn(10),
			},
			wantScore: 65, // min(45,60) + min(20,40)
		},
		{
			name:      "single short answer",
			turns:     []Turn{candidateTurn(1)},
			wantScore: 17, // 15 + 2
		},
		{
			name: "response count capped at 60",
			turns: []Turn{
				candidateTurn(1), candidateTurn(1), candidateTurn(1),
				candidateTurn(1), candidateTurn(1),
			},
			wantScore: 62, // min(75,60) + 2
		},
		{
			name:      "verbose answers capped at 100",
			turns:     []Turn{candidateTurn(200), candidateTurn(200), candidateTurn(200), candidateTurn(200)},
			wantScore: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.turns)
			if got.Score != tt.wantScore {
				t.Errorf("score = %d, want %d", got.Score, tt.wantScore)
			}
			if got.Score < 0 || got.Score > 100 {
				t.Errorf("score %d out of [0,100]", got.Score)
			}
			if got.Feedback == "" {
				t.Error("feedback is empty")
			}
		})
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	turns := []Turn{
		{Speaker: callengine.SpeakerAssistant, Text: "Why this role?"},
		candidateTurn(23),
		candidateTurn(7),
	}
	first := Evaluate(turns)
	for i := 0; i < 10; i++ {
		if got := Evaluate(turns); got != first {
			t.Fatalf("run %d produced %+v, first run produced %+v", i, got, first)
		}
	}
}

func TestFeedbackBands(t *testing.T) {
	detailed := Evaluate([]Turn{candidateTurn(25)})
	if !strings.Contains(detailed.Feedback, "Detailed and thorough") {
		t.Errorf("expected detailed band for 25-word answers, got:\n%s", detailed.Feedback)
	}

	concise := Evaluate([]Turn{candidateTurn(5)})
	if !strings.Contains(concise.Feedback, "Concise") {
		t.Errorf("expected concise band for 5-word answers, got:\n%s", concise.Feedback)
	}
	if !strings.Contains(concise.Feedback, "more detailed examples") {
		t.Errorf("expected improvement hint for short answers, got:\n%s", concise.Feedback)
	}
}

func TestJoinTranscript(t *testing.T) {
	turns := []Turn{
		{Speaker: callengine.SpeakerAssistant, Text: "Hello"},
		{Speaker: callengine.SpeakerCandidate, Text: "Hi there"},
	}
	got := JoinTranscript(turns)
	want := "AI: Hello\n\nUser: Hi there"
	if got != want {
		t.Errorf("JoinTranscript = %q, want %q", got, want)
	}
}
