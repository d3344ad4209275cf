package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/Linnet/config"
	"github.com/lshigami/Linnet/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// AIScorerService is the opaque scorer for free-text (writing and
// speaking) responses. It returns a 0-100 sub-score; the engine treats
// the call as fire-and-forget and folds the score back in through the
// scoring pipeline whenever it arrives.
type AIScorerService interface {
	ScoreResponse(question *model.Question, response string) (float64, error)
}

type geminiScorerService struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewGeminiScorerService(cfg *config.Config) (AIScorerService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. AI scoring will be non-functional.")
		return &geminiScorerService{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-1.5-flash")
	return &geminiScorerService{client: model, cfg: cfg}, nil
}

func (s *geminiScorerService) ScoreResponse(question *model.Question, response string) (float64, error) {
	if s.client == nil {
		return 0, fmt.Errorf("gemini client not initialized")
	}

	prompt := buildScoringPrompt(question, response)
	ctx := context.Background()
	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return 0, fmt.Errorf("gemini scoring request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return 0, fmt.Errorf("gemini returned an empty response")
	}

	var raw strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			raw.WriteString(string(text))
		}
	}

	score, err := parseScore(raw.String())
	if err != nil {
		return 0, err
	}
	log.Info().Uint("questionID", question.ID).Float64("score", score).Msg("AI sub-score received")
	return score, nil
}

func buildScoringPrompt(question *model.Question, response string) string {
	var sb strings.Builder
	sb.WriteString("You are an English language proficiency examiner.\n")
	fmt.Fprintf(&sb, "Skill under assessment: %s. Target CEFR level: %s.\n", question.Category, question.Difficulty)
	fmt.Fprintf(&sb, "Task: %s\n", question.Text)
	fmt.Fprintf(&sb, "Candidate response: %s\n", response)
	sb.WriteString("Evaluate the response for task achievement, coherence, vocabulary and grammar.\n")
	sb.WriteString("Reply in exactly this format:\nScore: <number 0-100>\nFeedback: <two or three sentences>\n")
	return sb.String()
}

func parseScore(rawResponse string) (float64, error) {
	const scorePrefix = "Score:"
	idx := strings.Index(rawResponse, scorePrefix)
	if idx == -1 {
		return 0, fmt.Errorf("response does not contain 'Score:' prefix. Raw: %s", rawResponse)
	}

	rest := rawResponse[idx+len(scorePrefix):]
	if nl := strings.Index(rest, "\n"); nl != -1 {
		rest = rest[:nl]
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return 0, fmt.Errorf("no score value after 'Score:' prefix. Raw: %s", rawResponse)
	}

	score, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("could not parse score %q: %w", fields[0], err)
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, nil
}
