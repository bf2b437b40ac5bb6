package textsim

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// JudgeModel is the model used for LLM-backed equivalence scoring.
var JudgeModel = "gpt-4o-mini"

// OpenAIScorer asks an OpenAI-compatible endpoint to rate semantic
// equivalence at temperature 0. It is opt-in: benchmark runs default
// to Lexical so results stay byte-reproducible.
type OpenAIScorer struct {
	client *openai.Client
	model  string
}

// NewOpenAIScorer builds a scorer against an OpenAI-compatible API.
// baseURL may be empty for the default endpoint; model may be empty
// for JudgeModel.
func NewOpenAIScorer(apiKey, baseURL, model string) *OpenAIScorer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = JudgeModel
	}
	return &OpenAIScorer{client: openai.NewClientWithConfig(cfg), model: model}
}

// Score returns the model's equivalence rating, or falls back to the
// lexical scorer when the call fails so grading always completes.
func (s *OpenAIScorer) Score(candidate, reference string) float64 {
	prompt := fmt.Sprintf(`You are grading semantic equivalence of two answers.

Reference answer:
%s

Candidate answer:
%s

Score how well the candidate states the same facts as the reference:
1.0 for equivalent meaning allowing paraphrase, lower when the
candidate omits a key fact, 0.0 for contradiction or no relevant
content. Respond with ONLY a single decimal number between 0.0 and 1.0.`, reference, candidate)

	resp, err := s.client.CreateChatCompletion(context.Background(), openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0,
		MaxTokens:   8,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		log.Printf("text judge call failed, using lexical fallback: %v", err)
		return Lexical{}.Score(candidate, reference)
	}
	if len(resp.Choices) == 0 {
		return Lexical{}.Score(candidate, reference)
	}
	score, err := parseScore(resp.Choices[0].Message.Content)
	if err != nil {
		log.Printf("text judge returned unparseable score: %v", err)
		return Lexical{}.Score(candidate, reference)
	}
	return score
}

func parseScore(content string) (float64, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty judge response")
	}
	score, err := strconv.ParseFloat(strings.TrimSuffix(fields[0], "."), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing judge score %q: %w", fields[0], err)
	}
	if score < 0 || score > 1 {
		return 0, fmt.Errorf("judge score %f out of range", score)
	}
	return score, nil
}
