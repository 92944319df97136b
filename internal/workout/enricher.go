package workout

import (
	"context"
	"fmt"
	"strings"

	"github.com/myrjola/trainplan/internal/errors"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Enricher writes display-only instructions for an exercise. Plans never depend on the result.
type Enricher interface {
	Instructions(ctx context.Context, exercise Exercise) (string, error)
}

// OpenAIEnricher asks a chat model for markdown instructions.
type OpenAIEnricher struct {
	client openai.Client
}

// NewOpenAIEnricher creates an enricher authenticated with apiKey.
func NewOpenAIEnricher(apiKey string) *OpenAIEnricher {
	return &OpenAIEnricher{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}
}

func instructionsPrompt(ex Exercise) string {
	groups := make([]string, 0, len(ex.MuscleGroups))
	for _, g := range ex.MuscleGroups {
		groups = append(groups, titleCase(string(g)))
	}
	return fmt.Sprintf(`Write concise instructions for the exercise "%s" in markdown.
It trains %s and uses %s.
Use the headings "## Setup", "## Execution" and "## Common mistakes" with a short list under each.
Do not add any text before the first heading.`,
		ex.Name, strings.Join(groups, ", "), titleCase(string(ex.Equipment)))
}

// Instructions implements [Enricher].
func (e *OpenAIEnricher) Instructions(ctx context.Context, ex Exercise) (string, error) {
	completion, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{ //nolint:exhaustruct // only need to set a few fields.
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(instructionsPrompt(ex)),
		},
		Model: openai.ChatModelGPT4o,
	})
	if err != nil {
		return "", errors.Wrap(err, "chat completion")
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	markdown := strings.TrimSpace(completion.Choices[0].Message.Content)
	if markdown == "" {
		return "", errors.New("chat completion returned empty instructions")
	}
	return markdown, nil
}
