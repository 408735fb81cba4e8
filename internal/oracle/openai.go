package oracle

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/beatreach/beatreach/internal/types"
)

// Compile-time interface check
var _ Client = (*OpenAI)(nil)

// ChatService defines the interface for making chat completion API calls.
// This abstraction enables testing without calling the real OpenAI API.
type ChatService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAI implements the generation oracle using OpenAI's chat completion API.
type OpenAI struct {
	chat  ChatService
	model openai.ChatModel
}

// NewOpenAI creates a new OpenAI-backed oracle client.
func NewOpenAI(apiKey, model string) *OpenAI {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAI{
		chat:  client.Chat.Completions,
		model: openai.ChatModel(model),
	}
}

// RequestGathering performs one gathering call: system prompt naming the
// missing fields, then the full message history verbatim.
func (o *OpenAI) RequestGathering(ctx context.Context, missing []string, current types.Preferences, history []types.Message) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	messages = append(messages, openai.SystemMessage(gatheringPrompt(missing, current)))
	for _, msg := range history {
		switch msg.Role {
		case types.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}
	return o.complete(ctx, messages)
}

// RequestGeneration performs one generation call with the final preferences
// and the entire candidate catalog embedded in the system prompt.
func (o *OpenAI) RequestGeneration(ctx context.Context, current types.Preferences, catalog []types.Influencer) (string, error) {
	return o.complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(generationPrompt(current, catalog)),
	})
}

// complete issues exactly one chat completion request in JSON-object mode.
func (o *OpenAI) complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	resp, err := o.chat.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.F(o.model),
		Messages: openai.F(messages),
		ResponseFormat: openai.F[openai.ChatCompletionNewParamsResponseFormatUnion](
			openai.ResponseFormatJSONObjectParam{
				Type: openai.F(openai.ResponseFormatJSONObjectTypeJSONObject),
			},
		),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnavailable, err.Error())
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}

	return resp.Choices[0].Message.Content, nil
}

// ModelName returns the chat model name.
func (o *OpenAI) ModelName() string {
	return string(o.model)
}
