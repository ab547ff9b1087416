package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shinyyama/social-inbox/internal/model"
	"github.com/shinyyama/social-inbox/internal/reqctx"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// contentGenerator is the part of *genai.Models the drafter uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiDrafter struct {
	model  string
	models contentGenerator
	log    *zap.Logger
}

func NewGeminiDrafter(ctx context.Context, apiKey, modelName string, log *zap.Logger) (*GeminiDrafter, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return newGeminiDrafter(client.Models, modelName, log), nil
}

func newGeminiDrafter(models contentGenerator, modelName string, log *zap.Logger) *GeminiDrafter {
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &GeminiDrafter{model: modelName, models: models, log: log}
}

func (d *GeminiDrafter) Draft(ctx context.Context, msg *model.Message, cfg *model.AIConfiguration) (string, error) {
	if msg == nil {
		return "", errors.New("message is required")
	}
	log := d.log.With(reqctx.Fields(ctx)...).With(zap.String("message", msg.ID), zap.String("model", d.model))

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(BuildDraftUserPrompt(msg))}, genai.RoleUser),
	}
	temp := float32(0.4)
	config := &genai.GenerateContentConfig{
		Temperature:       &temp,
		SystemInstruction: genai.NewContentFromText(BuildDraftSystemPrompt(cfg), genai.RoleUser),
	}

	start := time.Now()
	log.Debug("draft gemini_start")
	res, err := d.models.GenerateContent(ctx, d.model, contents, config)
	if err != nil {
		log.Warn("draft gemini_fail", zap.Error(err))
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text, err := CleanDraft(res.Text())
	if err != nil {
		log.Warn("draft parse_fail", zap.Error(err))
		return "", err
	}
	log.Debug("draft gemini_done", zap.Int64("genMs", time.Since(start).Milliseconds()), zap.Int("len", len(text)))
	return text, nil
}
