package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shinyyama/social-inbox/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestTemplateDrafterPicksFromFixedSet(t *testing.T) {
	msg := &model.Message{ID: "m1", SenderName: "Dana"}
	candidates := Templates("Dana")
	require.Len(t, candidates, 3)
	assert.Contains(t, candidates[1], "Hi Dana!")

	for i := range candidates {
		idx := i
		d := NewTemplateDrafter(0).WithPicker(func(int) int { return idx })
		got, err := d.Draft(context.Background(), msg, nil)
		require.NoError(t, err)
		assert.Equal(t, candidates[i], got)
	}

	random := NewTemplateDrafter(0)
	for i := 0; i < 20; i++ {
		got, err := random.Draft(context.Background(), msg, nil)
		require.NoError(t, err)
		assert.NotEmpty(t, got)
		assert.Contains(t, candidates, got)
	}
}

func TestTemplateDrafterOutOfRangePickerFallsBack(t *testing.T) {
	d := NewTemplateDrafter(0).WithPicker(func(int) int { return 99 })
	got, err := d.Draft(context.Background(), &model.Message{}, nil)
	require.NoError(t, err)
	assert.Equal(t, Templates("")[0], got)
}

func TestTemplateDrafterAnonymousSender(t *testing.T) {
	assert.True(t, strings.HasPrefix(Templates("  ")[1], "Hi there!"))
}

func TestTemplateDrafterHonorsCancellation(t *testing.T) {
	d := NewTemplateDrafter(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Draft(ctx, &model.Message{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeModels struct {
	text       string
	err        error
	gotModel   string
	gotConfig  *genai.GenerateContentConfig
	gotContent []*genai.Content
}

func (f *fakeModels) GenerateContent(_ context.Context, m string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotModel, f.gotContent, f.gotConfig = m, contents, cfg
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(f.text, genai.RoleModel)}},
	}, nil
}

func TestGeminiDrafter(t *testing.T) {
	fm := &fakeModels{text: `Reply: "Thanks Dana, we'll check your order."`}
	d := newGeminiDrafter(fm, "", nil)
	msg := &model.Message{
		ID:            "m1",
		SenderName:    "Dana",
		Content:       "Where is my order?",
		MessageType:   model.MessageTypeDM,
		SocialAccount: &model.SocialAccount{Platform: "twitter"},
	}
	cfg := &model.AIConfiguration{ResponseTone: model.ToneFriendly, BusinessContext: "We ship in 3 days."}

	got, err := d.Draft(context.Background(), msg, cfg)
	require.NoError(t, err)
	assert.Equal(t, "Thanks Dana, we'll check your order.", got)
	assert.Equal(t, "gemini-2.5-flash", fm.gotModel)
	require.Len(t, fm.gotContent, 1)
	assert.Contains(t, fm.gotContent[0].Parts[0].Text, "Where is my order?")
	assert.Contains(t, fm.gotContent[0].Parts[0].Text, "Platform: twitter")
	require.NotNil(t, fm.gotConfig.SystemInstruction)
	assert.Contains(t, fm.gotConfig.SystemInstruction.Parts[0].Text, "Tone (friendly)")
	assert.Contains(t, fm.gotConfig.SystemInstruction.Parts[0].Text, "We ship in 3 days.")
}

func TestGeminiDrafterErrors(t *testing.T) {
	d := newGeminiDrafter(&fakeModels{err: errors.New("quota")}, "m", nil)
	_, err := d.Draft(context.Background(), &model.Message{}, nil)
	assert.ErrorContains(t, err, "quota")

	d = newGeminiDrafter(&fakeModels{text: "  "}, "m", nil)
	_, err = d.Draft(context.Background(), &model.Message{}, nil)
	assert.ErrorIs(t, err, ErrEmptyDraft)

	_, err = NewGeminiDrafter(context.Background(), "", "", nil)
	assert.Error(t, err)
}

func TestBuildDraftSystemPrompt(t *testing.T) {
	def := BuildDraftSystemPrompt(nil)
	assert.Contains(t, def, "Tone (professional)")

	custom := BuildDraftSystemPrompt(&model.AIConfiguration{ResponseTone: model.ToneCustom, CustomInstructions: "Speak like a pirate."})
	assert.NotContains(t, custom, "Tone (")
	assert.Contains(t, custom, "Speak like a pirate.")

	emptyCustom := BuildDraftSystemPrompt(&model.AIConfiguration{ResponseTone: model.ToneCustom})
	assert.Contains(t, emptyCustom, "Tone (professional)")
}

func TestGuardedDrafterFallsBackAndTrips(t *testing.T) {
	calls := 0
	failing := DraftFunc(func(context.Context, *model.Message, *model.AIConfiguration) (string, error) {
		calls++
		return "", errors.New("upstream down")
	})
	fallback := NewTemplateDrafter(0).WithPicker(func(int) int { return 0 })
	g := NewGuardedDrafter(failing, GuardOptions{Fallback: fallback, BreakerTimeout: time.Hour}, nil)

	for i := 0; i < 5; i++ {
		got, err := g.Draft(context.Background(), &model.Message{}, nil)
		require.NoError(t, err)
		assert.Equal(t, Templates("")[0], got)
	}
	assert.Equal(t, 3, calls, "breaker opens after three consecutive failures")
	assert.Equal(t, "open", g.State())
}

func TestGuardedDrafterWithoutFallbackSurfacesError(t *testing.T) {
	failing := DraftFunc(func(context.Context, *model.Message, *model.AIConfiguration) (string, error) {
		return "", errors.New("upstream down")
	})
	g := NewGuardedDrafter(failing, GuardOptions{PerMinute: 60}, nil)
	_, err := g.Draft(context.Background(), &model.Message{}, nil)
	assert.ErrorContains(t, err, "upstream down")

	ok := NewGuardedDrafter(DraftFunc(func(context.Context, *model.Message, *model.AIConfiguration) (string, error) {
		return "fine", nil
	}), GuardOptions{}, nil)
	got, err := ok.Draft(context.Background(), &model.Message{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "fine", got)
	assert.Equal(t, "closed", ok.State())
}
