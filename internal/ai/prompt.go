package ai

import (
	"fmt"
	"strings"

	"github.com/shinyyama/social-inbox/internal/model"
)

const basePrompt = `You draft replies for a brand's social media inbox.

Hard rules (must follow):

* Reply in the same language as the incoming message.
* Keep it short: at most three sentences, suitable for a DM or comment reply.
* Never invent prices, dates, order numbers, or policies that are not in the business context.
* Do not use hashtags, emojis, or markdown.
* Output only the reply text. No quotes, no preamble.`

var tonePrompts = map[model.ResponseTone]string{
	model.ToneProfessional: `Tone (professional): courteous, precise, and calm. Address the sender by name when it is known.`,
	model.ToneFriendly:     `Tone (friendly): warm and upbeat, like a helpful community manager. Use the sender's first name.`,
	model.ToneCasual:       `Tone (casual): relaxed and conversational, contractions are fine, keep it light.`,
}

// BuildDraftSystemPrompt concatenates base, tone, custom instructions and
// business context. Unknown tones fall back to professional.
func BuildDraftSystemPrompt(cfg *model.AIConfiguration) string {
	tone := model.ToneProfessional
	custom, business := "", ""
	if cfg != nil {
		tone = cfg.ResponseTone
		custom = strings.TrimSpace(cfg.CustomInstructions)
		business = strings.TrimSpace(cfg.BusinessContext)
	}
	parts := []string{basePrompt}
	if style, ok := tonePrompts[tone]; ok {
		parts = append(parts, style)
	} else if tone != model.ToneCustom || custom == "" {
		parts = append(parts, tonePrompts[model.ToneProfessional])
	}
	if custom != "" {
		parts = append(parts, "Additional instructions:\n"+custom)
	}
	if business != "" {
		parts = append(parts, "Business context:\n"+business)
	}
	return strings.Join(parts, "\n\n")
}

// BuildDraftUserPrompt describes the incoming message.
func BuildDraftUserPrompt(msg *model.Message) string {
	platform := "unknown"
	if msg.SocialAccount != nil && msg.SocialAccount.Platform != "" {
		platform = msg.SocialAccount.Platform
	}
	return fmt.Sprintf("Platform: %s\nMessage type: %s\nSender: %s\nMessage:\n%s",
		platform, msg.MessageType, msg.SenderName, msg.Content)
}
