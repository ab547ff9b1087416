package ai

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/shinyyama/social-inbox/internal/model"
)

// TemplateDrafter is the placeholder generator: after an artificial delay it
// picks one of a fixed set of replies.
type TemplateDrafter struct {
	delay time.Duration
	pick  func(n int) int
}

func NewTemplateDrafter(delay time.Duration) *TemplateDrafter {
	return &TemplateDrafter{delay: delay, pick: rand.IntN}
}

// WithPicker replaces the random index source. Used by tests.
func (d *TemplateDrafter) WithPicker(pick func(n int) int) *TemplateDrafter {
	d.pick = pick
	return d
}

// Templates returns the candidate replies for a sender.
func Templates(senderName string) []string {
	name := strings.TrimSpace(senderName)
	greeting := "Hi there!"
	if name != "" {
		greeting = fmt.Sprintf("Hi %s!", name)
	}
	return []string{
		"Thank you for reaching out! I appreciate your message and will get back to you shortly with more details.",
		greeting + " Thanks for your message. I'd be happy to help you with that.",
		"Great question! Let me provide you with some information about this.",
	}
}

func (d *TemplateDrafter) Draft(ctx context.Context, msg *model.Message, _ *model.AIConfiguration) (string, error) {
	if d.delay > 0 {
		t := time.NewTimer(d.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.C:
		}
	}
	sender := ""
	if msg != nil {
		sender = msg.SenderName
	}
	candidates := Templates(sender)
	idx := d.pick(len(candidates))
	if idx < 0 || idx >= len(candidates) {
		idx = 0
	}
	return candidates[idx], nil
}
