package service

import (
	"strings"

	"github.com/shinyyama/social-inbox/internal/model"
	"github.com/shinyyama/social-inbox/internal/repository"
)

const (
	FilterAll       = "all"
	StatusUnread    = "unread"
	StatusUnreplied = "unreplied"
	StatusReplied   = "replied"
)

// Filter is the inbox view's criteria. Empty fields behave like "all".
type Filter struct {
	Platform  string `json:"platform" query:"platform"`
	Status    string `json:"status" query:"status"`
	Sentiment string `json:"sentiment" query:"sentiment"`
	Search    string `json:"search" query:"search"`
}

// Query translates the filter into store predicates for userID.
func (f Filter) Query(userID string) (repository.MessageQuery, error) {
	q := repository.MessageQuery{UserID: userID, Search: f.Search}

	if p := strings.TrimSpace(f.Platform); p != "" && !strings.EqualFold(p, FilterAll) {
		q.Platform = p
	}

	yes, no := true, false
	switch strings.ToLower(strings.TrimSpace(f.Status)) {
	case "", FilterAll:
	case StatusUnread:
		q.IsRead = &no
	case StatusUnreplied:
		q.IsReplied = &no
	case StatusReplied:
		q.IsReplied = &yes
	default:
		return q, validation("unknown status %q", f.Status)
	}

	switch s := model.Sentiment(strings.ToLower(strings.TrimSpace(f.Sentiment))); s {
	case "", FilterAll:
	case model.SentimentPositive, model.SentimentNeutral, model.SentimentNegative:
		q.Sentiment = s
	default:
		return q, validation("unknown sentiment %q", f.Sentiment)
	}
	return q, nil
}

// Counts are the badge numbers shown above the feed.
type Counts struct {
	Total     int `json:"total"`
	Unread    int `json:"unread"`
	Unreplied int `json:"unreplied"`
}

func CountMessages(list []model.Message) Counts {
	c := Counts{Total: len(list)}
	for _, m := range list {
		if !m.IsRead {
			c.Unread++
		}
		if !m.IsReplied {
			c.Unreplied++
		}
	}
	return c
}
