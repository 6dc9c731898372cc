package webhook

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"webhook-event-log/internal/model"
)

// isoMillis is ISO-8601 UTC with millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z"

// GitHubWebhookParser turns loosely shaped GitHub payloads into log records.
type GitHubWebhookParser struct {
	now   func() time.Time
	newID func() string
}

func NewGitHubParser() *GitHubWebhookParser {
	return &GitHubWebhookParser{
		now:   time.Now,
		newID: newEventID,
	}
}

// ParsePushEvent maps a push payload onto a NormalizedEvent. Every field is
// populated: values that are missing, empty or of the wrong type become
// placeholders.
func (p *GitHubWebhookParser) ParsePushEvent(body map[string]any) model.NormalizedEvent {
	event := model.NormalizedEvent{
		ID:              p.newID(),
		EventType:       model.EventTypePush,
		Repository:      stringOr(body, model.Unknown, "repository", "full_name"),
		Branch:          model.Unknown,
		Author:          stringOr(body, model.Unknown, "pusher", "name"),
		AuthorAvatarURL: stringOr(body, "", "sender", "avatar_url"),
		ReceivedAt:      p.now().UTC().Format(isoMillis),
		Commits:         []model.Commit{},
	}

	if ref, ok := lookupString(body, "ref"); ok {
		event.Branch = branchFromRef(ref)
	}

	rawCommits, _ := body["commits"].([]any)
	for _, rc := range rawCommits {
		c, _ := rc.(map[string]any)
		event.Commits = append(event.Commits, model.Commit{
			ID:        stringOr(c, model.Unknown, "id"),
			Message:   stringOr(c, "", "message"),
			Author:    stringOr(c, model.Unknown, "author", "name"),
			Timestamp: stringOr(c, "", "timestamp"),
		})
	}

	return event
}

// branchFromRef extracts the short name from a full ref
// (refs/heads/main → main, refs/tags/v1 → v1).
func branchFromRef(ref string) string {
	for _, prefix := range []string{"refs/heads/", "refs/tags/"} {
		if short, ok := strings.CutPrefix(ref, prefix); ok && short != "" {
			return short
		}
	}
	if ref == "" {
		return model.Unknown
	}
	return ref
}

// lookupString walks nested objects by path and returns a non-empty string leaf.
func lookupString(m map[string]any, path ...string) (string, bool) {
	var cur any = m
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		cur = obj[key]
	}
	s, ok := cur.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func stringOr(m map[string]any, fallback string, path ...string) string {
	if s, ok := lookupString(m, path...); ok {
		return s
	}
	return fallback
}

// newEventID returns a time-ordered UUIDv7, falling back to a random v4.
func newEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
