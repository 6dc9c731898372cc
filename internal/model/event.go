package model

// EventType is the header-declared kind of a GitHub delivery.
type EventType string

const (
	EventTypePush EventType = "push"
	EventTypePing EventType = "ping"
)

// Unknown is the placeholder stored for any string field missing upstream.
const Unknown = "unknown"

// NormalizedEvent is the persisted record of a recognized delivery.
// Every field is always populated; missing upstream data becomes a placeholder.
type NormalizedEvent struct {
	ID              string    `json:"id"`
	EventType       EventType `json:"eventType"`
	Repository      string    `json:"repository"`
	Branch          string    `json:"branch"`
	Author          string    `json:"author"`
	AuthorAvatarURL string    `json:"authorAvatarUrl"`
	ReceivedAt      string    `json:"receivedAt"`
	Commits         []Commit  `json:"commits"`
}

// Commit is one entry of a push event's commit list.
type Commit struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Author    string `json:"author"`
	Timestamp string `json:"timestamp"`
}

// Clone returns a copy that shares no slices with e.
func (e NormalizedEvent) Clone() NormalizedEvent {
	out := e
	out.Commits = make([]Commit, len(e.Commits))
	copy(out.Commits, e.Commits)
	return out
}
