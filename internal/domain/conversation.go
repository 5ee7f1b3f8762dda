package domain

import "time"

// Conversation is a read-only projection over the messages of one thread.
// It is recomputed on every aggregation call and never persisted.
type Conversation struct {
	ThreadID       string     `json:"thread_id"`
	ParticipantIDs []string   `json:"participant_ids"`
	Messages       []*Message `json:"messages"`
	LastMessage    *Message   `json:"last_message"`
	UnreadCount    int        `json:"unread_count"`
}

// LastActivity is the creation time of the most recent message.
func (c *Conversation) LastActivity() time.Time {
	if c.LastMessage == nil {
		return time.Time{}
	}
	return c.LastMessage.CreatedAt
}

// HasParticipant reports whether userID appears as sender or recipient on
// at least one message of the thread.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.ParticipantIDs {
		if p == userID {
			return true
		}
	}
	return false
}
