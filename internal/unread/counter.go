// Package unread derives the badge view consumed by sidebars: per-thread
// unread counts and their total, computed from aggregator output.
package unread

import "github.com/casedesk/caseline/internal/domain"

// Badge is one sidebar entry. Threads with nothing unread carry no badge.
type Badge struct {
	ThreadID string `json:"thread_id"`
	Count    int    `json:"count"`
}

// Badges returns one badge per conversation with unread messages, in the
// conversation list's order (most recently active first).
func Badges(conversations []*domain.Conversation) []Badge {
	badges := make([]Badge, 0, len(conversations))
	for _, c := range conversations {
		if c.UnreadCount == 0 {
			continue
		}
		badges = append(badges, Badge{ThreadID: c.ThreadID, Count: c.UnreadCount})
	}
	return badges
}

// Total is the aggregate unread count across every conversation, used for
// the application-level badge.
func Total(conversations []*domain.Conversation) int {
	total := 0
	for _, c := range conversations {
		total += c.UnreadCount
	}
	return total
}
