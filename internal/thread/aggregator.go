// Package thread turns a flat message stream into an ordered conversation
// list. Aggregation is pure: it never mutates its input and calling it twice
// on the same snapshot, in any element order, yields identical output.
package thread

import (
	"sort"

	"github.com/casedesk/caseline/internal/domain"
)

// Aggregate groups messages by thread and derives one Conversation per
// group: participants are the union of senders and recipients, messages are
// ascending by creation time (ties by ascending id), and the unread count is
// computed for viewerID. The resulting list is ordered most recently active
// first.
func Aggregate(messages []*domain.Message, viewerID string) []*domain.Conversation {
	groups := make(map[string][]*domain.Message)
	order := make([]string, 0)
	for _, m := range messages {
		if _, ok := groups[m.ThreadID]; !ok {
			order = append(order, m.ThreadID)
		}
		groups[m.ThreadID] = append(groups[m.ThreadID], m)
	}

	conversations := make([]*domain.Conversation, 0, len(order))
	for _, threadID := range order {
		conversations = append(conversations, buildConversation(threadID, groups[threadID], viewerID))
	}

	sort.Slice(conversations, func(i, j int) bool {
		a, b := conversations[i].LastMessage, conversations[j].LastMessage
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		if a.ID != b.ID {
			return a.ID > b.ID
		}
		return conversations[i].ThreadID < conversations[j].ThreadID
	})

	return conversations
}

func buildConversation(threadID string, group []*domain.Message, viewerID string) *domain.Conversation {
	msgs := append([]*domain.Message(nil), group...)
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].Before(msgs[j]) })

	participants := make(map[string]struct{})
	unread := 0
	for _, m := range msgs {
		participants[m.SenderID] = struct{}{}
		for _, r := range m.RecipientIDs {
			participants[r] = struct{}{}
		}
		if m.SenderID != viewerID && !m.ReadByUser(viewerID) {
			unread++
		}
	}

	ids := make([]string, 0, len(participants))
	for p := range participants {
		ids = append(ids, p)
	}
	sort.Strings(ids)

	// Last message: max createdAt, exact ties resolved to the larger id.
	// This is the ascending tie-break inverted, so a thread's visible tail
	// and its preview row always agree.
	last := msgs[len(msgs)-1]

	return &domain.Conversation{
		ThreadID:       threadID,
		ParticipantIDs: ids,
		Messages:       msgs,
		LastMessage:    last,
		UnreadCount:    unread,
	}
}
