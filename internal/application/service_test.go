package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/casedesk/caseline/internal/delivery"
	"github.com/casedesk/caseline/internal/domain"
	"github.com/casedesk/caseline/internal/events"
	"github.com/casedesk/caseline/internal/store"
	"github.com/casedesk/caseline/internal/validator"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) byType(t events.Type) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, ev := range p.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func newService() (*Service, *recordingPublisher) {
	s := store.NewMemory()
	pub := &recordingPublisher{}
	return New(s, delivery.NewTracker(s), pub), pub
}

func TestService_SendAndList(t *testing.T) {
	ctx := context.Background()
	svc, pub := newService()

	msg, err := svc.SendMessage(ctx, SendMessageCommand{
		SenderID:     "A",
		RecipientIDs: []string{"B"},
		Body:         "first",
	})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if msg.ThreadID != msg.ID {
		t.Errorf("Draft without thread should start a singleton conversation, got thread %s", msg.ThreadID)
	}
	if msg.Delivery["B"] != domain.StatusSent {
		t.Errorf("Expected initial sent status, got %s", msg.Delivery["B"])
	}

	if _, err := svc.SendMessage(ctx, SendMessageCommand{
		ThreadID:     msg.ThreadID,
		SenderID:     "B",
		RecipientIDs: []string{"A"},
		Body:         "reply",
	}); err != nil {
		t.Fatalf("SendMessage reply: %v", err)
	}

	convs, err := svc.ListConversations(ctx, "A")
	if err != nil {
		t.Fatal(err)
	}
	if len(convs) != 1 {
		t.Fatalf("Expected 1 conversation for A, got %d", len(convs))
	}
	if convs[0].UnreadCount != 1 {
		t.Errorf("Expected 1 unread for A, got %d", convs[0].UnreadCount)
	}

	if sent := pub.byType(events.TypeMessageSent); len(sent) != 2 {
		t.Errorf("Expected 2 message events, got %d", len(sent))
	}

	// An outsider sees nothing.
	convs, _ = svc.ListConversations(ctx, "Z")
	if len(convs) != 0 {
		t.Errorf("Expected empty list for non-participant, got %d", len(convs))
	}
}

func TestService_SendRejectsMalformedDraft(t *testing.T) {
	svc, _ := newService()

	_, err := svc.SendMessage(context.Background(), SendMessageCommand{
		SenderID:     "A",
		RecipientIDs: []string{"A"},
	})
	if !errors.Is(err, domain.ErrMalformedMessage) {
		t.Errorf("Expected malformed error for sender-as-recipient, got %v", err)
	}
}

func TestService_ReceiptsFlowToSender(t *testing.T) {
	ctx := context.Background()
	svc, pub := newService()

	msg, err := svc.SendMessage(ctx, SendMessageCommand{
		SenderID:     "A",
		RecipientIDs: []string{"B"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.AcknowledgeDelivery(ctx, msg.ID, "B"); err != nil {
		t.Fatalf("AcknowledgeDelivery: %v", err)
	}
	at := time.Now().UTC()
	if err := svc.AcknowledgeRead(ctx, msg.ID, "B", at); err != nil {
		t.Fatalf("AcknowledgeRead: %v", err)
	}

	conv, err := svc.GetConversation(ctx, msg.ThreadID, "B")
	if err != nil {
		t.Fatal(err)
	}
	if conv.UnreadCount != 0 {
		t.Errorf("Expected zero unread for B after read, got %d", conv.UnreadCount)
	}
	if conv.Messages[0].Summary() != domain.StatusRead {
		t.Errorf("Expected sender summary read, got %s", conv.Messages[0].Summary())
	}

	reads := pub.byType(events.TypeReadReceipt)
	if len(reads) != 1 {
		t.Fatalf("Expected 1 read receipt event, got %d", len(reads))
	}
	if len(reads[0].Recipients) != 1 || reads[0].Recipients[0] != "A" {
		t.Errorf("Read receipt should target the sender, got %v", reads[0].Recipients)
	}
}

func TestService_IngestSkipsMalformed(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	records := []validator.RawRecord{
		{ID: "m1", SenderID: "A", RecipientIDs: []string{"B"}, CreatedAt: time.Unix(100, 0).UTC()},
		{ID: "", SenderID: "A", RecipientIDs: []string{"B"}, CreatedAt: time.Unix(101, 0).UTC()},
		{ID: "m3", SenderID: "A", RecipientIDs: nil, CreatedAt: time.Unix(102, 0).UTC()},
		{ID: "m4", ThreadID: "m1", SenderID: "B", RecipientIDs: []string{"A"}, CreatedAt: time.Unix(103, 0).UTC()},
	}

	res, err := svc.Ingest(ctx, records)
	if err != nil {
		t.Fatal(err)
	}
	if res.Accepted != 2 || res.Rejected != 2 {
		t.Errorf("Expected 2 accepted / 2 rejected, got %d / %d", res.Accepted, res.Rejected)
	}

	conv, err := svc.GetConversation(ctx, "m1", "A")
	if err != nil {
		t.Fatal(err)
	}
	if len(conv.Messages) != 2 {
		t.Errorf("Expected the valid records aggregated, got %d messages", len(conv.Messages))
	}
}

func TestService_ParticipantsUnion(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	svc.Ingest(ctx, []validator.RawRecord{
		{ID: "m1", ThreadID: "T1", SenderID: "A", RecipientIDs: []string{"B"}, CreatedAt: time.Unix(100, 0).UTC()},
		{ID: "m2", ThreadID: "T1", SenderID: "C", RecipientIDs: []string{"B", "D"}, CreatedAt: time.Unix(101, 0).UTC()},
	})

	members, err := svc.Participants(ctx, "T1")
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 4 {
		t.Errorf("Expected union of 4 participants, got %v", members)
	}

	none, err := svc.Participants(ctx, "missing")
	if err != nil || len(none) != 0 {
		t.Errorf("Expected no participants for unknown thread, got %v, %v", none, err)
	}
}

func TestService_BadgesView(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	svc.Ingest(ctx, []validator.RawRecord{
		{ID: "m1", ThreadID: "T1", SenderID: "A", RecipientIDs: []string{"V"}, CreatedAt: time.Unix(100, 0).UTC()},
		{ID: "m2", ThreadID: "T1", SenderID: "A", RecipientIDs: []string{"V"}, CreatedAt: time.Unix(101, 0).UTC()},
		{ID: "m3", ThreadID: "T2", SenderID: "V", RecipientIDs: []string{"A"}, CreatedAt: time.Unix(102, 0).UTC()},
	})

	badges, total, err := svc.Badges(ctx, "V")
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("Expected total 2, got %d", total)
	}
	if len(badges) != 1 || badges[0].ThreadID != "T1" || badges[0].Count != 2 {
		t.Errorf("Expected one badge on T1 with 2, got %v", badges)
	}
}

func TestService_GetConversationUnknownThread(t *testing.T) {
	svc, _ := newService()
	_, err := svc.GetConversation(context.Background(), "missing", "A")
	if !errors.Is(err, domain.ErrThreadNotFound) {
		t.Errorf("Expected ErrThreadNotFound, got %v", err)
	}
}
