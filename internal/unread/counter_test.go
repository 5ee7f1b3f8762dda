package unread

import (
	"reflect"
	"testing"

	"github.com/casedesk/caseline/internal/domain"
)

func TestBadges_SkipsReadThreads(t *testing.T) {
	conversations := []*domain.Conversation{
		{ThreadID: "T1", UnreadCount: 3},
		{ThreadID: "T2", UnreadCount: 0},
		{ThreadID: "T3", UnreadCount: 1},
	}

	badges := Badges(conversations)
	want := []Badge{
		{ThreadID: "T1", Count: 3},
		{ThreadID: "T3", Count: 1},
	}
	if !reflect.DeepEqual(badges, want) {
		t.Errorf("Expected %v, got %v", want, badges)
	}

	if total := Total(conversations); total != 4 {
		t.Errorf("Expected total 4, got %d", total)
	}
}

func TestBadges_EmptyInboxIsValid(t *testing.T) {
	if badges := Badges(nil); len(badges) != 0 {
		t.Errorf("Expected no badges, got %v", badges)
	}
	if total := Total(nil); total != 0 {
		t.Errorf("Expected zero total, got %d", total)
	}
}
