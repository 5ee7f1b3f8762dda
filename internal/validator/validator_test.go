package validator

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/casedesk/caseline/internal/domain"
)

func validRecord() RawRecord {
	return RawRecord{
		ID:           "m1",
		SenderID:     "A",
		RecipientIDs: []string{"B", "C"},
		CreatedAt:    time.Unix(100, 0).UTC(),
	}
}

func TestValidate_Defaults(t *testing.T) {
	msg, err := Validate(validRecord())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if msg.ThreadID != "m1" {
		t.Errorf("Expected threadId to default to id, got %s", msg.ThreadID)
	}
	if msg.Kind != domain.KindText {
		t.Errorf("Expected kind to default to text, got %s", msg.Kind)
	}
	if msg.Priority != domain.PriorityNormal {
		t.Errorf("Expected priority to default to normal, got %s", msg.Priority)
	}
	for _, r := range msg.RecipientIDs {
		if msg.Delivery[r] != domain.StatusSent {
			t.Errorf("Expected initial status sent for %s, got %s", r, msg.Delivery[r])
		}
	}
}

func TestValidate_MissingFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RawRecord)
		field  string
	}{
		{"missing id", func(r *RawRecord) { r.ID = "" }, "id"},
		{"missing sender", func(r *RawRecord) { r.SenderID = "" }, "sender_id"},
		{"missing created_at", func(r *RawRecord) { r.CreatedAt = time.Time{} }, "created_at"},
		{"no recipients", func(r *RawRecord) { r.RecipientIDs = nil }, "recipient_ids"},
		{"sender as recipient", func(r *RawRecord) { r.RecipientIDs = []string{"B", "A"} }, "recipient_ids"},
		{"unknown kind", func(r *RawRecord) { r.Kind = "video" }, "kind"},
		{"unknown priority", func(r *RawRecord) { r.Priority = "asap" }, "priority"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := validRecord()
			tc.mutate(&rec)

			_, err := Validate(rec)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !errors.Is(err, domain.ErrMalformedMessage) {
				t.Errorf("Expected ErrMalformedMessage class, got %v", err)
			}
			var malformed *domain.MalformedError
			if !errors.As(err, &malformed) {
				t.Fatalf("Expected *MalformedError, got %T", err)
			}
			if malformed.Field != tc.field {
				t.Errorf("Expected field %q named, got %q", tc.field, malformed.Field)
			}
		})
	}
}

func TestValidate_DeduplicatesRecipients(t *testing.T) {
	rec := validRecord()
	rec.RecipientIDs = []string{"B", "C", "B"}

	msg, err := Validate(rec)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(msg.RecipientIDs, []string{"B", "C"}) {
		t.Errorf("Expected deduped ordered recipients [B C], got %v", msg.RecipientIDs)
	}
}

func TestValidate_CarriesDeliveryMetadata(t *testing.T) {
	at := time.Unix(150, 0).UTC()
	rec := validRecord()
	rec.ReadBy = map[string]time.Time{"B": at}
	rec.Delivery = map[string]domain.DeliveryStatus{
		"B": domain.StatusRead,
		"X": domain.StatusDelivered, // not a recipient, must be dropped
	}

	msg, err := Validate(rec)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if msg.Delivery["B"] != domain.StatusRead {
		t.Errorf("Expected B read, got %s", msg.Delivery["B"])
	}
	if !msg.ReadBy["B"].Equal(at) {
		t.Errorf("Expected readBy[B]=%v, got %v", at, msg.ReadBy["B"])
	}
	if _, ok := msg.Delivery["X"]; ok {
		t.Error("Stray delivery key widened the recipient set")
	}
	if msg.Delivery["C"] != domain.StatusSent {
		t.Errorf("Expected C still sent, got %s", msg.Delivery["C"])
	}
}
