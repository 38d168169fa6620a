package activity

import (
	"testing"
	"time"
)

func TestAppendAndRecords(t *testing.T) {
	log := NewLog(t.TempDir())
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	records := []Record{
		{Timestamp: now, Type: TypeQuote, QuoteID: "Q-1", SKU: "ASSY-100", Qty: 25, UnitPrice: 762},
		{Timestamp: now.Add(time.Hour), Type: TypeEmail, To: "purchasing@acme.com", QuoteID: "Q-1"},
		{Timestamp: now.Add(2 * time.Hour), Type: TypeReminder, Due: now.AddDate(0, 0, 3), Note: "Follow up"},
	}
	for _, rec := range records {
		if err := log.Append(rec); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := log.Records()
	if err != nil {
		t.Fatalf("Records failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	if got[0].Type != TypeQuote || got[0].QuoteID != "Q-1" {
		t.Errorf("unexpected first record: %+v", got[0])
	}
	if !got[2].Due.Equal(now.AddDate(0, 0, 3)) {
		t.Errorf("reminder due = %v, want %v", got[2].Due, now.AddDate(0, 0, 3))
	}
}

func TestRecordsMissingFile(t *testing.T) {
	got, err := NewLog(t.TempDir()).Records()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected no records, got %v", got)
	}
}

func TestStaleQuotes(t *testing.T) {
	log := NewLog(t.TempDir())
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	seed := []Record{
		{Timestamp: now.AddDate(0, 0, -5), Type: TypeQuote, QuoteID: "Q-old"},
		{Timestamp: now.AddDate(0, 0, -5), Type: TypeQuote, QuoteID: "Q-answered"},
		{Timestamp: now.AddDate(0, 0, -1), Type: TypeQuote, QuoteID: "Q-fresh"},
		{Timestamp: now.AddDate(0, 0, -2), Type: TypeEmail, QuoteID: "Q-answered"},
	}
	for _, rec := range seed {
		if err := log.Append(rec); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	stale, err := log.StaleQuotes(now, 3*24*time.Hour)
	if err != nil {
		t.Fatalf("StaleQuotes failed: %v", err)
	}
	if len(stale) != 1 {
		t.Fatalf("expected 1 stale quote, got %d", len(stale))
	}
	if stale[0].QuoteID != "Q-old" {
		t.Errorf("stale quote = %s, want Q-old", stale[0].QuoteID)
	}
}
