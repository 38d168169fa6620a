package activity

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
)

// LogFile is the sales activity log name under the data directory.
const LogFile = "sales_log.jsonl"

// Record types appended by the sales flow.
const (
	TypeQuote    = "quote"
	TypeEmail    = "email"
	TypeReminder = "reminder"
)

// Record is one appended sales activity entry.
type Record struct {
	Timestamp time.Time `json:"ts"`
	Type      string    `json:"type"`
	QuoteID   string    `json:"quote_id,omitempty"`
	SKU       string    `json:"sku,omitempty"`
	Qty       int       `json:"qty,omitempty"`
	ShipDate  string    `json:"ship_date,omitempty"`
	UnitPrice float64   `json:"unit_price,omitempty"`
	Risk      bool      `json:"risk,omitempty"`
	To        string    `json:"to,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Due       time.Time `json:"due,omitzero"`
	Note      string    `json:"note,omitempty"`
}

// Log is an append-only JSONL journal of sales activity. Appends are
// serialized behind a lock; readers get a fresh parse of the file.
type Log struct {
	mu   sync.Mutex
	path string
}

// NewLog creates a log persisting to dataDir/sales_log.jsonl.
func NewLog(dataDir string) *Log {
	return &Log{path: filepath.Join(dataDir, LogFile)}
}

// Append writes one record to the end of the journal.
func (l *Log) Append(rec Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return errors.Wrap(err, "creating activity log directory")
	}

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "opening activity log")
	}
	defer file.Close()

	if err := json.NewEncoder(file).Encode(rec); err != nil {
		return errors.Wrap(err, "appending activity record")
	}
	return nil
}

// Records reads the full journal. Invalid lines are skipped with a
// warning rather than failing the whole read.
func (l *Log) Records() ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "opening activity log")
	}
	defer file.Close()

	var records []Record
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			log.Warn().Err(err).Msg("Skipping invalid activity log line")
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading activity log")
	}
	return records, nil
}

// StaleQuotes returns quote records older than maxAge with no later
// email follow-up referencing them.
func (l *Log) StaleQuotes(now time.Time, maxAge time.Duration) ([]Record, error) {
	records, err := l.Records()
	if err != nil {
		return nil, err
	}

	followedUp := make(map[string]bool)
	for _, rec := range records {
		if rec.Type == TypeEmail && rec.QuoteID != "" {
			followedUp[rec.QuoteID] = true
		}
	}

	var stale []Record
	for _, rec := range records {
		if rec.Type != TypeQuote {
			continue
		}
		if now.Sub(rec.Timestamp) > maxAge && !followedUp[rec.QuoteID] {
			stale = append(stale, rec)
		}
	}
	return stale, nil
}
