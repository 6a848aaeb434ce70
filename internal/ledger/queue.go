package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"leadrouter/internal/database"
)

var queueJSONFencePattern = regexp.MustCompile("(?s)```json\\n(.*?)\\n```")

type queuedEntry struct {
	rawJSON string
	record  database.AssignmentRecord
	valid   bool
}

// Enqueue appends record to today's queue file under queueDir.
func Enqueue(queueDir string, record database.AssignmentRecord) error {
	if strings.TrimSpace(queueDir) == "" {
		return errors.New("queue directory not configured")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(queueDir, 0o755); err != nil {
		return err
	}

	dateLabel := record.CreatedAt.UTC().Format("2006-01-02")
	filePath := filepath.Join(queueDir, dateLabel+".md")

	_, statErr := os.Stat(filePath)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	var builder strings.Builder
	if isNew {
		builder.WriteString(queueHeader(dateLabel))
	}
	builder.WriteString(fmt.Sprintf("## queued_at: %s\n", record.CreatedAt.UTC().Format(time.RFC3339)))
	builder.WriteString("```json\n")
	builder.Write(raw)
	builder.WriteString("\n```\n\n")

	_, err = f.WriteString(builder.String())
	return err
}

// Flush replays every queued record into db. Entries that fail to decode
// or insert stay in their file; emptied files are removed.
func Flush(ctx context.Context, db database.Service, queueDir string) (int, error) {
	if strings.TrimSpace(queueDir) == "" {
		return 0, nil
	}

	if _, err := os.Stat(queueDir); err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	files, err := filepath.Glob(filepath.Join(queueDir, "*.md"))
	if err != nil {
		return 0, err
	}

	totalFlushed := 0
	for _, filePath := range files {
		body, err := os.ReadFile(filePath)
		if err != nil {
			return totalFlushed, err
		}

		entries := parseQueueEntries(string(body))
		remaining := make([]queuedEntry, 0, len(entries))
		for _, entry := range entries {
			if !entry.valid {
				remaining = append(remaining, entry)
				continue
			}
			record := normalizeQueuedAssignment(entry.record)
			if err := db.RecordAssignment(ctx, &record); err != nil {
				remaining = append(remaining, entry)
				continue
			}
			totalFlushed++
		}

		if err := writeQueueEntries(filePath, remaining); err != nil {
			return totalFlushed, err
		}
	}

	return totalFlushed, nil
}

func parseQueueEntries(markdown string) []queuedEntry {
	matches := queueJSONFencePattern.FindAllStringSubmatch(markdown, -1)
	entries := make([]queuedEntry, 0, len(matches))

	for _, match := range matches {
		if len(match) < 2 {
			continue
		}
		raw := strings.TrimSpace(match[1])
		if raw == "" {
			continue
		}

		var record database.AssignmentRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil || record.CampaignID == "" {
			entries = append(entries, queuedEntry{rawJSON: raw, valid: false})
			continue
		}

		entries = append(entries, queuedEntry{rawJSON: raw, record: record, valid: true})
	}

	return entries
}

// normalizeQueuedAssignment fills the fields a hand-edited queue entry may lack.
func normalizeQueuedAssignment(record database.AssignmentRecord) database.AssignmentRecord {
	if strings.TrimSpace(record.Surface) == "" {
		record.Surface = "unknown"
	}
	if strings.TrimSpace(record.Strategy) == "" {
		record.Strategy = "unknown"
	}
	if strings.TrimSpace(record.LeadKeywords) == "" {
		record.LeadKeywords = "[]"
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	return record
}

func queueHeader(dateLabel string) string {
	return fmt.Sprintf("# Leadrouter Assignment Queue (%s)\n\n", dateLabel)
}

func writeQueueEntries(filePath string, entries []queuedEntry) error {
	if len(entries) == 0 {
		if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	dateLabel := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	var builder strings.Builder
	builder.WriteString(queueHeader(dateLabel))
	for _, entry := range entries {
		builder.WriteString("## queued_at: replay_pending\n")
		builder.WriteString("```json\n")
		builder.WriteString(strings.TrimSpace(entry.rawJSON))
		builder.WriteString("\n```\n\n")
	}

	return os.WriteFile(filePath, []byte(builder.String()), 0o644)
}
