package conversation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xhad/journey/internal/models"
)

// Load reads a saved conversation. A missing file yields a fresh
// conversation seeded with systemPrompt.
func Load(path string, systemPrompt string) (*Conversation, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(systemPrompt), nil
		}
		return nil, err
	}

	var msgs []models.Message
	if err := json.Unmarshal(b, &msgs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	for i, m := range msgs {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("message %d in %s: %w", i, path, err)
		}
	}

	return FromMessages(msgs), nil
}

// Save writes the whole conversation as indented JSON.
func (c *Conversation) Save(path string) error {
	b, err := json.MarshalIndent(c.Messages(), "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, b, 0o644)
}

const noteTimeLayout = "2006-01-02 15:04"

// AppendNote adds one timestamped line to the notes file.
func AppendNote(path string, note string, now time.Time) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open notes file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "[%s] %s\n", now.Format(noteTimeLayout), note); err != nil {
		return fmt.Errorf("failed to write note: %w", err)
	}
	return nil
}
