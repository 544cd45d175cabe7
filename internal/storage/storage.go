// Package storage provides the bot's persistence: a pluggable key-value
// Store with flat-file and sqlite backends, and a typed per-guild record
// layer on top of it.
package storage

import (
	"encoding/json"
	"fmt"
	"time"
)

// Store is the minimal key-value contract a backend must provide.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys() ([]string, error)
	Close() error
}

// Open selects a backend by driver name.
func Open(driver, path string) (Store, error) {
	switch driver {
	case "flatfile":
		return OpenFlatFile(path)
	case "sqlite":
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

const commandHistoryLimit = 50

// CommandHistoryRecord is one logged command execution.
type CommandHistoryRecord struct {
	ChannelID   string    `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	GuildName   string    `json:"guild_name"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Command     string    `json:"command"`
	Datetime    time.Time `json:"datetime"`
}

// GuildRecord is everything persisted for one guild.
type GuildRecord struct {
	CommandHistory []CommandHistoryRecord `json:"cmd_history"`
}

// Storage is the typed layer commands and middleware talk to.
type Storage struct {
	store Store
}

// New wraps a Store.
func New(store Store) *Storage {
	return &Storage{store: store}
}

// Close closes the underlying store.
func (s *Storage) Close() error {
	return s.store.Close()
}

func guildKey(guildID string) string {
	return "guild:" + guildID
}

func (s *Storage) guildRecord(guildID string) (*GuildRecord, error) {
	raw, ok, err := s.store.Get(guildKey(guildID))
	if err != nil {
		return nil, fmt.Errorf("failed to read guild record: %w", err)
	}
	if !ok {
		return &GuildRecord{}, nil
	}

	var record GuildRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("failed to decode guild record: %w", err)
	}
	return &record, nil
}

func (s *Storage) saveGuildRecord(guildID string, record *GuildRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode guild record: %w", err)
	}
	return s.store.Set(guildKey(guildID), raw)
}

// AppendCommandHistory records a command execution for a guild, keeping only
// the most recent entries.
func (s *Storage) AppendCommandHistory(guildID string, rec CommandHistoryRecord) error {
	record, err := s.guildRecord(guildID)
	if err != nil {
		return err
	}

	record.CommandHistory = append(record.CommandHistory, rec)
	if len(record.CommandHistory) > commandHistoryLimit {
		record.CommandHistory = record.CommandHistory[len(record.CommandHistory)-commandHistoryLimit:]
	}
	return s.saveGuildRecord(guildID, record)
}

// CommandHistory returns a guild's logged command executions, oldest first.
func (s *Storage) CommandHistory(guildID string) ([]CommandHistoryRecord, error) {
	record, err := s.guildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.CommandHistory, nil
}

// ClearCommandHistory wipes a guild's command history.
func (s *Storage) ClearCommandHistory(guildID string) error {
	record, err := s.guildRecord(guildID)
	if err != nil {
		return err
	}
	record.CommandHistory = nil
	return s.saveGuildRecord(guildID, record)
}
