// internal/bot/bot.go
package bot

import (
	"errors"

	"github.com/tamzrod/bot-status/internal/cache"
	"github.com/tamzrod/bot-status/internal/status"
	"github.com/tamzrod/bot-status/internal/store"
)

// Bot is the locally cached view of one device.
type Bot struct {
	id     string
	status *cache.Status
	store  *store.Store
}

// New ties a status cache and its storage together.
func New(id string, st *cache.Status, s *store.Store) (*Bot, error) {
	if id == "" {
		return nil, errors.New("bot: id required")
	}
	if st == nil || s == nil {
		return nil, errors.New("bot: cache and store required")
	}
	return &Bot{id: id, status: st, store: s}, nil
}

func (b *Bot) ID() string { return b.id }

// Cache returns the writable status cache.
func (b *Bot) Cache() *cache.Status { return b.status }

// Store returns the status storage.
func (b *Bot) Store() *store.Store { return b.store }

// ---- status.Source ----

// A nil *Bot reports nil accessors, so status.Build rejects it as invalid input.

func (b *Bot) Status() status.StatusReader {
	if b == nil || b.status == nil {
		return nil
	}
	return b.status
}

func (b *Bot) Commands() status.CommandLog {
	if b == nil || b.store == nil {
		return nil
	}
	return b.store
}

func (b *Bot) StatusStorage() status.MetadataStore {
	if b == nil || b.store == nil {
		return nil
	}
	return b.store
}

// Restore loads the last persisted state into the cache.
// It reports false when nothing was persisted yet.
func (b *Bot) Restore() (bool, error) {
	raw, err := b.store.Fetch(cache.StateNamespace, cache.StateKey)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}

	u, err := cache.DecodeUpdate(raw)
	if err != nil {
		return false, err
	}
	b.status.Apply(u)
	return true, nil
}

// Persist stores the current cached state for Restore.
func (b *Bot) Persist() error {
	u, ok := b.status.Current()
	if !ok {
		return nil
	}
	raw, err := u.Encode()
	if err != nil {
		return err
	}
	return b.store.Put(cache.StateNamespace, cache.StateKey, raw)
}

// Report builds the bot's status report from cached state only.
func (b *Bot) Report() (status.Snapshot, error) {
	return status.Build(b)
}
