package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fahad9993/expense-tracker-gsheet/internal/amqp"
	"github.com/fahad9993/expense-tracker-gsheet/internal/core"
	"github.com/fahad9993/expense-tracker-gsheet/internal/sheets"
)

// Publisher is the slice of the AMQP client the service needs.
type Publisher interface {
	PublishEntryUpsert(ctx context.Context, msg *amqp.EntryUpsertMessage) error
	Close() error
}

// JournalService orchestrates journal writes: validate, upsert into the
// backend, then notify the mirror worker. Publish failures never fail the
// request; the periodic resync covers lost messages.
type JournalService struct {
	journal   sheets.JournalStore
	publisher Publisher
}

func NewJournalService(journal sheets.JournalStore, publisher Publisher) *JournalService {
	return &JournalService{journal: journal, publisher: publisher}
}

// Upsert validates the fields, writes the slot and reports whether a new row
// was created.
func (s *JournalService) Upsert(ctx context.Context, dateText, account, amount, note string) (bool, error) {
	if err := validateFields(dateText, account, amount); err != nil {
		return false, err
	}

	created, err := s.journal.Upsert(ctx, dateText, account, amount, note)
	if err != nil {
		return false, fmt.Errorf("upsert journal entry: %w", err)
	}

	if s.publisher != nil {
		msg := amqp.NewEntryUpsertMessage(dateText, account, amount, note, created)
		if err := s.publisher.PublishEntryUpsert(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish upsert message",
				"date", dateText,
				"account", account,
				"error", err)
		}
	}

	return created, nil
}

// Fetch returns the stored record for the slot, formula text intact.
func (s *JournalService) Fetch(ctx context.Context, dateText, account string) (core.StoredRecord, error) {
	return s.journal.Fetch(ctx, dateText, account)
}

func (s *JournalService) Close() error {
	if s.publisher != nil {
		return s.publisher.Close()
	}
	return nil
}

func validateFields(dateText, account, amount string) error {
	switch {
	case strings.TrimSpace(dateText) == "":
		return &core.MissingFieldError{Field: "date"}
	case strings.TrimSpace(account) == "":
		return &core.MissingFieldError{Field: "account"}
	case strings.TrimSpace(amount) == "":
		return &core.MissingFieldError{Field: "amount"}
	}
	return nil
}
