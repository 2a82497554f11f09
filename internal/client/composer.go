package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/fahad9993/expense-tracker-gsheet/internal/codec"
	"github.com/fahad9993/expense-tracker-gsheet/internal/core"
)

// EntryAPI is the slice of the transport the composer needs.
type EntryAPI interface {
	FetchEntry(ctx context.Context, dateText, account string) (core.StoredRecord, error)
	AppendEntry(ctx context.Context, dateText, account, amount, notes string) error
}

// Composer accumulates a working set of line items for one (date, account)
// slot. Selecting a slot that already holds a record decodes it into the
// working set; submitting encodes the set back into a single record.
type Composer struct {
	api         EntryAPI
	suggestions core.Suggestions

	mu              sync.Mutex
	workingItems    []core.LineItem
	draftNote       string
	draftAmount     string
	targetAccount   string
	targetDateText  string
	lastDecodedSlot *core.Slot
}

func NewComposer(api EntryAPI, suggestions core.Suggestions) *Composer {
	return &Composer{
		api:            api,
		suggestions:    suggestions,
		targetDateText: core.FormatDate(time.Now()),
	}
}

// SelectSlot retargets the composer. When the normalized slot differs from
// the last decoded one and the account is a known suggestion, the stored
// record for that slot is fetched and decoded into the working set; a missing
// record yields an empty set. Re-selecting the current slot is a no-op.
//
// The fetch runs without the lock held, so a second SelectSlot may land while
// one is in flight. Each fetch is tagged with the slot it was issued for and
// its result is discarded when the target has moved on.
func (c *Composer) SelectSlot(ctx context.Context, account, dateText string) error {
	c.mu.Lock()
	c.targetAccount = account
	c.targetDateText = dateText

	slot, err := core.Slot{DateText: dateText, Account: account}.Normalized()
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if c.lastDecodedSlot != nil && c.lastDecodedSlot.Equal(slot) {
		c.mu.Unlock()
		return nil
	}
	if strings.TrimSpace(account) == "" || !c.knownAccount(account) {
		c.mu.Unlock()
		return nil
	}
	target := slot
	c.lastDecodedSlot = &target
	c.mu.Unlock()

	rec, err := c.api.FetchEntry(ctx, dateText, account)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastDecodedSlot == nil || !c.lastDecodedSlot.Equal(target) {
		// A later selection superseded this fetch.
		return nil
	}
	switch {
	case err == nil:
		c.workingItems = codec.Decode(rec)
	case errors.Is(err, core.ErrNotFound):
		c.workingItems = nil
	default:
		c.lastDecodedSlot = nil
		return err
	}
	return nil
}

// SetDraft stages the note and amount the user is typing.
func (c *Composer) SetDraft(note, amount string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draftNote = note
	c.draftAmount = amount
}

// AddDraftItem moves the staged draft into the working set, keeping the set
// sorted by note. A note already present (case-insensitive, trimmed) is
// rejected with core.ErrDuplicateItem and the draft fields are cleared.
func (c *Composer) AddDraftItem() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case strings.TrimSpace(c.targetAccount) == "":
		return &core.MissingFieldError{Field: "account"}
	case strings.TrimSpace(c.draftNote) == "":
		return &core.MissingFieldError{Field: "note"}
	case strings.TrimSpace(c.draftAmount) == "":
		return &core.MissingFieldError{Field: "amount"}
	}

	if core.ContainsNote(c.workingItems, c.draftNote) {
		c.draftNote = ""
		c.draftAmount = ""
		return core.ErrDuplicateItem
	}

	c.workingItems = append(c.workingItems, core.LineItem{
		Note:   strings.TrimSpace(c.draftNote),
		Amount: strings.TrimSpace(c.draftAmount),
	})
	core.SortItems(c.workingItems)
	c.draftNote = ""
	c.draftAmount = ""
	return nil
}

// RemoveItem drops the item at the given position.
func (c *Composer) RemoveItem(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.workingItems) {
		return errors.New("item index out of range")
	}
	c.workingItems = append(c.workingItems[:index], c.workingItems[index+1:]...)
	return nil
}

// Items returns a copy of the current working set.
func (c *Composer) Items() []core.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.LineItem, len(c.workingItems))
	copy(out, c.workingItems)
	return out
}

// Submit validates, encodes the effective item set and sends it. On success
// every slot-scoped field is reset, the date back to today. A transport
// failure leaves the state untouched.
func (c *Composer) Submit(ctx context.Context) error {
	c.mu.Lock()

	if !c.knownAccount(c.targetAccount) {
		c.mu.Unlock()
		return core.ErrInvalidAccount
	}

	note := strings.TrimSpace(c.draftNote)
	amount := strings.TrimSpace(c.draftAmount)
	if len(c.workingItems) == 0 {
		if note == "" {
			c.mu.Unlock()
			return &core.MissingFieldError{Field: "note"}
		}
		if amount == "" {
			c.mu.Unlock()
			return &core.MissingFieldError{Field: "amount"}
		}
	} else if note != "" && amount != "" {
		c.mu.Unlock()
		return core.ErrUncommittedDraft
	}

	items := c.workingItems
	if len(items) == 0 {
		items = []core.LineItem{{Note: note, Amount: amount}}
	}
	rec := codec.Encode(items)
	dateText := c.targetDateText
	account := c.targetAccount
	c.mu.Unlock()

	if err := c.api.AppendEntry(ctx, dateText, account, rec.Amount, rec.Notes); err != nil {
		return err
	}

	c.mu.Lock()
	c.workingItems = nil
	c.draftNote = ""
	c.draftAmount = ""
	c.targetAccount = ""
	c.targetDateText = core.FormatDate(time.Now())
	c.lastDecodedSlot = nil
	c.mu.Unlock()
	return nil
}

func (c *Composer) knownAccount(account string) bool {
	target := core.NormalizeAccount(account)
	if target == "" {
		return false
	}
	for _, a := range c.suggestions.Accounts {
		if core.NormalizeAccount(a) == target {
			return true
		}
	}
	return false
}
