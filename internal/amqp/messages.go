package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EntryUpsertMessage notifies the mirror worker that a journal slot changed in
// the spreadsheet. It carries the full row so the worker never has to call
// back into the Sheets API.
type EntryUpsertMessage struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Account   string    `json:"account"`
	Amount    string    `json:"amount"`
	Notes     string    `json:"notes"`
	Created   bool      `json:"created"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntryUpsertMessage(date, account, amount, notes string, created bool) *EntryUpsertMessage {
	return &EntryUpsertMessage{
		ID:        uuid.NewString(),
		Date:      date,
		Account:   account,
		Amount:    amount,
		Notes:     notes,
		Created:   created,
		Timestamp: time.Now(),
	}
}

func (m *EntryUpsertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntryUpsertMessageFromJSON(data []byte) (*EntryUpsertMessage, error) {
	var msg EntryUpsertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
