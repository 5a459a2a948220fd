package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Outcome TransactionType = "outcome"
)

const (
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

type (
	// TransactionType carries the sign of a transaction; amounts are always
	// stored as positive magnitudes.
	TransactionType string

	// Frequency is the repetition period of a recurring reminder.
	Frequency string

	Money struct {
		Cents int64
	}

	Category struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	Transaction struct {
		ID           string          `json:"id"`
		Amount       Money           `json:"amount"`
		Description  string          `json:"description"`
		Type         TransactionType `json:"type"`
		Date         time.Time       `json:"date"`
		CategoryID   string          `json:"categoryId"`
		CategoryName string          `json:"categoryName"`
	}

	Reminder struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		Amount      Money     `json:"amount"`
		DueDate     time.Time `json:"dueDate"`
		Description string    `json:"description"`
		IsRecurring bool      `json:"isRecurring"`
		Frequency   Frequency `json:"frequency,omitempty"`
	}

	// Snapshot is the full persisted state, as read back from storage.
	Snapshot struct {
		Categories   []Category
		Transactions []Transaction
		Goal         *Money
		Reminders    []Reminder
	}
)

var (
	ErrEmptyName        = errors.New("empty category name")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyTitle       = errors.New("empty title")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidDueDate   = errors.New("invalid due date")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrNotFound         = errors.New("not found")
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Outcome
}

func (f Frequency) Valid() bool {
	return f == Monthly || f == Yearly
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

// Signed returns the amount in cents with the sign carried by the type.
func (t Transaction) Signed() int64 {
	if t.Type == Outcome {
		return -t.Amount.Cents
	}
	return t.Amount.Cents
}

func (r Reminder) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrEmptyTitle
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if r.DueDate.IsZero() {
		return ErrInvalidDueDate
	}
	// Frequency is present if and only if the reminder recurs.
	if r.IsRecurring {
		if !r.Frequency.Valid() {
			return ErrInvalidFrequency
		}
	} else if r.Frequency != "" {
		return ErrInvalidFrequency
	}
	return nil
}
