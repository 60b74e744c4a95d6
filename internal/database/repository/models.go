package repository

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a row with the requested id does not exist.
var ErrNotFound = errors.New("not found")

// CompanyProfile is a saved sender identity ("preset").
type CompanyProfile struct {
	ID             int64
	CompanyName    string
	CompanyAddress string
	CompanyEmail   string
	CompanyPhone   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SMTPAccount holds sealed sender credentials. Password is ciphertext.
type SMTPAccount struct {
	ID        int64
	Email     string
	Password  []byte
	CreatedAt time.Time
}

// Client represents a billed customer.
type Client struct {
	ID        int64
	Name      string
	Email     string
	Address   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Product represents a billable product.
type Product struct {
	ID          int64
	Name        string
	Description string
	PriceCents  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Invoice is the stored invoice header. Company fields are a snapshot.
type Invoice struct {
	ID             int64
	ClientID       int64
	Date           string // YYYY-MM-DD
	CompanyName    string
	CompanyAddress string
	CompanyEmail   string
	CompanyPhone   string
	TotalCents     int64
	Items          []InvoiceItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// InvoiceItem is one line of an invoice.
type InvoiceItem struct {
	ID             int64
	InvoiceID      int64
	ProductID      int64
	ProductName    string // joined on read
	Quantity       int64
	UnitPriceCents int64
}

// LineTotalCents is quantity times unit price.
func (i InvoiceItem) LineTotalCents() int64 {
	return i.Quantity * i.UnitPriceCents
}

// InvoiceSummary is the list projection: header plus client name.
type InvoiceSummary struct {
	ID         int64
	ClientName string
	Date       string
	TotalCents int64
}
