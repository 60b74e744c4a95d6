package api

// Preset is a saved company profile.
type Preset struct {
	ID             int64  `json:"id"`
	CompanyName    string `json:"company_name"`
	CompanyAddress string `json:"company_address"`
	CompanyEmail   string `json:"company_email"`
	CompanyPhone   string `json:"company_phone"`
}

type PresetInput struct {
	CompanyName    string `json:"company_name"`
	CompanyAddress string `json:"company_address"`
	CompanyEmail   string `json:"company_email"`
	CompanyPhone   string `json:"company_phone"`
}

// SMTPAccount never carries the password back.
type SMTPAccount struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type SMTPAccountInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AccountRef picks a stored SMTP account for test and send.
type AccountRef struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type Client struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type ClientInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// InvoiceSummary is one row of the invoice list.
type InvoiceSummary struct {
	ID     int64   `json:"id"`
	Client string  `json:"client"`
	Date   string  `json:"date"`
	Total  float64 `json:"total"`
}

type InvoiceItem struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Invoice is the full detail used to edit an invoice.
type Invoice struct {
	ID             int64         `json:"id"`
	ClientID       int64         `json:"client_id"`
	Date           string        `json:"date"`
	CompanyName    string        `json:"company_name"`
	CompanyAddress string        `json:"company_address"`
	CompanyEmail   string        `json:"company_email"`
	CompanyPhone   string        `json:"company_phone"`
	Total          float64       `json:"total"`
	Items          []InvoiceItem `json:"items"`
}

type InvoiceInput struct {
	ClientID       int64         `json:"client_id"`
	Date           string        `json:"date"`
	CompanyName    string        `json:"company_name"`
	CompanyAddress string        `json:"company_address"`
	CompanyEmail   string        `json:"company_email"`
	CompanyPhone   string        `json:"company_phone"`
	Items          []InvoiceItem `json:"items"`
}

// Created is the answer to a create call.
type Created struct {
	ID int64 `json:"id"`
}

// CreatedInvoice also reports the computed total.
type CreatedInvoice struct {
	ID    int64   `json:"id"`
	Total float64 `json:"total"`
}

type status struct {
	Status string `json:"status"`
}
