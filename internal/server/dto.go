package server

import (
	"github.com/jask/invoicedesk/internal/database/repository"
	"github.com/jask/invoicedesk/internal/money"
	"github.com/jask/invoicedesk/internal/service"
)

type presetRequest struct {
	CompanyName    *string `json:"company_name" binding:"omitempty,max=200"`
	CompanyAddress *string `json:"company_address" binding:"omitempty,max=500"`
	CompanyEmail   *string `json:"company_email" binding:"omitempty,max=200"`
	CompanyPhone   *string `json:"company_phone" binding:"omitempty,max=50"`
}

type presetResponse struct {
	ID             int64  `json:"id"`
	CompanyName    string `json:"company_name"`
	CompanyAddress string `json:"company_address"`
	CompanyEmail   string `json:"company_email"`
	CompanyPhone   string `json:"company_phone"`
}

func toPresetResponse(p repository.CompanyProfile) presetResponse {
	return presetResponse{
		ID:             p.ID,
		CompanyName:    p.CompanyName,
		CompanyAddress: p.CompanyAddress,
		CompanyEmail:   p.CompanyEmail,
		CompanyPhone:   p.CompanyPhone,
	}
}

type createSMTPRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// accountRequest names an SMTP account for verify, test and send.
type accountRequest struct {
	ID       int64  `json:"id"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password"`
}

func (r accountRequest) ref() service.AccountRef {
	return service.AccountRef{ID: r.ID, Email: r.Email, Password: r.Password}
}

type smtpResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type clientRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=200"`
	Email   *string `json:"email" binding:"omitempty,email,max=200"`
	Address *string `json:"address" binding:"omitempty,max=500"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
}

type clientResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func toClientResponse(c repository.Client) clientResponse {
	return clientResponse{ID: c.ID, Name: c.Name, Email: c.Email, Address: c.Address, Phone: c.Phone}
}

type productRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=200"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0,lte=90071992547409"`
}

type productResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

func toProductResponse(p repository.Product) productResponse {
	return productResponse{ID: p.ID, Name: p.Name, Description: p.Description, Price: money.ToFloat(p.PriceCents)}
}

type invoiceItemRequest struct {
	ProductID int64   `json:"product_id" binding:"required"`
	Quantity  int64   `json:"quantity" binding:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" binding:"gte=0,lte=90071992547409"`
}

type invoiceRequest struct {
	ClientID       int64                `json:"client_id"`
	Date           string               `json:"date" binding:"required"`
	CompanyName    *string              `json:"company_name"`
	CompanyAddress *string              `json:"company_address"`
	CompanyEmail   *string              `json:"company_email"`
	CompanyPhone   *string              `json:"company_phone"`
	Items          []invoiceItemRequest `json:"items" binding:"required,dive"`
}

func (r invoiceRequest) input() service.InvoiceInput {
	in := service.InvoiceInput{
		ClientID:       r.ClientID,
		Date:           r.Date,
		CompanyName:    r.CompanyName,
		CompanyAddress: r.CompanyAddress,
		CompanyEmail:   r.CompanyEmail,
		CompanyPhone:   r.CompanyPhone,
	}
	for _, it := range r.Items {
		in.Items = append(in.Items, service.ItemInput{
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			UnitPriceCents: money.FromFloat(it.UnitPrice),
		})
	}
	return in
}

type invoiceSummaryResponse struct {
	ID     int64   `json:"id"`
	Client string  `json:"client"`
	Date   string  `json:"date"`
	Total  float64 `json:"total"`
}

type invoiceItemResponse struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type invoiceResponse struct {
	ID             int64                 `json:"id"`
	ClientID       int64                 `json:"client_id"`
	Date           string                `json:"date"`
	CompanyName    string                `json:"company_name"`
	CompanyAddress string                `json:"company_address"`
	CompanyEmail   string                `json:"company_email"`
	CompanyPhone   string                `json:"company_phone"`
	Total          float64               `json:"total"`
	Items          []invoiceItemResponse `json:"items"`
}

func toInvoiceResponse(inv repository.Invoice) invoiceResponse {
	out := invoiceResponse{
		ID:             inv.ID,
		ClientID:       inv.ClientID,
		Date:           inv.Date,
		CompanyName:    inv.CompanyName,
		CompanyAddress: inv.CompanyAddress,
		CompanyEmail:   inv.CompanyEmail,
		CompanyPhone:   inv.CompanyPhone,
		Total:          money.ToFloat(inv.TotalCents),
		Items:          make([]invoiceItemResponse, 0, len(inv.Items)),
	}
	for _, it := range inv.Items {
		out.Items = append(out.Items, invoiceItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   money.ToFloat(it.UnitPriceCents),
		})
	}
	return out
}
