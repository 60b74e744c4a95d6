package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jask/invoicedesk/internal/database/repository"
	"github.com/jask/invoicedesk/internal/mailer"
	"github.com/jask/invoicedesk/internal/money"
	"github.com/jask/invoicedesk/internal/printing"
	"github.com/jask/invoicedesk/internal/secrets"
)

// Mailer is the SMTP side of MailService.
type Mailer interface {
	Verify(ctx context.Context, creds mailer.Credentials) error
	Send(ctx context.Context, creds mailer.Credentials, msg mailer.Message) error
}

// AccountRef names the sending account. A stored account is found by ID,
// then by Email; a non-empty Password is used as given.
type AccountRef struct {
	ID       int64
	Email    string
	Password string
}

// MailService stores SMTP accounts and sends mail through them.
type MailService struct {
	Accounts *repository.SMTPAccountRepo
	Box      *secrets.Box
	Mailer   Mailer
	Invoices *InvoiceService
	Currency string
	Logger   *zap.Logger
}

func (s *MailService) ListAccounts(ctx context.Context) ([]repository.SMTPAccount, error) {
	return s.Accounts.List(ctx)
}

func (s *MailService) DeleteAccount(ctx context.Context, id int64) error {
	return s.Accounts.Delete(ctx, id)
}

// AddAccount verifies the credentials and only then stores them sealed.
func (s *MailService) AddAccount(ctx context.Context, email, password string) (int64, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return 0, invalidf("email and password are required")
	}
	creds := mailer.Credentials{Email: email, Password: password}
	if err := s.Mailer.Verify(ctx, creds); err != nil {
		s.logger().Warn("smtp verification failed", zap.String("email", email), zap.Error(err))
		return 0, fmt.Errorf("%w: %v", ErrVerification, err)
	}
	sealed, err := s.Box.Seal([]byte(password))
	if err != nil {
		return 0, fmt.Errorf("seal password: %w", err)
	}
	return s.Accounts.Upsert(ctx, repository.SMTPAccount{Email: email, Password: sealed})
}

// Verify checks credentials without storing anything.
func (s *MailService) Verify(ctx context.Context, ref AccountRef) error {
	creds, err := s.credentials(ctx, ref)
	if err != nil {
		return err
	}
	if err := s.Mailer.Verify(ctx, creds); err != nil {
		return fmt.Errorf("%w: %v", ErrVerification, err)
	}
	return nil
}

// SendTest mails a short message from the account to itself.
func (s *MailService) SendTest(ctx context.Context, ref AccountRef) error {
	creds, err := s.credentials(ctx, ref)
	if err != nil {
		return err
	}
	msg := mailer.Message{
		To:      creds.Email,
		Subject: "invoicedesk test email",
		Body:    "This is a test message from invoicedesk.\nYour SMTP account is able to send mail.\n",
	}
	if err := s.Mailer.Send(ctx, creds, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}

// SendInvoice renders invoice id and mails it to the invoice's client.
func (s *MailService) SendInvoice(ctx context.Context, invoiceID int64, ref AccountRef) error {
	creds, err := s.credentials(ctx, ref)
	if err != nil {
		return err
	}
	pdf, doc, err := s.Invoices.RenderPDF(ctx, invoiceID)
	if err != nil {
		return err
	}
	msg := InvoiceMessage(doc, s.Currency)
	msg.Attachments = []mailer.Attachment{{Filename: printing.Filename(invoiceID), Data: pdf}}
	if err := s.Mailer.Send(ctx, creds, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	s.logger().Info("invoice emailed", zap.Int64("invoice_id", invoiceID), zap.String("to", msg.To))
	return nil
}

// InvoiceMessage is the cover mail for an invoice, without the attachment.
func InvoiceMessage(doc printing.Document, currency string) mailer.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", doc.ClientName)
	fmt.Fprintf(&b, "Please find attached Invoice #%d dated %s.\n", doc.InvoiceID, doc.Date)
	fmt.Fprintf(&b, "Total Due: %s%s\n\n", currency, money.Format(doc.TotalCents))
	b.WriteString("Thank you for your business!\n")
	b.WriteString(doc.CompanyName)
	return mailer.Message{
		To:      doc.ClientEmail,
		Subject: fmt.Sprintf("Invoice #%d from %s", doc.InvoiceID, doc.CompanyName),
		Body:    b.String(),
	}
}

func (s *MailService) credentials(ctx context.Context, ref AccountRef) (mailer.Credentials, error) {
	if ref.Password != "" {
		if ref.Email == "" {
			return mailer.Credentials{}, invalidf("email is required")
		}
		return mailer.Credentials{Email: ref.Email, Password: ref.Password}, nil
	}
	var (
		acct repository.SMTPAccount
		err  error
	)
	switch {
	case ref.ID > 0:
		acct, err = s.Accounts.Get(ctx, ref.ID)
	case ref.Email != "":
		acct, err = s.Accounts.GetByEmail(ctx, ref.Email)
	default:
		return mailer.Credentials{}, invalidf("an smtp account id or email is required")
	}
	if errors.Is(err, repository.ErrNotFound) {
		return mailer.Credentials{}, invalidf("unknown smtp account")
	}
	if err != nil {
		return mailer.Credentials{}, err
	}
	plain, err := s.Box.Open(acct.Password)
	if err != nil {
		return mailer.Credentials{}, fmt.Errorf("open stored password for %s: %w", acct.Email, err)
	}
	return mailer.Credentials{Email: acct.Email, Password: string(plain)}, nil
}

func (s *MailService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
