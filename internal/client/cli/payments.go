package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/municollect/internal/client/models"
	"github.com/dmitrijs2005/municollect/internal/timex"
)

func (a *App) Municipalities(ctx context.Context, _ []string) error {
	list, err := a.api.Municipality.GetMunicipalities(ctx)
	if err != nil {
		return a.fail(ctx, err, "municipalities")
	}
	for _, m := range list.Municipalities {
		a.printf("%-6s %s\n", m.Code, m.Name)
	}
	a.printf("%d municipalities\n", list.Total)
	return nil
}

func (a *App) findMunicipality(ctx context.Context, code string) (*models.Municipality, error) {
	list, err := a.api.Municipality.GetMunicipalities(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range list.Municipalities {
		if strings.EqualFold(m.Code, code) {
			return &m, nil
		}
	}
	return nil, fmt.Errorf("municipality %q not found", code)
}

// Pay starts a payment and prints its QR code.
func (a *App) Pay(ctx context.Context, args []string) error {
	const usage = "pay <municipality-code> <waste_management|water_bill> <amount> [currency]"
	if err := a.guard(); err != nil {
		return err
	}
	if len(args) < 3 {
		return a.usage(usage)
	}
	amount, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return a.usage(usage)
	}
	currency := models.CurrencyTHB
	if len(args) > 3 {
		currency = models.Currency(strings.ToUpper(args[3]))
	}

	m, err := a.findMunicipality(ctx, args[0])
	if err != nil {
		return a.fail(ctx, err, "pay")
	}

	u := a.session.User()
	resp, err := a.api.Payment.InitiatePayment(ctx, models.PaymentRequest{
		MunicipalityID: m.ID,
		ServiceType:    models.ServiceType(args[1]),
		Amount:         amount,
		Currency:       currency,
		UserDetails: models.UserDetails{
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Phone:     u.Phone,
		},
	})
	if err != nil {
		return a.fail(ctx, err, "pay")
	}

	a.printf("Payment %s created: %.2f %s to %s\n", resp.ID, amount, currency, m.Name)
	a.printf("  QR code:  %s\n", resp.QRCode)
	a.printf("  pay at:   %s\n", resp.PaymentURL)
	a.printf("  expires:  %s\n", timex.FormatISO(resp.ExpiresAt))
	return nil
}

// History lists payments, optionally filtered by status.
func (a *App) History(ctx context.Context, args []string) error {
	if err := a.guard(); err != nil {
		return err
	}
	var f models.PaymentHistoryRequest
	if len(args) > 0 {
		f.Status = models.PaymentStatus(args[0])
	}

	resp, err := a.api.Payment.GetPaymentHistory(ctx, f)
	if err != nil {
		return a.fail(ctx, err, "history")
	}
	for _, p := range resp.Payments {
		a.printPayment(p)
	}
	more := ""
	if resp.HasMore {
		more = " (more available)"
	}
	a.printf("%d of %d payments%s\n", len(resp.Payments), resp.Total, more)
	return nil
}

func (a *App) printPayment(p models.Payment) {
	a.printf("%s  %-9s %-16s %10.2f %s  %s\n",
		p.ID, p.Status, p.ServiceType, p.Amount, p.Currency, timex.FormatISO(p.CreatedAt))
}

func (a *App) PaymentStatus(ctx context.Context, args []string) error {
	if err := a.guard(); err != nil {
		return err
	}
	if len(args) != 1 {
		return a.usage("status <payment-id>")
	}
	p, err := a.api.Payment.GetPaymentStatus(ctx, args[0])
	if err != nil {
		return a.fail(ctx, err, "status")
	}
	a.printPayment(*p)
	if p.PaidAt != nil {
		a.printf("  paid at: %s\n", timex.FormatISO(*p.PaidAt))
	}
	return nil
}

// QRCode issues a fresh QR code for a pending payment.
func (a *App) QRCode(ctx context.Context, args []string) error {
	if err := a.guard(); err != nil {
		return err
	}
	if len(args) != 1 {
		return a.usage("qr <payment-id>")
	}
	qr, err := a.api.QR.GenerateQRCode(ctx, models.QRCodeRequest{PaymentID: args[0]})
	if err != nil {
		return a.fail(ctx, err, "qr")
	}
	a.printf("QR code %s for %.2f %s, expires %s\n",
		qr.QRCode, qr.Data.Amount, qr.Data.Currency, timex.FormatISO(qr.ExpiresAt))
	return nil
}

// Verify looks up a QR code. It needs no sign-in.
func (a *App) Verify(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("verify <qr-code>")
	}
	resp, err := a.api.QR.GetQRCodeDetails(ctx, args[0])
	if err != nil {
		return a.fail(ctx, err, "verify")
	}
	state := "valid"
	if !resp.Valid {
		state = "not payable"
	}
	a.printf("QR code is %s\n", state)
	if resp.Payment != nil {
		a.printPayment(*resp.Payment)
	}
	return nil
}

// Settle sets a payment's status. Staff only.
func (a *App) Settle(ctx context.Context, args []string) error {
	if err := a.guard(staffRoles...); err != nil {
		return err
	}
	if len(args) != 2 {
		return a.usage("settle <payment-id> <pending|completed|failed|expired>")
	}
	p, err := a.api.Payment.UpdatePaymentStatus(ctx, models.PaymentStatusUpdate{
		PaymentID: args[0],
		Status:    models.PaymentStatus(args[1]),
	})
	if err != nil {
		return a.fail(ctx, err, "settle")
	}
	a.printPayment(*p)
	return nil
}

// AddMunicipality creates a municipality. Admin only.
func (a *App) AddMunicipality(ctx context.Context, _ []string) error {
	if err := a.guard(adminRoles...); err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	code, err := getSimpleText(a.reader, "Code (2-10 upper-case letters or digits)", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Contact email (optional)", a.out)
	if err != nil {
		return err
	}

	req := models.MunicipalityRequest{Name: name, Code: code}
	if email != "" {
		req.ContactEmail = &email
	}
	m, err := a.api.Municipality.CreateMunicipality(ctx, req)
	if err != nil {
		return a.fail(ctx, err, "addmuni")
	}
	a.printf("Municipality %s (%s) created\n", m.Name, m.Code)
	return nil
}
