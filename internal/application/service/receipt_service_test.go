package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/investify-desk/internal/domain/entity"
	"github.com/sangkips/investify-desk/internal/domain/enum"
	"github.com/sangkips/investify-desk/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPrinter struct {
	jobs [][]byte
	err  error
}

func (p *recordingPrinter) Print(_ context.Context, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, append([]byte(nil), data...))
	return nil
}

func (p *recordingPrinter) Ready() bool { return p.err == nil }

func completedSale(t *testing.T) (*CartController, entity.Contact) {
	t.Helper()
	ctx := context.Background()
	widget := product("Widget", "4", intPtr(5))
	gadget := product("Gadget", "10", intPtr(1))
	customer := entity.Contact{ID: uuid.New(), Name: "Mama Njeri"}

	accounts := accountsByType(entity.BillAccount{ID: uuid.New(), Name: "Till", Type: enum.BillAccountTypeCash})
	controller := NewCartController(NewPointOfSalePolicy(), newMemoryCarts(widget, gadget),
		staticCatalog(widget, gadget), staticContacts(customer), accounts, nil)
	require.NoError(t, controller.LoadCatalogAndCounterparties(ctx))
	require.NoError(t, controller.SelectCounterparty(ctx, &customer.ID))
	require.NoError(t, controller.AddItem(ctx, widget.ID, 2))
	require.NoError(t, controller.AddItem(ctx, gadget.ID, 1))

	till, err := controller.GetEligibleBillAccounts(ctx, enum.PaymentMethodCash)
	require.NoError(t, err)
	_, err = controller.CompleteSale(ctx, enum.PaymentMethodCash, &till[0].ID)
	require.NoError(t, err)
	return controller, customer
}

func TestReceiptService_PrintLastSale(t *testing.T) {
	controller, customer := completedSale(t)
	p := &recordingPrinter{}
	svc := NewReceiptService(p, ReceiptConfig{
		PrinterType: "network",
		Header:      entity.ReceiptHeader{StoreName: "Investify Store"},
	}, controller, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 2, 14, 5, 0, 0, time.UTC) }

	receipt, err := svc.PrintLastSale(context.Background(), &entity.User{Username: "ana"})
	require.NoError(t, err)

	assert.Equal(t, customer.Name, receipt.Customer)
	assert.Equal(t, "ana", receipt.Cashier)
	assert.Equal(t, "cash", receipt.PaymentMethod)
	require.Len(t, receipt.Items, 2)
	assert.Equal(t, "8.00", receipt.Items[0].Total.StringFixed(2))
	assert.Equal(t, "18.00", receipt.Subtotal.StringFixed(2))
	assert.Equal(t, "20.88", receipt.Total.StringFixed(2))

	require.Len(t, p.jobs, 1)
	text := string(p.jobs[0])
	assert.Contains(t, text, "Investify Store")
	assert.Contains(t, text, "2026-03-02 14:05")
	assert.Contains(t, text, "2x Widget")
	assert.Contains(t, text, "  @ 4.00 each")
	assert.Contains(t, text, "Customer:")
	assert.NotContains(t, text, "Discount:")
	assert.True(t, strings.HasSuffix(text, "\n\n\n\x1dV\x01"))
}

func TestReceiptService_NothingToPrint(t *testing.T) {
	d := newPOSDesk(product("Widget", "4", intPtr(5)))
	p := &recordingPrinter{}
	svc := NewReceiptService(p, ReceiptConfig{}, d.controller, nil)

	_, err := svc.PrintLastSale(context.Background(), nil)

	assert.True(t, apperror.IsKind(err, apperror.KindPrecondition))
	assert.Empty(t, p.jobs)
}

func TestReceiptService_PrinterFailure(t *testing.T) {
	controller, _ := completedSale(t)
	svc := NewReceiptService(&recordingPrinter{err: errors.New("paper out")}, ReceiptConfig{PrinterType: "usb"}, controller, nil)

	receipt, err := svc.PrintLastSale(context.Background(), nil)

	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, apperror.GetAppError(err).Code)
	require.NotNil(t, receipt)
	assert.Len(t, receipt.Items, 2)
}

func TestReceiptService_Status(t *testing.T) {
	d := newPOSDesk()

	status := NewReceiptService(&recordingPrinter{}, ReceiptConfig{PrinterType: "none"}, d.controller, nil).Status()
	assert.False(t, status.Configured)
	assert.True(t, status.Connected)

	status = NewReceiptService(&recordingPrinter{}, ReceiptConfig{PrinterType: "usb"}, d.controller, nil).Status()
	assert.True(t, status.Configured)
	assert.Equal(t, "usb", status.Type)
}
