package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sangkips/investify-desk/internal/domain/entity"
	"github.com/sangkips/investify-desk/pkg/apperror"
	"github.com/sangkips/investify-desk/pkg/printer"
	"github.com/sangkips/investify-desk/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReceiptConfig describes the till printer and the store block of receipts
type ReceiptConfig struct {
	PrinterType string
	Width       int
	Header      entity.ReceiptHeader
}

// ReceiptService prints the receipt of the last completed sale
type ReceiptService struct {
	printer printer.Printer
	cfg     ReceiptConfig
	sales   *CartController
	logger  *zap.Logger
	now     func() time.Time
}

// NewReceiptService creates a receipt service for the sales controller
func NewReceiptService(p printer.Printer, cfg ReceiptConfig, sales *CartController, logger *zap.Logger) *ReceiptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Width <= 0 {
		cfg.Width = printer.Width58mm
	}
	return &ReceiptService{
		printer: p,
		cfg:     cfg,
		sales:   sales,
		logger:  logger.Named("receipt"),
		now:     time.Now,
	}
}

// PrinterStatus reports the configured printer
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// Status returns the printer status
func (s *ReceiptService) Status() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.cfg.PrinterType != "none" && s.cfg.PrinterType != "",
		Connected:  s.printer.Ready(),
		Type:       s.cfg.PrinterType,
	}
}

// PrintLastSale prints the receipt of the most recently completed sale.
// The composed receipt is returned even when printing fails.
func (s *ReceiptService) PrintLastSale(ctx context.Context, cashier *entity.User) (*entity.Receipt, error) {
	state := s.sales.State()
	if state.LastCompleted == nil {
		return nil, apperror.NewPreconditionError("no completed sale to print")
	}

	receipt := s.BuildReceipt(state.LastCompleted, state.Counterparties, cashier)
	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.cfg.Width)); err != nil {
		s.logger.Warn("print failed", zap.String("reference", receipt.Reference), zap.Error(err))
		return receipt, apperror.NewAppError(http.StatusBadGateway, apperror.KindInternal, "failed to print receipt")
	}

	s.logger.Info("receipt printed", zap.String("reference", receipt.Reference))
	return receipt, nil
}

// BuildReceipt composes a receipt from a completed cart
func (s *ReceiptService) BuildReceipt(cart *entity.Cart, contacts []entity.Contact, cashier *entity.User) *entity.Receipt {
	receipt := &entity.Receipt{
		Header:        s.cfg.Header,
		Reference:     strings.ToUpper(utils.ShortID(cart.ID.String())),
		PrintedAt:     s.now(),
		PaymentMethod: cart.PaymentMethod,
		Subtotal:      cart.Subtotal,
		Tax:           cart.Tax,
		Discount:      cart.Discount,
		Total:         cart.Total,
		Items:         make([]entity.ReceiptItem, 0, len(cart.Items)),
	}

	if cashier != nil {
		receipt.Cashier = cashier.Username
	}
	if id := cart.ContactID; id != nil {
		for _, c := range contacts {
			if c.ID == *id {
				receipt.Customer = c.Name
				break
			}
		}
	}

	for _, item := range cart.Items {
		line := entity.ReceiptItem{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
			Total:     item.Total,
		}
		if line.Name == "" {
			line.Name = "Product"
		}
		if line.Total.IsZero() {
			line.Total = item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		}
		receipt.Items = append(receipt.Items, line)
	}

	return receipt
}

// FormatReceipt renders a receipt as ESC/POS bytes for paper width characters wide
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)
	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		KeyValue("Ref:", r.Reference).
		KeyValue("Date:", r.PrintedAt.Format("2006-01-02 15:04"))
	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}
	if r.PaymentMethod != "" {
		doc.KeyValue("Payment:", r.PaymentMethod)
	}
	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, item.Total.StringFixed(2))
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", item.UnitPrice.StringFixed(2))
		}
	}
	doc.Separator('-')

	doc.KeyValue("Subtotal:", r.Subtotal.StringFixed(2))
	if r.Tax.IsPositive() {
		doc.KeyValue("Tax:", r.Tax.StringFixed(2))
	}
	if r.Discount.IsPositive() {
		doc.KeyValue("Discount:", fmt.Sprintf("-%s", r.Discount.StringFixed(2)))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", r.Total.StringFixed(2)).
		SetBold(false).
		Separator('-')

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you for your business!").
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
