package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/oklog/ulid/v2"
	"github.com/go-playground/validator"

	domain "github.com/forja3d/store/internal/domain"
	"github.com/forja3d/store/internal/platform/currency"
)

const untitledInquiry = "(sem título)"

var (
	// ErrOrderEmptyCart indicates an order message was requested for an empty cart.
	ErrOrderEmptyCart = errors.New("order service: cart is empty")
	// ErrOrderInvalidInput indicates the buyer or inquiry form failed validation.
	ErrOrderInvalidInput = errors.New("order service: invalid input")
)

// OrderServiceDeps bundles constructor inputs for the order service.
type OrderServiceDeps struct {
	StoreName      string
	WhatsAppNumber string
	Validator      *validator.Validate
	Sanitizer      *bluemonday.Policy
	IDGenerator    func() string
	Logger         func(context.Context, string, map[string]any)
}

type orderService struct {
	storeName string
	number    string
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
	newID     func() string
	logger    func(context.Context, string, map[string]any)
}

// NewOrderService constructs an OrderService enforcing dependency validation.
func NewOrderService(deps OrderServiceDeps) (OrderService, error) {
	storeName := strings.TrimSpace(deps.StoreName)
	if storeName == "" {
		return nil, errors.New("order service: store name is required")
	}
	number := strings.TrimSpace(deps.WhatsAppNumber)
	if number == "" {
		return nil, errors.New("order service: whatsapp number is required")
	}

	validate := deps.Validator
	if validate == nil {
		validate = validator.New()
	}
	sanitizer := deps.Sanitizer
	if sanitizer == nil {
		sanitizer = bluemonday.StrictPolicy()
	}
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &orderService{
		storeName: storeName,
		number:    number,
		validate:  validate,
		sanitizer: sanitizer,
		newID:     idGen,
		logger:    logger,
	}, nil
}

// ComposeOrder renders the cart and buyer details into the outbound order
// message. Every price in the text comes from the snapshotted line data, so
// the message always matches what the shopper saw in the cart.
func (s *orderService) ComposeOrder(ctx context.Context, lines []domain.CartLine, buyer domain.BuyerDetails) (OrderMessage, error) {
	if len(lines) == 0 {
		return OrderMessage{}, ErrOrderEmptyCart
	}

	buyer = s.cleanBuyer(buyer)
	if err := s.validate.Struct(buyer); err != nil {
		s.logger(ctx, "order.buyer_rejected", map[string]any{"fields": validationFields(err)})
		return OrderMessage{}, fmt.Errorf("%w: %v", ErrOrderInvalidInput, err)
	}

	var subtotal int64
	text := []string{
		fmt.Sprintf("Olá! Tenho interesse em comprar no %s.", s.storeName),
		"",
		"Itens do pedido:",
	}
	for _, line := range lines {
		total := line.LineTotalCents()
		subtotal += total
		text = append(text, fmt.Sprintf("- %s x%d — %s", line.Title, line.Quantity, currency.FormatBRL(total)))
	}
	text = append(text,
		"",
		fmt.Sprintf("Subtotal: %s", currency.FormatBRL(subtotal)),
		"Frete: informar",
		"Pagamento: enviar link (Pix/cartão)",
		"",
		"Dados do comprador:",
		fmt.Sprintf("• Nome: %s", buyer.Name),
		fmt.Sprintf("• E-mail: %s", buyer.Email),
		fmt.Sprintf("• Endereço: %s", buyer.Address),
		fmt.Sprintf("• CEP: %s", buyer.PostalCode),
	)
	if buyer.Note != "" {
		text = append(text, fmt.Sprintf("• Observações: %s", buyer.Note))
	}
	text = append(text,
		"",
		"Pode me enviar o link de pagamento e o valor do frete, por favor?",
	)

	message := strings.Join(text, "\n")
	reference := s.newID()
	s.logger(ctx, "order.composed", map[string]any{
		"reference": reference,
		"lines":     len(lines),
		"subtotal":  subtotal,
	})

	return OrderMessage{
		Reference: reference,
		Text:      message,
		DeepLink:  s.deepLink(message),
	}, nil
}

// ComposeInquiry renders a custom-piece inquiry into an outbound message.
func (s *orderService) ComposeInquiry(ctx context.Context, inquiry domain.CustomInquiry) (OrderMessage, error) {
	inquiry = s.cleanInquiry(inquiry)
	if err := s.validate.Struct(inquiry); err != nil {
		s.logger(ctx, "order.inquiry_rejected", map[string]any{"fields": validationFields(err)})
		return OrderMessage{}, fmt.Errorf("%w: %v", ErrOrderInvalidInput, err)
	}

	title := inquiry.Title
	if title == "" {
		title = untitledInquiry
	}

	message := strings.Join([]string{
		"Olá! Quero uma peça personalizada.",
		"",
		fmt.Sprintf("Título: %s", title),
		fmt.Sprintf("Descrição: %s", inquiry.Description),
		fmt.Sprintf("Nome: %s", inquiry.Name),
		fmt.Sprintf("E-mail: %s", inquiry.Email),
	}, "\n")

	reference := s.newID()
	s.logger(ctx, "order.inquiry_composed", map[string]any{"reference": reference})

	return OrderMessage{
		Reference: reference,
		Text:      message,
		DeepLink:  s.deepLink(message),
	}, nil
}

func (s *orderService) cleanBuyer(buyer domain.BuyerDetails) domain.BuyerDetails {
	buyer.Name = s.cleanField(buyer.Name)
	buyer.Email = s.cleanField(buyer.Email)
	buyer.Address = s.cleanField(buyer.Address)
	buyer.PostalCode = s.cleanField(buyer.PostalCode)
	buyer.Note = s.cleanField(buyer.Note)
	return buyer
}

func (s *orderService) cleanInquiry(inquiry domain.CustomInquiry) domain.CustomInquiry {
	inquiry.Name = s.cleanField(inquiry.Name)
	inquiry.Email = s.cleanField(inquiry.Email)
	inquiry.Title = s.cleanField(inquiry.Title)
	inquiry.Description = s.cleanField(inquiry.Description)
	return inquiry
}

// cleanField strips markup from free-form input. The sanitizer entity-escapes
// what survives, so the escape is undone to keep the message plain text.
func (s *orderService) cleanField(value string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(value)))
}

// deepLink builds the wa.me URL carrying the message. QueryEscape encodes
// spaces as '+', which WhatsApp renders literally, so they become %20.
func (s *orderService) deepLink(message string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", s.number, encoded)
}

func validationFields(err error) []string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return nil
	}
	fields := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		fields = append(fields, fieldError.Field())
	}
	return fields
}
