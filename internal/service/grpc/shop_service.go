// Package grpcsvc публикует магазин как gRPC-сервис partshop.v1.ShopService.
package grpcsvc

import (
	"bytes"
	"context"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vladislavdragonenkov/partshop/internal/catalog"
	"github.com/vladislavdragonenkov/partshop/internal/domain"
	"github.com/vladislavdragonenkov/partshop/internal/service/account"
	"github.com/vladislavdragonenkov/partshop/internal/service/cart"
	"github.com/vladislavdragonenkov/partshop/internal/service/checkout"
	"github.com/vladislavdragonenkov/partshop/internal/service/invoice"
	"github.com/vladislavdragonenkov/partshop/internal/service/pricing"
)

// Deps — сервисы, которые ShopService выставляет наружу.
type Deps struct {
	Catalog  *catalog.Catalog
	Cart     *cart.Store
	Pricing  *pricing.Engine
	Checkout *checkout.Recorder
	Invoices *invoice.Reader
	Accounts *account.Service
}

// ShopService реализует ShopServiceServer поверх доменных сервисов.
type ShopService struct {
	catalog  *catalog.Catalog
	cart     *cart.Store
	pricing  *pricing.Engine
	checkout *checkout.Recorder
	invoices *invoice.Reader
	accounts *account.Service
	logger   *log.Entry
}

// NewShopService конструирует сервис с зависимостями.
func NewShopService(deps Deps, logger *log.Entry) *ShopService {
	if logger == nil {
		logger = log.New().WithField("component", "shop-service")
	}
	return &ShopService{
		catalog:  deps.Catalog,
		cart:     deps.Cart,
		pricing:  deps.Pricing,
		checkout: deps.Checkout,
		invoices: deps.Invoices,
		accounts: deps.Accounts,
		logger:   logger,
	}
}

// ListProducts возвращает товары, подходящие под фильтры и поисковую строку.
func (s *ShopService) ListProducts(_ context.Context, req *ListProductsRequest) (*ListProductsResponse, error) {
	if req == nil {
		req = &ListProductsRequest{}
	}

	products := s.catalog.Filter(catalog.Filter{
		Brand: req.Brand,
		Model: req.Model,
		Part:  req.Part,
		Year:  req.Year,
		Query: req.Query,
	})

	result := make([]Product, 0, len(products))
	for _, p := range products {
		result = append(result, toProduct(p))
	}
	return &ListProductsResponse{Products: result, Total: len(result)}, nil
}

// GetProduct возвращает карточку товара.
func (s *ShopService) GetProduct(_ context.Context, req *GetProductRequest) (*GetProductResponse, error) {
	if req == nil || req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, domain.ErrInvalidProductID.Error())
	}

	product, err := s.catalog.Get(req.ID)
	if err != nil {
		return nil, s.toStatus(err, "GetProduct")
	}
	return &GetProductResponse{Product: toProduct(product)}, nil
}

// GetFilterOptions возвращает значения для зависимых фильтров.
func (s *ShopService) GetFilterOptions(_ context.Context, req *GetFilterOptionsRequest) (*GetFilterOptionsResponse, error) {
	if req == nil {
		req = &GetFilterOptionsRequest{}
	}

	resp := &GetFilterOptionsResponse{
		Brands: s.catalog.Brands(),
		Models: []string{},
		Parts:  []string{},
		Years:  s.catalog.Years(),
	}
	if req.Brand != "" {
		resp.Models = s.catalog.Models(req.Brand)
		if req.Model != "" {
			resp.Parts = s.catalog.Parts(req.Brand, req.Model)
		}
	}
	return resp, nil
}

// AddToCart добавляет единицу товара; для неизвестного товара NotFound.
func (s *ShopService) AddToCart(_ context.Context, req *AddToCartRequest) (*CartResponse, error) {
	if req == nil || req.ProductID <= 0 {
		return nil, status.Error(codes.InvalidArgument, domain.ErrInvalidProductID.Error())
	}
	if _, ok := s.catalog.Lookup(req.ProductID); !ok {
		return nil, status.Error(codes.NotFound, domain.ErrProductNotFound.Error())
	}

	if err := s.cart.Add(req.ProductID); err != nil {
		return nil, s.toStatus(err, "AddToCart")
	}
	return s.cartResponse("AddToCart")
}

// SetCartQuantity меняет количество позиции.
func (s *ShopService) SetCartQuantity(_ context.Context, req *SetCartQuantityRequest) (*CartResponse, error) {
	if req == nil || req.ProductID <= 0 {
		return nil, status.Error(codes.InvalidArgument, domain.ErrInvalidProductID.Error())
	}

	qty := req.Quantity
	if strings.TrimSpace(req.RawQuantity) != "" {
		qty = cart.ParseQuantity(req.RawQuantity)
	}

	if err := s.cart.SetQuantity(req.ProductID, qty); err != nil {
		return nil, s.toStatus(err, "SetCartQuantity")
	}
	return s.cartResponse("SetCartQuantity")
}

// RemoveFromCart убирает позицию. Товар в каталоге не проверяется.
func (s *ShopService) RemoveFromCart(_ context.Context, req *RemoveFromCartRequest) (*CartResponse, error) {
	if req == nil || req.ProductID <= 0 {
		return nil, status.Error(codes.InvalidArgument, domain.ErrInvalidProductID.Error())
	}

	if err := s.cart.Remove(req.ProductID); err != nil {
		return nil, s.toStatus(err, "RemoveFromCart")
	}
	return s.cartResponse("RemoveFromCart")
}

// ClearCart очищает корзину.
func (s *ShopService) ClearCart(_ context.Context, _ *ClearCartRequest) (*CartResponse, error) {
	if err := s.cart.Clear(); err != nil {
		return nil, s.toStatus(err, "ClearCart")
	}
	return s.cartResponse("ClearCart")
}

// GetCart возвращает корзину с расчётом.
func (s *ShopService) GetCart(_ context.Context, _ *GetCartRequest) (*CartResponse, error) {
	return s.cartResponse("GetCart")
}

// ConfirmCheckout оформляет заказ.
func (s *ShopService) ConfirmCheckout(_ context.Context, req *ConfirmCheckoutRequest) (*ConfirmCheckoutResponse, error) {
	if req == nil {
		req = &ConfirmCheckoutRequest{}
	}

	order, err := s.checkout.Confirm(domain.ShippingInfo{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		return nil, s.toStatus(err, "ConfirmCheckout")
	}
	return &ConfirmCheckoutResponse{Invoice: toInvoice(order)}, nil
}

// GetLastInvoice возвращает последний счёт и его текстовую форму.
func (s *ShopService) GetLastInvoice(_ context.Context, _ *GetLastInvoiceRequest) (*GetLastInvoiceResponse, error) {
	order, found, err := s.invoices.GetLast()
	if err != nil {
		return nil, s.toStatus(err, "GetLastInvoice")
	}
	if !found {
		return &GetLastInvoiceResponse{Found: false}, nil
	}

	var buf bytes.Buffer
	if err := invoice.Render(&buf, order); err != nil {
		return nil, s.toStatus(err, "GetLastInvoice")
	}

	inv := toInvoice(order)
	return &GetLastInvoiceResponse{Found: true, Invoice: &inv, Text: buf.String()}, nil
}

// Register создаёт учётную запись.
func (s *ShopService) Register(_ context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	if req == nil {
		req = &RegisterRequest{}
	}

	err := s.accounts.Register(domain.Registration{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		FullName: req.FullName,
		DOB:      req.DOB,
	})
	if err != nil {
		return nil, s.toStatus(err, "Register")
	}
	return &RegisterResponse{}, nil
}

// Login открывает сессию.
func (s *ShopService) Login(_ context.Context, req *LoginRequest) (*SessionResponse, error) {
	if req == nil {
		req = &LoginRequest{}
	}

	session, err := s.accounts.Login(req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(err, "Login")
	}
	return toSession(session, true), nil
}

// Logout закрывает сессию.
func (s *ShopService) Logout(_ context.Context, _ *LogoutRequest) (*LogoutResponse, error) {
	if err := s.accounts.Logout(); err != nil {
		return nil, s.toStatus(err, "Logout")
	}
	return &LogoutResponse{}, nil
}

// CurrentSession возвращает вошедшего пользователя, если он есть.
func (s *ShopService) CurrentSession(_ context.Context, _ *CurrentSessionRequest) (*SessionResponse, error) {
	session, found, err := s.accounts.Current()
	if err != nil {
		return nil, s.toStatus(err, "CurrentSession")
	}
	return toSession(session, found), nil
}

func (s *ShopService) cartResponse(operation string) (*CartResponse, error) {
	snapshot, err := s.cart.Get()
	if err != nil {
		return nil, s.toStatus(err, operation)
	}

	breakdown, err := s.pricing.Compute(snapshot)
	if err != nil {
		return nil, s.toStatus(err, operation)
	}

	lines := make([]CartLine, 0, len(breakdown.Lines))
	for _, line := range breakdown.Lines {
		lines = append(lines, CartLine(line))
	}

	return &CartResponse{
		Lines:    lines,
		Subtotal: breakdown.Subtotal,
		Discount: breakdown.Discount,
		Tax:      breakdown.Tax,
		Total:    breakdown.Total,
		Count:    snapshot.Count(),
	}, nil
}

// toStatus переводит доменную ошибку в gRPC-статус.
func (s *ShopService) toStatus(err error, operation string) error {
	code := codeFor(err)

	entry := s.logger.WithError(err).WithFields(log.Fields{
		"operation": operation,
		"code":      code.String(),
	})
	if code == codes.Internal {
		entry.Error("request failed")
		return status.Error(codes.Internal, "internal error: "+err.Error())
	}
	entry.Debug("request rejected")
	return status.Error(code, err.Error())
}

func codeFor(err error) codes.Code {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return codes.FailedPrecondition
	case errors.Is(err, domain.ErrIncompleteShipping),
		errors.Is(err, domain.ErrRegistrationIncomplete),
		errors.Is(err, domain.ErrInvalidProductID):
		return codes.InvalidArgument
	case errors.Is(err, domain.ErrProductNotFound):
		return codes.NotFound
	case errors.Is(err, domain.ErrAmountOverflow):
		return codes.OutOfRange
	case errors.Is(err, domain.ErrUsernameTaken):
		return codes.AlreadyExists
	case errors.Is(err, domain.ErrInvalidCredentials):
		return codes.Unauthenticated
	default:
		// ErrMissingProduct и ошибки хранилища
		return codes.Internal
	}
}

func toProduct(p domain.Product) Product {
	return Product(p)
}

func toInvoice(order domain.Order) Invoice {
	items := make([]InvoiceItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, InvoiceItem(item))
	}

	return Invoice{
		ID:       order.ID,
		Date:     order.Date,
		Name:     order.ShippingName,
		Address:  order.ShippingAddress,
		Phone:    order.ShippingPhone,
		Items:    items,
		Subtotal: order.Subtotal,
		Discount: order.Discount,
		Tax:      order.Tax,
		Total:    order.Total,
	}
}

func toSession(session domain.Session, loggedIn bool) *SessionResponse {
	if !loggedIn {
		return &SessionResponse{LoggedIn: false}
	}
	return &SessionResponse{
		LoggedIn: true,
		Username: session.Username,
		FullName: session.FullName,
		Email:    session.Email,
	}
}

var _ ShopServiceServer = (*ShopService)(nil)
