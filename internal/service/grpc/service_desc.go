package grpcsvc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName — полное имя gRPC-сервиса.
const ServiceName = "partshop.v1.ShopService"

const (
	MethodListProducts     = "ListProducts"
	MethodGetProduct       = "GetProduct"
	MethodGetFilterOptions = "GetFilterOptions"
	MethodAddToCart        = "AddToCart"
	MethodSetCartQuantity  = "SetCartQuantity"
	MethodRemoveFromCart   = "RemoveFromCart"
	MethodClearCart        = "ClearCart"
	MethodGetCart          = "GetCart"
	MethodConfirmCheckout  = "ConfirmCheckout"
	MethodGetLastInvoice   = "GetLastInvoice"
	MethodRegister         = "Register"
	MethodLogin            = "Login"
	MethodLogout           = "Logout"
	MethodCurrentSession   = "CurrentSession"
)

// FullMethod возвращает "/partshop.v1.ShopService/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// ShopServiceServer — серверная сторона ShopService.
type ShopServiceServer interface {
	ListProducts(context.Context, *ListProductsRequest) (*ListProductsResponse, error)
	GetProduct(context.Context, *GetProductRequest) (*GetProductResponse, error)
	GetFilterOptions(context.Context, *GetFilterOptionsRequest) (*GetFilterOptionsResponse, error)
	AddToCart(context.Context, *AddToCartRequest) (*CartResponse, error)
	SetCartQuantity(context.Context, *SetCartQuantityRequest) (*CartResponse, error)
	RemoveFromCart(context.Context, *RemoveFromCartRequest) (*CartResponse, error)
	ClearCart(context.Context, *ClearCartRequest) (*CartResponse, error)
	GetCart(context.Context, *GetCartRequest) (*CartResponse, error)
	ConfirmCheckout(context.Context, *ConfirmCheckoutRequest) (*ConfirmCheckoutResponse, error)
	GetLastInvoice(context.Context, *GetLastInvoiceRequest) (*GetLastInvoiceResponse, error)
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*SessionResponse, error)
	Logout(context.Context, *LogoutRequest) (*LogoutResponse, error)
	CurrentSession(context.Context, *CurrentSessionRequest) (*SessionResponse, error)
}

// unaryHandler строит grpc.MethodHandler для метода с типизированными запросом и ответом.
func unaryHandler[Req any, Resp any](method string, call func(ShopServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ShopServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(ShopServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ShopServiceDesc описывает сервис для grpc.Server.
var ShopServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ShopServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodListProducts, Handler: unaryHandler(MethodListProducts, ShopServiceServer.ListProducts)},
		{MethodName: MethodGetProduct, Handler: unaryHandler(MethodGetProduct, ShopServiceServer.GetProduct)},
		{MethodName: MethodGetFilterOptions, Handler: unaryHandler(MethodGetFilterOptions, ShopServiceServer.GetFilterOptions)},
		{MethodName: MethodAddToCart, Handler: unaryHandler(MethodAddToCart, ShopServiceServer.AddToCart)},
		{MethodName: MethodSetCartQuantity, Handler: unaryHandler(MethodSetCartQuantity, ShopServiceServer.SetCartQuantity)},
		{MethodName: MethodRemoveFromCart, Handler: unaryHandler(MethodRemoveFromCart, ShopServiceServer.RemoveFromCart)},
		{MethodName: MethodClearCart, Handler: unaryHandler(MethodClearCart, ShopServiceServer.ClearCart)},
		{MethodName: MethodGetCart, Handler: unaryHandler(MethodGetCart, ShopServiceServer.GetCart)},
		{MethodName: MethodConfirmCheckout, Handler: unaryHandler(MethodConfirmCheckout, ShopServiceServer.ConfirmCheckout)},
		{MethodName: MethodGetLastInvoice, Handler: unaryHandler(MethodGetLastInvoice, ShopServiceServer.GetLastInvoice)},
		{MethodName: MethodRegister, Handler: unaryHandler(MethodRegister, ShopServiceServer.Register)},
		{MethodName: MethodLogin, Handler: unaryHandler(MethodLogin, ShopServiceServer.Login)},
		{MethodName: MethodLogout, Handler: unaryHandler(MethodLogout, ShopServiceServer.Logout)},
		{MethodName: MethodCurrentSession, Handler: unaryHandler(MethodCurrentSession, ShopServiceServer.CurrentSession)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "partshop/v1/shop.json",
}

// RegisterShopServiceServer регистрирует реализацию на сервере.
func RegisterShopServiceServer(s grpc.ServiceRegistrar, srv ShopServiceServer) {
	s.RegisterService(&ShopServiceDesc, srv)
}

// ShopServiceClient — клиент ShopService поверх JSON-кодека.
type ShopServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewShopServiceClient создаёт клиента.
func NewShopServiceClient(cc grpc.ClientConnInterface) *ShopServiceClient {
	return &ShopServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in interface{}, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ShopServiceClient) ListProducts(ctx context.Context, in *ListProductsRequest, opts ...grpc.CallOption) (*ListProductsResponse, error) {
	return invoke[ListProductsResponse](ctx, c.cc, MethodListProducts, in, opts)
}

func (c *ShopServiceClient) GetProduct(ctx context.Context, in *GetProductRequest, opts ...grpc.CallOption) (*GetProductResponse, error) {
	return invoke[GetProductResponse](ctx, c.cc, MethodGetProduct, in, opts)
}

func (c *ShopServiceClient) GetFilterOptions(ctx context.Context, in *GetFilterOptionsRequest, opts ...grpc.CallOption) (*GetFilterOptionsResponse, error) {
	return invoke[GetFilterOptionsResponse](ctx, c.cc, MethodGetFilterOptions, in, opts)
}

func (c *ShopServiceClient) AddToCart(ctx context.Context, in *AddToCartRequest, opts ...grpc.CallOption) (*CartResponse, error) {
	return invoke[CartResponse](ctx, c.cc, MethodAddToCart, in, opts)
}

func (c *ShopServiceClient) SetCartQuantity(ctx context.Context, in *SetCartQuantityRequest, opts ...grpc.CallOption) (*CartResponse, error) {
	return invoke[CartResponse](ctx, c.cc, MethodSetCartQuantity, in, opts)
}

func (c *ShopServiceClient) RemoveFromCart(ctx context.Context, in *RemoveFromCartRequest, opts ...grpc.CallOption) (*CartResponse, error) {
	return invoke[CartResponse](ctx, c.cc, MethodRemoveFromCart, in, opts)
}

func (c *ShopServiceClient) ClearCart(ctx context.Context, in *ClearCartRequest, opts ...grpc.CallOption) (*CartResponse, error) {
	return invoke[CartResponse](ctx, c.cc, MethodClearCart, in, opts)
}

func (c *ShopServiceClient) GetCart(ctx context.Context, in *GetCartRequest, opts ...grpc.CallOption) (*CartResponse, error) {
	return invoke[CartResponse](ctx, c.cc, MethodGetCart, in, opts)
}

func (c *ShopServiceClient) ConfirmCheckout(ctx context.Context, in *ConfirmCheckoutRequest, opts ...grpc.CallOption) (*ConfirmCheckoutResponse, error) {
	return invoke[ConfirmCheckoutResponse](ctx, c.cc, MethodConfirmCheckout, in, opts)
}

func (c *ShopServiceClient) GetLastInvoice(ctx context.Context, in *GetLastInvoiceRequest, opts ...grpc.CallOption) (*GetLastInvoiceResponse, error) {
	return invoke[GetLastInvoiceResponse](ctx, c.cc, MethodGetLastInvoice, in, opts)
}

func (c *ShopServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, MethodRegister, in, opts)
}

func (c *ShopServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *ShopServiceClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error) {
	return invoke[LogoutResponse](ctx, c.cc, MethodLogout, in, opts)
}

func (c *ShopServiceClient) CurrentSession(ctx context.Context, in *CurrentSessionRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, MethodCurrentSession, in, opts)
}
