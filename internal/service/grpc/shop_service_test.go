package grpcsvc_test

import (
	"context"
	"net"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/vladislavdragonenkov/partshop/internal/catalog"
	"github.com/vladislavdragonenkov/partshop/internal/domain"
	"github.com/vladislavdragonenkov/partshop/internal/service/account"
	"github.com/vladislavdragonenkov/partshop/internal/service/cart"
	"github.com/vladislavdragonenkov/partshop/internal/service/checkout"
	grpcsvc "github.com/vladislavdragonenkov/partshop/internal/service/grpc"
	"github.com/vladislavdragonenkov/partshop/internal/service/invoice"
	"github.com/vladislavdragonenkov/partshop/internal/service/pricing"
	"github.com/vladislavdragonenkov/partshop/internal/storage/memory"
	"github.com/vladislavdragonenkov/partshop/internal/storage/slots"
)

const bufSize = 1024 * 1024

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: false, DisableTimestamp: true})
	logger.SetLevel(logrus.DebugLevel)
	return logger.WithField("component", "test")
}

type testEnv struct {
	client *grpcsvc.ShopServiceClient
	store  domain.SlotStore
}

func newTestServer(t *testing.T, price int64) *testEnv {
	t.Helper()

	listener := bufconn.Listen(bufSize)
	logger := loggerForTests()

	store := memory.NewSlotStore()
	cat := catalog.Build(catalog.DefaultTaxonomy(), catalog.DefaultYears(), catalog.FixedPrice(price))
	cartStore := cart.NewStore(slots.NewCartRepository(store), cart.WithLogger(logger))
	orders := slots.NewOrderRepository(store)
	engine := pricing.NewEngine(cat, nil)

	service := grpcsvc.NewShopService(grpcsvc.Deps{
		Catalog:  cat,
		Cart:     cartStore,
		Pricing:  engine,
		Checkout: checkout.NewRecorder(cartStore, orders, engine, checkout.WithLogger(logger)),
		Invoices: invoice.NewReader(orders),
		Accounts: account.NewService(slots.NewAccountRepository(store), slots.NewSessionRepository(store), logger),
	}, logger)

	server := grpc.NewServer()
	grpcsvc.RegisterShopServiceServer(server, service)

	go func() {
		if err := server.Serve(listener); err != nil {
			logger.WithError(err).Error("grpc serve failed")
		}
	}()

	dialer := func(context.Context, string) (net.Conn, error) {
		return listener.Dial()
	}

	//nolint:staticcheck // grpc.Dial is required for bufconn testing
	conn, err := grpc.Dial("bufnet", grpc.WithContextDialer(dialer), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		server.Stop()
	})

	return &testEnv{client: grpcsvc.NewShopServiceClient(conn), store: store}
}

func requireCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "expected grpc status error, got %v", err)
	require.Equal(t, code, st.Code(), st.Message())
}

func shipping() *grpcsvc.ConfirmCheckoutRequest {
	return &grpcsvc.ConfirmCheckoutRequest{Name: "Ann Brown", Address: "12 Hope Rd", Phone: "876-555-0101"}
}

func TestListProductsAndFilters(t *testing.T) {
	env := newTestServer(t, 5000)
	ctx := context.Background()

	all, err := env.client.ListProducts(ctx, &grpcsvc.ListProductsRequest{})
	require.NoError(t, err)
	require.Equal(t, 546, all.Total)
	require.Equal(t, "Honda Civic - Engine (2012)", all.Products[0].Name)

	civic2020, err := env.client.ListProducts(ctx, &grpcsvc.ListProductsRequest{Brand: "Honda", Model: "Civic", Year: "2020"})
	require.NoError(t, err)
	require.NotEmpty(t, civic2020.Products)
	for _, p := range civic2020.Products {
		require.Equal(t, "Honda", p.Brand)
		require.Equal(t, "Civic", p.Model)
		require.Equal(t, 2020, p.Year)
	}

	search, err := env.client.ListProducts(ctx, &grpcsvc.ListProductsRequest{Query: "tOyOtA"})
	require.NoError(t, err)
	require.NotEmpty(t, search.Products)
	for _, p := range search.Products {
		require.Equal(t, "Toyota", p.Brand)
	}

	options, err := env.client.GetFilterOptions(ctx, &grpcsvc.GetFilterOptionsRequest{Brand: "Honda", Model: "Civic"})
	require.NoError(t, err)
	require.Contains(t, options.Brands, "Honda")
	require.Contains(t, options.Models, "Civic")
	require.Contains(t, options.Parts, "Engine")
	require.Len(t, options.Years, 14)

	noBrand, err := env.client.GetFilterOptions(ctx, &grpcsvc.GetFilterOptionsRequest{})
	require.NoError(t, err)
	require.Empty(t, noBrand.Models)
	require.Empty(t, noBrand.Parts)
}

func TestGetProduct(t *testing.T) {
	env := newTestServer(t, 5000)
	ctx := context.Background()

	resp, err := env.client.GetProduct(ctx, &grpcsvc.GetProductRequest{ID: 1})
	require.NoError(t, err)
	require.Equal(t, int64(5000), resp.Product.Price)

	_, err = env.client.GetProduct(ctx, &grpcsvc.GetProductRequest{ID: 100000})
	requireCode(t, err, codes.NotFound)

	_, err = env.client.GetProduct(ctx, &grpcsvc.GetProductRequest{ID: 0})
	requireCode(t, err, codes.InvalidArgument)
}

func TestCartOperations(t *testing.T) {
	env := newTestServer(t, 50000)
	ctx := context.Background()

	_, err := env.client.AddToCart(ctx, &grpcsvc.AddToCartRequest{ProductID: 1})
	require.NoError(t, err)
	resp, err := env.client.AddToCart(ctx, &grpcsvc.AddToCartRequest{ProductID: 1})
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	require.Equal(t, 2, resp.Lines[0].Quantity)
	require.Equal(t, 2, resp.Count)
	require.Equal(t, int64(100000), resp.Subtotal)
	require.Equal(t, int64(0), resp.Discount)
	require.Equal(t, int64(12500), resp.Tax)
	require.Equal(t, int64(112500), resp.Total)

	resp, err = env.client.SetCartQuantity(ctx, &grpcsvc.SetCartQuantityRequest{ProductID: 1, Quantity: 3})
	require.NoError(t, err)
	require.Equal(t, int64(160313), resp.Total)

	resp, err = env.client.SetCartQuantity(ctx, &grpcsvc.SetCartQuantityRequest{ProductID: 1, RawQuantity: "abc"})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Count)

	resp, err = env.client.SetCartQuantity(ctx, &grpcsvc.SetCartQuantityRequest{ProductID: 1, Quantity: -3})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Count)

	_, err = env.client.AddToCart(ctx, &grpcsvc.AddToCartRequest{ProductID: 2})
	require.NoError(t, err)
	resp, err = env.client.RemoveFromCart(ctx, &grpcsvc.RemoveFromCartRequest{ProductID: 1})
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	require.Equal(t, 2, resp.Lines[0].ProductID)

	resp, err = env.client.ClearCart(ctx, &grpcsvc.ClearCartRequest{})
	require.NoError(t, err)
	require.Empty(t, resp.Lines)
	require.Equal(t, 0, resp.Count)
}

func TestCartValidation(t *testing.T) {
	env := newTestServer(t, 1000)
	ctx := context.Background()

	_, err := env.client.AddToCart(ctx, &grpcsvc.AddToCartRequest{ProductID: 0})
	requireCode(t, err, codes.InvalidArgument)

	_, err = env.client.AddToCart(ctx, &grpcsvc.AddToCartRequest{ProductID: 99999})
	requireCode(t, err, codes.NotFound)

	_, err = env.client.SetCartQuantity(ctx, &grpcsvc.SetCartQuantityRequest{ProductID: -1, Quantity: 2})
	requireCode(t, err, codes.InvalidArgument)

	_, err = env.client.RemoveFromCart(ctx, &grpcsvc.RemoveFromCartRequest{ProductID: 0})
	requireCode(t, err, codes.InvalidArgument)
}

func TestSetCartQuantity_HugeQuantityIsClamped(t *testing.T) {
	env := newTestServer(t, 33499)
	ctx := context.Background()

	_, err := env.client.AddToCart(ctx, &grpcsvc.AddToCartRequest{ProductID: 1})
	require.NoError(t, err)

	resp, err := env.client.SetCartQuantity(ctx, &grpcsvc.SetCartQuantityRequest{ProductID: 1, RawQuantity: "300000000000000"})
	require.NoError(t, err)
	require.Equal(t, cart.MaxQuantity, resp.Count)
	require.Equal(t, int64(33499)*cart.MaxQuantity, resp.Subtotal)
	require.Positive(t, resp.Total)
	require.Equal(t, resp.Subtotal-resp.Discount+resp.Tax, resp.Total)
}

func TestGetCart_MissingProductIsInternal(t *testing.T) {
	env := newTestServer(t, 1000)

	// корзина ссылается на товар, которого нет в каталоге
	require.NoError(t, env.store.Set(slots.KeyCart, []byte(`[{"id":424242,"qty":1}]`)))

	_, err := env.client.GetCart(context.Background(), &grpcsvc.GetCartRequest{})
	requireCode(t, err, codes.Internal)

	_, err = env.client.ConfirmCheckout(context.Background(), shipping())
	requireCode(t, err, codes.Internal)
}

func TestCheckoutFlow(t *testing.T) {
	env := newTestServer(t, 50000)
	ctx := context.Background()

	_, err := env.client.ConfirmCheckout(ctx, shipping())
	requireCode(t, err, codes.FailedPrecondition)

	last, err := env.client.GetLastInvoice(ctx, &grpcsvc.GetLastInvoiceRequest{})
	require.NoError(t, err)
	require.False(t, last.Found)

	for i := 0; i < 3; i++ {
		_, err = env.client.AddToCart(ctx, &grpcsvc.AddToCartRequest{ProductID: 1})
		require.NoError(t, err)
	}

	_, err = env.client.ConfirmCheckout(ctx, &grpcsvc.ConfirmCheckoutRequest{Name: "Ann Brown", Address: "12 Hope Rd", Phone: " "})
	requireCode(t, err, codes.InvalidArgument)

	confirmed, err := env.client.ConfirmCheckout(ctx, shipping())
	require.NoError(t, err)
	require.Regexp(t, `^INV\d+$`, confirmed.Invoice.ID)
	require.Equal(t, int64(150000), confirmed.Invoice.Subtotal)
	require.Equal(t, int64(7500), confirmed.Invoice.Discount)
	require.Equal(t, int64(17813), confirmed.Invoice.Tax)
	require.Equal(t, int64(160313), confirmed.Invoice.Total)

	cartResp, err := env.client.GetCart(ctx, &grpcsvc.GetCartRequest{})
	require.NoError(t, err)
	require.Equal(t, 0, cartResp.Count)

	last, err = env.client.GetLastInvoice(ctx, &grpcsvc.GetLastInvoiceRequest{})
	require.NoError(t, err)
	require.True(t, last.Found)
	require.Equal(t, confirmed.Invoice.ID, last.Invoice.ID)
	require.Equal(t, confirmed.Invoice.Total, last.Invoice.Total)
	require.Contains(t, last.Text, "JMD 160,313")
}

func TestAccountFlow(t *testing.T) {
	env := newTestServer(t, 1000)
	ctx := context.Background()

	reg := &grpcsvc.RegisterRequest{
		Username: "ann",
		Password: "secret",
		Email:    "ann@example.com",
		FullName: "Ann Brown",
		DOB:      "1990-04-01",
	}

	_, err := env.client.Register(ctx, &grpcsvc.RegisterRequest{Username: "ann"})
	requireCode(t, err, codes.InvalidArgument)

	_, err = env.client.Register(ctx, reg)
	require.NoError(t, err)
	_, err = env.client.Register(ctx, reg)
	requireCode(t, err, codes.AlreadyExists)

	_, err = env.client.Login(ctx, &grpcsvc.LoginRequest{Username: "ann", Password: "nope"})
	requireCode(t, err, codes.Unauthenticated)

	session, err := env.client.Login(ctx, &grpcsvc.LoginRequest{Username: "ann", Password: "secret"})
	require.NoError(t, err)
	require.True(t, session.LoggedIn)
	require.Equal(t, "Ann Brown", session.FullName)

	current, err := env.client.CurrentSession(ctx, &grpcsvc.CurrentSessionRequest{})
	require.NoError(t, err)
	require.True(t, current.LoggedIn)
	require.Equal(t, "ann", current.Username)

	_, err = env.client.Logout(ctx, &grpcsvc.LogoutRequest{})
	require.NoError(t, err)

	current, err = env.client.CurrentSession(ctx, &grpcsvc.CurrentSessionRequest{})
	require.NoError(t, err)
	require.False(t, current.LoggedIn)
}
