package main

import (
	"context"
	"strconv"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	grpcsvc "github.com/vladislavdragonenkov/partshop/internal/service/grpc"
)

// shopClient — часть ShopServiceClient, которую использует нагрузка.
type shopClient interface {
	ListProducts(ctx context.Context, in *grpcsvc.ListProductsRequest, opts ...grpc.CallOption) (*grpcsvc.ListProductsResponse, error)
	GetProduct(ctx context.Context, in *grpcsvc.GetProductRequest, opts ...grpc.CallOption) (*grpcsvc.GetProductResponse, error)
	AddToCart(ctx context.Context, in *grpcsvc.AddToCartRequest, opts ...grpc.CallOption) (*grpcsvc.CartResponse, error)
	SetCartQuantity(ctx context.Context, in *grpcsvc.SetCartQuantityRequest, opts ...grpc.CallOption) (*grpcsvc.CartResponse, error)
	RemoveFromCart(ctx context.Context, in *grpcsvc.RemoveFromCartRequest, opts ...grpc.CallOption) (*grpcsvc.CartResponse, error)
	ConfirmCheckout(ctx context.Context, in *grpcsvc.ConfirmCheckoutRequest, opts ...grpc.CallOption) (*grpcsvc.ConfirmCheckoutResponse, error)
}

const (
	firstCatalogYear = 2012
	catalogYears     = 14
)

var loadShipping = grpcsvc.ConfirmCheckoutRequest{Name: "Load Test", Address: "1 Bench Rd", Phone: "000-0000"}

// runScenario выполняет один сценарий выбранного режима.
// В режиме checkout FailedPrecondition не считается ошибкой: корзину
// мог уже оформить соседний воркер, корзина у магазина одна.
func runScenario(client shopClient, cfg config, index int, col *collector) error {
	started := time.Now()
	code := codes.OK
	defer func() {
		col.record("scenario", time.Since(started), code)
	}()

	productID := index%cfg.products + 1
	steps := scenarioSteps(client, cfg.mode, productID, index)
	for _, step := range steps {
		err := timedCall(col, step.method, cfg.timeout, step.call)
		if err == nil {
			continue
		}
		if step.method == "ConfirmCheckout" && status.Code(err) == codes.FailedPrecondition {
			continue
		}
		code = status.Code(err)
		return err
	}
	return nil
}

type step struct {
	method string
	call   func(ctx context.Context) error
}

func scenarioSteps(client shopClient, mode loadMode, productID, index int) []step {
	add := step{"AddToCart", func(ctx context.Context) error {
		_, err := client.AddToCart(ctx, &grpcsvc.AddToCartRequest{ProductID: productID})
		return err
	}}

	switch mode {
	case modeCart:
		return []step{
			add,
			{"SetCartQuantity", func(ctx context.Context) error {
				_, err := client.SetCartQuantity(ctx, &grpcsvc.SetCartQuantityRequest{ProductID: productID, RawQuantity: strconv.Itoa(index%5 + 1)})
				return err
			}},
			{"RemoveFromCart", func(ctx context.Context) error {
				_, err := client.RemoveFromCart(ctx, &grpcsvc.RemoveFromCartRequest{ProductID: productID})
				return err
			}},
		}
	case modeCheckout:
		return []step{
			add,
			{"ConfirmCheckout", func(ctx context.Context) error {
				req := loadShipping
				_, err := client.ConfirmCheckout(ctx, &req)
				return err
			}},
		}
	default:
		return []step{
			{"ListProducts", func(ctx context.Context) error {
				year := strconv.Itoa(firstCatalogYear + index%catalogYears)
				_, err := client.ListProducts(ctx, &grpcsvc.ListProductsRequest{Year: year})
				return err
			}},
			{"GetProduct", func(ctx context.Context) error {
				_, err := client.GetProduct(ctx, &grpcsvc.GetProductRequest{ID: productID})
				return err
			}},
		}
	}
}

func timedCall(col *collector, method string, timeout time.Duration, call func(ctx context.Context) error) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := call(ctx)
	col.record(method, time.Since(start), status.Code(err))
	return err
}
