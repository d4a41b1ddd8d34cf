package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	grpcsvc "github.com/vladislavdragonenkov/partshop/internal/service/grpc"
)

type fakeShopClient struct {
	mu        sync.Mutex
	calls     map[string]int
	cartUnits int
	failOn    string
}

func newFakeShopClient() *fakeShopClient {
	return &fakeShopClient{calls: make(map[string]int)}
}

func (f *fakeShopClient) hit(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	if f.failOn == method {
		return status.Error(codes.Unavailable, "down")
	}
	return nil
}

func (f *fakeShopClient) ListProducts(_ context.Context, in *grpcsvc.ListProductsRequest, _ ...grpc.CallOption) (*grpcsvc.ListProductsResponse, error) {
	if in.Year == "" {
		return nil, status.Error(codes.InvalidArgument, "year expected")
	}
	return &grpcsvc.ListProductsResponse{}, f.hit("ListProducts")
}

func (f *fakeShopClient) GetProduct(_ context.Context, in *grpcsvc.GetProductRequest, _ ...grpc.CallOption) (*grpcsvc.GetProductResponse, error) {
	return &grpcsvc.GetProductResponse{Product: grpcsvc.Product{ID: in.ID}}, f.hit("GetProduct")
}

func (f *fakeShopClient) AddToCart(context.Context, *grpcsvc.AddToCartRequest, ...grpc.CallOption) (*grpcsvc.CartResponse, error) {
	if err := f.hit("AddToCart"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.cartUnits++
	f.mu.Unlock()
	return &grpcsvc.CartResponse{}, nil
}

func (f *fakeShopClient) SetCartQuantity(context.Context, *grpcsvc.SetCartQuantityRequest, ...grpc.CallOption) (*grpcsvc.CartResponse, error) {
	return &grpcsvc.CartResponse{}, f.hit("SetCartQuantity")
}

func (f *fakeShopClient) RemoveFromCart(context.Context, *grpcsvc.RemoveFromCartRequest, ...grpc.CallOption) (*grpcsvc.CartResponse, error) {
	return &grpcsvc.CartResponse{}, f.hit("RemoveFromCart")
}

// ConfirmCheckout ведёт себя как магазин с одной корзиной: на пустой корзине отвечает FailedPrecondition.
func (f *fakeShopClient) ConfirmCheckout(context.Context, *grpcsvc.ConfirmCheckoutRequest, ...grpc.CallOption) (*grpcsvc.ConfirmCheckoutResponse, error) {
	if err := f.hit("ConfirmCheckout"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cartUnits == 0 {
		return nil, status.Error(codes.FailedPrecondition, "cart is empty")
	}
	f.cartUnits = 0
	return &grpcsvc.ConfirmCheckoutResponse{}, nil
}

func TestParseMode(t *testing.T) {
	for _, mode := range []string{"browse", " cart ", "checkout"} {
		_, err := parseMode(mode)
		require.NoError(t, err, mode)
	}
	_, err := parseMode("create-pay")
	require.Error(t, err)
}

func TestParseConfig(t *testing.T) {
	cfg, err := parseConfig(nil)
	require.NoError(t, err)
	require.Equal(t, modeBrowse, cfg.mode)
	require.False(t, cfg.totalSet)

	cfg, err = parseConfig([]string{"-mode=checkout", "-duration=1m", "-total=50"})
	require.NoError(t, err)
	require.Equal(t, modeCheckout, cfg.mode)
	require.True(t, cfg.totalSet)
	require.Equal(t, "duration:1m0s,max-total:50", runTarget(cfg))

	invalid := [][]string{
		{"-mode=unknown"},
		{"-duration=-1s"},
		{"-total=0"},
		{"-duration=1s", "-total=0"},
		{"-concurrency=0"},
		{"-connections=0"},
		{"-timeout=0s"},
		{"-products=0"},
		{"-bogus"},
	}
	for _, args := range invalid {
		_, err := parseConfig(args)
		require.Error(t, err, "%v", args)
	}
}

func TestDispatchJobs(t *testing.T) {
	jobs := make(chan int, 10)
	dispatchJobs(jobs, config{total: 3})
	var got []int
	for j := range jobs {
		got = append(got, j)
	}
	require.Equal(t, []int{0, 1, 2}, got)

	capped := make(chan int, 10)
	dispatchJobs(capped, config{duration: time.Second, total: 2, totalSet: true})
	count := 0
	for range capped {
		count++
	}
	require.Equal(t, 2, count)
}

func TestRunLoad_Modes(t *testing.T) {
	tests := []struct {
		mode    loadMode
		methods []string
	}{
		{mode: modeBrowse, methods: []string{"ListProducts", "GetProduct"}},
		{mode: modeCart, methods: []string{"AddToCart", "SetCartQuantity", "RemoveFromCart"}},
		{mode: modeCheckout, methods: []string{"AddToCart", "ConfirmCheckout"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			client := newFakeShopClient()
			cfg := config{total: 40, concurrency: 4, timeout: time.Second, mode: tt.mode, products: 10}

			result := runLoad([]shopClient{client}, cfg)

			require.EqualValues(t, 40, result.TotalScenarios)
			require.Zero(t, result.FailedScenarios)
			for _, method := range tt.methods {
				require.Equal(t, 40, client.calls[method], method)
				require.Contains(t, result.Methods, method)
			}
		})
	}
}

func TestRunScenario_FailureStopsScenario(t *testing.T) {
	client := newFakeShopClient()
	client.failOn = "AddToCart"
	col := newCollector()

	err := runScenario(client, config{timeout: time.Second, mode: modeCart, products: 5}, 0, col)
	require.Equal(t, codes.Unavailable, status.Code(err))
	require.Zero(t, client.calls["SetCartQuantity"])

	result := col.buildReport(time.Now(), time.Second)
	require.EqualValues(t, 1, result.FailedScenarios)
	require.EqualValues(t, 1, result.Methods["AddToCart"].Codes[codes.Unavailable.String()])
}

func TestCollectorAndLatency(t *testing.T) {
	col := newCollector()
	col.record("scenario", 10*time.Millisecond, codes.OK)
	col.record("scenario", 30*time.Millisecond, codes.Internal)

	result := col.buildReport(time.Now(), 2*time.Second)
	require.EqualValues(t, 2, result.TotalScenarios)
	require.EqualValues(t, 1, result.SuccessScenarios)
	require.InDelta(t, 0.5, result.ErrorRate, 1e-9)
	require.InDelta(t, 1.0, result.RPS, 1e-9)
	require.InDelta(t, 20.0, result.ScenarioLatencyMs.Avg, 1e-9)
	require.InDelta(t, 20.0, result.ScenarioLatencyMs.P50, 1e-9)

	require.Equal(t, latencySummary{}, buildLatencySummary(nil))
	require.Zero(t, percentile(nil, 95))
	require.Equal(t, 7.0, percentile([]float64{7}, 99))
	require.Zero(t, ratio(1, 0))
}

func TestWriteJSONReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")

	require.NoError(t, writeJSONReport(path, report{TotalScenarios: 3}))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded report
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.EqualValues(t, 3, decoded.TotalScenarios)

	require.Error(t, writeJSONReport(".", report{}))
	require.Error(t, writeJSONReport("../escape.json", report{}))
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, report{
		TotalScenarios: 2,
		Methods: map[string]methodReport{
			"scenario":   {Calls: 2},
			"GetProduct": {Calls: 2, Success: 2},
		},
	}, config{mode: modeBrowse, total: 2})

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "Load test summary\n"))
	require.Contains(t, out, "mode=browse run=count:2")
	require.Contains(t, out, "GetProduct: calls=2 success=2")
	require.NotContains(t, out, "scenario: calls")
}
