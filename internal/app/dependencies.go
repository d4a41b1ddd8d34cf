package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/partshop/internal/catalog"
	"github.com/vladislavdragonenkov/partshop/internal/domain"
	"github.com/vladislavdragonenkov/partshop/internal/metrics"
	"github.com/vladislavdragonenkov/partshop/internal/service/account"
	"github.com/vladislavdragonenkov/partshop/internal/service/cart"
	"github.com/vladislavdragonenkov/partshop/internal/service/checkout"
	grpcsvc "github.com/vladislavdragonenkov/partshop/internal/service/grpc"
	"github.com/vladislavdragonenkov/partshop/internal/service/invoice"
	"github.com/vladislavdragonenkov/partshop/internal/service/pricing"
	"github.com/vladislavdragonenkov/partshop/internal/storage/slots"
)

// Dependencies содержит сервисы магазина, собранные поверх одного хранилища слотов.
type Dependencies struct {
	Catalog  *catalog.Catalog
	Cart     *cart.Store
	Pricing  *pricing.Engine
	Checkout *checkout.Recorder
	Invoices *invoice.Reader
	Accounts *account.Service
	Logger   *log.Entry
}

// NewDependencies связывает каталог, корзину, расчёт цен, оформление, счета и аккаунты.
// publisher может быть nil: тогда события order.confirmed не публикуются.
func NewDependencies(
	store domain.SlotStore,
	catalogSeed uint64,
	shopMetrics *metrics.ShopMetrics,
	publisher domain.OrderEventPublisher,
	logger *log.Entry,
) *Dependencies {
	if logger == nil {
		logger = log.WithField("component", "app")
	}
	if shopMetrics == nil {
		shopMetrics = metrics.NewShopMetrics()
	}

	products := catalog.NewDefault(catalogSeed)
	orders := slots.NewOrderRepository(store)

	cartStore := cart.NewStore(
		slots.NewCartRepository(store),
		cart.WithObserver(shopMetrics.ObserveCartSize),
		cart.WithRecorder(shopMetrics),
		cart.WithLogger(logger.WithField("component", "cart")),
	)
	engine := pricing.NewEngine(products, shopMetrics)

	recorderOptions := []checkout.Option{
		checkout.WithMetrics(shopMetrics),
		checkout.WithLogger(logger.WithField("component", "checkout")),
	}
	if publisher != nil {
		recorderOptions = append(recorderOptions, checkout.WithPublisher(publisher))
	}

	return &Dependencies{
		Catalog:  products,
		Cart:     cartStore,
		Pricing:  engine,
		Checkout: checkout.NewRecorder(cartStore, orders, engine, recorderOptions...),
		Invoices: invoice.NewReader(orders),
		Accounts: account.NewService(
			slots.NewAccountRepository(store),
			slots.NewSessionRepository(store),
			logger.WithField("component", "account"),
		),
		Logger: logger,
	}
}

// ServiceDeps отдаёт сервисы в форме, которую ожидает gRPC-слой.
func (d *Dependencies) ServiceDeps() grpcsvc.Deps {
	return grpcsvc.Deps{
		Catalog:  d.Catalog,
		Cart:     d.Cart,
		Pricing:  d.Pricing,
		Checkout: d.Checkout,
		Invoices: d.Invoices,
		Accounts: d.Accounts,
	}
}
