package dashboard

// Composition layer for the trading dashboard: wires the stores to the
// gateway, account and broker clients, runs the background pollers, and owns
// the cross-store rules no single store can enforce (sign-out clears the
// broker connection).

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"algotrader/src/account"
	"algotrader/src/clock"
	"algotrader/src/controller"
	"algotrader/src/gateway"
	"algotrader/src/model"
	"algotrader/src/poller"
	"algotrader/src/repository"
	"algotrader/src/store"
	"algotrader/src/strategy"
	"algotrader/src/upstox"
)

type tokenExchanger interface {
	ExchangeCode(ctx context.Context, code string) (*upstox.TokenBundle, error)
}

type Dashboard struct {
	Log *logrus.Entry

	Session *store.SessionStore
	Broker  *store.BrokerStore
	Market  *store.MarketStore
	Engine  *strategy.Engine

	gateway   *gateway.Client
	orders    *controller.OrderController
	exchanger tokenExchanger
	clk       clock.Clock
}

// New wires the dashboard against the production clients and repositories.
// database.InitMainDB must have run first.
func New() *Dashboard {
	log := logrus.WithField("cmd", "dashboard")

	upstoxClient := upstox.NewClient()
	market := store.NewMarketStore()
	gatewayClient := gateway.NewClient("")
	clk := clock.New()

	return &Dashboard{
		Log:     log,
		Session: store.NewSessionStore(account.NewClient("", "")),
		Broker:  store.NewBrokerStore(upstoxClient),
		Market:  market,
		Engine: strategy.NewEngine(
			log,
			repository.NewStrategyRepository(),
			repository.NewExecutionRepository(),
			repository.NewPositionRepository(),
			market,
			clk,
		),
		gateway:   gatewayClient,
		orders:    controller.NewOrderController(gatewayClient, market),
		exchanger: upstoxClient,
		clk:       clk,
	}
}

// PlaceOrder submits a manual order through the order controller.
func (d *Dashboard) PlaceOrder(ctx context.Context, req model.OrderRequest) (*model.OrderResult, error) {
	return d.orders.PlaceOrder(ctx, req)
}

// ConnectBroker completes the OAuth callback: exchange the code, store the
// token, and load the broker profile. Failures are recorded on the store so
// the UI can render them.
func (d *Dashboard) ConnectBroker(ctx context.Context, code string) error {
	token, err := d.exchanger.ExchangeCode(ctx, code)
	if err != nil {
		d.Log.WithError(err).Error("broker connect failed")
		d.Broker.SetError(err.Error())
		return err
	}

	d.Broker.SetAccessToken(token.AccessToken)
	d.Broker.LoadUserProfile(ctx)
	return nil
}

// SignOut ends the account session and, only when that succeeds, clears the
// broker connection with it. A failed remote sign-out leaves both stores
// untouched so the user can retry.
func (d *Dashboard) SignOut(ctx context.Context) store.Result {
	result := d.Session.SignOut(ctx)
	if !result.Success {
		return result
	}

	d.Broker.ClearData()
	d.Log.Info("session and broker connection cleared")
	return result
}

// Start runs the price and simulation loops until SIGINT or SIGTERM.
func (d *Dashboard) Start() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		errCh <- poller.RunPriceLoop(ctx, d.clk, d.gateway, d.Market)
	}()
	go func() {
		errCh <- poller.RunSimulationLoop(ctx, d.clk, d.Market)
	}()

	d.Log.Info("dashboard loops running")

	<-ctx.Done()

	// Both loops return once the context is cancelled.
	if err := <-errCh; err != nil {
		return err
	}
	return <-errCh
}
