package widget

import (
	"errors"
	"fmt"
	"francoggm/versapay-checkout/internal/models"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
)

type State int32

const (
	StateIdle State = iota
	StateInit
	StateWaitSDK
	StateWaitSession
	StateRendering
	StateReady
	StateSubmitting
	StateApproved
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInit:
		return "init"
	case StateWaitSDK:
		return "wait_sdk"
	case StateWaitSession:
		return "wait_session"
	case StateRendering:
		return "rendering"
	case StateReady:
		return "ready"
	case StateSubmitting:
		return "submitting"
	case StateApproved:
		return "approved"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

type Options struct {
	GatewayID     string
	Currency      string
	Locale        string
	ExpressConfig string

	SDKPollInterval       time.Duration
	SDKMaxAttempts        int
	ContainerPollInterval time.Duration
	TotalsDebounce        time.Duration
}

func (o *Options) setDefaults() {
	if o.GatewayID == "" {
		o.GatewayID = DefaultGatewayID
	}
	if o.SDKPollInterval <= 0 {
		o.SDKPollInterval = 200 * time.Millisecond
	}
	if o.SDKMaxAttempts <= 0 {
		o.SDKMaxAttempts = 25
	}
	if o.ContainerPollInterval <= 0 {
		o.ContainerPollInterval = 50 * time.Millisecond
	}
	if o.TotalsDebounce <= 0 {
		o.TotalsDebounce = 300 * time.Millisecond
	}
}

// instance is one instantiation of the widget. Callbacks carrying an
// instance other than the live one are dropped.
type instance struct {
	id         uint64
	force      bool
	sessionKey string
	client     Client
	waits      []Cancel

	submitOrderRun             bool
	approvalFirstRun           bool
	differentPaymentMethodUsed bool
	forceNative                bool
	failed                     bool
}

func (i *instance) track(c Cancel) {
	i.waits = append(i.waits, c)
}

func (i *instance) stop() {
	for _, c := range i.waits {
		c()
	}
	i.waits = nil
}

// Controller drives the hosted payment widget on the checkout page. All
// of its state lives on the scheduler goroutine.
type Controller struct {
	sched    Scheduler
	sdk      SDK
	host     Host
	sessions SessionSource
	opts     Options

	precision     int
	expressConfig map[string]any

	nextID    uint64
	live      *instance
	client    Client
	lastTotal models.Amount
	totals    *Debouncer
	// refreshPending records a total change seen while another payment
	// method was selected.
	refreshPending bool

	state atomic.Int32
}

func NewController(sched Scheduler, sdk SDK, host Host, sessions SessionSource, opts Options) *Controller {
	opts.setDefaults()

	express := map[string]any{}
	if opts.ExpressConfig != "" {
		if err := sonic.UnmarshalString(opts.ExpressConfig, &express); err != nil {
			slog.Warn("ignoring malformed express checkout config", "err", err)
			express = map[string]any{}
		}
	}

	return &Controller{
		sched:         sched,
		sdk:           sdk,
		host:          host,
		sessions:      sessions,
		opts:          opts,
		precision:     models.CurrencyPrecision(opts.Currency),
		expressConfig: express,
		totals:        NewDebouncer(sched, opts.TotalsDebounce),
	}
}

func (c *Controller) State() State {
	return State(c.state.Load())
}

// Start runs the page-ready trigger.
func (c *Controller) Start() {
	c.OnPaymentMethodChanged()
}

// OnPaymentMethodChanged instantiates the widget when this gateway became
// the selected method.
func (c *Controller) OnPaymentMethodChanged() {
	c.sched.Post(func() {
		if !c.gatewaySelected() {
			return
		}
		total := c.host.CartTotal()
		force := c.refreshPending || (c.live != nil && total != c.lastTotal)
		c.lastTotal = total
		c.instantiate(force)
	})
}

// OnTotalsUpdated re-instantiates with a fresh session once totals settle
// on a different amount.
func (c *Controller) OnTotalsUpdated() {
	c.sched.Post(func() {
		c.totals.Trigger(func() {
			total := c.host.CartTotal()
			if total == c.lastTotal {
				return
			}
			c.lastTotal = total
			if !c.gatewaySelected() {
				c.refreshPending = true
				return
			}
			c.instantiate(true)
		})
	})
}

// Close tears the widget down. Pending waits, debounced triggers and
// callbacks of the live instance are dropped.
func (c *Controller) Close() {
	c.sched.Post(func() {
		c.totals.Stop()
		if c.live != nil {
			c.live.stop()
			c.live = nil
		}
		c.sdk.TeardownClient(c.client)
		c.client = nil
		c.setState(StateIdle)
	})
}

func (c *Controller) gatewaySelected() bool {
	return c.host.SelectedPaymentMethod() == c.opts.GatewayID
}

func (c *Controller) current(inst *instance) bool {
	return c.live != nil && c.live.id == inst.id
}

// onLoop wraps a callback that may be invoked from any goroutine so it
// runs on the scheduler and only while inst is live.
func (c *Controller) onLoop(inst *instance, fn func()) func() {
	return func() {
		c.sched.Post(func() {
			if c.current(inst) {
				fn()
			}
		})
	}
}

func (c *Controller) setState(s State) {
	c.state.Store(int32(s))
}

func (c *Controller) instantiate(force bool) {
	if c.live != nil {
		c.live.stop()
	}

	c.refreshPending = false
	c.nextID++
	inst := &instance{
		id:               c.nextID,
		force:            force,
		approvalFirstRun: true,
	}
	c.live = inst

	c.setState(StateInit)
	c.host.ClearErrors()

	c.setState(StateWaitSDK)
	inst.track(WaitFor(c.sched, WaitOptions{
		Interval:    c.opts.SDKPollInterval,
		MaxAttempts: c.opts.SDKMaxAttempts,
	}, c.sdk.Ready, func(err error) {
		if !c.current(inst) {
			return
		}
		if err != nil {
			c.reject(inst, fmt.Errorf("%w: %w", models.ErrSDKUnavailable, err))
			return
		}
		c.requestSession(inst)
	}))
}

func (c *Controller) requestSession(inst *instance) {
	c.setState(StateWaitSession)
	c.sessions.SessionKey(c.lastTotal, inst.force, func(key string, err error) {
		if !c.current(inst) {
			return
		}
		if err == nil && key == "" {
			err = errors.New("empty session key")
		}
		if err != nil {
			c.reject(inst, err)
			return
		}
		inst.sessionKey = key
		c.render(inst)
	})
}

func (c *Controller) render(inst *instance) {
	c.setState(StateRendering)

	c.sdk.TeardownClient(c.client)
	c.client = nil

	client, err := c.sdk.InitClient(ClientConfig{
		SessionKey:    inst.sessionKey,
		Styles:        map[string]any{"form": map[string]any{"margin-left": 0}},
		Amount:        c.lastTotal.Number(c.precision),
		Locale:        c.opts.Locale,
		ExpressConfig: c.expressConfig,
	})
	if err != nil {
		c.reject(inst, err)
		return
	}
	c.client = client
	inst.client = client

	inst.track(WaitFor(c.sched, WaitOptions{
		Interval: c.opts.ContainerPollInterval,
	}, func() bool {
		return c.host.ElementExists(Container)
	}, func(err error) {
		if c.current(inst) && err == nil {
			c.mountFrame(inst)
		}
	}))
}

func (c *Controller) mountFrame(inst *instance) {
	if !c.host.ElementExists(FinalPlaceOrder) {
		c.host.CloneSubmit(PlaceOrder, FinalPlaceOrder)
	}
	c.host.SetSubmitEnabled(FinalPlaceOrder, false)

	height, width := frameSize(c.host.ViewportWidth())
	inst.client.InitFrame(Container, height, width, func(err error) {
		c.onLoop(inst, func() {
			if err != nil {
				c.reject(inst, err)
				return
			}
			c.ready(inst)
		})()
	})
}

func (c *Controller) ready(inst *instance) {
	c.setState(StateReady)
	c.host.SetField(models.FieldError, "")
	c.host.SetSubmitEnabled(FinalPlaceOrder, true)

	c.bindControls(inst)

	inst.client.OnPartialPayment(
		c.onLoop(inst, func() { c.partialPaid(inst) }),
		func(err error) { c.onLoop(inst, func() { c.partialFailed(inst, err) })() },
	)
	inst.client.OnApproval(
		func(a Approval) { c.onLoop(inst, func() { c.approved(inst, a) })() },
		func(err error) { c.onLoop(inst, func() { c.declined(inst, err) })() },
	)
}

func (c *Controller) bindControls(inst *instance) {
	c.host.Bind(PlaceOrder, placeOrderNamespace, func(evt Event) { c.submit(inst, evt) })
	c.host.Bind(FinalPlaceOrder, finalPlaceOrderNamespace, func(evt Event) { c.submit(inst, evt) })
}

// submit guards both place-order controls. Returning without
// PreventDefault lets the native submission through. The payment method
// check runs for any instance, live or not, so switching away always ends
// in a native submission.
func (c *Controller) submit(inst *instance, evt Event) {
	if inst.differentPaymentMethodUsed || !c.gatewaySelected() {
		inst.differentPaymentMethodUsed = true
		c.passThrough(evt)
		return
	}

	if !c.current(inst) {
		return
	}

	if inst.failed {
		evt.PreventDefault()
		c.host.ShowError(models.GenericErrorMessage)
		return
	}

	if inst.forceNative {
		inst.forceNative = false
		return
	}

	if inst.submitOrderRun {
		return
	}
	inst.submitOrderRun = true

	if inst.approvalFirstRun {
		c.host.SetSubmitEnabled(FinalPlaceOrder, false)
		evt.PreventDefault()
		c.setState(StateSubmitting)
		inst.client.SubmitEvents()
	}
}

// passThrough makes sure a native submission happens for evt. The
// secondary control has no native action of its own.
func (c *Controller) passThrough(evt Event) {
	if evt.Target() != PlaceOrder {
		c.host.Click(PlaceOrder)
	}
}

func (c *Controller) partialPaid(inst *instance) {
	inst.submitOrderRun = false
	c.host.SetSubmitEnabled(FinalPlaceOrder, true)
	c.setState(StateReady)
}

func (c *Controller) partialFailed(inst *instance, err error) {
	slog.Error("partial payment failed", "err", err)

	inst.submitOrderRun = false
	c.host.SetField(models.FieldError, models.GenericErrorMessage)
	c.host.SetSubmitEnabled(FinalPlaceOrder, true)
	c.setState(StateReady)

	inst.forceNative = true
	c.host.Click(PlaceOrder)
}

func (c *Controller) approved(inst *instance, approval Approval) {
	if !inst.approvalFirstRun {
		return
	}
	inst.approvalFirstRun = false
	c.host.SetField(models.FieldError, "")

	payments, express, err := approvalFields(approval)
	if err != nil {
		c.declined(inst, err)
		return
	}

	c.host.SetField(models.FieldSessionKey, inst.sessionKey)
	c.host.SetField(models.FieldPayments, payments)
	c.host.SetField(models.FieldExpressPayment, express)
	c.setState(StateApproved)

	c.host.Click(PlaceOrder)
	c.host.SetSubmitEnabled(FinalPlaceOrder, true)
}

func (c *Controller) declined(inst *instance, err error) {
	slog.Error("payment approval failed", "err", err)

	inst.approvalFirstRun = true
	inst.submitOrderRun = false
	c.host.ShowError(models.GenericErrorMessage)
	c.host.SetSubmitEnabled(FinalPlaceOrder, true)
	c.setState(StateRejected)
}

func (c *Controller) reject(inst *instance, err error) {
	slog.Error("failed to instantiate payment widget", "instance", inst.id, "err", err)

	inst.stop()
	inst.failed = true
	c.setState(StateRejected)
	c.host.ShowError(models.GenericErrorMessage)

	// The secondary control replaced the native one; keep it usable so a
	// switch to another payment method can still submit.
	if c.host.ElementExists(FinalPlaceOrder) {
		c.bindControls(inst)
		c.host.SetSubmitEnabled(FinalPlaceOrder, true)
	}
}

// approvalFields encodes the hidden form fields written after approval.
func approvalFields(a Approval) (payments, express string, err error) {
	if a.Express() {
		express, err = sonic.MarshalString([]models.ExpressPayment{{
			PaymentType: a.PaymentTypeName,
			Payment:     a.Payment,
			Amount:      a.Amount,
		}})
		if err != nil {
			return "", "", fmt.Errorf("failed to encode express payment: %w", err)
		}
		return "[]", express, nil
	}

	payments, err = sonic.MarshalString(a.Tokens())
	if err != nil {
		return "", "", fmt.Errorf("failed to encode payment tokens: %w", err)
	}
	return payments, "[]", nil
}

func frameSize(viewport int) (height, width string) {
	w := min(500, viewport)
	mod := 0.8
	if w >= 500 {
		mod = 1
	}
	return "500px", strconv.FormatFloat(float64(w)-mod, 'f', -1, 64) + "px"
}
