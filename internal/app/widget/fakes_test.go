package widget

import (
	"fmt"
	"francoggm/versapay-checkout/internal/models"
	"sort"
	"time"
)

type fakeTimer struct {
	at        time.Duration
	seq       int
	fn        func()
	cancelled bool
}

// fakeScheduler is a manual clock. Nothing runs until RunPending or
// Advance is called.
type fakeScheduler struct {
	now    time.Duration
	seq    int
	queue  []func()
	timers []*fakeTimer
}

func (s *fakeScheduler) Post(fn func()) {
	s.queue = append(s.queue, fn)
}

func (s *fakeScheduler) After(d time.Duration, fn func()) Cancel {
	s.seq++
	t := &fakeTimer{at: s.now + d, seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return func() { t.cancelled = true }
}

func (s *fakeScheduler) RunPending() {
	for len(s.queue) > 0 {
		fn := s.queue[0]
		s.queue = s.queue[1:]
		fn()
	}
}

func (s *fakeScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		s.RunPending()

		next := -1
		for i, t := range s.timers {
			if t.cancelled || t.at > target {
				continue
			}
			if next < 0 || t.at < s.timers[next].at || (t.at == s.timers[next].at && t.seq < s.timers[next].seq) {
				next = i
			}
		}
		if next < 0 {
			break
		}

		t := s.timers[next]
		s.timers = append(s.timers[:next], s.timers[next+1:]...)
		s.now = t.at
		t.fn()
	}
	s.now = target
	s.RunPending()
}

type fakeEvent struct {
	target    string
	prevented bool
}

func (e *fakeEvent) Target() string  { return e.target }
func (e *fakeEvent) PreventDefault() { e.prevented = true }

type fakeHost struct {
	total    models.Amount
	method   string
	elements map[string]bool
	viewport int

	fields   map[string]string
	errors   []string
	clears   int
	enabled  map[string]bool
	clones   int
	handlers map[string]map[string]func(Event)

	nativeSubmits int
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		total:    4999,
		method:   DefaultGatewayID,
		elements: map[string]bool{Container: true, PlaceOrder: true},
		viewport: 1024,
		fields:   map[string]string{},
		enabled:  map[string]bool{PlaceOrder: true},
		handlers: map[string]map[string]func(Event){},
	}
}

func (h *fakeHost) CartTotal() models.Amount           { return h.total }
func (h *fakeHost) SelectedPaymentMethod() string      { return h.method }
func (h *fakeHost) ElementExists(selector string) bool { return h.elements[selector] }
func (h *fakeHost) ViewportWidth() int                 { return h.viewport }
func (h *fakeHost) SetField(name, value string)        { h.fields[name] = value }
func (h *fakeHost) ShowError(message string)           { h.errors = append(h.errors, message) }
func (h *fakeHost) ClearErrors()                       { h.clears++ }

func (h *fakeHost) CloneSubmit(control, clone string) {
	h.clones++
	h.elements[clone] = true
	h.enabled[clone] = false
}

func (h *fakeHost) SetSubmitEnabled(control string, enabled bool) {
	h.enabled[control] = enabled
}

func (h *fakeHost) Bind(control, namespace string, handler func(Event)) {
	if h.handlers[control] == nil {
		h.handlers[control] = map[string]func(Event){}
	}
	h.handlers[control][namespace] = handler
}

func (h *fakeHost) Click(control string) {
	evt := &fakeEvent{target: control}

	namespaces := make([]string, 0, len(h.handlers[control]))
	for ns := range h.handlers[control] {
		namespaces = append(namespaces, ns)
	}
	sort.Strings(namespaces)
	for _, ns := range namespaces {
		h.handlers[control][ns](evt)
	}

	if !evt.prevented && control == PlaceOrder {
		h.nativeSubmits++
	}
}

type fakeClient struct {
	cfg       ClientConfig
	tornDown  bool
	container string
	height    string
	width     string
	frameDone func(error)

	partialOK   func()
	partialErr  func(error)
	approvalOK  func(Approval)
	approvalErr func(error)

	submits int
}

func (c *fakeClient) InitFrame(container, height, width string, done func(error)) {
	c.container, c.height, c.width = container, height, width
	c.frameDone = done
}

func (c *fakeClient) OnPartialPayment(onSuccess func(), onError func(error)) {
	c.partialOK, c.partialErr = onSuccess, onError
}

func (c *fakeClient) OnApproval(onSuccess func(Approval), onError func(error)) {
	c.approvalOK, c.approvalErr = onSuccess, onError
}

func (c *fakeClient) SubmitEvents() {
	c.submits++
}

type fakeSDK struct {
	ready       bool
	readyChecks int
	autoFrame   bool
	initErr     error
	clients     []*fakeClient
	live        int
}

func (s *fakeSDK) Ready() bool {
	s.readyChecks++
	return s.ready
}

func (s *fakeSDK) InitClient(cfg ClientConfig) (Client, error) {
	if s.initErr != nil {
		return nil, s.initErr
	}

	c := &fakeClient{cfg: cfg}
	s.clients = append(s.clients, c)
	s.live++

	if s.autoFrame {
		return &autoFrameClient{c}, nil
	}
	return c, nil
}

func (s *fakeSDK) TeardownClient(client Client) {
	if client == nil {
		return
	}

	switch c := client.(type) {
	case *fakeClient:
		c.tornDown = true
	case *autoFrameClient:
		c.tornDown = true
	}
	s.live--
}

func (s *fakeSDK) last() *fakeClient {
	return s.clients[len(s.clients)-1]
}

// autoFrameClient reports the frame as mounted straight away.
type autoFrameClient struct {
	*fakeClient
}

func (c *autoFrameClient) InitFrame(container, height, width string, done func(error)) {
	c.fakeClient.InitFrame(container, height, width, done)
	done(nil)
}

// fakeSessions mints a new key for every request.
type fakeSessions struct {
	sched   Scheduler
	err     error
	amounts []models.Amount
	forced  []bool
}

func (s *fakeSessions) SessionKey(amount models.Amount, forceRefresh bool, done func(string, error)) {
	s.sched.Post(func() {
		if s.err != nil {
			done("", s.err)
			return
		}
		s.amounts = append(s.amounts, amount)
		s.forced = append(s.forced, forceRefresh)
		done(fmt.Sprintf("sess-%d", len(s.amounts)), nil)
	})
}
