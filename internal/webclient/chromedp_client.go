package webclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/auriti-labs/geo-optimizer/internal/logging"
)

// ChromeDPClient renders pages in headless Chrome so that JSON-LD and meta
// tags injected by client-side frameworks are visible to the audit.
type ChromeDPClient struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	idleAfter   time.Duration
	timeout     time.Duration
	maxBody     int64
	logger      logging.Logger
}

func NewChromedpClient(cfg Config, logger logging.Logger) (*ChromeDPClient, error) {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = logging.Nop()
	}

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	if cfg.ShowBrowser {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromeDPClient{
		allocCtx:    allocCtx,
		allocCancel: cancel,
		idleAfter:   cfg.IdleAfter,
		timeout:     cfg.Timeout,
		maxBody:     cfg.MaxBodyBytes,
		logger:      logger.With(logging.Field{Key: "backend", Value: "chromedp"}),
	}, nil
}

// waitNetworkIdle signals once no request has been in flight for idleAfter.
// The returned kick func arms the timer manually (used right after navigation).
func waitNetworkIdle(ctx context.Context, idleAfter time.Duration) (<-chan struct{}, func()) {
	idleChan := make(chan struct{})
	var activeReqs int32
	var timer *time.Timer
	var timerMutex sync.Mutex
	var once sync.Once

	startTimer := func() {
		timerMutex.Lock()
		defer timerMutex.Unlock()

		if timer != nil {
			timer.Stop()
		}

		timer = time.AfterFunc(idleAfter, func() {
			if atomic.LoadInt32(&activeReqs) <= 0 {
				once.Do(func() { close(idleChan) })
			}
		})
	}

	chromedp.ListenTarget(ctx, func(ev any) {
		switch ev.(type) {
		case *network.EventRequestWillBeSent:
			atomic.AddInt32(&activeReqs, 1)
		case *network.EventLoadingFinished, *network.EventLoadingFailed:
			if atomic.AddInt32(&activeReqs, -1) <= 0 {
				startTimer()
			}
		}
	})

	return idleChan, startTimer
}

// Do renders req.URL and returns the serialized DOM. Only GET is supported.
func (cdc *ChromeDPClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if m := strings.ToUpper(req.Method); m != "" && m != http.MethodGet {
		return nil, fmt.Errorf("method %s not supported by chromedp backend", m)
	}

	tabCtx, cancelTab := chromedp.NewContext(cdc.allocCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, cdc.timeout)
	defer cancelTimeout()

	// Propagate caller cancellation into the tab.
	go func() {
		select {
		case <-ctx.Done():
			cancelTab()
		case <-tabCtx.Done():
		}
	}()

	var (
		statusMu sync.Mutex
		status   int64
		headers  = http.Header{}
		finalURL = req.URL
	)
	chromedp.ListenTarget(tabCtx, func(ev any) {
		e, ok := ev.(*network.EventResponseReceived)
		if !ok || e.Type != network.ResourceTypeDocument || e.Response == nil {
			return
		}
		statusMu.Lock()
		defer statusMu.Unlock()
		if status != 0 {
			return
		}
		status = e.Response.Status
		finalURL = e.Response.URL
		for k, v := range e.Response.Headers {
			headers.Set(k, fmt.Sprint(v))
		}
	})

	idle, kick := waitNetworkIdle(tabCtx, cdc.idleAfter)

	cdc.logger.Debug("rendering page", logging.Field{Key: "url", Value: req.URL})
	if err := chromedp.Run(tabCtx, network.Enable(), chromedp.Navigate(req.URL)); err != nil {
		return nil, cdc.wrap(tabCtx, err)
	}
	kick()

	select {
	case <-idle:
	case <-tabCtx.Done():
		return nil, cdc.wrap(tabCtx, tabCtx.Err())
	}

	var html string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, cdc.wrap(tabCtx, err)
	}
	if int64(len(html)) > cdc.maxBody {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, len(html), cdc.maxBody)
	}

	statusMu.Lock()
	defer statusMu.Unlock()
	if status == 0 {
		status = http.StatusOK
	}
	return &Response{
		Request:    req,
		URL:        finalURL,
		Headers:    headers,
		Body:       []byte(html),
		StatusCode: int(status),
		FetchedAt:  time.Now(),
	}, nil
}

func (cdc *ChromeDPClient) Get(ctx context.Context, url string) (*Response, error) {
	return cdc.Do(ctx, &Request{Method: http.MethodGet, URL: url})
}

func (cdc *ChromeDPClient) Close() error {
	cdc.allocCancel()
	return nil
}

func (cdc *ChromeDPClient) wrap(tabCtx context.Context, err error) error {
	if tabCtx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%w (%s): %v", ErrTimeout, cdc.timeout, err)
	}
	return fmt.Errorf("%w: %v", ErrConnection, err)
}
