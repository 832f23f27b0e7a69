package notification

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/SherClockHolmes/webpush-go"
)

// PushSender defines the interface for sending a web push notification.
type PushSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender sends notifications through the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// pushPayload is the JSON body delivered to the browser service worker.
type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
	Level Level  `json:"level"`
}

// WorkerPool fans notifications out to browser push subscriptions.
type WorkerPool struct {
	size    int
	jobs    chan Notification
	webpush *webpush.Options
	sender  PushSender

	subsMu sync.Mutex
	subs   []webpush.Subscription

	closeMu  sync.RWMutex
	closed   bool
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewWorkerPool creates a new worker pool delivering to subs.
func NewWorkerPool(size int, subs []webpush.Subscription, webpushOptions *webpush.Options) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Notification, size),
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		subs:    append([]webpush.Subscription(nil), subs...),
		stop:    make(chan struct{}),
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	context.AfterFunc(ctx, wp.halt)
	for i := 0; i < wp.size; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	log.Printf("Push worker %d started", id)
	for {
		select {
		case n, ok := <-wp.jobs:
			if !ok {
				log.Printf("Push worker %d drained", id)
				return
			}
			wp.deliver(n)
		case <-ctx.Done():
			log.Printf("Push worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues n for delivery. It waits for room in the queue until the
// pool stops, then drops n. It is a no-op after Shutdown.
func (wp *WorkerPool) Dispatch(n Notification) {
	wp.closeMu.RLock()
	defer wp.closeMu.RUnlock()
	if wp.closed {
		return
	}
	select {
	case wp.jobs <- n:
	case <-wp.stop:
		log.Printf("Push pool stopped; dropping notification %q", n.Title)
	}
}

// Shutdown stops accepting jobs and waits for the workers to exit. Queued
// jobs are still delivered unless the context given to Start is done.
func (wp *WorkerPool) Shutdown() {
	wp.halt()
	wp.closeMu.Lock()
	if !wp.closed {
		wp.closed = true
		close(wp.jobs)
	}
	wp.closeMu.Unlock()
	wp.wg.Wait()
}

func (wp *WorkerPool) halt() {
	wp.stopOnce.Do(func() { close(wp.stop) })
}

// Subscriptions returns the endpoints that are still live.
func (wp *WorkerPool) Subscriptions() []webpush.Subscription {
	wp.subsMu.Lock()
	defer wp.subsMu.Unlock()
	return append([]webpush.Subscription(nil), wp.subs...)
}

func (wp *WorkerPool) deliver(n Notification) {
	subs := wp.Subscriptions()
	if len(subs) == 0 {
		return
	}

	payload, err := json.Marshal(pushPayload{Title: n.Title, Body: n.Description, Level: n.Level})
	if err != nil {
		log.Printf("Error encoding push payload: %v", err)
		return
	}

	log.Printf("Sending %d push notifications for %q", len(subs), n.Title)
	for i := range subs {
		wp.send(&subs[i], payload)
	}
}

func (wp *WorkerPool) send(sub *webpush.Subscription, payload []byte) {
	resp, err := wp.sender.Send(payload, sub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Removing.", sub.Endpoint)
		wp.remove(sub.Endpoint)
	}
}

func (wp *WorkerPool) remove(endpoint string) {
	wp.subsMu.Lock()
	defer wp.subsMu.Unlock()
	kept := wp.subs[:0]
	for _, s := range wp.subs {
		if s.Endpoint != endpoint {
			kept = append(kept, s)
		}
	}
	wp.subs = kept
}
