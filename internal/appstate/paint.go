package appstate

import (
	"context"
	"sync"
)

// painter runs frame drawing on its own goroutine. Only the newest pending
// frame is kept, and a frame that is still drawing can be cancelled.
type painter struct {
	draw func(ctx context.Context, st paintState)

	ch   chan paintState
	done chan struct{}

	mu        sync.Mutex
	cancel    context.CancelFunc
	dropCount int
}

func newPainter(draw func(ctx context.Context, st paintState)) *painter {
	p := &painter{
		draw: draw,
		ch:   make(chan paintState, 1),
		done: make(chan struct{}),
	}
	go p.loop()
	return p
}

func (p *painter) loop() {
	defer close(p.done)
	for st := range p.ch {
		ctx, cancel := context.WithCancel(context.Background())
		p.mu.Lock()
		p.cancel = cancel
		p.mu.Unlock()
		p.draw(ctx, st)
		p.mu.Lock()
		p.cancel = nil
		if ctx.Err() == nil {
			p.dropCount = 0
		}
		p.mu.Unlock()
		cancel()
	}
}

// submit queues st, replacing any frame not yet started. A frame in flight
// is cancelled unless frameDropThreshold frames in a row were dropped.
func (p *painter) submit(st paintState) {
	p.mu.Lock()
	if p.cancel != nil && p.dropCount < frameDropThreshold {
		p.cancel()
		p.dropCount++
	}
	p.mu.Unlock()
	select {
	case p.ch <- st:
	default:
		select {
		case <-p.ch:
		default:
		}
		p.ch <- st
	}
}

func (p *painter) interrupt() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()
}

// stop drops the pending frame, cancels the running one and waits for the
// goroutine to exit.
func (p *painter) stop() {
	select {
	case <-p.ch:
	default:
	}
	p.interrupt()
	close(p.ch)
	<-p.done
}
