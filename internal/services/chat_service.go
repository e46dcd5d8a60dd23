package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"financeai/internal/advisor"
	"financeai/internal/core"
	"financeai/internal/log"
	"financeai/internal/metrics"
	"financeai/internal/store"
)

var ErrChatClosed = errors.New("chat session closed")

// ChatService records user questions and answers them after a typing delay.
//
// The reply text is computed from the state at the moment the question is
// sent. Only its delivery is deferred, so later mutations never change an
// answer already in flight.
type ChatService struct {
	store     *store.Store
	responder *advisor.Responder
	scheduler Scheduler
	delay     time.Duration
	logger    *log.Logger

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]Handle
	closed  bool
}

type ChatOption func(*ChatService)

// WithScheduler replaces the timer-based scheduler.
func WithScheduler(s Scheduler) ChatOption {
	return func(c *ChatService) { c.scheduler = s }
}

func WithResponder(r *advisor.Responder) ChatOption {
	return func(c *ChatService) { c.responder = r }
}

func WithChatLogger(l *log.Logger) ChatOption {
	return func(c *ChatService) { c.logger = l }
}

func NewChatService(st *store.Store, delay time.Duration, opts ...ChatOption) *ChatService {
	c := &ChatService{
		store:     st,
		responder: advisor.New(nil),
		scheduler: TimerScheduler{},
		delay:     delay,
		logger:    log.Discard(),
		pending:   make(map[uint64]Handle),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithComponent(log.ComponentChat)
	return c
}

// Send appends the user's message and schedules the assistant reply. It
// returns the stored user message without waiting for the reply.
func (c *ChatService) Send(ctx context.Context, query string) (core.ChatMessage, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return core.ChatMessage{}, ErrChatClosed
	}
	id := c.nextID
	c.nextID++
	// Registered before scheduling so a scheduler that fires immediately
	// still finds the entry.
	c.pending[id] = nil
	c.mu.Unlock()

	msg := c.store.AppendChatMessage(ctx, core.ChatMessage{Content: query, Sender: core.User})

	snap := c.store.Snapshot()
	// The reply carries the send time; only its delivery is delayed.
	reply := core.ChatMessage{
		Content:   c.responder.Respond(query, metrics.Snap(snap), snap.SavingsGoals),
		Sender:    core.Assistant,
		Timestamp: msg.Timestamp,
	}
	c.logger.DebugContext(ctx, "Reply prepared",
		log.FieldTopic, advisor.Match(query),
		"delay", c.delay)

	h := c.scheduler.AfterFunc(c.delay, func() { c.deliver(id, reply) })

	c.mu.Lock()
	if _, ok := c.pending[id]; ok {
		c.pending[id] = h
	}
	c.mu.Unlock()
	return msg, nil
}

func (c *ChatService) deliver(id uint64, reply core.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.pending[id]; !ok || c.closed {
		return
	}
	delete(c.pending, id)
	c.store.AppendChatMessage(context.Background(), reply)
}

// History returns the conversation, oldest first.
func (c *ChatService) History() []core.ChatMessage {
	return c.store.ChatHistory()
}

// Pending reports how many replies are still scheduled.
func (c *ChatService) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Close cancels every reply that has not been delivered yet. Later calls to
// Send fail with ErrChatClosed.
func (c *ChatService) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	dropped := 0
	for id, h := range c.pending {
		if h != nil && h.Stop() {
			dropped++
		}
		delete(c.pending, id)
	}
	if dropped > 0 {
		c.logger.Info("Discarded pending replies", "count", dropped)
	}
	return nil
}
