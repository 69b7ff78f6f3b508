package ticket

import (
	"context"
	"sync"
	"time"

	"ticket-bot/utils/apperr"

	"github.com/google/uuid"
)

// Confirmations tracks pending yes/no prompts such as "close this ticket?".
// A prompt that times out or is cancelled resolves to false.
type Confirmations struct {
	mu      sync.Mutex
	pending map[string]*confirmation
}

type confirmation struct {
	ownerID string
	answer  chan bool
}

func NewConfirmations() *Confirmations {
	return &Confirmations{pending: make(map[string]*confirmation)}
}

// Register opens a prompt that only ownerID may answer and returns its id.
func (c *Confirmations) Register(ownerID string) string {
	id := uuid.NewString()
	c.mu.Lock()
	c.pending[id] = &confirmation{ownerID: ownerID, answer: make(chan bool, 1)}
	c.mu.Unlock()
	return id
}

// Await blocks until the prompt is answered, timeout elapses or ctx is done.
// The prompt is gone afterwards either way.
func (c *Confirmations) Await(ctx context.Context, id string, timeout time.Duration) bool {
	c.mu.Lock()
	p, ok := c.pending[id]
	c.mu.Unlock()
	if !ok {
		return false
	}
	defer c.drop(id)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ok := <-p.answer:
		return ok
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}

// Resolve answers a prompt. Answers from anyone but the owner are rejected.
func (c *Confirmations) Resolve(id, actorID string, confirmed bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[id]
	if !ok {
		return apperr.NotFound("This confirmation has expired.")
	}
	if p.ownerID != actorID {
		return apperr.Unauthorized("Only <@%s> can answer this confirmation.", p.ownerID)
	}
	delete(c.pending, id)
	select {
	case p.answer <- confirmed:
	default:
	}
	return nil
}

func (c *Confirmations) drop(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// Pending returns the number of unanswered prompts.
func (c *Confirmations) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
