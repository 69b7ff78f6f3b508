package ticket

import (
	"context"
	"errors"
	"testing"
	"time"

	"ticket-bot/utils/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmationResolved(t *testing.T) {
	c := NewConfirmations()
	id := c.Register("staff")

	go func() {
		time.Sleep(10 * time.Millisecond)
		assert.NoError(t, c.Resolve(id, "staff", true))
	}()

	assert.True(t, c.Await(context.Background(), id, time.Second))
	assert.Zero(t, c.Pending())
}

func TestConfirmationCancelled(t *testing.T) {
	c := NewConfirmations()
	id := c.Register("staff")
	require.NoError(t, c.Resolve(id, "staff", false))

	assert.False(t, c.Await(context.Background(), id, time.Second))
}

func TestConfirmationTimesOut(t *testing.T) {
	c := NewConfirmations()
	id := c.Register("staff")

	start := time.Now()
	assert.False(t, c.Await(context.Background(), id, 20*time.Millisecond))
	assert.Less(t, time.Since(start), time.Second)

	err := c.Resolve(id, "staff", true)
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "late answers are rejected")
}

func TestConfirmationContextCancelled(t *testing.T) {
	c := NewConfirmations()
	id := c.Register("staff")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, c.Await(ctx, id, time.Minute))
	assert.Zero(t, c.Pending())
}

func TestConfirmationOnlyOwnerMayAnswer(t *testing.T) {
	c := NewConfirmations()
	id := c.Register("staff")

	err := c.Resolve(id, "someone", true)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
	assert.Equal(t, 1, c.Pending())
}

func TestAwaitUnknownID(t *testing.T) {
	assert.False(t, NewConfirmations().Await(context.Background(), "missing", time.Second))
}
