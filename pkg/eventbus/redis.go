package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisBus is a Bus backed by two Redis lists. Send is RPUSH, receive is
// BLPOP, so the lanes are FIFO and each event is popped by exactly one
// receiver even across processes.
type RedisBus struct {
	client *Client
	runID  string
	done   chan struct{}
	once   sync.Once
	counters
}

// RunID returns the run the bus is namespaced under.
func (b *RedisBus) RunID() string {
	return b.runID
}

// Send validates ev and appends it to its lane.
func (b *RedisBus) Send(ctx context.Context, ev Event) error {
	if b.closed() {
		return ErrClosed
	}

	data, err := EncodeEvent(ev)
	if err != nil {
		return err
	}

	key := LaneKey(b.runID, ev.Kind.Lane())
	if err := b.client.rdb.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("failed to push event to Redis: %w", err)
	}

	b.record(ev.Kind)
	return nil
}

// ReceiveIdea blocks until an idea lane event is available.
func (b *RedisBus) ReceiveIdea(ctx context.Context) (Event, error) {
	return b.receive(ctx, LaneIdeas)
}

// ReceivePackage blocks until a package lane event is available.
func (b *RedisBus) ReceivePackage(ctx context.Context) (Event, error) {
	return b.receive(ctx, LanePackages)
}

// receive polls BLPOP in bounded slices so cancellation and Close are
// observed within one poll interval.
func (b *RedisBus) receive(ctx context.Context, l Lane) (Event, error) {
	key := LaneKey(b.runID, l)
	for {
		if b.closed() {
			return Event{}, ErrClosed
		}
		if err := ctx.Err(); err != nil {
			return Event{}, err
		}

		res, err := b.client.rdb.BLPop(ctx, b.client.pollInterval, key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Event{}, ctxErr
			}
			return Event{}, fmt.Errorf("failed to pop event from Redis: %w", err)
		}

		// BLPOP replies with [key, value]
		if len(res) != 2 {
			return Event{}, fmt.Errorf("unexpected BLPOP reply: %v", res)
		}
		return DecodeEvent([]byte(res[1]))
	}
}

// Stats returns the number of events sent through this bus value.
func (b *RedisBus) Stats() Stats {
	return b.snapshot()
}

// Close stops the bus and deletes both lane lists.
// The underlying Client stays open. Close is idempotent.
func (b *RedisBus) Close() error {
	var err error
	b.once.Do(func() {
		close(b.done)
		err = b.clear(context.Background())
	})
	return err
}

func (b *RedisBus) clear(ctx context.Context) error {
	keys := []string{LaneKey(b.runID, LaneIdeas), LaneKey(b.runID, LanePackages)}
	if err := b.client.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear event lanes: %w", err)
	}
	return nil
}

func (b *RedisBus) closed() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}
