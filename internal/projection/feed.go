package projection

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Collection names published on the change feed.
const (
	CollectionEscalations = "escalations"
	CollectionEmployees   = "employees"
	CollectionSettings    = "settings"
)

const feedChannelPrefix = "changes."

// Change signals that a collection was mutated remotely.
type Change struct {
	Collection string
	At         time.Time
}

// ChangeFeed carries collection-change signals between writers and the
// projection manager. Writers publish after their mutation is durable;
// subscribers observe eventually.
type ChangeFeed interface {
	Publish(ctx context.Context, collection string) error
	Subscribe(ctx context.Context) (<-chan Change, error)
}

// redisFeed implements ChangeFeed over Redis pub/sub.
type redisFeed struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisFeed constructs a Redis-backed change feed.
func NewRedisFeed(client *redis.Client, logger *zap.Logger) ChangeFeed {
	return &redisFeed{client: client, logger: logger}
}

func (f *redisFeed) Publish(ctx context.Context, collection string) error {
	return f.client.Publish(ctx, feedChannelPrefix+collection, time.Now().Format(time.RFC3339Nano)).Err()
}

func (f *redisFeed) Subscribe(ctx context.Context) (<-chan Change, error) {
	pubsub := f.client.PSubscribe(ctx, feedChannelPrefix+"*")
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	out := make(chan Change)
	go func() {
		defer close(out)
		defer pubsub.Close() //nolint:errcheck
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				change := Change{
					Collection: strings.TrimPrefix(msg.Channel, feedChannelPrefix),
					At:         time.Now(),
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// memoryFeed is an in-process ChangeFeed for tests and single-node setups
// without Redis.
type memoryFeed struct {
	mu   sync.Mutex
	subs []chan Change
}

// NewMemoryFeed constructs an in-process change feed.
func NewMemoryFeed() ChangeFeed {
	return &memoryFeed{}
}

// Publish sends under the lock so a concurrent unsubscribe can never close
// a channel mid-send. Full subscriber buffers drop the signal, matching the
// feed's eventual-consistency contract.
func (f *memoryFeed) Publish(_ context.Context, collection string) error {
	change := Change{Collection: collection, At: time.Now()}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.subs {
		select {
		case sub <- change:
		default:
		}
	}
	return nil
}

// Subscribe registers a buffered channel that is closed when ctx ends, so
// consumers ranging over it terminate cleanly.
func (f *memoryFeed) Subscribe(ctx context.Context) (<-chan Change, error) {
	sub := make(chan Change, 16)
	f.mu.Lock()
	f.subs = append(f.subs, sub)
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		for i, s := range f.subs {
			if s == sub {
				f.subs = append(f.subs[:i], f.subs[i+1:]...)
				break
			}
		}
		close(sub)
		f.mu.Unlock()
	}()
	return sub, nil
}
