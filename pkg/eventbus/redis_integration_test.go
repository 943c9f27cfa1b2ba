//go:build integration

package eventbus

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis starts a Redis container for testing.
func setupRedis(t *testing.T) string {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := redisC.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate Redis container: %v", err)
		}
	})

	host, err := redisC.Host(ctx)
	require.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("redis://%s:%s", host, port.Port())
}

func TestRedisBus_RealRedis(t *testing.T) {
	redisURL := setupRedis(t)
	ctx := context.Background()

	opts, err := redis.ParseURL(redisURL)
	require.NoError(t, err)
	opts.PoolSize = 16

	client, err := NewClient(opts)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(ctx))

	bus, err := client.NewBus(ctx, "integration")
	require.NoError(t, err)
	t.Cleanup(func() { bus.Close() })

	const producers, perProducer, consumers = 3, 100, 4
	total := producers * perProducer

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				assert.NoError(t, bus.Send(ctx, PackageReadyEvent(Package{Name: fmt.Sprintf("%d-%d", p, i)})))
			}
		}(p)
	}

	var mu sync.Mutex
	seen := make(map[string]int)
	var cwg sync.WaitGroup
	for c := 0; c < consumers; c++ {
		cwg.Add(1)
		go func() {
			defer cwg.Done()
			for i := 0; i < total/consumers; i++ {
				ev, err := bus.ReceivePackage(ctx)
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				seen[ev.Package.Name]++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	cwg.Wait()

	assert.Len(t, seen, total)
	for name, n := range seen {
		assert.Equal(t, 1, n, "package %s delivered %d times", name, n)
	}
}
