package images

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type MockLookup struct {
	mock.Mock
}

func (m *MockLookup) ImageURLs(ctx context.Context, keyword string) ([]string, error) {
	args := m.Called(ctx, keyword)
	return args.Get(0).([]string), args.Error(1)
}

func mustStartRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("could not terminate redis container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestCache_ImageURLs(t *testing.T) {
	client := mustStartRedis(t)
	ctx := context.Background()

	next := &MockLookup{}
	next.On("ImageURLs", mock.Anything, "APPLE").Return([]string{"a1", "a2"}, nil).Once()
	next.On("ImageURLs", mock.Anything, "PEAR").Return([]string{}, nil).Twice()
	next.On("ImageURLs", mock.Anything, "PLUM").Return([]string(nil), errors.New("quota")).Once()

	cache := NewCache(client, next, time.Minute)

	for range 3 {
		urls, err := cache.ImageURLs(ctx, "APPLE")
		require.NoError(t, err)
		assert.Equal(t, []string{"a1", "a2"}, urls)
	}

	ttl, err := client.TTL(ctx, "images:APPLE").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	// Empty results are looked up again.
	for range 2 {
		urls, err := cache.ImageURLs(ctx, "PEAR")
		require.NoError(t, err)
		assert.Empty(t, urls)
	}

	_, err = cache.ImageURLs(ctx, "PLUM")
	assert.Error(t, err)

	next.AssertExpectations(t)
}

func TestCache_FallsThroughWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	next := &MockLookup{}
	next.On("ImageURLs", mock.Anything, "APPLE").Return([]string{"a1"}, nil)

	urls, err := NewCache(client, next, 0).ImageURLs(context.Background(), "APPLE")
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, urls)
}
