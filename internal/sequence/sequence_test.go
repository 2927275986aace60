package sequence

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "RES/2026/00042", Format(Reservation, at, 42))
	assert.Equal(t, "PAYF/2026/00001", Format(SupplierPayment, at, 1))
	assert.Equal(t, "DOC/2026/00007", Format(Code("unknown"), at, 7))
}

func TestRedisGeneratorIncrementsPerCode(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	g := NewRedisGenerator(client)
	ctx := context.Background()

	n, err := g.Next(ctx, Reservation)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = g.Next(ctx, Reservation)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = g.Next(ctx, CashEntry)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := mr.Get("seq:reservation")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
}

func TestNextNumber(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	num, err := NextNumber(context.Background(), NewRedisGenerator(client), Purchase, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "ACH/2025/00001", num)
}

func TestRedisGeneratorWithoutClient(t *testing.T) {
	_, err := RedisGenerator{}.Next(context.Background(), Reservation)
	assert.Error(t, err)
}
