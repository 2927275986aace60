// Package sequence allocates human-readable document numbers such as
// RES/2026/00042.
package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Code identifies one numbering series.
type Code string

const (
	Reservation     Code = "reservation"
	CustomerPayment Code = "payment.customer"
	SupplierPayment Code = "payment.supplier"
	CashEntry       Code = "cash"
	Purchase        Code = "purchase"
)

var prefixes = map[Code]string{
	Reservation:     "RES",
	CustomerPayment: "PAYC",
	SupplierPayment: "PAYF",
	CashEntry:       "CAI",
	Purchase:        "ACH",
}

// Prefix returns the document prefix of a series, or "DOC" for unknown codes.
func (c Code) Prefix() string {
	if p, ok := prefixes[c]; ok {
		return p
	}
	return "DOC"
}

// Generator hands out strictly increasing values per code.
type Generator interface {
	Next(ctx context.Context, code Code) (int64, error)
}

// Format renders a sequence value as PREFIX/YEAR/00000.
func Format(code Code, at time.Time, n int64) string {
	return fmt.Sprintf("%s/%d/%05d", code.Prefix(), at.Year(), n)
}

// NextNumber draws the next value from g and formats it for the year of at.
func NextNumber(ctx context.Context, g Generator, code Code, at time.Time) (string, error) {
	n, err := g.Next(ctx, code)
	if err != nil {
		return "", fmt.Errorf("next %s number: %w", code, err)
	}
	return Format(code, at, n), nil
}

// RedisGenerator keeps counters in Redis with INCR. Counters are not rolled
// back with the SQL transaction, so a failed action leaves a gap.
type RedisGenerator struct {
	Client *redis.Client
	Prefix string
}

func NewRedisGenerator(client *redis.Client) RedisGenerator {
	return RedisGenerator{Client: client, Prefix: "seq:"}
}

func (g RedisGenerator) Next(ctx context.Context, code Code) (int64, error) {
	if g.Client == nil {
		return 0, fmt.Errorf("redis client not configured")
	}
	return g.Client.Incr(ctx, g.Prefix+string(code)).Result()
}
