// Package code generates the short shareable identifiers under which
// snippets are stored.
package code

import (
	"context"
	"crypto/rand"
	"fmt"
)

// Length of generated codes. Four characters keeps share URLs typeable.
//
// BIRTHDAY BOUND:
// With a 64-symbol alphabet there are 64^4 ≈ 16.7M possible codes. Random
// collisions pass 50% probability at roughly sqrt(64^4) ≈ 4800 live
// snippets — fine for the expected load, since snippets touched by any
// realtime activity expire within minutes. Collisions that do happen are
// absorbed by the re-roll loop below; bump Length before changing anything
// else if the service ever outgrows this.
const Length = 4

// alphabet is the URL-safe set used by nanoid: codes drop straight into a
// path segment without escaping.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

// ExistsChecker is the one question the generator asks of storage.
// repository.TextRepository satisfies it; tests use a seeded stub.
type ExistsChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Generator produces unique snippet codes, re-rolling on collision.
type Generator struct {
	store ExistsChecker
}

// NewGenerator creates a Generator backed by the given existence check.
func NewGenerator(store ExistsChecker) *Generator {
	return &Generator{store: store}
}

// Generate returns a code that is not currently in use.
//
// The loop is unbounded on purpose: at the expected collision rate a retry
// is already rare and two in a row is negligible, so a retry cap would only
// add a failure mode that can't realistically trigger. Store errors abort
// immediately — a broken store must not look like an infinite loop.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	for {
		candidate, err := random(Length)
		if err != nil {
			return "", fmt.Errorf("code: generating candidate: %w", err)
		}

		taken, err := g.store.Exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("code: checking candidate %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
}

// random returns n characters drawn from the alphabet using crypto/rand.
//
// The alphabet has exactly 64 symbols, so masking a byte with 0x3f maps it
// uniformly onto an index — no modulo bias to correct for.
func random(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = alphabet[b&0x3f]
	}
	return string(buf), nil
}
