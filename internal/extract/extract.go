// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package extract turns heterogeneous content sources into plain text
// through per-source fallback chains. Each chain tries its strategies in
// order; a failing strategy is logged and skipped, and exhausting the whole
// chain yields "no text" rather than an error.
package extract

import (
	"context"
	"fmt"
	"log/slog"
)

// MinTextLength is the usable-text threshold. A result must exceed it;
// anything at or below counts as a miss and the chain moves on.
const MinTextLength = 50

// Source carries the input a strategy works on. URL-based sources populate
// URL; uploaded files populate FilePath with an absolute path on disk.
type Source struct {
	URL      string
	FilePath string
}

// Strategy is one way of obtaining plain text from a source. Strategies are
// stateless between attempts; the chain owns ordering and error isolation.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, src Source) (string, error)
}

// Result is a successful chain outcome.
type Result struct {
	Text     string
	Strategy string
}

// Chain is an ordered list of strategies for one source type.
type Chain struct {
	source     string
	strategies []Strategy
}

// NewChain builds a chain over the given strategies, tried in order.
func NewChain(source string, strategies ...Strategy) *Chain {
	return &Chain{source: source, strategies: strategies}
}

// Run tries each strategy in order and returns the first result whose text
// exceeds MinTextLength. Errors (and panics) inside a strategy are isolated:
// they are logged and the chain advances. Exhausting every strategy returns
// (nil, nil) — the caller records a failed status, ingestion does not crash.
// Context cancellation abandons the remaining strategies immediately.
func (c *Chain) Run(ctx context.Context, src Source) (*Result, error) {
	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("extraction cancelled: %w", err)
		}

		text, err := c.attempt(ctx, s, src)
		if err != nil {
			slog.Warn("extraction strategy failed",
				"source", c.source,
				"strategy", s.Name(),
				"error", err,
			)
			continue
		}
		if len(text) <= MinTextLength {
			slog.Debug("extraction strategy returned too little text",
				"source", c.source,
				"strategy", s.Name(),
				"length", len(text),
			)
			continue
		}

		slog.Info("extraction succeeded",
			"source", c.source,
			"strategy", s.Name(),
			"length", len(text),
		)
		return &Result{Text: text, Strategy: s.Name()}, nil
	}
	return nil, nil
}

// attempt invokes a single strategy, converting panics into errors so one
// misbehaving strategy cannot take down the chain.
func (c *Chain) attempt(ctx context.Context, s Strategy, src Source) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("strategy panicked: %v", rec)
		}
	}()
	return s.Extract(ctx, src)
}
