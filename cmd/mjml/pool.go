package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	mjml "github.com/alnah/go-mjml"
)

// maxWorkers bounds --workers and MJML_WORKERS.
const maxWorkers = 64

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("converter pool closed")

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input mjml.Input) (*mjml.ConvertResult, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*mjml.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() (CLIConverter, error)
	Release(CLIConverter)
	Size() int
}

// ConverterPool hands out up to size converters, one per worker.
// Converters are created lazily on first acquire.
type ConverterPool struct {
	size    int
	factory func() (CLIConverter, error)
	idle    chan CLIConverter
	mu      sync.Mutex
	created int
	closed  bool
}

// Compile-time check that ConverterPool implements Pool.
var _ Pool = (*ConverterPool)(nil)

// NewConverterPool creates a pool with capacity for n converters built by factory.
func NewConverterPool(n int, factory func() (CLIConverter, error)) *ConverterPool {
	if n < 1 {
		n = 1
	}
	return &ConverterPool{
		size:    n,
		factory: factory,
		idle:    make(chan CLIConverter, n),
	}
}

// Acquire gets a converter from the pool, creating one if needed.
// Blocks if all converters are in use.
func (p *ConverterPool) Acquire() (CLIConverter, error) {
	select {
	case c, ok := <-p.idle:
		if !ok {
			return nil, ErrPoolClosed
		}
		return c, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		c, err := p.factory()
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, fmt.Errorf("creating converter: %w", err)
		}
		return c, nil
	}
	p.mu.Unlock()

	c, ok := <-p.idle
	if !ok {
		return nil, ErrPoolClosed
	}
	return c, nil
}

// Release returns a converter to the pool.
func (p *ConverterPool) Release(c CLIConverter) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.idle <- c
	}
}

// Close stops handing out converters. Blocked Acquire calls return ErrPoolClosed.
func (p *ConverterPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	close(p.idle)
}

// Size returns the pool capacity.
func (p *ConverterPool) Size() int {
	return p.size
}

// resolvePoolSize determines the pool size.
// Priority: explicit flag > MJML_WORKERS > GOMAXPROCS-based calculation.
func resolvePoolSize(flagWorkers, envWorkers int) int {
	if flagWorkers > 0 {
		return flagWorkers
	}
	if envWorkers > 0 {
		return min(envWorkers, maxWorkers)
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers.
	n := runtime.GOMAXPROCS(0) / 2

	// Minimum 1, maximum 8
	return max(1, min(n, 8))
}
