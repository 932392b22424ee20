package srvenv

import (
	"context"
	"fmt"

	"github.com/go-sod/rangetree/internal/cache"
	"github.com/go-sod/rangetree/internal/database"
	"github.com/go-sod/rangetree/internal/index"
)

type Option func(*SrvEnv) *SrvEnv

func New(opts ...Option) *SrvEnv {
	env := &SrvEnv{}
	for _, f := range opts {
		env = f(env)
	}

	return env
}

type SrvEnv struct {
	database *database.DB
	index    index.ProvideFn
	cache    cache.Cache
}

func (s *SrvEnv) ProvideIndex() index.ProvideFn {
	return s.index
}

func (s *SrvEnv) Database() *database.DB {
	return s.database
}

// Cache never returns nil, a disabled cache is a no-op one.
func (s *SrvEnv) Cache() cache.Cache {
	if s.cache == nil {
		return cache.Nop{}
	}
	return s.cache
}

func WithIndex(fn index.ProvideFn) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.index = fn
		return s
	}
}

func WithDatabase(db *database.DB) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.database = db
		return s
	}
}

func WithCache(c cache.Cache) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.cache = c
		return s
	}
}

func (s *SrvEnv) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}

	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			return fmt.Errorf("close cache: %w", err)
		}
	}
	if s.database != nil {
		return s.database.Close(ctx)
	}
	return nil
}
