//go:build integration

package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"skillchain/internal/ratelimit"
	"skillchain/pkg/platform/sentinel"
	"skillchain/pkg/testutil"
	"skillchain/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *ratelimit.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = ratelimit.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.Flush(context.Background()))
}

func (s *RedisStoreSuite) TestAllowUpToLimit() {
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		res, err := s.store.Allow(ctx, "domain-verify:203.0.113.9-acme.io", 5, time.Hour)
		s.Require().NoError(err)
		s.True(res.Allowed)
		s.Equal(4-i, res.Remaining)
	}

	res, err := s.store.Allow(ctx, "domain-verify:203.0.113.9-acme.io", 5, time.Hour)
	s.Require().NoError(err)
	s.False(res.Allowed)
	s.Zero(res.Remaining)
	s.Positive(res.RetryAfter)
	s.LessOrEqual(res.RetryAfter, time.Hour)
}

func (s *RedisStoreSuite) TestWindowSlides() {
	ctx := context.Background()
	res, err := s.store.Allow(ctx, "short", 1, 200*time.Millisecond)
	s.Require().NoError(err)
	s.True(res.Allowed)

	res, err = s.store.Allow(ctx, "short", 1, 200*time.Millisecond)
	s.Require().NoError(err)
	s.False(res.Allowed)

	s.Eventually(func() bool {
		res, err := s.store.Allow(ctx, "short", 1, 200*time.Millisecond)
		return err == nil && res.Allowed
	}, 2*time.Second, 50*time.Millisecond)
}

func (s *RedisStoreSuite) TestConcurrentCallersShareTheLimit() {
	ctx := context.Background()
	res := testutil.RunConcurrent(20, func(int) error {
		r, err := s.store.Allow(ctx, "shared", 5, time.Hour)
		if err != nil {
			return err
		}
		if !r.Allowed {
			return sentinel.ErrInvalidState
		}
		return nil
	})
	s.Zero(res.Errors)
	s.Equal(int32(5), res.Successes)
	s.Equal(int32(15), res.InvalidStates)
}
