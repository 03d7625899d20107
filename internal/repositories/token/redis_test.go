package token_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/quest-forge/internal/errors"
	"github.com/KirkDiggler/quest-forge/internal/repositories/token"
	"github.com/KirkDiggler/quest-forge/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	ctx     context.Context
	repo    token.Repository
	mr      *miniredis.Miniredis
	cleanup func()
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	client, mr, cleanup := testutils.CreateTestRedisClientWithServer(s.T(), nil)
	s.mr = mr
	s.cleanup = cleanup

	repo, err := token.NewRedis(&token.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) TestRevokeExpires() {
	s.Require().NoError(s.repo.Revoke(s.ctx, token.RevokeInput{TokenID: "jti-1", TTL: time.Minute}))

	revoked, err := s.repo.IsRevoked(s.ctx, token.IsRevokedInput{TokenID: "jti-1"})
	s.Require().NoError(err)
	s.True(revoked)

	s.mr.FastForward(2 * time.Minute)

	revoked, err = s.repo.IsRevoked(s.ctx, token.IsRevokedInput{TokenID: "jti-1"})
	s.Require().NoError(err)
	s.False(revoked)
}

func (s *RedisRepositoryTestSuite) TestRevokeExpiredTokenIsNoop() {
	s.Require().NoError(s.repo.Revoke(s.ctx, token.RevokeInput{TokenID: "jti-2", TTL: -time.Second}))
	s.False(s.mr.Exists("auth:revoked:jti-2"))
}

func (s *RedisRepositoryTestSuite) TestEmptyTokenID() {
	err := s.repo.Revoke(s.ctx, token.RevokeInput{TTL: time.Minute})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.IsRevoked(s.ctx, token.IsRevokedInput{})
	s.True(errors.IsInvalidArgument(err))
}
