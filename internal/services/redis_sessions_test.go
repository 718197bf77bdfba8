package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/community-board/internal/database"
	"github.com/yukikurage/community-board/internal/repository"
	"github.com/yukikurage/community-board/internal/session"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm/logger"
)

// RedisSessionSuite runs the credential lifecycle with sessions kept in Redis.
type RedisSessionSuite struct {
	suite.Suite
	mr   *miniredis.Miniredis
	rdb  *redis.Client
	auth *AuthService
	ctx  context.Context
}

func (s *RedisSessionSuite) SetupTest() {
	s.ctx = context.Background()

	db, err := database.Open(sqlite.Open(filepath.Join(s.T().TempDir(), "board.db")), logger.Silent)
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.T().Cleanup(func() {
		sqlDB.Close()
	})
	s.Require().NoError(database.Migrate(db))

	s.mr, err = miniredis.Run()
	s.Require().NoError(err)
	s.rdb = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})

	store := session.NewRedisStore(s.rdb, 30*time.Minute)
	s.auth = NewAuthService(repository.NewUserRepository(db), NewBcryptHasher(bcrypt.MinCost), store, discardLogger())
}

func (s *RedisSessionSuite) TearDownTest() {
	_ = s.rdb.Close()
	s.mr.Close()
}

func (s *RedisSessionSuite) login(username, password string) string {
	user, err := s.auth.Login(s.ctx, LoginInput{Username: username, Password: password})
	s.Require().NoError(err)
	token, err := s.auth.StartSession(s.ctx, user)
	s.Require().NoError(err)
	return token
}

func (s *RedisSessionSuite) TestDeleteAccountDropsEverySession() {
	_, err := s.auth.Register(s.ctx, RegisterInput{Username: "alice", Password: "secret"})
	s.Require().NoError(err)
	laptop := s.login("alice", "secret")
	phone := s.login("alice", "secret")

	s.ErrorIs(s.auth.DeleteAccount(s.ctx, laptop, "wrong"), ErrWrongPassword)
	_, err = s.auth.Authenticate(s.ctx, phone)
	s.NoError(err)

	s.Require().NoError(s.auth.DeleteAccount(s.ctx, laptop, "secret"))

	_, err = s.auth.Authenticate(s.ctx, laptop)
	s.ErrorIs(err, ErrUnauthenticated)
	_, err = s.auth.Authenticate(s.ctx, phone)
	s.ErrorIs(err, ErrUnauthenticated)
}

func (s *RedisSessionSuite) TestSessionsExpire() {
	_, err := s.auth.Register(s.ctx, RegisterInput{Username: "bob", Password: "pw"})
	s.Require().NoError(err)
	token := s.login("bob", "pw")

	s.mr.FastForward(time.Hour)

	_, err = s.auth.Authenticate(s.ctx, token)
	s.ErrorIs(err, ErrUnauthenticated)
}

func (s *RedisSessionSuite) TestRedisDown() {
	_, err := s.auth.Register(s.ctx, RegisterInput{Username: "carol", Password: "pw"})
	s.Require().NoError(err)
	token := s.login("carol", "pw")

	s.mr.Close()

	_, err = s.auth.Authenticate(s.ctx, token)
	s.ErrorIs(err, ErrStorageUnavailable)
}

func TestRedisSessionSuite(t *testing.T) {
	suite.Run(t, new(RedisSessionSuite))
}
