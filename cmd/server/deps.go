package main

import (
	"context"
	"log/slog"

	"forum/backend/internal/config"
	authdomain "forum/backend/internal/domain/auth"
	"forum/backend/internal/domain/forum"
	"forum/backend/internal/httpserver"
	"forum/backend/internal/infrastructure/memory"
	"forum/backend/internal/infrastructure/password"
	"forum/backend/internal/infrastructure/postgres"
	"forum/backend/internal/infrastructure/token"
	authusecase "forum/backend/internal/usecase/auth"
	categoryusecase "forum/backend/internal/usecase/category"
	commentusecase "forum/backend/internal/usecase/comment"
	threadusecase "forum/backend/internal/usecase/thread"
	userusecase "forum/backend/internal/usecase/user"

	"github.com/samber/oops"
)

// repositories is the storage backing every use case.
type repositories struct {
	users      authdomain.UserRepository
	categories forum.CategoryRepository
	threads    forum.ThreadRepository
	comments   forum.CommentRepository
	ready      httpserver.ReadinessFunc
	close      func()
}

// openRepositories selects the storage driver. Postgres is migrated before
// use.
func openRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) (*repositories, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			users:      store.Users(),
			categories: store.Categories(),
			threads:    store.Threads(),
			comments:   store.Comments(),
			close:      func() {},
		}, nil
	case config.StoragePostgres:
		if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
			return nil, oops.With("operation", "run migrations").Wrap(err)
		}
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &repositories{
			users:      postgres.NewUserRepository(db.Pool),
			categories: postgres.NewCategoryRepository(db.Pool),
			threads:    postgres.NewThreadRepository(db.Pool),
			comments:   postgres.NewCommentRepository(db.Pool),
			ready:      db.Ping,
			close:      db.Close,
		}, nil
	default:
		return nil, oops.Code("CONFIG_INVALID").Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// newServices wires the use cases on top of repos.
func newServices(cfg config.Config, repos *repositories) httpserver.Services {
	hasher := password.NewBcryptHasher(password.DefaultCost)
	tokens := token.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL, cfg.JWTIssuer)

	return httpserver.Services{
		Auth:       authusecase.NewService(repos.users, hasher, tokens),
		Users:      userusecase.NewService(repos.users, hasher),
		Categories: categoryusecase.NewService(repos.categories, repos.threads, repos.comments),
		Threads:    threadusecase.NewService(repos.threads, repos.comments, repos.users, repos.categories),
		Comments:   commentusecase.NewService(repos.comments, repos.threads, repos.users),
	}
}
