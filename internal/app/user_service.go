package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jsamuelsen/user-sync-service/internal/domain"
	"github.com/jsamuelsen/user-sync-service/internal/platform/telemetry"
	"github.com/jsamuelsen/user-sync-service/internal/ports"
)

// defaultSourceName labels import metrics when no source name is configured.
const defaultSourceName = "gorest"

// UserService orchestrates user storage and imports from the remote source.
type UserService struct {
	repo       ports.UserRepository
	source     ports.UserSource
	flags      ports.FeatureFlags
	validator  *UserValidator
	executor   *Executor
	metrics    *telemetry.SyncMetrics
	sourceName string
	logger     *slog.Logger
}

// UserServiceConfig holds dependencies for UserService.
type UserServiceConfig struct {
	Repository ports.UserRepository
	Source     ports.UserSource

	// Flags is optional; when nil every flag evaluates to its default.
	Flags ports.FeatureFlags

	// Metrics is optional.
	Metrics *telemetry.SyncMetrics

	// SourceName labels import metrics and logs. Defaults to "gorest".
	SourceName string

	Logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(cfg UserServiceConfig) *UserService {
	if cfg.Repository == nil {
		panic("user repository is required")
	}

	if cfg.Source == nil {
		panic("user source is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sourceName := cfg.SourceName
	if sourceName == "" {
		sourceName = defaultSourceName
	}

	return &UserService{
		repo:       cfg.Repository,
		source:     cfg.Source,
		flags:      cfg.Flags,
		validator:  NewUserValidator(cfg.Repository, logger),
		executor:   NewExecutor(logger),
		metrics:    cfg.Metrics,
		sourceName: sourceName,
		logger:     logger,
	}
}

// GetUser returns the stored user with the given id.
func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// ListUsers returns every stored user ordered by id.
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.FindAll(ctx)
}

// DeleteUser removes a stored user and returns it as it was before deletion.
func (s *UserService) DeleteUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.repo.DeleteByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordDeleted(ctx, 1)
	s.logger.InfoContext(ctx, "user deleted", slog.Int64("user_id", id))

	return user, nil
}

// DeleteAllUsers removes every stored user and returns how many there were.
func (s *UserService) DeleteAllUsers(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}

	err = s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("deleting users: %w", err)
	}

	s.metrics.RecordDeleted(ctx, count)
	s.logger.InfoContext(ctx, "all users deleted", slog.Int64("count", count))

	return count, nil
}

// ImportUser fetches one user from the remote source and stores it under its remote id.
func (s *UserService) ImportUser(ctx context.Context, id int64) (*domain.User, error) {
	op := Operation[int64, *domain.User, *domain.User, *domain.User]{
		Name: "import_user",
		Validate: func(_ context.Context, id int64) error {
			if id <= 0 {
				return domain.NewValidationErrorWithValue(FieldID, strconv.FormatInt(id, 10)+" is not a valid ID", id)
			}

			return nil
		},
		Perform: func(ctx context.Context, id int64) (*domain.User, error) {
			return s.source.FetchUser(ctx, id)
		},
		Verify: func(ctx context.Context, id int64, fetched *domain.User) (*domain.User, error) {
			if fetched == nil {
				return nil, domain.UserNotFound(id)
			}

			if fetched.ID != id {
				return nil, domain.NewUnavailableError(s.sourceName,
					fmt.Sprintf("requested user %d but received user %d", id, fetched.ID))
			}

			if s.validateImports(ctx) {
				errs := s.validator.Validate(ctx, domain.InputFromUser(fetched), false)
				if errs.HasErrors() {
					return nil, errs
				}
			}

			return fetched, nil
		},
		Archive: func(ctx context.Context, _ int64, verified *domain.User) (*domain.User, error) {
			return s.repo.Save(ctx, verified)
		},
		Respond: func(ctx context.Context, _ int64, saved *domain.User) (*domain.User, error) {
			s.metrics.RecordImported(ctx, s.sourceName, 1)

			return saved, nil
		},
	}

	return Execute(ctx, s.executor, op, id)
}

// ImportAllUsers fetches every remote page and stores the users in one batch.
// It returns the number of users saved.
func (s *UserService) ImportAllUsers(ctx context.Context) (int, error) {
	users, err := s.source.FetchAllUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetching users from %s: %w", s.sourceName, err)
	}

	if s.validateImports(ctx) {
		users = s.filterValid(ctx, users)
	}

	saved, err := s.repo.SaveAll(ctx, users)
	if err != nil {
		return 0, fmt.Errorf("saving imported users: %w", err)
	}

	s.metrics.RecordImported(ctx, s.sourceName, saved)
	s.logger.InfoContext(ctx, "users imported",
		slog.String("source", s.sourceName),
		slog.Int("count", saved),
	)

	return saved, nil
}

// CreateUser validates and stores a new user. Any supplied id is ignored;
// the store assigns one.
func (s *UserService) CreateUser(ctx context.Context, in *domain.UserInput) (*domain.User, error) {
	errs := s.validator.Validate(ctx, in, false)
	if errs.HasErrors() {
		return nil, errs
	}

	user := in.ToUser()
	user.ID = 0

	return s.repo.Save(ctx, user)
}

// UpdateUser validates and replaces an existing user.
func (s *UserService) UpdateUser(ctx context.Context, in *domain.UserInput) (*domain.User, error) {
	errs := s.validator.Validate(ctx, in, true)
	if errs.HasErrors() {
		return nil, errs
	}

	return s.repo.Save(ctx, in.ToUser())
}

func (s *UserService) validateImports(ctx context.Context) bool {
	if s.flags == nil {
		return true
	}

	return s.flags.IsEnabled(ctx, ports.FlagValidateImports, true)
}

// filterValid drops remote users that fail field validation.
func (s *UserService) filterValid(ctx context.Context, users []*domain.User) []*domain.User {
	valid := make([]*domain.User, 0, len(users))

	for _, u := range users {
		errs := s.validator.Validate(ctx, domain.InputFromUser(u), false)
		if errs.HasErrors() {
			s.logger.WarnContext(ctx, "skipping invalid remote user",
				slog.Int64("user_id", u.ID),
				slog.Any("fields", errs.Fields()),
			)

			continue
		}

		valid = append(valid, u)
	}

	if skipped := len(users) - len(valid); skipped > 0 {
		s.metrics.RecordSkipped(ctx, s.sourceName, skipped)
	}

	return valid
}
