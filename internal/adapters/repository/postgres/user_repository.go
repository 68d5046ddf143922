package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/user-sync-service/internal/domain"
	"github.com/jsamuelsen/user-sync-service/internal/ports"
)

const instrumentationName = "github.com/jsamuelsen/user-sync-service/internal/adapters/repository/postgres"

// uniqueViolation is the SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

const (
	selectUserByID = `
        SELECT id, name, email, gender, status
        FROM users WHERE id = $1`

	selectAllUsers = `
        SELECT id, name, email, gender, status
        FROM users ORDER BY id`

	countUsers = `SELECT COUNT(*) FROM users`

	insertUser = `
        INSERT INTO users (name, email, gender, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	upsertUser = `
        INSERT INTO users (id, name, email, gender, status)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id) DO UPDATE
        SET name = EXCLUDED.name,
            email = EXCLUDED.email,
            gender = EXCLUDED.gender,
            status = EXCLUDED.status,
            updated_at = NOW()
        RETURNING id`

	// advanceIdentity moves the identity past explicitly written ids so
	// later store-assigned ids cannot collide with imported ones.
	advanceIdentity = `
        SELECT setval(pg_get_serial_sequence('users', 'id'), COALESCE(MAX(id), 0) + 1, false)
        FROM users`

	deleteUserByID = `DELETE FROM users WHERE id = $1`

	deleteAllUsers = `DELETE FROM users`
)

// Compile-time interface checks.
var (
	_ ports.UserRepository = (*UserRepository)(nil)
	_ ports.HealthChecker  = (*UserRepository)(nil)
)

// UserRepository stores users in the users table.
type UserRepository struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
}

// NewUserRepository returns a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		pool:   pool,
		tracer: otel.Tracer(instrumentationName),
	}
}

// FindByID implements ports.UserFinder.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (user *domain.User, err error) {
	ctx, span := r.startSpan(ctx, "users.FindByID", "SELECT")
	defer func() { endSpan(span, err) }()

	user, err = scanUser(r.pool.QueryRow(ctx, selectUserByID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.UserNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("finding user %d: %w", id, err)
	}

	return user, nil
}

// FindAll implements ports.UserRepository.
func (r *UserRepository) FindAll(ctx context.Context) (users []*domain.User, err error) {
	ctx, span := r.startSpan(ctx, "users.FindAll", "SELECT")
	defer func() { endSpan(span, err) }()

	rows, err := r.pool.Query(ctx, selectAllUsers)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users = make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}

		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows", len(users)))

	return users, nil
}

// Count implements ports.UserRepository.
func (r *UserRepository) Count(ctx context.Context) (n int64, err error) {
	ctx, span := r.startSpan(ctx, "users.Count", "SELECT")
	defer func() { endSpan(span, err) }()

	if err := r.pool.QueryRow(ctx, countUsers).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}

	return n, nil
}

// Save implements ports.UserRepository.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) (saved *domain.User, err error) {
	ctx, span := r.startSpan(ctx, "users.Save", "INSERT")
	defer func() { endSpan(span, err) }()

	saved = copyUser(user)

	if user.ID == 0 {
		err = r.pool.QueryRow(ctx, insertUser, user.Name, user.Email, string(user.Gender), string(user.Status)).Scan(&saved.ID)
		if err != nil {
			return nil, mapWriteError(err, saved)
		}

		return saved, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, upsertUser, user.ID, user.Name, user.Email, string(user.Gender), string(user.Status)).Scan(&saved.ID)
	if err != nil {
		return nil, mapWriteError(err, saved)
	}

	if _, err := tx.Exec(ctx, advanceIdentity); err != nil {
		return nil, fmt.Errorf("advancing user id sequence: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing user %d: %w", saved.ID, err)
	}

	return saved, nil
}

// SaveAll implements ports.UserRepository. All users are written in one
// transaction; nothing is stored if any write fails.
func (r *UserRepository) SaveAll(ctx context.Context, users []*domain.User) (n int, err error) {
	ctx, span := r.startSpan(ctx, "users.SaveAll", "INSERT")
	defer func() { endSpan(span, err) }()

	span.SetAttributes(attribute.Int("db.batch_size", len(users)))

	if len(users) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, u := range users {
		if u.ID == 0 {
			batch.Queue(insertUser, u.Name, u.Email, string(u.Gender), string(u.Status))
		} else {
			batch.Queue(upsertUser, u.ID, u.Name, u.Email, string(u.Gender), string(u.Status))
		}
	}
	batch.Queue(advanceIdentity)

	results := tx.SendBatch(ctx, batch)
	for _, u := range users {
		var id int64
		if err := results.QueryRow().Scan(&id); err != nil {
			_ = results.Close()
			return 0, mapWriteError(err, u)
		}
	}

	if _, err := results.Exec(); err != nil {
		_ = results.Close()
		return 0, fmt.Errorf("advancing user id sequence: %w", err)
	}

	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("closing batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing users: %w", err)
	}

	return len(users), nil
}

// DeleteByID implements ports.UserRepository.
func (r *UserRepository) DeleteByID(ctx context.Context, id int64) (err error) {
	ctx, span := r.startSpan(ctx, "users.DeleteByID", "DELETE")
	defer func() { endSpan(span, err) }()

	cmd, err := r.pool.Exec(ctx, deleteUserByID, id)
	if err != nil {
		return fmt.Errorf("deleting user %d: %w", id, err)
	}

	if cmd.RowsAffected() == 0 {
		return domain.UserNotFound(id)
	}

	return nil
}

// DeleteAll implements ports.UserRepository.
func (r *UserRepository) DeleteAll(ctx context.Context) (err error) {
	ctx, span := r.startSpan(ctx, "users.DeleteAll", "DELETE")
	defer func() { endSpan(span, err) }()

	cmd, err := r.pool.Exec(ctx, deleteAllUsers)
	if err != nil {
		return fmt.Errorf("deleting users: %w", err)
	}

	span.SetAttributes(attribute.Int64("db.rows", cmd.RowsAffected()))

	return nil
}

// Name implements ports.HealthChecker.
func (r *UserRepository) Name() string {
	return "postgres"
}

// Check implements ports.HealthChecker.
func (r *UserRepository) Check(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *UserRepository) startSpan(ctx context.Context, name, operation string) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", operation),
			attribute.String("db.sql.table", "users"),
		),
	)
}

func endSpan(span trace.Span, err error) {
	if err != nil && !domain.IsNotFound(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	span.End()
}

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u              domain.User
		gender, status string
	)

	if err := row.Scan(&u.ID, &u.Name, &u.Email, &gender, &status); err != nil {
		return nil, err
	}

	u.Gender = domain.Gender(gender)
	u.Status = domain.Status(status)

	return &u, nil
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

// mapWriteError translates constraint violations into domain conflicts.
func mapWriteError(err error, u *domain.User) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.NewConflictErrorWithDetails("user", "already exists", pgErr.ConstraintName)
	}

	return fmt.Errorf("saving user %s: %w", strconv.FormatInt(u.ID, 10), err)
}
