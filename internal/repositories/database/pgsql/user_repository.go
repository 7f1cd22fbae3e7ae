package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yomu-app/yomu_backend/internal/apperrors"
	"github.com/yomu-app/yomu_backend/internal/core/domain"
	portsrepo "github.com/yomu-app/yomu_backend/internal/core/ports/repositories"
	"github.com/yomu-app/yomu_backend/internal/dto"
)

type PgxUserRepository struct {
	BaseRepository
}

// newPgxUserRepository creates a new repository for user data.
func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userSelectColumns = `
	u.user_id, u.name, u.email, u.password_hash, u.role, u.major_id, u.class_id,
	u.avatar_url, u.is_active,
	u.created_at, u.created_by, u.last_updated_at, u.last_updated_by, u.deleted_at,
	m.major_id, m.name, m.code,
	cl.class_id, cl.name, cl.major_id`

const userJoins = `
	FROM users u
	LEFT JOIN majors m ON m.major_id = u.major_id
	LEFT JOIN classes cl ON cl.class_id = u.class_id`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var majorID, majorName, majorCode *string
	var classID, className, classMajorID *string

	err := row.Scan(
		&user.UserID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.MajorID, &user.ClassID,
		&user.AvatarURL, &user.IsActive,
		&user.CreatedAt, &user.CreatedBy, &user.LastUpdatedAt, &user.LastUpdatedBy, &user.DeletedAt,
		&majorID, &majorName, &majorCode,
		&classID, &className, &classMajorID,
	)
	if err != nil {
		return nil, err
	}

	if majorID != nil {
		user.Major = &domain.Major{MajorID: *majorID, Name: *majorName, Code: *majorCode}
	}
	if classID != nil {
		user.Class = &domain.Class{ClassID: *classID, Name: *className, MajorID: classMajorID}
	}
	return &user, nil
}

// FindUserByID retrieves a user by ID. Soft-deleted users are not returned.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT` + userSelectColumns + userJoins + ` WHERE u.user_id = $1 AND u.deleted_at IS NULL;`

	user, err := scanUser(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find user by ID "+userID, err)
	}
	return user, nil
}

// FindUserByEmail retrieves a user by email, including inactive users.
// Login needs the inactive row back so it can distinguish "disabled account"
// from "no such account".
func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT` + userSelectColumns + userJoins + ` WHERE u.email = $1 AND u.deleted_at IS NULL;`

	user, err := scanUser(r.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find user by email", err)
	}
	return user, nil
}

// ListUsers retrieves a filtered page of users plus the total matching count.
func (r *PgxUserRepository) ListUsers(ctx context.Context, params dto.ListUsersParams) ([]domain.User, int64, error) {
	filter := []goqu.Expression{goqu.I("u.deleted_at").IsNull()}
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		filter = append(filter, goqu.Or(
			goqu.I("u.name").ILike(pattern),
			goqu.I("u.email").ILike(pattern),
		))
	}
	if params.Role != "" {
		filter = append(filter, goqu.Ex{"u.role": params.Role})
	}

	countSQL, countArgs, err := pgDialect.
		From(goqu.T("users").As("u")).
		Select(goqu.COUNT("*")).
		Where(filter...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to build user count query", err)
	}

	var total int64
	if err := r.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count users", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}

	pageSQL, pageArgs, err := pgDialect.
		From(goqu.T("users").As("u")).
		Select(goqu.L(userSelectColumns)).
		LeftJoin(goqu.T("majors").As("m"), goqu.On(goqu.I("m.major_id").Eq(goqu.I("u.major_id")))).
		LeftJoin(goqu.T("classes").As("cl"), goqu.On(goqu.I("cl.class_id").Eq(goqu.I("u.class_id")))).
		Where(filter...).
		Order(goqu.I("u.name").Asc()).
		Limit(uint(limit)).
		Offset(uint(params.Offset())).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to build user list query", err)
	}

	rows, err := r.Pool.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to list users", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, apperrors.NewAppError(500, "failed to scan user row", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to iterate user rows", err)
	}

	return users, total, nil
}

// SaveUser persists a new user.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (user_id, name, email, password_hash, role, major_id, class_id,
			avatar_url, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		user.UserID, user.Name, user.Email, user.PasswordHash, user.Role, user.MajorID, user.ClassID,
		user.AvatarURL, user.IsActive, user.CreatedAt, user.CreatedBy, user.LastUpdatedAt, user.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save user "+user.UserID, err)
	}
	return nil
}

// UpdateUser updates an existing user's details.
func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	query := `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, role = $5, major_id = $6,
			class_id = $7, avatar_url = $8, is_active = $9,
			last_updated_at = $10, last_updated_by = $11
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	ct, err := r.Pool.Exec(ctx, query,
		user.UserID, user.Name, user.Email, user.PasswordHash, user.Role, user.MajorID,
		user.ClassID, user.AvatarURL, user.IsActive,
		user.LastUpdatedAt, user.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update user "+user.UserID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkUserDeleted marks a user as deleted (soft delete).
func (r *PgxUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time) error {
	query := `UPDATE users SET deleted_at = $2, is_active = FALSE, last_updated_at = $2 WHERE user_id = $1 AND deleted_at IS NULL;`
	ct, err := r.Pool.Exec(ctx, query, userID, deletedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark user deleted "+userID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
