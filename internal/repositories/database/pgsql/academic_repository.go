package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yomu-app/yomu_backend/internal/apperrors"
	"github.com/yomu-app/yomu_backend/internal/core/domain"
	portsrepo "github.com/yomu-app/yomu_backend/internal/core/ports/repositories"
)

// PgxMajorRepository stores study programs.
type PgxMajorRepository struct {
	BaseRepository
}

func newPgxMajorRepository(pool *pgxpool.Pool) portsrepo.MajorRepositoryFacade {
	return &PgxMajorRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.MajorRepositoryFacade = (*PgxMajorRepository)(nil)

func (r *PgxMajorRepository) FindMajorByID(ctx context.Context, majorID string) (*domain.Major, error) {
	query := `
		SELECT major_id, name, code, created_at, created_by, last_updated_at, last_updated_by
		FROM majors WHERE major_id = $1;
	`
	var m domain.Major
	err := r.Pool.QueryRow(ctx, query, majorID).Scan(
		&m.MajorID, &m.Name, &m.Code, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find major by ID "+majorID, err)
	}
	return &m, nil
}

func (r *PgxMajorRepository) ListMajors(ctx context.Context) ([]domain.Major, error) {
	query := `
		SELECT major_id, name, code, created_at, created_by, last_updated_at, last_updated_by
		FROM majors ORDER BY name ASC;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list majors", err)
	}
	defer rows.Close()

	var majors []domain.Major
	for rows.Next() {
		var m domain.Major
		if err := rows.Scan(&m.MajorID, &m.Name, &m.Code, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan major row", err)
		}
		majors = append(majors, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate major rows", err)
	}
	return majors, nil
}

func (r *PgxMajorRepository) SaveMajor(ctx context.Context, major domain.Major) error {
	query := `
		INSERT INTO majors (major_id, name, code, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		major.MajorID, major.Name, major.Code,
		major.CreatedAt, major.CreatedBy, major.LastUpdatedAt, major.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save major "+major.MajorID, err)
	}
	return nil
}

func (r *PgxMajorRepository) UpdateMajor(ctx context.Context, major domain.Major) error {
	query := `
		UPDATE majors SET name = $2, code = $3, last_updated_at = $4, last_updated_by = $5
		WHERE major_id = $1;
	`
	ct, err := r.Pool.Exec(ctx, query, major.MajorID, major.Name, major.Code, major.LastUpdatedAt, major.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update major "+major.MajorID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxMajorRepository) DeleteMajor(ctx context.Context, majorID string) error {
	ct, err := r.Pool.Exec(ctx, `DELETE FROM majors WHERE major_id = $1;`, majorID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete major "+majorID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountMajorReferences counts users and classes still pointing at the major.
func (r *PgxMajorRepository) CountMajorReferences(ctx context.Context, majorID string) (int64, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE major_id = $1 AND deleted_at IS NULL) +
			(SELECT COUNT(*) FROM classes WHERE major_id = $1);
	`
	var count int64
	if err := r.Pool.QueryRow(ctx, query, majorID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count major references "+majorID, err)
	}
	return count, nil
}

// PgxClassRepository stores homeroom classes.
type PgxClassRepository struct {
	BaseRepository
}

func newPgxClassRepository(pool *pgxpool.Pool) portsrepo.ClassRepositoryFacade {
	return &PgxClassRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ClassRepositoryFacade = (*PgxClassRepository)(nil)

func (r *PgxClassRepository) FindClassByID(ctx context.Context, classID string) (*domain.Class, error) {
	query := `
		SELECT class_id, name, major_id, created_at, created_by, last_updated_at, last_updated_by
		FROM classes WHERE class_id = $1;
	`
	var c domain.Class
	err := r.Pool.QueryRow(ctx, query, classID).Scan(
		&c.ClassID, &c.Name, &c.MajorID, &c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find class by ID "+classID, err)
	}
	return &c, nil
}

func (r *PgxClassRepository) ListClasses(ctx context.Context) ([]domain.Class, error) {
	query := `
		SELECT class_id, name, major_id, created_at, created_by, last_updated_at, last_updated_by
		FROM classes ORDER BY name ASC;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list classes", err)
	}
	defer rows.Close()

	var classes []domain.Class
	for rows.Next() {
		var c domain.Class
		if err := rows.Scan(&c.ClassID, &c.Name, &c.MajorID, &c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan class row", err)
		}
		classes = append(classes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate class rows", err)
	}
	return classes, nil
}

func (r *PgxClassRepository) SaveClass(ctx context.Context, class domain.Class) error {
	query := `
		INSERT INTO classes (class_id, name, major_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		class.ClassID, class.Name, class.MajorID,
		class.CreatedAt, class.CreatedBy, class.LastUpdatedAt, class.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save class "+class.ClassID, err)
	}
	return nil
}

func (r *PgxClassRepository) UpdateClass(ctx context.Context, class domain.Class) error {
	query := `
		UPDATE classes SET name = $2, major_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE class_id = $1;
	`
	ct, err := r.Pool.Exec(ctx, query, class.ClassID, class.Name, class.MajorID, class.LastUpdatedAt, class.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update class "+class.ClassID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxClassRepository) DeleteClass(ctx context.Context, classID string) error {
	ct, err := r.Pool.Exec(ctx, `DELETE FROM classes WHERE class_id = $1;`, classID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete class "+classID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountClassMembers counts users still assigned to the class.
func (r *PgxClassRepository) CountClassMembers(ctx context.Context, classID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM users WHERE class_id = $1 AND deleted_at IS NULL;`
	if err := r.Pool.QueryRow(ctx, query, classID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count class members "+classID, err)
	}
	return count, nil
}
