package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/admin-console/internal/domain"
)

// StaffRepository handles persistence for staff accounts. Records are never
// physically removed; deletion flips the is_deleted tombstone.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.Staff) error
	Update(ctx context.Context, staff *domain.Staff) error
	GetByID(ctx context.Context, id int64) (*domain.Staff, error)
	GetByUsername(ctx context.Context, username string) (*domain.Staff, error)
	List(ctx context.Context, filter StaffFilter) ([]domain.Staff, int, error)
}

// StaffFilter defines query params for staff listing.
type StaffFilter struct {
	Search    string
	Status    *domain.StaffStatus
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

// sortColumns whitelists sortable columns.
var sortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"username":   "username",
	"created_at": "created_at",
	"createdAt":  "created_at",
	"updated_at": "updated_at",
	"status":     "status",
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const staffColumns = `id, name, username, password_hash, status, is_locked, is_deleted,
        created_at, updated_at, created_by_staff_id, updated_by_staff_id`

func (r *staffRepository) Create(ctx context.Context, staff *domain.Staff) error {
	const query = `
        INSERT INTO staff_accounts (name, username, password_hash, status, is_locked, created_by_staff_id, updated_by_staff_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		staff.Name,
		staff.Username,
		staff.Password,
		staff.Status,
		staff.Locked,
		staff.CreatedByStaffID,
		staff.UpdatedByStaffID,
	).Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
}

func (r *staffRepository) Update(ctx context.Context, staff *domain.Staff) error {
	const query = `
        UPDATE staff_accounts
        SET name=$1, password_hash=$2, status=$3, is_locked=$4, is_deleted=$5, updated_by_staff_id=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`

	if err := r.pool.QueryRow(ctx, query,
		staff.Name,
		staff.Password,
		staff.Status,
		staff.Locked,
		staff.Deleted,
		staff.UpdatedByStaffID,
		staff.ID,
	).Scan(&staff.UpdatedAt); err != nil {
		return err
	}
	return nil
}

func (r *staffRepository) GetByID(ctx context.Context, id int64) (*domain.Staff, error) {
	query := fmt.Sprintf(`SELECT %s FROM staff_accounts WHERE id=$1`, staffColumns)
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *staffRepository) GetByUsername(ctx context.Context, username string) (*domain.Staff, error) {
	query := fmt.Sprintf(`SELECT %s FROM staff_accounts WHERE username=$1 AND is_deleted=FALSE`, staffColumns)
	return r.scanOne(r.pool.QueryRow(ctx, query, username))
}

func (r *staffRepository) List(ctx context.Context, filter StaffFilter) ([]domain.Staff, int, error) {
	clauses := []string{"is_deleted=FALSE"}
	args := []any{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR username ILIKE $%d)", len(args), len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	where := " WHERE " + strings.Join(clauses, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM staff_accounts"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	order := "ASC"
	if strings.EqualFold(filter.SortOrder, "desc") {
		order = "DESC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM staff_accounts%s ORDER BY %s %s LIMIT %d OFFSET %d`,
		staffColumns, where, column, order, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Staff
	for rows.Next() {
		staff, err := scanStaff(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *staff)
	}
	return result, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *staffRepository) scanOne(row pgx.Row) (*domain.Staff, error) {
	return scanStaff(row)
}

func scanStaff(row rowScanner) (*domain.Staff, error) {
	var staff domain.Staff
	if err := row.Scan(
		&staff.ID,
		&staff.Name,
		&staff.Username,
		&staff.Password,
		&staff.Status,
		&staff.Locked,
		&staff.Deleted,
		&staff.CreatedAt,
		&staff.UpdatedAt,
		&staff.CreatedByStaffID,
		&staff.UpdatedByStaffID,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}
