package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dhoini/gym-fee-tracker/internal/domain"
	"github.com/Dhoini/gym-fee-tracker/internal/repository"
	"github.com/Dhoini/gym-fee-tracker/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const memberColumns = `id::text, member_id, name, phone, email, payments`

// DB методы пула, которые использует репозиторий; *pgxpool.Pool подходит
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresMemberRepository реализация репозитория участников через PostgreSQL
type PostgresMemberRepository struct {
	db  DB
	log *logger.Logger
}

// NewPostgresMemberRepository создает новый репозиторий участников через PostgreSQL
func NewPostgresMemberRepository(db DB, log *logger.Logger) *PostgresMemberRepository {
	return &PostgresMemberRepository{
		db:  db,
		log: log,
	}
}

func scanMember(row pgx.Row) (domain.Member, error) {
	var member domain.Member
	var paymentsBytes []byte

	err := row.Scan(
		&member.ID,
		&member.MemberID,
		&member.Name,
		&member.Phone,
		&member.Email,
		&paymentsBytes,
	)
	if err != nil {
		return domain.Member{}, err
	}

	if err := json.Unmarshal(paymentsBytes, &member.Payments); err != nil {
		return domain.Member{}, fmt.Errorf("failed to decode payments: %w", err)
	}
	return member, nil
}

// parseID проверяет формат UUID; некорректный ID считается отсутствующим.
func parseID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", repository.ErrNotFound
	}
	return parsed.String(), nil
}

// CanonicalID возвращает UUID в нижнем регистре, как его отдает БД
func (r *PostgresMemberRepository) CanonicalID(id string) (string, error) {
	return parseID(id)
}

// GetAll возвращает всех участников в порядке добавления
func (r *PostgresMemberRepository) GetAll(ctx context.Context) ([]domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	members := []domain.Member{}
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}

	return members, nil
}

// GetByID возвращает участника по ID
func (r *PostgresMemberRepository) GetByID(ctx context.Context, id string) (domain.Member, error) {
	parsed, err := parseID(id)
	if err != nil {
		return domain.Member{}, err
	}

	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`

	member, err := scanMember(r.db.QueryRow(ctx, query, parsed))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Member{}, repository.ErrNotFound
		}
		return domain.Member{}, fmt.Errorf("failed to get member: %w", err)
	}

	return member, nil
}

// Create создает нового участника
func (r *PostgresMemberRepository) Create(ctx context.Context, member domain.Member) (domain.Member, error) {
	paymentsBytes, err := json.Marshal(member.Payments)
	if err != nil {
		return domain.Member{}, fmt.Errorf("failed to encode payments: %w", err)
	}

	query := `
		INSERT INTO members (id, member_id, name, phone, email, payments)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + memberColumns

	created, err := scanMember(r.db.QueryRow(
		ctx,
		query,
		uuid.NewString(),
		member.MemberID,
		member.Name,
		member.Phone,
		member.Email,
		paymentsBytes,
	))
	if err != nil {
		return domain.Member{}, fmt.Errorf("failed to create member: %w", err)
	}

	return created, nil
}

// UpdateDetails обновляет контактные поля участника
func (r *PostgresMemberRepository) UpdateDetails(ctx context.Context, id string, details domain.MemberRequest) (domain.Member, error) {
	parsed, err := parseID(id)
	if err != nil {
		return domain.Member{}, err
	}

	query := `
		UPDATE members
		SET member_id = $1, name = $2, phone = $3, email = $4
		WHERE id = $5
		RETURNING ` + memberColumns

	return r.updateReturning(ctx, query, details.MemberID, details.Name, details.Phone, details.Email, parsed)
}

// UpdatePayments заменяет график платежей участника
func (r *PostgresMemberRepository) UpdatePayments(ctx context.Context, id string, payments []domain.Payment) (domain.Member, error) {
	parsed, err := parseID(id)
	if err != nil {
		return domain.Member{}, err
	}

	paymentsBytes, err := json.Marshal(payments)
	if err != nil {
		return domain.Member{}, fmt.Errorf("failed to encode payments: %w", err)
	}

	query := `UPDATE members SET payments = $1 WHERE id = $2 RETURNING ` + memberColumns

	return r.updateReturning(ctx, query, paymentsBytes, parsed)
}

func (r *PostgresMemberRepository) updateReturning(ctx context.Context, query string, args ...any) (domain.Member, error) {
	member, err := scanMember(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Member{}, repository.ErrNotFound
		}
		return domain.Member{}, fmt.Errorf("failed to update member: %w", err)
	}
	return member, nil
}

// Delete удаляет участника
func (r *PostgresMemberRepository) Delete(ctx context.Context, id string) error {
	parsed, err := parseID(id)
	if err != nil {
		return err
	}

	result, err := r.db.Exec(ctx, `DELETE FROM members WHERE id = $1`, parsed)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}

	if result.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
