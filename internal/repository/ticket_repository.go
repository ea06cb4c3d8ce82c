package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ErrStaleStatus signals a conditional update that matched no row: the
// ticket's status moved between the caller's read and its write.
var ErrStaleStatus = errors.New("ticket status changed concurrently")

// TicketFilter captures snapshot query parameters.
type TicketFilter struct {
	CreatorID    *string
	DepartmentID *string
	AssigneeID   *string
	Category     *string
	Floor        *string
	Statuses     []domain.TicketStatus
	NeedsTriage  *bool
	Limit        int
	Offset       int
}

// TicketRepository encapsulates ticket persistence. State transitions go
// through UpdateIfStatus only; there is no unconditional status write.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByExternalKey(ctx context.Context, key string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	// UpdateIfStatus applies the ticket's transition-mutable fields only
	// while the stored status still equals expected. Returns ErrStaleStatus
	// when the guard fails.
	UpdateIfStatus(ctx context.Context, ticket *domain.Ticket, expected domain.TicketStatus) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (external_key, creator_user_id, department_id, title, description,
            category, floor, location, status, needs_triage, evidence_before)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.ExternalKey,
		ticket.CreatorID,
		ticket.DepartmentID,
		ticket.Title,
		ticket.Description,
		ticket.Category,
		ticket.Floor,
		ticket.Location,
		ticket.Status,
		ticket.NeedsTriage,
		ticket.EvidenceBefore,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) UpdateIfStatus(ctx context.Context, ticket *domain.Ticket, expected domain.TicketStatus) error {
	const query = `
        UPDATE tickets SET status=$1, assignee_user_id=$2, assigned_at=$3, completed_at=$4,
            evidence_after=$5, completion_notes=$6, reject_reason=$7, updated_at=NOW()
        WHERE id=$8 AND status=$9`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Status,
		ticket.AssigneeID,
		ticket.AssignedAt,
		ticket.CompletedAt,
		ticket.EvidenceAfter,
		ticket.CompletionNotes,
		ticket.RejectReason,
		ticket.ID,
		expected,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStaleStatus
	}
	return nil
}

const ticketColumns = `id, external_key, creator_user_id, department_id, assignee_user_id,
               title, description, category, floor, location, status, needs_triage,
               evidence_before, evidence_after, completion_notes, reject_reason,
               created_at, updated_at, assigned_at, completed_at`

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByExternalKey(ctx context.Context, key string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE external_key=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, key)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := scanTicket(r.pool.QueryRow(ctx, query, arg), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := fmt.Sprintf(`SELECT %s FROM tickets`, ticketColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CreatorID != nil {
		args = append(args, *filter.CreatorID)
		clauses = append(clauses, fmt.Sprintf("creator_user_id=$%d", len(args)))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("department_id=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assignee_user_id=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Floor != nil {
		args = append(args, *filter.Floor)
		clauses = append(clauses, fmt.Sprintf("floor=$%d", len(args)))
	}
	if filter.NeedsTriage != nil {
		args = append(args, *filter.NeedsTriage)
		clauses = append(clauses, fmt.Sprintf("needs_triage=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.ExternalKey,
		&ticket.CreatorID,
		&ticket.DepartmentID,
		&ticket.AssigneeID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Category,
		&ticket.Floor,
		&ticket.Location,
		&ticket.Status,
		&ticket.NeedsTriage,
		&ticket.EvidenceBefore,
		&ticket.EvidenceAfter,
		&ticket.CompletionNotes,
		&ticket.RejectReason,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.AssignedAt,
		&ticket.CompletedAt,
	)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
