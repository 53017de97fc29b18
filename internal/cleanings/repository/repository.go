package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stayclean_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CleaningJob represents the cleaning job database model.
// PlannedAt may differ from OriginalPlannedAt when a checkout was moved.
type CleaningJob struct {
	ID                  uuid.UUID  `db:"id"`
	TenantID            uuid.UUID  `db:"tenant_id"`
	BookingID           uuid.UUID  `db:"booking_id"`
	PropertyID          uuid.UUID  `db:"property_id"`
	ScheduledAt         time.Time  `db:"scheduled_at"`
	OriginalScheduledAt time.Time  `db:"original_scheduled_at"`
	Status              string     `db:"status"`
	AssignedWorkerID    *uuid.UUID `db:"assigned_worker_id"`
	AssignedTeamID      *uuid.UUID `db:"assigned_team_id"`
	NeedsAttention      bool       `db:"needs_attention"`
	AttentionReasonCode *string    `db:"attention_reason_code"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

// Booking represents the reservation a cleaning job belongs to.
type Booking struct {
	ID           uuid.UUID `db:"id"`
	TenantID     uuid.UUID `db:"tenant_id"`
	PropertyID   uuid.UUID `db:"property_id"`
	PropertyName string    `db:"property_name"`
	StartDate    time.Time `db:"start_date"`
	EndDate      time.Time `db:"end_date"`
	Status       string    `db:"status"`
}

// Repository provides database operations for cleaning diagnostics.
// All queries are tenant-scoped reads; this module performs no writes.
type Repository struct {
	pool *pgxpool.Pool
}

const jobNotFoundMsg = "cleaning job not found"
const bookingNotFoundMsg = "booking not found"

// New creates a new cleanings repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const jobColumns = `id, tenant_id, booking_id, property_id, scheduled_at, original_scheduled_at,
		status, assigned_worker_id, assigned_team_id, needs_attention, attention_reason_code,
		created_at, updated_at`

func scanJob(row pgx.Row) (*CleaningJob, error) {
	var job CleaningJob
	err := row.Scan(
		&job.ID,
		&job.TenantID,
		&job.BookingID,
		&job.PropertyID,
		&job.ScheduledAt,
		&job.OriginalScheduledAt,
		&job.Status,
		&job.AssignedWorkerID,
		&job.AssignedTeamID,
		&job.NeedsAttention,
		&job.AttentionReasonCode,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// GetJob fetches a single cleaning job scoped to the tenant.
func (r *Repository) GetJob(ctx context.Context, tenantID, jobID uuid.UUID) (*CleaningJob, error) {
	query := `SELECT ` + jobColumns + ` FROM cleaning_jobs WHERE id = $1 AND tenant_id = $2`

	job, err := scanJob(r.pool.QueryRow(ctx, query, jobID, tenantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(jobNotFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cleaning job: %w", err)
	}

	return job, nil
}

// ListJobsByBooking returns all cleaning jobs linked to a booking, oldest first.
func (r *Repository) ListJobsByBooking(ctx context.Context, tenantID, bookingID uuid.UUID) ([]CleaningJob, error) {
	query := `SELECT ` + jobColumns + ` FROM cleaning_jobs
		WHERE booking_id = $1 AND tenant_id = $2 ORDER BY scheduled_at, id`

	rows, err := r.pool.Query(ctx, query, bookingID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cleaning jobs: %w", err)
	}
	defer rows.Close()

	items := make([]CleaningJob, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cleaning job: %w", err)
		}
		items = append(items, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cleaning jobs: %w", err)
	}

	return items, nil
}

// GetBooking fetches a booking with its property name, scoped to the tenant.
func (r *Repository) GetBooking(ctx context.Context, tenantID, bookingID uuid.UUID) (*Booking, error) {
	query := `SELECT b.id, b.tenant_id, b.property_id, p.name, b.start_date, b.end_date, b.status
		FROM bookings b
		JOIN properties p ON p.id = b.property_id
		WHERE b.id = $1 AND b.tenant_id = $2`

	var item Booking
	err := r.pool.QueryRow(ctx, query, bookingID, tenantID).Scan(
		&item.ID,
		&item.TenantID,
		&item.PropertyID,
		&item.PropertyName,
		&item.StartDate,
		&item.EndDate,
		&item.Status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(bookingNotFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &item, nil
}

// ListCheckoutBookings returns confirmed bookings whose checkout falls inside
// the window, across all tenants. Used by the attention digest sweep.
func (r *Repository) ListCheckoutBookings(ctx context.Context, from, to time.Time) ([]Booking, error) {
	query := `SELECT b.id, b.tenant_id, b.property_id, p.name, b.start_date, b.end_date, b.status
		FROM bookings b
		JOIN properties p ON p.id = b.property_id
		WHERE b.status = 'confirmed' AND b.end_date >= $1 AND b.end_date <= $2
		ORDER BY b.end_date, b.id`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkout bookings: %w", err)
	}
	defer rows.Close()

	items := make([]Booking, 0)
	for rows.Next() {
		var item Booking
		if err := rows.Scan(
			&item.ID,
			&item.TenantID,
			&item.PropertyID,
			&item.PropertyName,
			&item.StartDate,
			&item.EndDate,
			&item.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}

	return items, nil
}
