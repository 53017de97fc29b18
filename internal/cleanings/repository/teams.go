package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// TeamRef identifies a team eligible to execute work at a property.
type TeamRef struct {
	ID   uuid.UUID `db:"id"`
	Name string    `db:"name"`
}

// ScheduleDay is one explicit per-weekday availability row for a membership.
// Weekday uses time.Weekday numbering (0=Sunday .. 6=Saturday).
type ScheduleDay struct {
	Weekday   int  `db:"weekday"`
	IsWorking bool `db:"is_working"`
}

// Membership is a worker's membership in a team, with both schedule models:
// explicit ScheduleDays rows and the legacy WorkingDayCodes list. Memberships
// created before the schedule migration may carry neither.
type Membership struct {
	ID              uuid.UUID `db:"id"`
	TeamID          uuid.UUID `db:"team_id"`
	TeamName        string    `db:"team_name"`
	WorkerID        uuid.UUID `db:"worker_id"`
	WorkerName      string    `db:"worker_name"`
	WorkerPhone     string    `db:"worker_phone"`
	IsActive        bool      `db:"is_active"`
	WorkingDayCodes []string  `db:"working_day_codes"`
	ScheduleDays    []ScheduleDay
}

// ListGroupingTeams resolves teams reachable through the grouping chain:
// property -> grouping -> executor(team), counting only active executors.
// Executor status is independent of team status by design.
func (r *Repository) ListGroupingTeams(ctx context.Context, tenantID, propertyID uuid.UUID) ([]TeamRef, error) {
	query := `SELECT DISTINCT t.id, t.name
		FROM property_grouping_links pgl
		JOIN grouping_executors ge ON ge.grouping_id = pgl.grouping_id
		JOIN teams t ON t.id = ge.team_id
		WHERE pgl.property_id = $1 AND t.tenant_id = $2 AND ge.status = 'active'
		ORDER BY t.id`

	return r.queryTeams(ctx, query, propertyID, tenantID)
}

// ListDirectTeams resolves teams via the legacy direct property-team link,
// additionally filtered to active teams.
func (r *Repository) ListDirectTeams(ctx context.Context, tenantID, propertyID uuid.UUID) ([]TeamRef, error) {
	query := `SELECT DISTINCT t.id, t.name
		FROM property_team_links ptl
		JOIN teams t ON t.id = ptl.team_id
		WHERE ptl.property_id = $1 AND t.tenant_id = $2 AND t.status = 'active'
		ORDER BY t.id`

	return r.queryTeams(ctx, query, propertyID, tenantID)
}

func (r *Repository) queryTeams(ctx context.Context, query string, args ...interface{}) ([]TeamRef, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	items := make([]TeamRef, 0)
	for rows.Next() {
		var item TeamRef
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate teams: %w", err)
	}

	return items, nil
}

// ListActiveMemberships loads active memberships for the given teams,
// including worker info and both schedule models.
func (r *Repository) ListActiveMemberships(ctx context.Context, tenantID uuid.UUID, teamIDs []uuid.UUID) ([]Membership, error) {
	if len(teamIDs) == 0 {
		return []Membership{}, nil
	}

	query := `SELECT m.id, m.team_id, t.name, m.worker_id, w.name, COALESCE(w.phone, ''),
			m.is_active, COALESCE(m.working_day_codes, '{}')
		FROM team_memberships m
		JOIN teams t ON t.id = m.team_id
		JOIN workers w ON w.id = m.worker_id
		WHERE m.team_id = ANY($1) AND t.tenant_id = $2 AND m.is_active = TRUE
		ORDER BY t.id, w.name, m.id`

	rows, err := r.pool.Query(ctx, query, teamIDs, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	items := make([]Membership, 0)
	byID := make(map[uuid.UUID]int)
	for rows.Next() {
		var item Membership
		if err := rows.Scan(
			&item.ID,
			&item.TeamID,
			&item.TeamName,
			&item.WorkerID,
			&item.WorkerName,
			&item.WorkerPhone,
			&item.IsActive,
			&item.WorkingDayCodes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		byID[item.ID] = len(items)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memberships: %w", err)
	}

	if len(items) == 0 {
		return items, nil
	}

	membershipIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		membershipIDs = append(membershipIDs, item.ID)
	}

	dayQuery := `SELECT membership_id, weekday, is_working
		FROM membership_schedule_days
		WHERE membership_id = ANY($1)
		ORDER BY membership_id, weekday`

	dayRows, err := r.pool.Query(ctx, dayQuery, membershipIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule days: %w", err)
	}
	defer dayRows.Close()

	for dayRows.Next() {
		var membershipID uuid.UUID
		var day ScheduleDay
		if err := dayRows.Scan(&membershipID, &day.Weekday, &day.IsWorking); err != nil {
			return nil, fmt.Errorf("failed to scan schedule day: %w", err)
		}
		if idx, ok := byID[membershipID]; ok {
			items[idx].ScheduleDays = append(items[idx].ScheduleDays, day)
		}
	}
	if err := dayRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedule days: %w", err)
	}

	return items, nil
}
