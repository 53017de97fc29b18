package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"stayclean_backend/internal/cleanings/repository"
	"stayclean_backend/internal/cleanings/transport"
	"stayclean_backend/platform/phone"

	"github.com/google/uuid"
)

// eligibilityKey is an exact-match cache key: same tenant, same property,
// same calendar day. Anything coarser would leak results across tenants or
// dates.
type eligibilityKey struct {
	tenantID   uuid.UUID
	propertyID uuid.UUID
	day        string
}

// EligibilityCache memoizes eligible-worker resolutions within a single
// request. Callers construct one per request and pass it down; there is no
// cross-request sharing. Safe for concurrent use.
type EligibilityCache struct {
	mu      sync.Mutex
	entries map[eligibilityKey][]transport.WorkerRef
	hits    int
	misses  int
}

// NewEligibilityCache creates an empty per-request cache.
func NewEligibilityCache() *EligibilityCache {
	return &EligibilityCache{
		entries: make(map[eligibilityKey][]transport.WorkerRef),
	}
}

func (c *EligibilityCache) get(key eligibilityKey) ([]transport.WorkerRef, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	workers, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return workers, ok
}

func (c *EligibilityCache) put(key eligibilityKey, workers []transport.WorkerRef) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = workers
}

// Stats returns the hit/miss counters, for observability and tests.
func (c *EligibilityCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// EligibleWorkers resolves the candidate workers for a cleaning at the
// property on the scheduled date: members of the effective team set whose
// schedule covers that day, deduplicated by worker id. The underlying
// queries join teams, memberships and schedules, so results are memoized in
// the per-request cache when one is supplied; a nil cache disables
// memoization.
func (s *Service) EligibleWorkers(ctx context.Context, cache *EligibilityCache, tenantID, propertyID uuid.UUID, scheduledAt time.Time) ([]transport.WorkerRef, error) {
	key := eligibilityKey{
		tenantID:   tenantID,
		propertyID: propertyID,
		day:        scheduledAt.Format("2006-01-02"),
	}

	if cache != nil {
		if workers, ok := cache.get(key); ok {
			return workers, nil
		}
	}

	teams, err := s.EffectiveTeams(ctx, tenantID, propertyID)
	if err != nil {
		return nil, err
	}

	memberships, err := s.membershipsForTeams(ctx, tenantID, teams)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(memberships))
	workers := make([]transport.WorkerRef, 0, len(memberships))
	for _, m := range memberships {
		if !WorksOn(m, scheduledAt) {
			continue
		}
		// A worker reachable through multiple teams counts once.
		if _, ok := seen[m.WorkerID]; ok {
			continue
		}
		seen[m.WorkerID] = struct{}{}
		workers = append(workers, transport.WorkerRef{
			ID:       m.WorkerID,
			Name:     m.WorkerName,
			Phone:    phone.NormalizeE164(m.WorkerPhone),
			TeamID:   m.TeamID,
			TeamName: m.TeamName,
		})
	}

	if cache != nil {
		cache.put(key, workers)
	}

	return workers, nil
}

func (s *Service) membershipsForTeams(ctx context.Context, tenantID uuid.UUID, teams []repository.TeamRef) ([]repository.Membership, error) {
	if len(teams) == 0 {
		return []repository.Membership{}, nil
	}

	teamIDs := make([]uuid.UUID, 0, len(teams))
	for _, team := range teams {
		teamIDs = append(teamIDs, team.ID)
	}

	memberships, err := s.store.ListActiveMemberships(ctx, tenantID, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load memberships: %w", err)
	}
	return memberships, nil
}

// EligibleWorkersForJob resolves eligibility for a specific job, fetching the
// job first so handlers only need the id. A non-nil at overrides the job's
// scheduled date, for what-if checks before rescheduling.
func (s *Service) EligibleWorkersForJob(ctx context.Context, cache *EligibilityCache, tenantID, jobID uuid.UUID, at *time.Time) (*transport.EligibleWorkersResponse, error) {
	job, err := s.store.GetJob(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}

	scheduledAt := job.ScheduledAt
	if at != nil {
		scheduledAt = *at
	}

	workers, err := s.EligibleWorkers(ctx, cache, tenantID, job.PropertyID, scheduledAt)
	if err != nil {
		return nil, err
	}

	return &transport.EligibleWorkersResponse{
		JobID:       job.ID,
		ScheduledAt: scheduledAt,
		Workers:     workers,
	}, nil
}
