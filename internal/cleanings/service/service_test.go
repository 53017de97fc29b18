package service

import (
	"context"
	"errors"
	"time"

	"stayclean_backend/internal/cleanings/repository"
	"stayclean_backend/platform/logger"

	"github.com/google/uuid"
)

// fakeStore implements Store with in-memory fixtures.
type fakeStore struct {
	jobs          map[uuid.UUID]*repository.CleaningJob
	bookings      map[uuid.UUID]*repository.Booking
	jobsByBooking map[uuid.UUID][]repository.CleaningJob
	groupingTeams map[uuid.UUID][]repository.TeamRef
	directTeams   map[uuid.UUID][]repository.TeamRef
	memberships   map[uuid.UUID][]repository.Membership
	checkouts     []repository.Booking

	groupingCalls   int
	directCalls     int
	membershipCalls int

	// fail ListActiveMemberships once more than this many calls have
	// happened; zero disables.
	failMembershipsAfter int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		jobs:          make(map[uuid.UUID]*repository.CleaningJob),
		bookings:      make(map[uuid.UUID]*repository.Booking),
		jobsByBooking: make(map[uuid.UUID][]repository.CleaningJob),
		groupingTeams: make(map[uuid.UUID][]repository.TeamRef),
		directTeams:   make(map[uuid.UUID][]repository.TeamRef),
		memberships:   make(map[uuid.UUID][]repository.Membership),
	}
}

func (f *fakeStore) GetJob(_ context.Context, tenantID, jobID uuid.UUID) (*repository.CleaningJob, error) {
	job, ok := f.jobs[jobID]
	if !ok || job.TenantID != tenantID {
		return nil, errors.New("cleaning job not found")
	}
	return job, nil
}

func (f *fakeStore) GetBooking(_ context.Context, tenantID, bookingID uuid.UUID) (*repository.Booking, error) {
	booking, ok := f.bookings[bookingID]
	if !ok || booking.TenantID != tenantID {
		return nil, errors.New("booking not found")
	}
	return booking, nil
}

func (f *fakeStore) ListJobsByBooking(_ context.Context, _, bookingID uuid.UUID) ([]repository.CleaningJob, error) {
	return f.jobsByBooking[bookingID], nil
}

func (f *fakeStore) ListGroupingTeams(_ context.Context, _, propertyID uuid.UUID) ([]repository.TeamRef, error) {
	f.groupingCalls++
	return f.groupingTeams[propertyID], nil
}

func (f *fakeStore) ListDirectTeams(_ context.Context, _, propertyID uuid.UUID) ([]repository.TeamRef, error) {
	f.directCalls++
	return f.directTeams[propertyID], nil
}

func (f *fakeStore) ListActiveMemberships(_ context.Context, _ uuid.UUID, teamIDs []uuid.UUID) ([]repository.Membership, error) {
	f.membershipCalls++
	if f.failMembershipsAfter > 0 && f.membershipCalls > f.failMembershipsAfter {
		return nil, errors.New("membership query failed")
	}
	items := make([]repository.Membership, 0)
	for _, teamID := range teamIDs {
		items = append(items, f.memberships[teamID]...)
	}
	return items, nil
}

func (f *fakeStore) ListCheckoutBookings(_ context.Context, _, _ time.Time) ([]repository.Booking, error) {
	return f.checkouts, nil
}

// testNow is a Sunday; the Tuesday after it is testNow.AddDate(0, 0, 2).
var testNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

func newTestService(store *fakeStore) *Service {
	svc := New(store, nil, logger.New("development"))
	svc.now = func() time.Time { return testNow }
	return svc
}

func membership(teamID uuid.UUID, teamName, workerName string, dayCodes []string, days []repository.ScheduleDay) repository.Membership {
	return repository.Membership{
		ID:              uuid.New(),
		TeamID:          teamID,
		TeamName:        teamName,
		WorkerID:        uuid.New(),
		WorkerName:      workerName,
		IsActive:        true,
		WorkingDayCodes: dayCodes,
		ScheduleDays:    days,
	}
}
