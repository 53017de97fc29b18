// Package service implements the cleaning eligibility and attention
// diagnostic engine. Everything here is a read-only function of fetched
// state; the assignment write path lives outside this module.
package service

import (
	"context"
	"time"

	"stayclean_backend/internal/cleanings/repository"
	"stayclean_backend/platform/logger"

	"github.com/google/uuid"
)

// Store provides the read queries the engine needs. The concrete
// implementation is the cleanings repository; tests supply fakes.
type Store interface {
	GetJob(ctx context.Context, tenantID, jobID uuid.UUID) (*repository.CleaningJob, error)
	GetBooking(ctx context.Context, tenantID, bookingID uuid.UUID) (*repository.Booking, error)
	ListJobsByBooking(ctx context.Context, tenantID, bookingID uuid.UUID) ([]repository.CleaningJob, error)
	ListGroupingTeams(ctx context.Context, tenantID, propertyID uuid.UUID) ([]repository.TeamRef, error)
	ListDirectTeams(ctx context.Context, tenantID, propertyID uuid.UUID) ([]repository.TeamRef, error)
	ListActiveMemberships(ctx context.Context, tenantID uuid.UUID, teamIDs []uuid.UUID) ([]repository.Membership, error)
	ListCheckoutBookings(ctx context.Context, from, to time.Time) ([]repository.Booking, error)
}

// Service provides the diagnostic business logic for cleanings.
type Service struct {
	store   Store
	reasons *ReasonTable
	log     *logger.Logger

	// now is injectable so tests can pin the evaluation date.
	now func() time.Time
}

// New creates a new cleanings service.
func New(store Store, reasons *ReasonTable, log *logger.Logger) *Service {
	if reasons == nil {
		reasons = DefaultReasonTable()
	}
	return &Service{
		store:   store,
		reasons: reasons,
		log:     log,
		now:     time.Now,
	}
}
