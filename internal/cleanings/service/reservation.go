package service

import (
	"context"

	"stayclean_backend/internal/cleanings/repository"
	"stayclean_backend/internal/cleanings/transport"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DiagnoseReservation aggregates attention findings across every cleaning
// job of a booking, plus the booking-level checks no single job can see.
// Cancelled bookings always diagnose clean. Job diagnoses run concurrently
// but the result keeps the jobs' chronological order.
func (s *Service) DiagnoseReservation(ctx context.Context, cache *EligibilityCache, tenantID, bookingID uuid.UUID) (*transport.ReservationAttentionResponse, error) {
	booking, err := s.store.GetBooking(ctx, tenantID, bookingID)
	if err != nil {
		return nil, err
	}

	resp := &transport.ReservationAttentionResponse{
		BookingID: booking.ID,
		Reasons:   []transport.ReservationReason{},
	}

	if booking.Status == string(transport.BookingStatusCancelled) {
		return resp, nil
	}

	jobs, err := s.store.ListJobsByBooking(ctx, tenantID, bookingID)
	if err != nil {
		return nil, err
	}

	active := make([]repository.CleaningJob, 0, len(jobs))
	nonTerminal := 0
	for _, job := range jobs {
		if job.Status == string(transport.CleaningStatusCancelled) {
			continue
		}
		active = append(active, job)
		if !transport.CleaningStatus(job.Status).IsTerminal() {
			nonTerminal++
		}
	}

	if len(active) == 0 {
		if booking.Status == string(transport.BookingStatusConfirmed) && booking.EndDate.Before(s.now()) {
			resp.Reasons = append(resp.Reasons, transport.ReservationReason{
				Reason: transport.Reason{
					Code:     transport.CodeNoCleaningForCheckout,
					Title:    "No cleaning scheduled for this checkout",
					Detail:   "The booking has checked out but no cleaning job exists for it.",
					Severity: transport.SeverityCritical,
				},
			})
		}
		return resp, nil
	}

	perJob := make([][]transport.Reason, len(active))
	g, gctx := errgroup.WithContext(ctx)
	for i, job := range active {
		g.Go(func() error {
			reasons, err := s.DiagnoseJob(gctx, cache, &job)
			if err != nil {
				return err
			}
			perJob[i] = reasons
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, job := range active {
		for _, reason := range perJob[i] {
			jobID := job.ID
			jobDate := job.ScheduledAt
			resp.Reasons = append(resp.Reasons, transport.ReservationReason{
				Reason:         reason,
				RelatedJobID:   &jobID,
				RelatedJobDate: &jobDate,
			})
		}
	}

	// Two open cleanings for one stay means the reschedule path left a
	// duplicate behind. Reported once at booking level.
	if nonTerminal > 1 {
		resp.Reasons = append(resp.Reasons, transport.ReservationReason{
			Reason: transport.Reason{
				Code:     transport.CodeDuplicateActiveCleaning,
				Title:    "Multiple active cleanings for one booking",
				Detail:   "More than one open cleaning job exists for this booking.",
				Severity: transport.SeverityCritical,
			},
		})
	}

	return resp, nil
}
