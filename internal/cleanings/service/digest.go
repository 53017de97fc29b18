package service

import (
	"context"
	"fmt"
	"time"

	"stayclean_backend/internal/cleanings/transport"
)

// BuildAttentionDigest sweeps bookings whose checkout falls within the
// window around now and collects every reservation with findings. One
// eligibility cache spans the whole sweep, so properties sharing a checkout
// date resolve their teams once.
func (s *Service) BuildAttentionDigest(ctx context.Context, windowDays int) (*transport.AttentionDigest, error) {
	if windowDays <= 0 {
		windowDays = 7
	}

	now := s.now()
	from := now.AddDate(0, 0, -windowDays)
	to := now.AddDate(0, 0, windowDays)

	bookings, err := s.store.ListCheckoutBookings(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkout bookings: %w", err)
	}

	cache := NewEligibilityCache()
	digest := &transport.AttentionDigest{
		GeneratedAt: now.UTC().Truncate(time.Second),
		WindowDays:  windowDays,
		Entries:     []transport.DigestEntry{},
	}

	for _, booking := range bookings {
		result, err := s.DiagnoseReservation(ctx, cache, booking.TenantID, booking.ID)
		if err != nil {
			// One broken booking should not abort the sweep.
			s.log.DiagnosticCheckSkipped("reservation_digest", booking.ID.String(), err)
			continue
		}
		if len(result.Reasons) == 0 {
			continue
		}

		for _, reason := range result.Reasons {
			if reason.Severity == transport.SeverityCritical {
				digest.CriticalCount++
			}
		}

		digest.Entries = append(digest.Entries, transport.DigestEntry{
			BookingID:    booking.ID,
			PropertyID:   booking.PropertyID,
			PropertyName: booking.PropertyName,
			TenantID:     booking.TenantID,
			CheckoutDate: booking.EndDate,
			Reasons:      result.Reasons,
		})
	}

	return digest, nil
}
