package service

import (
	"context"
	"testing"

	"stayclean_backend/internal/cleanings/repository"
	"stayclean_backend/internal/cleanings/transport"

	"github.com/google/uuid"
)

func confirmedBooking(tenantID, propertyID uuid.UUID) *repository.Booking {
	return &repository.Booking{
		ID:           uuid.New(),
		TenantID:     tenantID,
		PropertyID:   propertyID,
		PropertyName: "Seaside Loft",
		StartDate:    testNow.AddDate(0, 0, -5),
		EndDate:      testNow.AddDate(0, 0, -1),
		Status:       string(transport.BookingStatusConfirmed),
	}
}

func TestDiagnoseReservation_CancelledBookingIsClean(t *testing.T) {
	store := newFakeStore()
	tenantID := uuid.New()
	booking := confirmedBooking(tenantID, uuid.New())
	booking.Status = string(transport.BookingStatusCancelled)
	store.bookings[booking.ID] = booking

	svc := newTestService(store)
	resp, err := svc.DiagnoseReservation(context.Background(), nil, tenantID, booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Reasons) != 0 {
		t.Fatalf("expected no reasons for cancelled booking, got %d", len(resp.Reasons))
	}
}

func TestDiagnoseReservation_MissingCleaningForPastCheckout(t *testing.T) {
	store := newFakeStore()
	tenantID := uuid.New()
	booking := confirmedBooking(tenantID, uuid.New())
	store.bookings[booking.ID] = booking

	svc := newTestService(store)
	resp, err := svc.DiagnoseReservation(context.Background(), nil, tenantID, booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Reasons) != 1 || resp.Reasons[0].Code != transport.CodeNoCleaningForCheckout {
		t.Fatalf("expected no_cleaning_for_checkout, got %+v", resp.Reasons)
	}
	if resp.Reasons[0].RelatedJobID != nil {
		t.Fatal("expected booking-level finding to carry no job reference")
	}
}

func TestDiagnoseReservation_FutureCheckoutWithoutJobsIsClean(t *testing.T) {
	store := newFakeStore()
	tenantID := uuid.New()
	booking := confirmedBooking(tenantID, uuid.New())
	booking.EndDate = testNow.AddDate(0, 0, 3)
	store.bookings[booking.ID] = booking

	svc := newTestService(store)
	resp, err := svc.DiagnoseReservation(context.Background(), nil, tenantID, booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Reasons) != 0 {
		t.Fatalf("expected no reasons before checkout, got %+v", resp.Reasons)
	}
}

func TestDiagnoseReservation_TagsFindingsWithJob(t *testing.T) {
	store := newFakeStore()
	tenantID := uuid.New()
	propertyID := uuid.New()
	booking := confirmedBooking(tenantID, propertyID)
	booking.EndDate = testNow.AddDate(0, 0, 2)
	store.bookings[booking.ID] = booking

	job := pendingJob(tenantID, propertyID, tuesday)
	job.BookingID = booking.ID
	store.jobsByBooking[booking.ID] = []repository.CleaningJob{*job}

	svc := newTestService(store)
	resp, err := svc.DiagnoseReservation(context.Background(), NewEligibilityCache(), tenantID, booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Reasons) != 1 {
		t.Fatalf("expected 1 reason, got %d", len(resp.Reasons))
	}
	reason := resp.Reasons[0]
	if reason.Code != transport.CodeNoTeamsAvailable {
		t.Fatalf("expected no_teams_available, got %s", reason.Code)
	}
	if reason.RelatedJobID == nil || *reason.RelatedJobID != job.ID {
		t.Fatal("expected finding tagged with the originating job")
	}
	if reason.RelatedJobDate == nil || !reason.RelatedJobDate.Equal(job.ScheduledAt) {
		t.Fatal("expected finding tagged with the job date")
	}
}

func TestDiagnoseReservation_DuplicateActiveCleaningReportedOnce(t *testing.T) {
	store := newFakeStore()
	tenantID := uuid.New()
	propertyID := uuid.New()
	team := repository.TeamRef{ID: uuid.New(), Name: "Alpha"}
	store.directTeams[propertyID] = []repository.TeamRef{team}
	worker := membership(team.ID, team.Name, "Ada", nil, nil)
	store.memberships[team.ID] = []repository.Membership{worker}

	booking := confirmedBooking(tenantID, propertyID)
	booking.EndDate = testNow.AddDate(0, 0, 2)
	store.bookings[booking.ID] = booking

	first := pendingJob(tenantID, propertyID, tuesday)
	first.BookingID = booking.ID
	first.AssignedTeamID = &team.ID
	first.AssignedWorkerID = &worker.WorkerID
	second := pendingJob(tenantID, propertyID, tuesday.AddDate(0, 0, 1))
	second.BookingID = booking.ID
	second.AssignedTeamID = &team.ID
	second.AssignedWorkerID = &worker.WorkerID
	store.jobsByBooking[booking.ID] = []repository.CleaningJob{*first, *second}

	svc := newTestService(store)
	resp, err := svc.DiagnoseReservation(context.Background(), NewEligibilityCache(), tenantID, booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	duplicates := 0
	for _, r := range resp.Reasons {
		if r.Code == transport.CodeDuplicateActiveCleaning {
			duplicates++
			if r.RelatedJobID != nil {
				t.Fatal("expected duplicate finding at booking level")
			}
		}
	}
	if duplicates != 1 {
		t.Fatalf("expected duplicate_active_cleaning exactly once, got %d", duplicates)
	}
}

func TestDiagnoseReservation_CancelledJobsIgnored(t *testing.T) {
	store := newFakeStore()
	tenantID := uuid.New()
	propertyID := uuid.New()
	booking := confirmedBooking(tenantID, propertyID)
	booking.EndDate = testNow.AddDate(0, 0, 2)
	store.bookings[booking.ID] = booking

	cancelled := pendingJob(tenantID, propertyID, tuesday)
	cancelled.BookingID = booking.ID
	cancelled.Status = string(transport.CleaningStatusCancelled)
	active := pendingJob(tenantID, propertyID, tuesday)
	active.BookingID = booking.ID
	store.jobsByBooking[booking.ID] = []repository.CleaningJob{*cancelled, *active}

	svc := newTestService(store)
	resp, err := svc.DiagnoseReservation(context.Background(), NewEligibilityCache(), tenantID, booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, r := range resp.Reasons {
		if r.Code == transport.CodeDuplicateActiveCleaning {
			t.Fatal("expected cancelled job to not count towards duplicates")
		}
		if r.RelatedJobID != nil && *r.RelatedJobID == cancelled.ID {
			t.Fatal("expected no findings for the cancelled job")
		}
	}
}

func TestBuildAttentionDigest_CollectsFindings(t *testing.T) {
	store := newFakeStore()
	tenantID := uuid.New()

	flagged := confirmedBooking(tenantID, uuid.New())
	store.bookings[flagged.ID] = flagged

	clean := confirmedBooking(tenantID, uuid.New())
	clean.EndDate = testNow.AddDate(0, 0, 3)
	store.bookings[clean.ID] = clean

	store.checkouts = []repository.Booking{*flagged, *clean}

	svc := newTestService(store)
	digest, err := svc.BuildAttentionDigest(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(digest.Entries) != 1 {
		t.Fatalf("expected 1 digest entry, got %d", len(digest.Entries))
	}
	entry := digest.Entries[0]
	if entry.BookingID != flagged.ID || entry.PropertyName != flagged.PropertyName {
		t.Fatal("expected entry to describe the flagged booking")
	}
	if digest.CriticalCount != 1 {
		t.Fatalf("expected 1 critical finding, got %d", digest.CriticalCount)
	}
	if digest.WindowDays != 7 {
		t.Fatalf("expected window 7, got %d", digest.WindowDays)
	}
}
