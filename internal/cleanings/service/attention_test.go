package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"stayclean_backend/internal/cleanings/repository"
	"stayclean_backend/internal/cleanings/transport"

	"github.com/google/uuid"
)

func pendingJob(tenantID, propertyID uuid.UUID, scheduledAt time.Time) *repository.CleaningJob {
	return &repository.CleaningJob{
		ID:                  uuid.New(),
		TenantID:            tenantID,
		BookingID:           uuid.New(),
		PropertyID:          propertyID,
		ScheduledAt:         scheduledAt,
		OriginalScheduledAt: scheduledAt,
		Status:              string(transport.CleaningStatusPending),
	}
}

func reasonCodes(reasons []transport.Reason) []string {
	codes := make([]string, 0, len(reasons))
	for _, r := range reasons {
		codes = append(codes, r.Code)
	}
	return codes
}

func TestDiagnoseJob_TerminalStatusIsAlwaysClean(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	for _, status := range []transport.CleaningStatus{transport.CleaningStatusCompleted, transport.CleaningStatusCancelled} {
		job := pendingJob(uuid.New(), uuid.New(), tuesday)
		job.Status = string(status)
		job.NeedsAttention = true

		reasons, err := svc.DiagnoseJob(context.Background(), nil, job)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(reasons) != 0 {
			t.Fatalf("expected no reasons for %s job, got %v", status, reasonCodes(reasons))
		}
	}
}

func TestDiagnoseJob_NoTeamsShortCircuits(t *testing.T) {
	store := newFakeStore()
	tenantID := uuid.New()
	job := pendingJob(tenantID, uuid.New(), tuesday)
	store.jobs[job.ID] = job

	svc := newTestService(store)
	reasons, err := svc.DiagnoseJob(context.Background(), nil, job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(reasons) != 1 || reasons[0].Code != transport.CodeNoTeamsAvailable {
		t.Fatalf("expected only no_teams_available, got %v", reasonCodes(reasons))
	}
	if reasons[0].Severity != transport.SeverityCritical {
		t.Fatalf("expected critical severity, got %s", reasons[0].Severity)
	}
	if reasons[0].Remediation == nil {
		t.Fatal("expected a remediation pointer")
	}
}

func TestDiagnoseJob_ConfigurationPendingWhenAssignedButNoTeams(t *testing.T) {
	store := newFakeStore()
	tenantID := uuid.New()
	teamID := uuid.New()
	job := pendingJob(tenantID, uuid.New(), tuesday)
	job.AssignedTeamID = &teamID
	store.memberships[teamID] = []repository.Membership{
		membership(teamID, "Alpha", "Ada", nil, nil),
	}

	svc := newTestService(store)
	reasons, err := svc.DiagnoseJob(context.Background(), nil, job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false
	for _, r := range reasons {
		if r.Code == transport.CodeTeamConfigurationPending {
			found = true
			if r.Severity != transport.SeverityWarning {
				t.Fatalf("expected warning severity, got %s", r.Severity)
			}
		}
	}
	if !found {
		t.Fatalf("expected team_configuration_pending, got %v", reasonCodes(reasons))
	}
}

func TestDiagnoseJob_TeamWithoutActiveMembersHalts(t *testing.T) {
	store := newFakeStore()
	tenantID := uuid.New()
	propertyID := uuid.New()
	team := repository.TeamRef{ID: uuid.New(), Name: "Alpha"}
	store.directTeams[propertyID] = []repository.TeamRef{team}

	job := pendingJob(tenantID, propertyID, testNow.AddDate(0, 0, -2))
	job.AssignedTeamID = &team.ID

	svc := newTestService(store)
	reasons, err := svc.DiagnoseJob(context.Background(), nil, job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(reasons) != 1 || reasons[0].Code != transport.CodeTeamWithoutActiveMembers {
		t.Fatalf("expected only team_without_active_members despite overdue date, got %v", reasonCodes(reasons))
	}
}

func TestDiagnoseJob_NoMemberAssigned(t *testing.T) {
	store := newFakeStore()
	tenantID := uuid.New()
	propertyID := uuid.New()
	team := repository.TeamRef{ID: uuid.New(), Name: "Alpha"}
	store.directTeams[propertyID] = []repository.TeamRef{team}
	store.memberships[team.ID] = []repository.Membership{
		membership(team.ID, team.Name, "Ada", []string{"MON"}, nil),
	}

	job := pendingJob(tenantID, propertyID, tuesday)

	svc := newTestService(store)
	reasons, err := svc.DiagnoseJob(context.Background(), nil, job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(reasons) != 1 || reasons[0].Code != transport.CodeNoMemberAssigned {
		t.Fatalf("expected no_member_assigned, got %v", reasonCodes(reasons))
	}
}

func TestDiagnoseJob_PersistedConfigurationCodeSuppressedWhenTeamsExist(t *testing.T) {
	store := newFakeStore()
	tenantID := uuid.New()
	propertyID := uuid.New()
	team := repository.TeamRef{ID: uuid.New(), Name: "Alpha"}
	store.directTeams[propertyID] = []repository.TeamRef{team}
	store.memberships[team.ID] = []repository.Membership{
		membership(team.ID, team.Name, "Ada", nil, nil),
	}

	code := "missing_team_configuration"
	job := pendingJob(tenantID, propertyID, tuesday)
	job.NeedsAttention = true
	job.AttentionReasonCode = &code

	svc := newTestService(store)
	reasons, err := svc.DiagnoseJob(context.Background(), nil, job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, r := range reasons {
		if r.Code == code {
			t.Fatalf("expected configuration code to be suppressed, got %v", reasonCodes(reasons))
		}
	}
	if len(reasons) != 1 || reasons[0].Code != transport.CodeNoMemberAssigned {
		t.Fatalf("expected only no_member_assigned, got %v", reasonCodes(reasons))
	}
}

func TestDiagnoseJob_PersistedExecutionCodeSurvives(t *testing.T) {
	store := newFakeStore()
	tenantID := uuid.New()
	propertyID := uuid.New()
	team := repository.TeamRef{ID: uuid.New(), Name: "Alpha"}
	store.directTeams[propertyID] = []repository.TeamRef{team}
	store.memberships[team.ID] = []repository.Membership{
		membership(team.ID, team.Name, "Ada", nil, nil),
	}

	code := "no_eligible_member_found"
	job := pendingJob(tenantID, propertyID, tuesday)
	job.NeedsAttention = true
	job.AttentionReasonCode = &code

	svc := newTestService(store)
	reasons, err := svc.DiagnoseJob(context.Background(), nil, job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	codes := reasonCodes(reasons)
	if len(codes) != 2 || codes[0] != code || codes[1] != transport.CodeNoMemberAssigned {
		t.Fatalf("expected [%s no_member_assigned], got %v", code, codes)
	}
}

func TestDiagnoseJob_OverdueAndNoMemberReportedOnceEach(t *testing.T) {
	store := newFakeStore()
	tenantID := uuid.New()
	propertyID := uuid.New()
	team := repository.TeamRef{ID: uuid.New(), Name: "Alpha"}
	store.directTeams[propertyID] = []repository.TeamRef{team}
	store.memberships[team.ID] = []repository.Membership{
		membership(team.ID, team.Name, "Ada", nil, nil),
	}

	job := pendingJob(tenantID, propertyID, testNow.AddDate(0, 0, -3))

	svc := newTestService(store)
	reasons, err := svc.DiagnoseJob(context.Background(), nil, job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	codes := reasonCodes(reasons)
	if len(codes) != 2 || codes[0] != transport.CodeCleaningOverdue || codes[1] != transport.CodeNoMemberAssigned {
		t.Fatalf("expected [cleaning_overdue no_member_assigned], got %v", codes)
	}
}

func TestDiagnoseJob_ScheduledLaterTodayIsNotOverdue(t *testing.T) {
	store := newFakeStore()
	tenantID := uuid.New()
	propertyID := uuid.New()
	team := repository.TeamRef{ID: uuid.New(), Name: "Alpha"}
	store.directTeams[propertyID] = []repository.TeamRef{team}
	store.memberships[team.ID] = []repository.Membership{
		membership(team.ID, team.Name, "Ada", nil, nil),
	}

	// Earlier instant, same calendar day as the pinned clock.
	job := pendingJob(tenantID, propertyID, testNow.Add(-2*time.Hour))

	svc := newTestService(store)
	reasons, err := svc.DiagnoseJob(context.Background(), nil, job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, r := range reasons {
		if r.Code == transport.CodeCleaningOverdue {
			t.Fatal("expected same-day job to not be overdue")
		}
	}
}

func TestDiagnoseJob_AssignedMemberUnavailable(t *testing.T) {
	store := newFakeStore()
	tenantID := uuid.New()
	propertyID := uuid.New()
	team := repository.TeamRef{ID: uuid.New(), Name: "Alpha"}
	store.directTeams[propertyID] = []repository.TeamRef{team}

	mondayOnly := membership(team.ID, team.Name, "Ada", []string{"MON"}, nil)
	store.memberships[team.ID] = []repository.Membership{mondayOnly}

	job := pendingJob(tenantID, propertyID, tuesday)
	job.AssignedTeamID = &team.ID
	job.AssignedWorkerID = &mondayOnly.WorkerID

	svc := newTestService(store)
	reasons, err := svc.DiagnoseJob(context.Background(), nil, job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(reasons) != 1 || reasons[0].Code != transport.CodeAssignedMemberUnavailable {
		t.Fatalf("expected assigned_member_unavailable, got %v", reasonCodes(reasons))
	}
	if !strings.Contains(reasons[0].Title, "Ada") {
		t.Fatalf("expected title to name the member, got %q", reasons[0].Title)
	}
	if !strings.Contains(reasons[0].Detail, "Mon") {
		t.Fatalf("expected detail to describe the schedule, got %q", reasons[0].Detail)
	}
}

func TestDiagnoseJob_AvailabilityRecheckFailureIsSwallowed(t *testing.T) {
	store := newFakeStore()
	tenantID := uuid.New()
	propertyID := uuid.New()
	team := repository.TeamRef{ID: uuid.New(), Name: "Alpha"}
	store.directTeams[propertyID] = []repository.TeamRef{team}

	worker := membership(team.ID, team.Name, "Ada", []string{"MON"}, nil)
	store.memberships[team.ID] = []repository.Membership{worker}
	// First membership load (diagnosis context) succeeds; the recheck fails.
	store.failMembershipsAfter = 1

	job := pendingJob(tenantID, propertyID, testNow.AddDate(0, 0, -1))
	job.AssignedTeamID = &team.ID
	job.AssignedWorkerID = &worker.WorkerID

	svc := newTestService(store)
	reasons, err := svc.DiagnoseJob(context.Background(), nil, job)
	if err != nil {
		t.Fatalf("expected recheck failure to be swallowed, got %v", err)
	}

	codes := reasonCodes(reasons)
	if len(codes) != 1 || codes[0] != transport.CodeCleaningOverdue {
		t.Fatalf("expected overdue finding to survive the skipped recheck, got %v", codes)
	}
}

func TestAttentionForJob_WrapsJobFields(t *testing.T) {
	store := newFakeStore()
	tenantID := uuid.New()
	propertyID := uuid.New()
	job := pendingJob(tenantID, propertyID, tuesday)
	store.jobs[job.ID] = job

	svc := newTestService(store)
	resp, err := svc.AttentionForJob(context.Background(), NewEligibilityCache(), tenantID, job.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.JobID != job.ID || resp.Status != job.Status {
		t.Fatal("expected response to echo the job identity")
	}
	if len(resp.Reasons) != 1 || resp.Reasons[0].Code != transport.CodeNoTeamsAvailable {
		t.Fatalf("expected no_teams_available, got %v", reasonCodes(resp.Reasons))
	}
}
