package service

import (
	"context"
	"fmt"

	"stayclean_backend/internal/cleanings/repository"
	"stayclean_backend/internal/cleanings/transport"

	"github.com/google/uuid"
)

// jobDiagnosis carries the state one rule pipeline run accumulates: the
// fetched team/membership context, the reasons found so far and the codes
// already emitted. Rules append through add, which enforces that a code
// never appears twice.
type jobDiagnosis struct {
	job         *repository.CleaningJob
	sources     *TeamSources
	memberships []repository.Membership
	teamMembers map[uuid.UUID]int

	reasons []transport.Reason
	found   map[string]struct{}
}

func (d *jobDiagnosis) add(reason transport.Reason) {
	if _, ok := d.found[reason.Code]; ok {
		return
	}
	d.found[reason.Code] = struct{}{}
	d.reasons = append(d.reasons, reason)
}

func (d *jobDiagnosis) hasAvailableTeams() bool {
	return d.sources != nil && len(d.sources.Teams) > 0
}

// AttentionForJob fetches a job and diagnoses it.
func (s *Service) AttentionForJob(ctx context.Context, cache *EligibilityCache, tenantID, jobID uuid.UUID) (*transport.JobAttentionResponse, error) {
	job, err := s.store.GetJob(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}

	reasons, err := s.DiagnoseJob(ctx, cache, job)
	if err != nil {
		return nil, err
	}

	return &transport.JobAttentionResponse{
		JobID:       job.ID,
		ScheduledAt: job.ScheduledAt,
		Status:      job.Status,
		Reasons:     reasons,
	}, nil
}

// DiagnoseJob runs the attention rules against a single cleaning job and
// returns the ordered list of reasons. Completed and cancelled jobs always
// diagnose clean. Rules run in fixed order, structural root causes first,
// and some findings stop the pipeline because everything after them would
// only restate the same gap.
func (s *Service) DiagnoseJob(ctx context.Context, cache *EligibilityCache, job *repository.CleaningJob) ([]transport.Reason, error) {
	if transport.CleaningStatus(job.Status).IsTerminal() {
		return []transport.Reason{}, nil
	}

	d, err := s.newJobDiagnosis(ctx, job)
	if err != nil {
		return nil, err
	}

	type rule func(ctx context.Context, cache *EligibilityCache, d *jobDiagnosis) (halt bool)
	rules := []rule{
		s.ruleNoTeamsAvailable,
		s.ruleTeamConfigurationPending,
		s.ruleTeamWithoutActiveMembers,
		s.rulePersistedFlag,
		s.ruleOverdue,
		s.ruleNoMemberAssigned,
		s.ruleAssignedUnavailable,
	}
	for _, r := range rules {
		if r(ctx, cache, d) {
			break
		}
	}

	return d.reasons, nil
}

func (s *Service) newJobDiagnosis(ctx context.Context, job *repository.CleaningJob) (*jobDiagnosis, error) {
	sources, err := s.AvailableTeams(ctx, job.TenantID, job.PropertyID)
	if err != nil {
		return nil, err
	}

	memberships, err := s.membershipsForTeams(ctx, job.TenantID, sources.Teams)
	if err != nil {
		return nil, err
	}

	teamMembers := make(map[uuid.UUID]int)
	for _, m := range memberships {
		teamMembers[m.TeamID]++
	}

	// An assigned team may no longer be linked to the property; count its
	// members separately so the diagnosis still sees it.
	if job.AssignedTeamID != nil {
		if _, ok := teamMembers[*job.AssignedTeamID]; !ok {
			assigned, err := s.store.ListActiveMemberships(ctx, job.TenantID, []uuid.UUID{*job.AssignedTeamID})
			if err != nil {
				return nil, fmt.Errorf("failed to load assigned team memberships: %w", err)
			}
			teamMembers[*job.AssignedTeamID] = len(assigned)
			memberships = append(memberships, assigned...)
		}
	}

	return &jobDiagnosis{
		job:         job,
		sources:     sources,
		memberships: memberships,
		teamMembers: teamMembers,
		reasons:     []transport.Reason{},
		found:       make(map[string]struct{}),
	}, nil
}

// ruleNoTeamsAvailable fires when the job has no assignment at all and the
// property has no teams through either association model. Nothing downstream
// can add information in that state, so the pipeline halts.
func (s *Service) ruleNoTeamsAvailable(_ context.Context, _ *EligibilityCache, d *jobDiagnosis) bool {
	if d.job.AssignedTeamID != nil || d.job.AssignedWorkerID != nil || d.hasAvailableTeams() {
		return false
	}

	d.add(transport.Reason{
		Code:     transport.CodeNoTeamsAvailable,
		Title:    "No cleaning teams available for this property",
		Detail:   "The property is not linked to any cleaning team, so nobody can be assigned.",
		Severity: transport.SeverityCritical,
		Remediation: &transport.Remediation{
			Label:  "Link a cleaning team",
			Target: "property-teams",
		},
	})
	return true
}

// ruleTeamConfigurationPending covers the softer variant: the property has no
// teams but the job already carries an assignment, likely made before the
// links were removed. Worth surfacing, not worth halting over.
func (s *Service) ruleTeamConfigurationPending(_ context.Context, _ *EligibilityCache, d *jobDiagnosis) bool {
	if d.hasAvailableTeams() {
		return false
	}

	d.add(transport.Reason{
		Code:     transport.CodeTeamConfigurationPending,
		Title:    "Property team configuration is incomplete",
		Detail:   "The job has an assignment but the property is no longer linked to any team.",
		Severity: transport.SeverityWarning,
	})
	return false
}

// ruleTeamWithoutActiveMembers fires when the assigned team has no active
// members. Member-level rules after this point would all fail for the same
// root cause, so the pipeline halts.
func (s *Service) ruleTeamWithoutActiveMembers(_ context.Context, _ *EligibilityCache, d *jobDiagnosis) bool {
	if d.job.AssignedTeamID == nil {
		return false
	}
	if d.teamMembers[*d.job.AssignedTeamID] > 0 {
		return false
	}

	d.add(transport.Reason{
		Code:     transport.CodeTeamWithoutActiveMembers,
		Title:    "Assigned team has no active members",
		Detail:   "The team assigned to this cleaning has no active members to carry it out.",
		Severity: transport.SeverityCritical,
		Remediation: &transport.Remediation{
			Label:  "Manage team members",
			Target: "team-members",
		},
	})
	return true
}

// rulePersistedFlag surfaces the reason the write path recorded when it
// flagged the job. Configuration-category codes are suppressed when the
// property does have available teams, because the earlier structural rules
// already decided configuration is not the problem and the fresher member
// rules below describe the actual gap.
func (s *Service) rulePersistedFlag(_ context.Context, _ *EligibilityCache, d *jobDiagnosis) bool {
	if !d.job.NeedsAttention || d.job.AssignedWorkerID != nil {
		return false
	}

	def := s.reasons.Resolve(d.job.AttentionReasonCode)
	if def.Category == CategoryConfiguration && d.hasAvailableTeams() {
		return false
	}

	d.add(def.Reason())
	return false
}

// ruleOverdue fires when a pending job's scheduled calendar day has passed.
// Compares dates, not instants, so a job later today is not overdue.
func (s *Service) ruleOverdue(_ context.Context, _ *EligibilityCache, d *jobDiagnosis) bool {
	if d.job.Status != string(transport.CleaningStatusPending) {
		return false
	}

	today := s.now().Format("2006-01-02")
	scheduled := d.job.ScheduledAt.Format("2006-01-02")
	if scheduled >= today {
		return false
	}

	d.add(transport.Reason{
		Code:     transport.CodeCleaningOverdue,
		Title:    "Cleaning is overdue",
		Detail:   fmt.Sprintf("The cleaning was scheduled for %s and has not started.", scheduled),
		Severity: transport.SeverityCritical,
	})
	return false
}

// ruleNoMemberAssigned fires when teams and members exist but nobody was
// assigned to a pending job.
func (s *Service) ruleNoMemberAssigned(_ context.Context, _ *EligibilityCache, d *jobDiagnosis) bool {
	if d.job.Status != string(transport.CleaningStatusPending) || d.job.AssignedWorkerID != nil {
		return false
	}
	if !d.hasAvailableTeams() || len(d.memberships) == 0 {
		return false
	}

	d.add(transport.Reason{
		Code:     transport.CodeNoMemberAssigned,
		Title:    "No member assigned to this cleaning",
		Detail:   "Teams with active members are available but nobody has been assigned.",
		Severity: transport.SeverityCritical,
		Remediation: &transport.Remediation{
			Label:  "Assign a member",
			Target: "cleaning-assignment",
		},
	})
	return false
}

// ruleAssignedUnavailable rechecks the assigned worker against current
// eligibility. The recheck needs extra queries; if they fail the rule is
// skipped and logged rather than failing the whole diagnosis, since every
// other finding is already computed.
func (s *Service) ruleAssignedUnavailable(ctx context.Context, cache *EligibilityCache, d *jobDiagnosis) bool {
	if d.job.Status != string(transport.CleaningStatusPending) || d.job.AssignedWorkerID == nil {
		return false
	}

	eligible, err := s.EligibleWorkers(ctx, cache, d.job.TenantID, d.job.PropertyID, d.job.ScheduledAt)
	if err != nil {
		s.log.DiagnosticCheckSkipped("assigned_member_availability", d.job.ID.String(), err)
		return false
	}

	for _, w := range eligible {
		if w.ID == *d.job.AssignedWorkerID {
			return false
		}
	}

	name := "The assigned member"
	detail := "The assigned member is no longer eligible for this cleaning's date."
	for _, m := range d.memberships {
		if m.WorkerID == *d.job.AssignedWorkerID {
			name = m.WorkerName
			detail = fmt.Sprintf("%s works %s and is not available on %s.",
				name, FormatWorkingDays(m), d.job.ScheduledAt.Format("2006-01-02"))
			break
		}
	}

	d.add(transport.Reason{
		Code:     transport.CodeAssignedMemberUnavailable,
		Title:    fmt.Sprintf("%s is not available on the scheduled date", name),
		Detail:   detail,
		Severity: transport.SeverityCritical,
		Remediation: &transport.Remediation{
			Label:  "Reassign the cleaning",
			Target: "cleaning-assignment",
		},
	})
	return false
}
