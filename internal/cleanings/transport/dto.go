package transport

import (
	"time"

	"github.com/google/uuid"
)

// CleaningStatus defines the lifecycle status of a cleaning job.
type CleaningStatus string

const (
	CleaningStatusPending    CleaningStatus = "pending"
	CleaningStatusInProgress CleaningStatus = "in_progress"
	CleaningStatusCompleted  CleaningStatus = "completed"
	CleaningStatusCancelled  CleaningStatus = "cancelled"
)

// IsTerminal reports whether diagnostics stop applying to this status.
func (s CleaningStatus) IsTerminal() bool {
	return s == CleaningStatusCompleted || s == CleaningStatusCancelled
}

// BookingStatus defines the status of a booking.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusBlocked   BookingStatus = "blocked"
)

// Severity classifies how blocking an attention reason is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// Attention reason codes emitted by the diagnostic engine. Codes persisted by
// the write path are translated through the reason table instead.
const (
	CodeNoTeamsAvailable          = "no_teams_available"
	CodeTeamConfigurationPending  = "team_configuration_pending"
	CodeTeamWithoutActiveMembers  = "team_without_active_members"
	CodeCleaningOverdue           = "cleaning_overdue"
	CodeNoMemberAssigned          = "no_member_assigned"
	CodeAssignedMemberUnavailable = "assigned_member_unavailable"
	CodeManualReviewRequired      = "manual_review_required"
	CodeNoCleaningForCheckout     = "no_cleaning_for_checkout"
	CodeDuplicateActiveCleaning   = "duplicate_active_cleaning"
)

// Remediation points the operator at the surface that resolves a reason.
type Remediation struct {
	Label  string `json:"label"`
	Target string `json:"target"`
}

// Reason is one typed diagnostic explaining an assignment gap. The list a
// diagnosis returns is ordered root causes first and never repeats a code.
type Reason struct {
	Code        string       `json:"code"`
	Title       string       `json:"title"`
	Detail      string       `json:"detail,omitempty"`
	Severity    Severity     `json:"severity"`
	Remediation *Remediation `json:"remediation,omitempty"`
}

// ReservationReason is a Reason tagged with the job it originated from.
// Booking-level findings carry no job reference.
type ReservationReason struct {
	Reason
	RelatedJobID   *uuid.UUID `json:"relatedJobId,omitempty"`
	RelatedJobDate *time.Time `json:"relatedJobDate,omitempty"`
}

// WorkerRef identifies an eligible worker for a cleaning job.
type WorkerRef struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone,omitempty"`
	TeamID   uuid.UUID `json:"teamId"`
	TeamName string    `json:"teamName"`
}

// TeamInfo is a team reference in API responses.
type TeamInfo struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// TeamSourceBreakdown reports how many teams each association model yielded
// before deduplication.
type TeamSourceBreakdown struct {
	ViaGrouping int `json:"viaGrouping"`
	ViaDirect   int `json:"viaDirect"`
}

// PropertyTeamsResponse is the response for the property team diagnostics
// endpoint. Available is the deduplicated union of both sources; Effective is
// the narrower set the assignment write path respects.
type PropertyTeamsResponse struct {
	Available []TeamInfo          `json:"available"`
	Effective []TeamInfo          `json:"effective"`
	Breakdown TeamSourceBreakdown `json:"breakdown"`
}

// JobAttentionResponse is the response for a single job diagnosis.
type JobAttentionResponse struct {
	JobID       uuid.UUID `json:"jobId"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Status      string    `json:"status"`
	Reasons     []Reason  `json:"reasons"`
}

// ReservationAttentionResponse is the response for a booking-level diagnosis.
type ReservationAttentionResponse struct {
	BookingID uuid.UUID           `json:"bookingId"`
	Reasons   []ReservationReason `json:"reasons"`
}

// EligibleMembersRequest holds the optional query parameters for the
// eligible-members endpoint. Date overrides the job's scheduled date.
type EligibleMembersRequest struct {
	Date string `form:"date" validate:"omitempty,datetime=2006-01-02"`
}

// EligibleWorkersResponse lists the candidate workers for a job.
type EligibleWorkersResponse struct {
	JobID       uuid.UUID   `json:"jobId"`
	ScheduledAt time.Time   `json:"scheduledAt"`
	Workers     []WorkerRef `json:"workers"`
}

// DigestEntry is one booking with findings in the attention digest.
type DigestEntry struct {
	BookingID    uuid.UUID           `json:"bookingId"`
	PropertyID   uuid.UUID           `json:"propertyId"`
	PropertyName string              `json:"propertyName"`
	TenantID     uuid.UUID           `json:"tenantId"`
	CheckoutDate time.Time           `json:"checkoutDate"`
	Reasons      []ReservationReason `json:"reasons"`
}

// AttentionDigest is the result of a sweep over upcoming and recent checkouts.
type AttentionDigest struct {
	GeneratedAt   time.Time     `json:"generatedAt"`
	WindowDays    int           `json:"windowDays"`
	CriticalCount int           `json:"criticalCount"`
	Entries       []DigestEntry `json:"entries"`
}
