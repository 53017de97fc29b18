package email

const (
	subjectAttentionDigestFmt = "Cleaning attention digest: %d bookings, %d critical"
)
