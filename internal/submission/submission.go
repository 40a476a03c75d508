package submission

import (
	"errors"
	"strings"
	"time"
)

// Submission is the persisted project-request record. Field names follow the
// intake form's wire contract (Malay form labels).
type Submission struct {
	ID           string    `json:"id"`
	Tarikh       string    `json:"tarikh"`
	Bahagian     string    `json:"bahagian"`
	NamaProjek   string    `json:"namaProjek"`
	TujuanProjek string    `json:"tujuanProjek"`
	WebsiteURL   string    `json:"websiteUrl"`
	KutipanData  string    `json:"kutipanData"`
	NamaPengawai string    `json:"namaPengawai"`
	Email        string    `json:"email"`
	Catatan      string    `json:"catatan"`
	Status       string    `json:"status"`
	SubmittedAt  time.Time `json:"submittedAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Canonical status values. The write path stays permissive: any non-empty
// status string is stored, these are the ones the portals produce.
const (
	StatusPending     = "Pending"
	StatusUnderReview = "Under Review"
	StatusApproved    = "Approved"
	StatusRejected    = "Rejected"
)

// Canonical kutipanData (collection frequency) values.
const (
	KutipanOneOff    = "one-off"
	KutipanWeekly    = "weekly"
	KutipanMonthly   = "monthly"
	KutipanQuarterly = "quarterly"
	KutipanYearly    = "yearly"
)

// Key namespaces in the kv store.
const (
	KeyPrefix      = "submission_"
	EmailKeyPrefix = "email_"
)

// Key returns the store key for a submission id.
func Key(id string) string {
	return KeyPrefix + id
}

// EmailKey returns the store key of the email index list. Emails are indexed
// case-insensitively.
func EmailKey(email string) string {
	return EmailKeyPrefix + strings.ToLower(email)
}

// Domain errors
var (
	ErrNotFound = errors.New("submission not found")
)
