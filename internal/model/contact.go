package model

import "time"

type RelationshipStatus string

const (
	RelationshipHealthy RelationshipStatus = "healthy"
	RelationshipCooling RelationshipStatus = "cooling"
	RelationshipCold    RelationshipStatus = "cold"
	RelationshipUnknown RelationshipStatus = "unknown"
)

type InteractionKind string

const (
	InteractionEmail   InteractionKind = "email"
	InteractionCall    InteractionKind = "call"
	InteractionMeeting InteractionKind = "meeting"
	InteractionMessage InteractionKind = "message"
	InteractionNote    InteractionKind = "note"
)

// Contact mirrors a CRM contact synced from GoHighLevel.
type Contact struct {
	ID              int64      `json:"id"`
	GHLID           *string    `json:"ghl_id,omitempty"`
	FullName        string     `json:"full_name"`
	Email           *string    `json:"email,omitempty"`
	Phone           *string    `json:"phone,omitempty"`
	Company         *string    `json:"company,omitempty"`
	Tags            []string   `json:"tags"`
	Source          *string    `json:"source,omitempty"`
	LastContactedAt *time.Time `json:"last_contacted_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type Interaction struct {
	ID         int64           `json:"id"`
	ContactID  int64           `json:"contact_id"`
	Kind       InteractionKind `json:"kind"`
	Summary    string          `json:"summary"`
	OccurredAt time.Time       `json:"occurred_at"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ContactActivity is a contact plus its recent interaction volume, the input
// to relationship health scoring.
type ContactActivity struct {
	ContactID       int64      `json:"contact_id"`
	FullName        string     `json:"full_name"`
	Email           *string    `json:"email,omitempty"`
	Company         *string    `json:"company,omitempty"`
	Tags            []string   `json:"tags"`
	LastContactedAt *time.Time `json:"last_contacted_at,omitempty"`
	Interactions90d int        `json:"interactions_90d"`
}

// RelationshipHealth is the scored view of a ContactActivity.
type RelationshipHealth struct {
	ContactActivity
	Status           RelationshipStatus `json:"status"`
	Score            int                `json:"score"`
	DaysSinceContact *int               `json:"days_since_contact,omitempty"`
}
