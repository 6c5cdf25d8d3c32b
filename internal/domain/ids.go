package domain

// SubjectID is the authenticated subject extracted from JWT claims (typically "sub").
// We model it as an opaque identifier: its format is controlled by the IdP.
type SubjectID string

// MemberID is the member document key. It is derived from the Clubspot record
// id, falling back to the membership number when the id is absent.
type MemberID string

// EventID identifies a race event document.
type EventID string

// BroadcastID identifies a persisted fleet broadcast record.
type BroadcastID string
