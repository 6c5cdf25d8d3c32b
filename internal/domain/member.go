package domain

import "time"

// EmergencyContact is locally-maintained contact info for a member.
type EmergencyContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Member is the canonical local member record.
//
// Fields split into two provenance classes (see provenance.go):
//   - upstream-owned: overwritten from the Clubspot roster on every sync
//   - locally-owned: maintained by this system; a sync carries the existing
//     value forward and must never regress it to a default
//
// The json tags are the document field names used by the JSONB document
// store; they match the collection shapes the mobile clients read.
type Member struct {
	ID MemberID `json:"id"`

	// Upstream-owned.
	FirstName          string   `json:"firstName"`
	LastName           string   `json:"lastName"`
	Email              string   `json:"email"`
	MobileNumber       string   `json:"mobileNumber"`
	MemberNumber       string   `json:"memberNumber"`
	MembershipID       string   `json:"membershipId"`
	MembershipStatus   string   `json:"membershipStatus"`
	MembershipCategory string   `json:"membershipCategory"`
	MemberTags         []string `json:"memberTags"`
	DOB                *string  `json:"dob"`
	ClubspotID         string   `json:"clubspotId"`
	ClubspotCreated    *string  `json:"clubspotCreated"`

	// LastSynced is sync bookkeeping: refreshed on every successful sync of
	// this record, including runs where nothing else changed.
	LastSynced time.Time `json:"lastSynced"`

	// Locally-owned.
	Roles            []string          `json:"roles"`
	LegacyRole       string            `json:"role,omitempty"`
	PushToken        *string           `json:"pushToken"`
	AuthUID          *string           `json:"authUid"`
	LastLogin        *time.Time        `json:"lastLogin"`
	IsActive         bool              `json:"isActive"`
	ProfilePhotoURL  *string           `json:"profilePhotoUrl"`
	EmergencyContact *EmergencyContact `json:"emergencyContact"`
	SignalNumber     *string           `json:"signalNumber"`
	BoatName         *string           `json:"boatName"`
	SailNumber       *string           `json:"sailNumber"`
	BoatClass        *string           `json:"boatClass"`
	PHRFRating       *string           `json:"phrfRating"`
}

// HasRole reports whether the member carries the given role.
func (m Member) HasRole(role string) bool {
	for _, r := range m.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of m.
func (m Member) Clone() Member {
	out := m
	out.MemberTags = append([]string(nil), m.MemberTags...)
	out.Roles = append([]string(nil), m.Roles...)
	out.DOB = cloneStringPtr(m.DOB)
	out.ClubspotCreated = cloneStringPtr(m.ClubspotCreated)
	out.PushToken = cloneStringPtr(m.PushToken)
	out.AuthUID = cloneStringPtr(m.AuthUID)
	out.ProfilePhotoURL = cloneStringPtr(m.ProfilePhotoURL)
	out.SignalNumber = cloneStringPtr(m.SignalNumber)
	out.BoatName = cloneStringPtr(m.BoatName)
	out.SailNumber = cloneStringPtr(m.SailNumber)
	out.BoatClass = cloneStringPtr(m.BoatClass)
	out.PHRFRating = cloneStringPtr(m.PHRFRating)
	if m.LastLogin != nil {
		v := *m.LastLogin
		out.LastLogin = &v
	}
	if m.EmergencyContact != nil {
		v := *m.EmergencyContact
		out.EmergencyContact = &v
	}
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
