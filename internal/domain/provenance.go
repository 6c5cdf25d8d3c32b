package domain

import "encoding/json"

// FieldOwner classifies who is authoritative for a member document field.
type FieldOwner int

const (
	// OwnerUpstream fields are overwritten from the Clubspot roster on every
	// successful sync.
	OwnerUpstream FieldOwner = iota
	// OwnerLocal fields are maintained by this system and carried forward
	// across syncs; a sync never regresses them to a default.
	OwnerLocal
)

// FieldProvenance declares the owner of every Member document field, keyed by
// json tag. The merge and compare operations below are driven by this table,
// so adding a Member field without classifying it here fails the provenance
// test.
var FieldProvenance = map[string]FieldOwner{
	"id":                 OwnerUpstream,
	"firstName":          OwnerUpstream,
	"lastName":           OwnerUpstream,
	"email":              OwnerUpstream,
	"mobileNumber":       OwnerUpstream,
	"memberNumber":       OwnerUpstream,
	"membershipId":       OwnerUpstream,
	"membershipStatus":   OwnerUpstream,
	"membershipCategory": OwnerUpstream,
	"memberTags":         OwnerUpstream,
	"dob":                OwnerUpstream,
	"clubspotId":         OwnerUpstream,
	"clubspotCreated":    OwnerUpstream,
	"lastSynced":         OwnerUpstream,

	"roles":            OwnerLocal,
	"role":             OwnerLocal,
	"pushToken":        OwnerLocal,
	"authUid":          OwnerLocal,
	"lastLogin":        OwnerLocal,
	"isActive":         OwnerLocal,
	"profilePhotoUrl":  OwnerLocal,
	"emergencyContact": OwnerLocal,
	"signalNumber":     OwnerLocal,
	"boatName":         OwnerLocal,
	"sailNumber":       OwnerLocal,
	"boatClass":        OwnerLocal,
	"phrfRating":       OwnerLocal,
}

// legacyRoleMap migrates the retired single-role field into the roles list.
var legacyRoleMap = map[string]string{
	"admin":   "web_admin",
	"pro":     "rc_chair",
	"rc_crew": "crew",
	"member":  "crew",
}

// PreserveLocal returns mapped with every locally-owned field taken from
// existing when a prior value is present, and a safe default otherwise.
// existing may be nil (first sync of this member).
func PreserveLocal(mapped Member, existing *Member) Member {
	out := mapped

	var prior Member
	if existing != nil {
		prior = existing.Clone()
	}

	out.Roles = rolesFrom(prior)
	out.LegacyRole = "" // retired; superseded by roles
	out.PushToken = prior.PushToken
	out.AuthUID = prior.AuthUID
	out.LastLogin = prior.LastLogin
	out.ProfilePhotoURL = prior.ProfilePhotoURL
	out.SignalNumber = prior.SignalNumber
	out.BoatName = prior.BoatName
	out.SailNumber = prior.SailNumber
	out.BoatClass = prior.BoatClass
	out.PHRFRating = prior.PHRFRating

	if existing != nil {
		out.IsActive = prior.IsActive
	} else {
		out.IsActive = true
	}

	out.EmergencyContact = prior.EmergencyContact
	if out.EmergencyContact == nil {
		out.EmergencyContact = &EmergencyContact{Name: "Unknown", Phone: ""}
	}

	return out
}

func rolesFrom(prior Member) []string {
	if len(prior.Roles) > 0 {
		return append([]string(nil), prior.Roles...)
	}
	if prior.LegacyRole != "" {
		if mapped, ok := legacyRoleMap[prior.LegacyRole]; ok {
			return []string{mapped}
		}
		return []string{"crew"}
	}
	return []string{"crew"}
}

// ComparableJSON renders the member as canonical JSON with the lastSynced
// bookkeeping field removed. Two members with equal ComparableJSON are
// considered unchanged by the reconciliation engine: the sync timestamp
// always differs and must not cause a spurious "changed" classification.
func (m Member) ComparableJSON() string {
	raw, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	delete(doc, "lastSynced")
	out, err := json.Marshal(doc)
	if err != nil {
		return ""
	}
	return string(out)
}
