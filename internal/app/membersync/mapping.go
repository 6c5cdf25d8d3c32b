package membersync

import (
	"time"

	"github.com/Marina-Point-YC/raceday-api/internal/clubspot"
	"github.com/Marina-Point-YC/raceday-api/internal/domain"
)

// mapMember maps one upstream roster row onto the canonical member record.
// Membership metadata lives in a nested membership object on current payloads,
// with flat membership_* keys as the older fallback. Only upstream-owned
// fields are populated here; locally-owned fields are merged in afterwards by
// domain.PreserveLocal. Absent upstream values stay zero: a missing status
// is "", never assumed active.
func mapMember(row clubspot.Record, now time.Time) domain.Member {
	id := firstNonEmpty(row.Str("id"), row.Str("_id"), row.Str("membership_number"))
	membership := row.Sub("membership")

	m := domain.Member{
		ID:                 domain.MemberID(id),
		FirstName:          row.Str("first_name"),
		LastName:           row.Str("last_name"),
		Email:              row.Str("email"),
		MobileNumber:       firstNonEmpty(row.Str("mobile_number"), row.Str("mobile"), row.Str("mobile_phone")),
		MemberNumber:       firstNonEmpty(row.Str("membership_number"), row.Str("member_number")),
		MembershipID:       membership.Str("id"),
		MembershipStatus:   firstNonEmpty(membership.Str("status"), row.Str("membership_status")),
		MembershipCategory: firstNonEmpty(membership.Str("category"), row.Str("membership_category")),
		MemberTags:         row.StrSlice("member_tags"),
		ClubspotID:         firstNonEmpty(row.Str("id"), row.Str("_id")),
		LastSynced:         now,
	}
	if dob := row.Str("dob"); dob != "" {
		m.DOB = &dob
	}
	if created := row.Str("created"); created != "" {
		m.ClubspotCreated = &created
	}
	return m
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
