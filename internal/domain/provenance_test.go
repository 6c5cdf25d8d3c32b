package domain

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func memberJSONFields(t *testing.T) []string {
	t.Helper()
	typ := reflect.TypeOf(Member{})
	out := make([]string, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("json")
		name := strings.Split(tag, ",")[0]
		if name == "" || name == "-" {
			t.Fatalf("Member field %s has no json document name", typ.Field(i).Name)
		}
		out = append(out, name)
	}
	return out
}

func TestFieldProvenance_CoversEveryMemberField(t *testing.T) {
	t.Parallel()

	fields := memberJSONFields(t)
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if _, ok := FieldProvenance[f]; !ok {
			t.Errorf("field %q is not classified in FieldProvenance", f)
		}
		seen[f] = true
	}
	for f := range FieldProvenance {
		if !seen[f] {
			t.Errorf("FieldProvenance classifies %q, which is not a Member field", f)
		}
	}
}

func TestPreserveLocal_CarriesPriorValues(t *testing.T) {
	t.Parallel()

	token := "push-tok-1"
	uid := "auth-uid-1"
	photo := "https://example.com/p.jpg"
	signal := "S-42"
	boat := "Kestrel"
	sail := "USA 1234"
	class := "J/24"
	phrf := "168"
	login := time.Unix(1000, 0).UTC()

	existing := Member{
		ID:               "m-1",
		FirstName:        "Old",
		Roles:            []string{"rc_chair", "crew"},
		PushToken:        &token,
		AuthUID:          &uid,
		LastLogin:        &login,
		IsActive:         false,
		ProfilePhotoURL:  &photo,
		EmergencyContact: &EmergencyContact{Name: "Pat", Phone: "555-0100"},
		SignalNumber:     &signal,
		BoatName:         &boat,
		SailNumber:       &sail,
		BoatClass:        &class,
		PHRFRating:       &phrf,
	}

	mapped := Member{ID: "m-1", FirstName: "New", Email: "new@example.com"}
	got := PreserveLocal(mapped, &existing)

	if got.FirstName != "New" || got.Email != "new@example.com" {
		t.Fatalf("upstream-owned fields not taken from mapped: %+v", got)
	}
	if !reflect.DeepEqual(got.Roles, []string{"rc_chair", "crew"}) {
		t.Errorf("roles = %v, want prior roles", got.Roles)
	}
	if got.PushToken == nil || *got.PushToken != token {
		t.Errorf("pushToken not preserved: %v", got.PushToken)
	}
	if got.AuthUID == nil || *got.AuthUID != uid {
		t.Errorf("authUid not preserved: %v", got.AuthUID)
	}
	if got.LastLogin == nil || !got.LastLogin.Equal(login) {
		t.Errorf("lastLogin not preserved: %v", got.LastLogin)
	}
	if got.IsActive {
		t.Errorf("isActive regressed to default; prior explicit false must survive")
	}
	if got.EmergencyContact == nil || got.EmergencyContact.Name != "Pat" || got.EmergencyContact.Phone != "555-0100" {
		t.Errorf("emergencyContact not preserved: %+v", got.EmergencyContact)
	}
	for name, p := range map[string]*string{
		"signalNumber": got.SignalNumber,
		"boatName":     got.BoatName,
		"sailNumber":   got.SailNumber,
		"boatClass":    got.BoatClass,
		"phrfRating":   got.PHRFRating,
	} {
		if p == nil {
			t.Errorf("%s not preserved", name)
		}
	}
}

func TestPreserveLocal_DefaultsForNewMember(t *testing.T) {
	t.Parallel()

	got := PreserveLocal(Member{ID: "m-1"}, nil)

	if !reflect.DeepEqual(got.Roles, []string{"crew"}) {
		t.Errorf("roles = %v, want [crew]", got.Roles)
	}
	if !got.IsActive {
		t.Errorf("isActive should default to true for a new member")
	}
	if got.EmergencyContact == nil || got.EmergencyContact.Name != "Unknown" {
		t.Errorf("emergencyContact = %+v, want Unknown placeholder", got.EmergencyContact)
	}
	if got.PushToken != nil || got.AuthUID != nil || got.LastLogin != nil {
		t.Errorf("new member should have unset local pointers: %+v", got)
	}
}

func TestPreserveLocal_LegacyRoleMigration(t *testing.T) {
	t.Parallel()

	cases := []struct {
		legacy string
		want   string
	}{
		{"admin", "web_admin"},
		{"pro", "rc_chair"},
		{"rc_crew", "crew"},
		{"member", "crew"},
		{"something_else", "crew"},
	}
	for _, tc := range cases {
		existing := Member{ID: "m-1", LegacyRole: tc.legacy}
		got := PreserveLocal(Member{ID: "m-1"}, &existing)
		if !reflect.DeepEqual(got.Roles, []string{tc.want}) {
			t.Errorf("legacy %q: roles = %v, want [%s]", tc.legacy, got.Roles, tc.want)
		}
		if got.LegacyRole != "" {
			t.Errorf("legacy %q: retired role field should not be rewritten", tc.legacy)
		}
	}
}

func TestComparableJSON_IgnoresLastSynced(t *testing.T) {
	t.Parallel()

	a := Member{ID: "m-1", FirstName: "Alice", LastSynced: time.Unix(100, 0).UTC()}
	b := a
	b.LastSynced = time.Unix(9999, 0).UTC()

	if a.ComparableJSON() != b.ComparableJSON() {
		t.Fatalf("lastSynced must not affect comparison")
	}

	c := a
	c.Email = "alice@example.com"
	if a.ComparableJSON() == c.ComparableJSON() {
		t.Fatalf("a real field change must affect comparison")
	}
}
