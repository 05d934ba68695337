package navpoints

import "strings"

// facilityTable maps vocabulary terms to a facility type. Order matters: the
// first entry with a matching term wins.
var facilityTable = []struct {
	facility string
	terms    []string
}{
	{"washroom", []string{"washroom", "restroom"}},
	{"lab", []string{"lab", "laboratory"}},
	{"cafe", []string{"cafe", "cafeteria"}},
	{"library", []string{"library"}},
	{"gym", []string{"gym", "gymnasium"}},
}

func matchesAny(r RoomInfo, terms ...string) bool {
	label := strings.ToLower(r.Label)
	typ := strings.ToLower(r.Type)
	for _, t := range terms {
		if strings.Contains(label, t) || strings.Contains(typ, t) {
			return true
		}
	}
	return false
}

func isOffice(r RoomInfo) bool {
	return strings.EqualFold(r.Type, "office") || strings.Contains(strings.ToLower(r.Label), "office")
}

func isFacility(r RoomInfo) bool {
	for _, f := range facilityTable {
		if matchesAny(r, f.terms...) {
			return true
		}
	}
	return false
}

// FacilityType returns the normalised facility type of r, or "facility" when
// no vocabulary term matches.
func FacilityType(r RoomInfo) string {
	for _, f := range facilityTable {
		if matchesAny(r, f.terms...) {
			return f.facility
		}
	}
	return "facility"
}
