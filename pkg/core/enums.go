package core

import "strings"

// =============================================================================
// Department
// =============================================================================

// Department classifies a policy.
type Department string

// Departments known to the game.
const (
	DepartmentForeignPolicy  Department = "FOREIGNPOLICY"
	DepartmentWelfare        Department = "WELFARE"
	DepartmentEconomy        Department = "ECONOMY"
	DepartmentTax            Department = "TAX"
	DepartmentPublicServices Department = "PUBLICSERVICES"
	DepartmentLawAndOrder    Department = "LAWANDORDER"
	DepartmentTransport      Department = "TRANSPORT"
)

// Departments lists every known department in editor order.
var Departments = []Department{
	DepartmentForeignPolicy,
	DepartmentWelfare,
	DepartmentEconomy,
	DepartmentTax,
	DepartmentPublicServices,
	DepartmentLawAndOrder,
	DepartmentTransport,
}

// IsValidDepartment reports whether s names a known department.
func IsValidDepartment(s string) bool {
	for _, d := range Departments {
		if string(d) == s {
			return true
		}
	}
	return false
}

// =============================================================================
// Flag
// =============================================================================

// Flag is a behavioral modifier on a policy.
type Flag string

// Policy flags. FlagNone is written in lower case, as the game files do.
const (
	FlagNone            Flag = "none"
	FlagUncancellable   Flag = "UNCANCELLABLE"
	FlagMultiplyIncome  Flag = "MULTIPLYINCOME"
	FlagNationalisation Flag = "NATIONALISATION"
)

// Flags lists every known flag.
var Flags = []Flag{FlagNone, FlagUncancellable, FlagMultiplyIncome, FlagNationalisation}

// IsValidFlag reports whether s names a known flag, ignoring case.
func IsValidFlag(s string) bool {
	for _, f := range Flags {
		if strings.EqualFold(string(f), s) {
			return true
		}
	}
	return false
}

// =============================================================================
// Zone
// =============================================================================

// Zone classifies a simulation variable.
type Zone string

// Zones share their names with the departments.
const (
	ZoneForeignPolicy  Zone = "FOREIGNPOLICY"
	ZoneWelfare        Zone = "WELFARE"
	ZoneEconomy        Zone = "ECONOMY"
	ZoneTax            Zone = "TAX"
	ZonePublicServices Zone = "PUBLICSERVICES"
	ZoneLawAndOrder    Zone = "LAWANDORDER"
	ZoneTransport      Zone = "TRANSPORT"
)

// Zones lists every known zone.
var Zones = []Zone{
	ZoneForeignPolicy,
	ZoneWelfare,
	ZoneEconomy,
	ZoneTax,
	ZonePublicServices,
	ZoneLawAndOrder,
	ZoneTransport,
}

// IsValidZone reports whether s names a known zone.
func IsValidZone(s string) bool {
	for _, z := range Zones {
		if string(z) == s {
			return true
		}
	}
	return false
}

// =============================================================================
// Emotion
// =============================================================================

// Emotion says which direction of a simulation value voters like.
type Emotion string

// Emotions.
const (
	EmotionHighGood Emotion = "HIGHGOOD"
	EmotionLowGood  Emotion = "LOWGOOD"
	EmotionNeutral  Emotion = "NEUTRAL"
)

// Emotions lists every known emotion.
var Emotions = []Emotion{EmotionHighGood, EmotionLowGood, EmotionNeutral}

// IsValidEmotion reports whether s names a known emotion.
func IsValidEmotion(s string) bool {
	for _, e := range Emotions {
		if string(e) == s {
			return true
		}
	}
	return false
}
