// Package catalog holds the fixed Essential Eight control catalog and the
// maturity level definitions. Hard-coded as per government requirements.
package catalog

// Control is one of the eight government-defined control categories.
type Control struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MaturityLevel describes one of the four maturity ratings a control can hold.
type MaturityLevel struct {
	Level int    `json:"level"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

var essentialEight = []Control{
	{ID: "app-control", Name: "Application Control"},
	{ID: "patch-apps", Name: "Patch Applications"},
	{ID: "configure-office", Name: "Configure Microsoft Office Macro Settings"},
	{ID: "user-hardening", Name: "User Application Hardening"},
	{ID: "restrict-admin", Name: "Restrict Administrative Privileges"},
	{ID: "patch-os", Name: "Patch Operating Systems"},
	{ID: "mfa", Name: "Multi-factor Authentication"},
	{ID: "backups", Name: "Regular Backups"},
}

var maturityLevels = []MaturityLevel{
	{Level: 0, Name: "Not Implemented", Color: "red"},
	{Level: 1, Name: "Partially Implemented", Color: "orange"},
	{Level: 2, Name: "Largely Implemented", Color: "yellow"},
	{Level: 3, Name: "Fully Implemented", Color: "green"},
}

// Size is the number of controls every organization carries.
const Size = 8

// MinLevel and MaxLevel bound the valid maturity range.
const (
	MinLevel = 0
	MaxLevel = 3
)

// Controls returns the eight controls in declared order.
func Controls() []Control {
	out := make([]Control, len(essentialEight))
	copy(out, essentialEight)
	return out
}

// MaturityLevels returns the four maturity levels ordered by level ascending.
func MaturityLevels() []MaturityLevel {
	out := make([]MaturityLevel, len(maturityLevels))
	copy(out, maturityLevels)
	return out
}

// ControlByID looks up a control by its catalog identifier.
func ControlByID(id string) (Control, bool) {
	for _, control := range essentialEight {
		if control.ID == id {
			return control, true
		}
	}
	return Control{}, false
}

// LevelByValue looks up a maturity level definition by its numeric value.
func LevelByValue(level int) (MaturityLevel, bool) {
	for _, ml := range maturityLevels {
		if ml.Level == level {
			return ml, true
		}
	}
	return MaturityLevel{}, false
}

// IsValidLevel reports whether level is within the defined maturity range.
func IsValidLevel(level int) bool {
	return level >= MinLevel && level <= MaxLevel
}

// LevelName returns the display name for a level, or "Unknown" when out of range.
func LevelName(level int) string {
	if ml, ok := LevelByValue(level); ok {
		return ml.Name
	}
	return "Unknown"
}
