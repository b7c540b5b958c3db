package domain

// Selection records which classification type and control area a user picked
// for an application. (Email, App) is the natural key; storing again for the
// same pair overwrites Type and ControlArea in place.
type Selection struct {
	Email       string
	App         string
	Type        string
	ControlArea string
}
