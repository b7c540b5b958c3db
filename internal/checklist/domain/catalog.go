package domain

// ControlRow is one row of the security-controls reference sheet.
type ControlRow struct {
	SecurityLevel string // classification type, e.g. "High"
	Level         string
	ControlArea   string // CAF capability label
	Layer2Control string
	Control       string
	SubControl    string
}

// Catalog is the read-only reference data. It is loaded once at startup and
// never mutated, so it can be shared across handlers without synchronization.
type Catalog struct {
	Controls     []ControlRow
	Applications []string
}
