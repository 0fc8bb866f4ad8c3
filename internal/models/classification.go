package models

// ClassificationResult is the interpreted verdict from the vision model
// for a single snapshot.
type ClassificationResult struct {
	Detected    bool   `json:"detected"`
	Description string `json:"description"`

	// Raw is the verbatim model reply, kept for diagnostics only.
	Raw string `json:"-"`
}
