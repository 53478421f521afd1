package catalog

// ExerciseID names an exercise owned by the catalog service. Identifiers
// are positive; the catalog never issues zero or negative IDs.
type ExerciseID int64

// Exercise is the catalog's record for one identifier. It is read-only
// reference data: fetched per call, never cached across calls.
type Exercise struct {
	ID          ExerciseID `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	VideoURL    string     `json:"videoUrl,omitempty"`
	Aliases     []string   `json:"aliases,omitempty"`
}
