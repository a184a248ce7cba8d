package models

// StateVersion is the current persisted document version.
const StateVersion = 1

// StateEnvelope wraps the persisted state with an explicit version field.
// Legacy documents (a bare state object with no envelope) unmarshal with
// Version == 0 and are migrated on load.
type StateEnvelope struct {
	Version int               `json:"version"`
	State   *UserMetricsState `json:"state"`
}
