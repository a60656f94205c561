package printer

// State is the cumulative printer telemetry snapshot: subsystem name
// (e.g. "print_stats", "toolhead") to a field→value map. Values are
// heterogeneous JSON scalars and arrays as decoded by encoding/json.
type State map[string]map[string]any

// NewState creates an empty snapshot.
func NewState() State {
	return make(State)
}

// ApplyPartial overlays an incremental delta onto the snapshot. For each
// subsystem present in the payload, new fields are added and existing
// fields overwritten; fields absent from the payload are retained.
// Subsystems absent from the payload are untouched.
func (s State) ApplyPartial(payload map[string]map[string]any) {
	for name, fields := range payload {
		current, ok := s[name]
		if !ok {
			current = make(map[string]any, len(fields))
			s[name] = current
		}
		for field, value := range fields {
			current[field] = value
		}
	}
}

// ApplyFull replaces each named subsystem's map wholesale with the
// authoritative payload, superseding any prior partial data. Subsystems
// absent from the payload are retained: disappearance means "unchanged",
// not "removed".
func (s State) ApplyFull(payload map[string]map[string]any) {
	for name, fields := range payload {
		replacement := make(map[string]any, len(fields))
		for field, value := range fields {
			replacement[field] = value
		}
		s[name] = replacement
	}
}

// Field returns a single subsystem field, or nil if either level is absent.
func (s State) Field(subsystem, field string) any {
	fields, ok := s[subsystem]
	if !ok {
		return nil
	}
	return fields[field]
}

// StringField returns a subsystem field as a string, or "" if absent or
// not a string.
func (s State) StringField(subsystem, field string) string {
	v, _ := s.Field(subsystem, field).(string)
	return v
}

// FloatField returns a subsystem field as a float64. JSON numbers decode
// to float64, so this covers temperatures, durations and factors.
func (s State) FloatField(subsystem, field string) (float64, bool) {
	v, ok := s.Field(subsystem, field).(float64)
	return v, ok
}

// PrintState returns print_stats.state ("standby", "printing", "paused",
// "complete", "cancelled", "error"), or "" when unknown.
func (s State) PrintState() string {
	return s.StringField("print_stats", "state")
}

// Filename returns the file recorded in print_stats, or "".
func (s State) Filename() string {
	return s.StringField("print_stats", "filename")
}

// Progress returns display_status.progress in [0,1].
func (s State) Progress() float64 {
	v, _ := s.FloatField("display_status", "progress")
	return v
}
