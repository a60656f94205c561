package printer

import (
	"reflect"
	"testing"
)

func TestApplyPartialAccumulates(t *testing.T) {
	s := NewState()
	s.ApplyPartial(map[string]map[string]any{
		"extruder": {"temperature": 200.0},
	})
	s.ApplyPartial(map[string]map[string]any{
		"extruder": {"target": 210.0},
	})

	want := map[string]any{"temperature": 200.0, "target": 210.0}
	if !reflect.DeepEqual(s["extruder"], want) {
		t.Errorf("extruder = %v, want %v", s["extruder"], want)
	}
}

func TestApplyPartialIdempotent(t *testing.T) {
	payload := map[string]map[string]any{
		"toolhead": {"position": []any{0.0, 0.0, 10.0, 0.0}, "homed_axes": "xyz"},
	}

	once := NewState()
	once.ApplyPartial(payload)

	twice := NewState()
	twice.ApplyPartial(payload)
	twice.ApplyPartial(payload)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("applying twice = %v, want %v", twice, once)
	}
}

func TestApplyPartialLaterValueWins(t *testing.T) {
	s := NewState()
	s.ApplyPartial(map[string]map[string]any{"heater_bed": {"target": 60.0}})
	s.ApplyPartial(map[string]map[string]any{"heater_bed": {"target": 0.0}})

	if v, _ := s.FloatField("heater_bed", "target"); v != 0.0 {
		t.Errorf("target = %v, want 0", v)
	}
}

func TestApplyFullReplacesSubsystem(t *testing.T) {
	s := NewState()
	s.ApplyPartial(map[string]map[string]any{
		"print_stats": {"state": "printing", "filename": "benchy.gcode"},
	})
	s.ApplyFull(map[string]map[string]any{
		"print_stats": {"state": "standby"},
	})

	if got := s.PrintState(); got != "standby" {
		t.Errorf("state = %q, want standby", got)
	}
	// Full replacement drops fields absent from the authoritative payload
	if got := s.Filename(); got != "" {
		t.Errorf("filename = %q, want empty after full replace", got)
	}
}

func TestApplyFullRetainsOtherSubsystems(t *testing.T) {
	s := NewState()
	s.ApplyPartial(map[string]map[string]any{"extruder": {"temperature": 195.5}})
	s.ApplyFull(map[string]map[string]any{"toolhead": {"homed_axes": "xy"}})

	if v, ok := s.FloatField("extruder", "temperature"); !ok || v != 195.5 {
		t.Errorf("extruder.temperature = %v (%v), want 195.5", v, ok)
	}
}

func TestApplyFullDoesNotAliasPayload(t *testing.T) {
	payload := map[string]map[string]any{"extruder": {"temperature": 20.0}}
	s := NewState()
	s.ApplyFull(payload)

	payload["extruder"]["temperature"] = 999.0
	if v, _ := s.FloatField("extruder", "temperature"); v != 20.0 {
		t.Errorf("snapshot aliased the payload map: temperature = %v", v)
	}
}

func TestAccessorsOnEmptyState(t *testing.T) {
	s := NewState()
	if s.PrintState() != "" || s.Filename() != "" {
		t.Error("empty state should yield empty strings")
	}
	if v, ok := s.FloatField("extruder", "temperature"); ok || v != 0 {
		t.Errorf("FloatField on empty state = %v, %v", v, ok)
	}
	if s.Progress() != 0 {
		t.Errorf("Progress on empty state = %v", s.Progress())
	}
}
