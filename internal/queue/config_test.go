package queue

import "testing"

func TestConfig_GroupID(t *testing.T) {
	cfg := Config{ClientID: "slurp-worker"}
	if got, want := cfg.GroupID(), "slurp-worker-group"; got != want {
		t.Errorf("GroupID() = %q, want %q", got, want)
	}
}

func TestConfig_ValidateRequiresAllFields(t *testing.T) {
	cases := []Config{
		{Topic: "t", ClientID: "c"},
		{BootstrapServers: "b", ClientID: "c"},
		{BootstrapServers: "b", Topic: "t"},
	}
	for _, cfg := range cases {
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected validation error for %+v", cfg)
		}
	}
}

func TestConfig_ValidateAcceptsComplete(t *testing.T) {
	cfg := Config{BootstrapServers: "b", Topic: "t", ClientID: "c"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestNewSubmitter_RejectsIncompleteConfig(t *testing.T) {
	if _, err := NewSubmitter(Config{}); err == nil {
		t.Error("expected error constructing submitter with empty config")
	}
}

func TestNewConsumer_RejectsIncompleteConfig(t *testing.T) {
	if _, err := NewConsumer(Config{}); err == nil {
		t.Error("expected error constructing consumer with empty config")
	}
}
