package sim

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Steps <= 0 {
		t.Error("DefaultConfig has invalid Steps")
	}
	if cfg.SampleEvery < 0 {
		t.Error("DefaultConfig has invalid SampleEvery")
	}
	if err := validateConfig(cfg); err != nil {
		t.Errorf("DefaultConfig should validate, got %v", err)
	}
}

func TestStepError(t *testing.T) {
	err := StepError{Step: 150, Message: "test error"}
	expected := "step 150: test error"
	if err.Error() != expected {
		t.Errorf("StepError.Error() = %q, want %q", err.Error(), expected)
	}
}
