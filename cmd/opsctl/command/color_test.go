package command

import "testing"

func TestColorModeSet(t *testing.T) {
	var mode ColorMode
	for _, valid := range []string{"never", "auto", "always"} {
		if err := mode.Set(valid); err != nil {
			t.Errorf("Set(%q) returned %v", valid, err)
		}
		if mode.String() != valid {
			t.Errorf("expected %q, got %q", valid, mode)
		}
	}
	if err := mode.Set("rainbow"); err == nil {
		t.Error("expected an error for an invalid color mode")
	}
}

func TestExitCodeError(t *testing.T) {
	if got := ExitCode(2).Error(); got != "exit code 2" {
		t.Errorf("unexpected error string %q", got)
	}
}
