package systemd

import "testing"

func TestOutsideSystemd(t *testing.T) {
	t.Setenv("NOTIFY_SOCKET", "")
	t.Setenv("LISTEN_FDS", "")
	t.Setenv("LISTEN_PID", "")

	listeners, err := GetListeners()
	if err != nil {
		t.Fatalf("GetListeners() error = %v", err)
	}
	if listeners.Activated || listeners.Metrics != nil {
		t.Errorf("listeners = %+v, want none", listeners)
	}

	for name, fn := range map[string]func() error{
		"ready":    NotifyReady,
		"stopping": NotifyStopping,
		"status":   func() error { return NotifyStatus("idle") },
	} {
		if err := fn(); err != nil {
			t.Errorf("%s: error = %v, want nil outside systemd", name, err)
		}
	}
}
