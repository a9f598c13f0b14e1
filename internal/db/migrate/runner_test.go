package migrate

import "testing"

func TestRun_EmptyDSN(t *testing.T) {
	if err := Run("", "up"); err == nil {
		t.Fatal("empty DSN should fail")
	}
}

func TestRun_InvalidDirection(t *testing.T) {
	for _, dir := range []string{"", "sideways", "UP"} {
		if err := Run("postgres://localhost/x", dir); err == nil {
			t.Errorf("direction %q should fail", dir)
		}
	}
}
