package util

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateJSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		d := NewDate(2025, time.August, 13)
		raw, err := json.Marshal(d)
		if err != nil {
			t.Fatal(err)
		}
		if string(raw) != `"2025-08-13"` {
			t.Errorf("unexpected JSON %s", raw)
		}

		var back Date
		if err := json.Unmarshal(raw, &back); err != nil {
			t.Fatal(err)
		}
		if !back.Equal(d) {
			t.Errorf("expected %v, got %v", d, back)
		}
	})

	t.Run("zero value marshals as null", func(t *testing.T) {
		raw, err := json.Marshal(Date{})
		if err != nil {
			t.Fatal(err)
		}
		if string(raw) != "null" {
			t.Errorf("expected null, got %s", raw)
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		var d Date
		if err := json.Unmarshal([]byte(`"13/08/2025"`), &d); err == nil {
			t.Error("expected error for non ISO date")
		}
	})
}

func TestDateScan(t *testing.T) {
	t.Run("from time truncates to midnight UTC", func(t *testing.T) {
		var d Date
		if err := d.Scan(time.Date(2025, time.August, 13, 17, 30, 0, 0, time.FixedZone("BRT", -3*3600))); err != nil {
			t.Fatal(err)
		}
		if d.String() != "2025-08-13" {
			t.Errorf("expected 2025-08-13, got %s", d.String())
		}
	})

	t.Run("from string", func(t *testing.T) {
		var d Date
		if err := d.Scan("2025-08-13"); err != nil {
			t.Fatal(err)
		}
		if d.String() != "2025-08-13" {
			t.Errorf("expected 2025-08-13, got %s", d.String())
		}
	})

	t.Run("nil clears", func(t *testing.T) {
		d := NewDate(2025, time.August, 13)
		if err := d.Scan(nil); err != nil {
			t.Fatal(err)
		}
		if !d.IsZero() {
			t.Error("expected zero date after scanning nil")
		}
	})
}
