// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

package minilog

import "testing"

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
	}{
		{"debug", DEBUG},
		{"info", INFO},
		{"warn", WARN},
		{"error", ERROR},
		{"fatal", FATAL},
	}

	for _, c := range cases {
		got, err := ParseLevel(c.in)
		if err != nil {
			t.Errorf("ParseLevel(%q) err = %v; want nil", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseLevel(%q) = %v; want %v", c.in, got, c.want)
		}
	}
}

func TestParseLevelInvalid(t *testing.T) {
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("expected an error for an unknown level name, got nil")
	}
}

func TestLevelString(t *testing.T) {
	if DEBUG.String() != "debug" {
		t.Errorf("DEBUG.String() = %q; want debug", DEBUG.String())
	}
	if got := Level(99).String(); got != "Level(99)" {
		t.Errorf("Level(99).String() = %q; want Level(99)", got)
	}
}

func TestLevelSet(t *testing.T) {
	var l Level
	if err := l.Set("warn"); err != nil {
		t.Fatalf("Set err = %v; want nil", err)
	}
	if l != WARN {
		t.Errorf("l = %v; want WARN", l)
	}
}

func TestLevelOrdering(t *testing.T) {
	if !(DEBUG < INFO && INFO < WARN && WARN < ERROR && ERROR < FATAL) {
		t.Fatal("level constants are not in ascending severity order")
	}
}
