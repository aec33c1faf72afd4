package main

import (
	"testing"

	"github.com/yourusername/displayhop/internal/topology"
	"github.com/yourusername/displayhop/internal/types"
)

func TestFormatPath(t *testing.T) {
	path := topology.Path{
		{DisplayID: 2, Side: types.SideTop},
		{DisplayID: 4, Side: types.SideLeft},
	}
	if got := formatPath(1, path); got != "1 -top-> 2 -left-> 4" {
		t.Errorf("formatPath = %q", got)
	}
	if got := formatPath(3, nil); got != "3" {
		t.Errorf("formatPath(empty) = %q", got)
	}
}

func TestParseTarget(t *testing.T) {
	id, x, y, err := parseTarget([]string{"4", "30", "-2"})
	if err != nil {
		t.Fatalf("parseTarget failed: %v", err)
	}
	if id != 4 || x != 30 || y != -2 {
		t.Errorf("parseTarget = (%d, %d, %d)", id, x, y)
	}

	for _, args := range [][]string{{"a", "1", "1"}, {"1", "1.5", "1"}, {"1", "1", "y"}} {
		if _, _, _, err := parseTarget(args); err == nil {
			t.Errorf("parseTarget(%v) should fail", args)
		}
	}
}
