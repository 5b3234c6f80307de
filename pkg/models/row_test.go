package models

import (
	"testing"
)

func TestNumberCoercion(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want float64
		ok   bool
	}{
		{"native float", 1234.5, 1234.5, true},
		{"native int", 42, 42, true},
		{"plain string", "1234.56", 1234.56, true},
		{"italian thousands and decimal", "1.234,56", 1234.56, true},
		{"currency and spaces", "€ 1.200,00", 1200, true},
		{"comma decimal only", "12,5", 12.5, true},
		{"empty", "", 0, false},
		{"text", "n/d", 0, false},
		{"nil", nil, 0, false},
	}
	for _, c := range cases {
		row := Row{"v": c.in}
		got, ok := row.Number("v")
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("%s: Number(%v) = %f/%t, want %f/%t", c.name, c.in, got, ok, c.want, c.ok)
		}
	}

	if _, ok := (Row{}).Number("assente"); ok {
		t.Error("missing column should not coerce")
	}
}

func TestSeriesDropsUnparseable(t *testing.T) {
	rows := []Row{
		{"v": 10.0},
		{"v": "n/d"},
		{"v": "20"},
		{"altro": 5.0},
	}
	got := Series(rows, "v")
	if len(got) != 2 || got[0] != 10 || got[1] != 20 {
		t.Errorf("Series = %v, want [10 20]", got)
	}
}

func TestParseDateLayouts(t *testing.T) {
	cases := []struct {
		in    string
		year  int
		month int
		day   int
	}{
		{"2024-03-15", 2024, 3, 15},
		{"15/03/2024", 2024, 3, 15},
		{"15-03-2024", 2024, 3, 15},
		{"2024/03/15", 2024, 3, 15},
		{"2024-03-15 10:30:00", 2024, 3, 15},
	}
	for _, c := range cases {
		d, ok := ParseDate(c.in)
		if !ok {
			t.Errorf("ParseDate(%q) failed", c.in)
			continue
		}
		if d.Year() != c.year || int(d.Month()) != c.month || d.Day() != c.day {
			t.Errorf("ParseDate(%q) = %v", c.in, d)
		}
	}

	for _, bad := range []string{"", "ieri", "2024-13-99"} {
		if _, ok := ParseDate(bad); ok {
			t.Errorf("ParseDate(%q) should fail", bad)
		}
	}
}

func TestHorizonActionsTotals(t *testing.T) {
	a := HorizonActions{
		Short:  []string{"a", "b"},
		Medium: []string{"c"},
		Long:   []string{"d", "e", "f"},
	}
	if a.Total() != 6 {
		t.Errorf("Total = %d, want 6", a.Total())
	}
	all := a.All()
	if len(all) != 6 || all[0] != "a" || all[5] != "f" {
		t.Errorf("All = %v", all)
	}
	var empty HorizonActions
	if empty.Total() != 0 || len(empty.All()) != 0 {
		t.Error("zero value should count zero actions")
	}
}
