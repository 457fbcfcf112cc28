package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-almanac/internal/almanac"
	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/state"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2024, 6, 21, 23, 30, 0, 0, time.FixedZone("X", -3*3600))

	got, err := parseDate("", now)
	if err != nil || got.Format("2006-01-02") != "2024-06-22" {
		t.Errorf("parseDate(\"\") = %v, %v; want the UTC date 2024-06-22", got, err)
	}

	got, err = parseDate("1994-05-08", now)
	if err != nil || !got.Equal(time.Date(1994, 5, 8, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("parseDate(1994-05-08) = %v, %v", got, err)
	}

	if _, err := parseDate("8 May 1994", now); err == nil {
		t.Error("expected an error for a malformed date")
	}
}

func TestAlmanacConfig(t *testing.T) {
	cfg, err := almanacConfig("", "")
	if err != nil {
		t.Fatalf("defaults error = %v", err)
	}
	if len(cfg.Latitudes) != len(almanac.DefaultConfig().Latitudes) {
		t.Errorf("got %d latitudes, want defaults", len(cfg.Latitudes))
	}

	cfg, err = almanacConfig("10,-10", "sunrise,sunset")
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if len(cfg.Latitudes) != 2 || len(cfg.Events) != 2 || cfg.Events[1] != astro.Sunset {
		t.Errorf("cfg = %+v", cfg)
	}

	if _, err := almanacConfig("95", ""); !errors.Is(err, almanac.ErrInvalidLatitude) {
		t.Errorf("error = %v, want ErrInvalidLatitude", err)
	}
	if _, err := almanacConfig("", "moonrise"); !errors.Is(err, astro.ErrUnknownEvent) {
		t.Errorf("error = %v, want ErrUnknownEvent", err)
	}
}

func TestWriteObserverEvents(t *testing.T) {
	cfg := state.DefaultConfig()
	cfg.Observer = astro.Observer{Latitude: 72, Name: "Polar"}
	mgr := state.NewManager(cfg)
	mgr.SetDate(time.Date(1994, 5, 8, 0, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	writeObserverEvents(&buf, mgr.Snapshot())
	out := buf.String()

	for _, want := range []string{
		"Observer Polar (72.0000, 0.0000)",
		"nautical-dusk      does not occur",
		"solar-noon         1994-05-08 11:5",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
