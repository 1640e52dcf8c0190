package services

import (
	"testing"
	"time"

	"electorate/contexts/election-core/election-engine/domain/entities"
)

func TestDeriveStatus(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	election := entities.Election{
		StartTime: base,
		StopTime:  base.Add(24 * time.Hour),
	}

	cases := []struct {
		name      string
		now       time.Time
		paused    bool
		cancelled bool
		want      entities.ElectionStatus
	}{
		{name: "before start", now: base.Add(-time.Hour), want: entities.StatusNotStarted},
		{name: "at start", now: base, want: entities.StatusActive},
		{name: "inside window", now: base.Add(time.Hour), want: entities.StatusActive},
		{name: "inside window paused", now: base.Add(time.Hour), paused: true, want: entities.StatusPaused},
		{name: "at stop", now: base.Add(24 * time.Hour), want: entities.StatusClosed},
		{name: "after stop", now: base.Add(48 * time.Hour), want: entities.StatusClosed},
		{name: "after stop paused flag ignored", now: base.Add(48 * time.Hour), paused: true, want: entities.StatusClosed},
		{name: "cancelled before start", now: base.Add(-time.Hour), cancelled: true, want: entities.StatusCancelled},
		{name: "cancelled inside window", now: base.Add(time.Hour), cancelled: true, want: entities.StatusCancelled},
		{name: "cancelled after stop", now: base.Add(48 * time.Hour), cancelled: true, want: entities.StatusCancelled},
		{name: "cancelled wins over paused", now: base.Add(time.Hour), paused: true, cancelled: true, want: entities.StatusCancelled},
	}
	for _, tc := range cases {
		candidate := election
		candidate.Paused = tc.paused
		candidate.Cancelled = tc.cancelled
		if got := DeriveStatus(candidate, tc.now); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestIsOpen(t *testing.T) {
	open := []entities.ElectionStatus{entities.StatusNotStarted, entities.StatusActive, entities.StatusPaused}
	for _, status := range open {
		if !IsOpen(status) {
			t.Fatalf("expected %s to be open", status)
		}
	}
	closed := []entities.ElectionStatus{entities.StatusClosed, entities.StatusCancelled}
	for _, status := range closed {
		if IsOpen(status) {
			t.Fatalf("expected %s to be closed", status)
		}
	}
}

func TestValidNameAndDescription(t *testing.T) {
	if ValidName("ab") {
		t.Fatalf("two runes must be rejected")
	}
	if !ValidName("abc") {
		t.Fatalf("three runes must be accepted")
	}
	// Rune count, not byte count.
	if !ValidName("日本語") {
		t.Fatalf("three multibyte runes must be accepted")
	}
	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	if ValidName(string(long)) {
		t.Fatalf("51 runes must be rejected")
	}
	if ValidDescription("ab") {
		t.Fatalf("short description must be rejected")
	}
	if !ValidDescription("a ballot about budgets") {
		t.Fatalf("normal description must be accepted")
	}
}
