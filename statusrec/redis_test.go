package statusrec

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/pithecene-io/terrace/iox"
)

func testRecord(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rec, err := NewRedis(RedisConfig{URL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	t.Cleanup(iox.CloseFunc(rec))
	return rec, mr
}

func TestRedis_StatusRoundTrip(t *testing.T) {
	rec, _ := testRecord(t)
	ctx := context.Background()

	if err := rec.SetStatus(ctx, "240112_NV001_0042_AHXYZ1DRXX", "analysis pending", "terrace"); err != nil {
		t.Fatalf("set status: %v", err)
	}

	status, err := rec.Status(ctx, "240112_NV001_0042_AHXYZ1DRXX")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status != "analysis pending" {
		t.Errorf("status = %q", status)
	}
}

func TestRedis_UnknownRun(t *testing.T) {
	rec, _ := testRecord(t)

	_, err := rec.Status(context.Background(), "nonexistent")
	if !errors.Is(err, ErrUnknownRun) {
		t.Fatalf("want ErrUnknownRun, got %v", err)
	}
}

func TestRedis_ActualCycleCount(t *testing.T) {
	rec, mr := testRecord(t)
	ctx := context.Background()

	cycles, err := rec.ActualCycleCount(ctx, "run-a")
	if err != nil {
		t.Fatalf("cycles: %v", err)
	}
	if cycles != 0 {
		t.Errorf("absent field should read 0, got %d", cycles)
	}

	mr.HSet(DefaultKeyPrefix+"run-a", "actual_cycles", "204")
	cycles, err = rec.ActualCycleCount(ctx, "run-a")
	if err != nil {
		t.Fatalf("cycles: %v", err)
	}
	if cycles != 204 {
		t.Errorf("cycles = %d, want 204", cycles)
	}
}

func TestNewRedis_RequiresURL(t *testing.T) {
	if _, err := NewRedis(RedisConfig{}); err == nil {
		t.Fatal("empty URL should be rejected")
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.Status(ctx, "run-a"); !errors.Is(err, ErrUnknownRun) {
		t.Fatalf("want ErrUnknownRun, got %v", err)
	}

	if err := m.SetStatus(ctx, "run-a", "qc complete", "operator"); err != nil {
		t.Fatalf("set status: %v", err)
	}
	status, err := m.Status(ctx, "run-a")
	if err != nil || status != "qc complete" {
		t.Fatalf("status = (%q, %v)", status, err)
	}
	if m.Actor("run-a") != "operator" {
		t.Errorf("actor = %q", m.Actor("run-a"))
	}

	m.SetActualCycleCount("run-a", 310)
	cycles, err := m.ActualCycleCount(ctx, "run-a")
	if err != nil || cycles != 310 {
		t.Fatalf("cycles = (%d, %v)", cycles, err)
	}
}
