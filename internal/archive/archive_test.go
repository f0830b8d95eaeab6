package archive

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func testRun(id string, at time.Time) Run {
	return Run{
		SchemaVersion: CurrentSchemaVersion,
		CodecVersion:  CurrentCodecVersion,
		ID:            id,
		Simulator:     "nest",
		CreatedAt:     at,
		Duration:      100,
		Payload:       []byte{0xa1, 0x01, 0x02},
	}
}

func forEachStore(t *testing.T, fn func(t *testing.T, store Store)) {
	t.Helper()

	t.Run("memory", func(t *testing.T) {
		store := NewMemoryStore()
		if err := store.Init(context.Background()); err != nil {
			t.Fatalf("init: %v", err)
		}
		fn(t, store)
	})
	t.Run("sqlite", func(t *testing.T) {
		store := NewSQLiteStore(filepath.Join(t.TempDir(), "archive.db"))
		if err := store.Init(context.Background()); err != nil {
			t.Fatalf("init: %v", err)
		}
		defer func() {
			if err := CloseIfSupported(store); err != nil {
				t.Fatalf("close: %v", err)
			}
		}()
		fn(t, store)
	})
}

func TestSaveGetRoundTrip(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		at := time.Date(2025, 11, 3, 12, 30, 0, 0, time.UTC)
		want := testRun(NewRunID(), at)

		if err := store.SaveRun(ctx, want); err != nil {
			t.Fatalf("save: %v", err)
		}
		got, ok, err := store.GetRun(ctx, want.ID)
		if err != nil || !ok {
			t.Fatalf("get: (%v, %v)", ok, err)
		}
		if got.ID != want.ID || got.Simulator != want.Simulator || got.Duration != want.Duration {
			t.Fatalf("round trip changed the run: %+v", got)
		}
		if !got.CreatedAt.Equal(want.CreatedAt) {
			t.Fatalf("created at %v, want %v", got.CreatedAt, want.CreatedAt)
		}
		if !bytes.Equal(got.Payload, want.Payload) {
			t.Fatalf("payload changed: %v", got.Payload)
		}
	})
}

func TestGetMissingRun(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		_, ok, err := store.GetRun(context.Background(), "no-such-run")
		if err != nil || ok {
			t.Fatalf("missing run: (%v, %v)", ok, err)
		}
	})
}

func TestSaveOverwrites(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		run := testRun("run-1", time.Now().UTC().Truncate(time.Millisecond))

		if err := store.SaveRun(ctx, run); err != nil {
			t.Fatalf("save: %v", err)
		}
		run.Simulator = "spinnaker"
		run.Payload = []byte{0x42}
		if err := store.SaveRun(ctx, run); err != nil {
			t.Fatalf("save again: %v", err)
		}

		got, ok, err := store.GetRun(ctx, run.ID)
		if err != nil || !ok {
			t.Fatalf("get: (%v, %v)", ok, err)
		}
		if got.Simulator != "spinnaker" || !bytes.Equal(got.Payload, []byte{0x42}) {
			t.Fatalf("overwrite lost: %+v", got)
		}
	})
}

func TestListOmitsPayloadAndSorts(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		base := time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC)
		for i, id := range []string{"run-c", "run-a", "run-b"} {
			run := testRun(id, base.Add(time.Duration(2-i)*time.Hour))
			if err := store.SaveRun(ctx, run); err != nil {
				t.Fatalf("save %s: %v", id, err)
			}
		}

		runs, err := store.ListRuns(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(runs) != 3 {
			t.Fatalf("listed %d runs", len(runs))
		}
		// Oldest first.
		for i, want := range []string{"run-b", "run-a", "run-c"} {
			if runs[i].ID != want {
				t.Fatalf("position %d: %s, want %s", i, runs[i].ID, want)
			}
			if runs[i].Payload != nil {
				t.Fatalf("listing carries payload for %s", runs[i].ID)
			}
			if runs[i].PayloadSize != 3 {
				t.Fatalf("payload size %d for %s", runs[i].PayloadSize, runs[i].ID)
			}
		}
	})
}

func TestDeleteAndReset(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		now := time.Now().UTC().Truncate(time.Millisecond)
		for _, id := range []string{"run-1", "run-2"} {
			if err := store.SaveRun(ctx, testRun(id, now)); err != nil {
				t.Fatalf("save %s: %v", id, err)
			}
		}

		if err := store.DeleteRun(ctx, "run-1"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, ok, err := store.GetRun(ctx, "run-1"); err != nil || ok {
			t.Fatalf("deleted run still present: (%v, %v)", ok, err)
		}
		// Deleting an absent run is not an error.
		if err := store.DeleteRun(ctx, "run-1"); err != nil {
			t.Fatalf("repeat delete: %v", err)
		}

		if err := store.Reset(ctx); err != nil {
			t.Fatalf("reset: %v", err)
		}
		runs, err := store.ListRuns(ctx)
		if err != nil || len(runs) != 0 {
			t.Fatalf("reset left %d runs (%v)", len(runs), err)
		}
	})
}

func TestVersionMismatch(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		ctx := context.Background()
		run := testRun("run-old", time.Now().UTC())
		run.SchemaVersion = CurrentSchemaVersion + 1

		if err := store.SaveRun(ctx, run); err != nil {
			t.Fatalf("save: %v", err)
		}
		if _, _, err := store.GetRun(ctx, run.ID); !errors.Is(err, ErrVersionMismatch) {
			t.Fatalf("expected ErrVersionMismatch, got %v", err)
		}
	})
}

func TestCodecVersionCheck(t *testing.T) {
	run := testRun("run-x", time.Now().UTC())
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeRun(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ID != run.ID || !bytes.Equal(decoded.Payload, run.Payload) {
		t.Fatalf("codec round trip changed the run: %+v", decoded)
	}

	run.CodecVersion = CurrentCodecVersion + 1
	data, err = EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeRun(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
}

func TestNewStoreFactory(t *testing.T) {
	if _, err := NewStore("memory", ""); err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, err := NewStore("", ""); err != nil {
		t.Fatalf("default: %v", err)
	}
	if _, err := NewStore("sqlite", filepath.Join(t.TempDir(), "a.db")); err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	if _, err := NewStore("redis", ""); err == nil {
		t.Fatal("unsupported backend must fail")
	}
}

func TestSQLiteInitRequiresPath(t *testing.T) {
	store := NewSQLiteStore("")
	if err := store.Init(context.Background()); err == nil {
		t.Fatal("empty path must fail")
	}
}

func TestNewRunIDUnique(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == "" || a == b {
		t.Fatalf("ids not unique: %q %q", a, b)
	}
}
