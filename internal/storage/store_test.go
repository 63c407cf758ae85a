package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-gamemode/internal/account"
	"github.com/pixil98/go-testutil"
)

func writePlace(t *testing.T, dir, id string, p *account.Place) {
	t.Helper()
	asset := Asset[*account.Place]{
		Version:    1,
		Identifier: Identifier(id),
		Spec:       p,
	}
	data, err := json.Marshal(asset)
	if err != nil {
		t.Fatalf("failed to marshal test asset: %v", err)
	}
	err = os.WriteFile(filepath.Join(dir, id+".json"), data, 0644)
	if err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
}

func TestNewFileStore(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewFileStore[*account.Place](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "root", store.root, tmpDir)
	testutil.AssertEqual(t, "records length", len(store.records), 0)
}

func TestNewFileStore_NonExistentDirectory(t *testing.T) {
	_, err := NewFileStore[*account.Place]("/nonexistent/path/that/does/not/exist")
	if err == nil {
		t.Error("expected error for non-existent directory")
	}
}

func TestNewFileStore_WithExistingAssets(t *testing.T) {
	tmpDir := t.TempDir()
	writePlace(t, tmpDir, "unity-station", &account.Place{Position: account.Vector3{X: 1742.9, Y: -1861.3, Z: 13.6}, Angle: 0})
	writePlace(t, tmpDir, "airport", &account.Place{Position: account.Vector3{X: 1685.7, Y: -2335.2, Z: 13.5}, Angle: 0})

	// Non-json files are ignored.
	err := os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("ignore me"), 0644)
	if err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	store, err := NewFileStore[*account.Place](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "record count", len(store.GetAll()), 2)

	station := store.Get("unity-station")
	if station == nil {
		t.Fatal("expected unity-station to be loaded")
	}
	testutil.AssertEqual(t, "x", station.Position.X, float32(1742.9))
	testutil.AssertEqual(t, "z", station.Position.Z, float32(13.6))
}

func TestNewFileStore_Errors(t *testing.T) {
	tests := map[string]struct {
		files  map[string]string
		expErr string
	}{
		"invalid json": {
			files:  map[string]string{"bad.json": `{invalid json`},
			expErr: "unmarshalling asset",
		},
		"invalid version": {
			files:  map[string]string{"spawn.json": `{"version":0,"id":"spawn","spec":{"angle":0}}`},
			expErr: "version must be set",
		},
		"invalid place": {
			files:  map[string]string{"spawn.json": `{"version":1,"id":"spawn","spec":{"angle":720}}`},
			expErr: "angle must be in",
		},
		"duplicate ids": {
			files: map[string]string{
				"a.json": `{"version":1,"id":"spawn","spec":{"angle":0}}`,
				"b.json": `{"version":1,"id":"spawn","spec":{"angle":1}}`,
			},
			expErr: "duplicate key detected: spawn",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tmpDir := t.TempDir()
			for file, content := range tt.files {
				if err := os.WriteFile(filepath.Join(tmpDir, file), []byte(content), 0644); err != nil {
					t.Fatalf("failed to write test file: %v", err)
				}
			}

			_, err := NewFileStore[*account.Place](tmpDir)
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestFileStore_Get(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewFileStore[*account.Place](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	store.records = map[string]*account.Place{
		"existing": {Angle: 42},
	}

	tests := map[string]struct {
		id       string
		expNil   bool
		expAngle float32
	}{
		"get existing record": {
			id:       "existing",
			expAngle: 42,
		},
		"get non-existing record": {
			id:     "nonexistent",
			expNil: true,
		},
		"get empty id": {
			id:     "",
			expNil: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			result := store.Get(tt.id)

			if tt.expNil {
				if result != nil {
					t.Errorf("expected nil, got %v", result)
				}
				return
			}
			if result == nil {
				t.Fatal("expected non-nil result")
			}
			testutil.AssertEqual(t, "angle", result.Angle, tt.expAngle)
		})
	}
}

func TestFileStore_GetAllReturnsCopy(t *testing.T) {
	tmpDir := t.TempDir()
	writePlace(t, tmpDir, "one", &account.Place{})
	writePlace(t, tmpDir, "two", &account.Place{})
	store, err := NewFileStore[*account.Place](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}

	result := store.GetAll()
	delete(result, "one")

	testutil.AssertEqual(t, "store count", len(store.GetAll()), 2)
}

func TestFileStore_LoadsSubdirectories(t *testing.T) {
	tmpDir := t.TempDir()
	sub := filepath.Join(tmpDir, "ls")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	writePlace(t, tmpDir, "unity-station", &account.Place{})
	writePlace(t, sub, "airport", &account.Place{Angle: 180})

	store, err := NewFileStore[*account.Place](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}

	testutil.AssertEqual(t, "count", len(store.GetAll()), 2)
	if store.Get("airport") == nil {
		t.Fatal("expected asset from subdirectory to be loaded")
	}
	testutil.AssertEqual(t, "angle", store.Get("airport").Angle, float32(180))
}

func TestFileStore_ReloadKeepsRecordsOnError(t *testing.T) {
	tmpDir := t.TempDir()
	writePlace(t, tmpDir, "spawn", &account.Place{Angle: 10})
	store, err := NewFileStore[*account.Place](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}

	writePlace(t, tmpDir, "spawn", &account.Place{Angle: 20})
	if err := store.Reload(); err != nil {
		t.Fatalf("unexpected error reloading: %v", err)
	}
	testutil.AssertEqual(t, "reloaded angle", store.Get("spawn").Angle, float32(20))

	if err := os.WriteFile(filepath.Join(tmpDir, "broken.json"), []byte("{"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	testutil.AssertErrorContains(t, store.Reload(), "loading broken.json")
	testutil.AssertEqual(t, "kept angle", store.Get("spawn").Angle, float32(20))
}
