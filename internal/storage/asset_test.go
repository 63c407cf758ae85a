package storage

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/pixil98/go-gamemode/internal/account"
	"github.com/pixil98/go-testutil"
)

func TestAsset_Validate(t *testing.T) {
	valid := &account.Place{Position: account.Vector3{X: 1958.3, Y: 1343.1, Z: 15.3}, Angle: 269}

	tests := map[string]struct {
		asset   Asset[*account.Place]
		expErrs []string
	}{
		"valid asset": {
			asset: Asset[*account.Place]{Version: 1, Identifier: "unity-station", Spec: valid},
		},
		"version not set": {
			asset:   Asset[*account.Place]{Version: 0, Identifier: "unity-station", Spec: valid},
			expErrs: []string{"version must be set"},
		},
		"empty identifier": {
			asset:   Asset[*account.Place]{Version: 1, Identifier: "", Spec: valid},
			expErrs: []string{"id must be set"},
		},
		"identifier with underscore": {
			asset:   Asset[*account.Place]{Version: 1, Identifier: "unity_station", Spec: valid},
			expErrs: []string{"id must be alphanumeric"},
		},
		"missing spec": {
			asset:   Asset[*account.Place]{Version: 1, Identifier: "unity-station"},
			expErrs: []string{"spec must be set"},
		},
		"invalid spec": {
			asset:   Asset[*account.Place]{Version: 1, Identifier: "unity-station", Spec: &account.Place{Angle: 400}},
			expErrs: []string{"angle must be in"},
		},
		"multiple errors": {
			asset: Asset[*account.Place]{Version: 0, Identifier: "", Spec: &account.Place{Angle: -5}},
			expErrs: []string{
				"version must be set",
				"id must be set",
				"angle must be in",
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.asset.Validate()

			if len(tt.expErrs) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Errorf("expected errors %v, got nil", tt.expErrs)
				return
			}

			errStr := err.Error()
			for _, e := range tt.expErrs {
				if !strings.Contains(errStr, e) {
					t.Errorf("error %q does not contain %q", errStr, e)
				}
			}
		})
	}
}

func TestSmartIdentifier_Resolve(t *testing.T) {
	tmpDir := t.TempDir()
	writePlace(t, tmpDir, "spawn", &account.Place{Angle: 90})
	store, err := NewFileStore[*account.Place](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var ref SmartIdentifier[*account.Place]
	if err := json.Unmarshal([]byte(`"spawn"`), &ref); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	testutil.AssertEqual(t, "is set", ref.IsSet(), true)
	testutil.AssertEqual(t, "key", ref.Key(), "spawn")

	if err := ref.Resolve(store); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	testutil.AssertEqual(t, "angle", ref.Get().Angle, float32(90))

	missing := NewSmartIdentifier[*account.Place]("nowhere")
	testutil.AssertErrorContains(t, missing.Resolve(store), `Place "nowhere" not found`)

	data, err := json.Marshal(ref)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	testutil.AssertEqual(t, "json", string(data), `"spawn"`)
}
