package common

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRegisterParamsJSON(t *testing.T) {
	p := RegisterParams{
		Name:       "pnacl",
		PKHashHex:  "ab01ff",
		Version:    "1.2.3",
		InstallDir: "/var/lib/cruxd/pnacl",
	}
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out RegisterParams
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.PKHashHex != p.PKHashHex || out.Version != p.Version {
		t.Fatalf("unexpected round trip: %+v", out)
	}
}

func TestComponentInfoOmitsEmptyFields(t *testing.T) {
	b, err := json.Marshal(ComponentInfo{
		ComponentId: "abcd",
		Version:     "1.0",
		State:       "up_to_date",
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(b)
	for _, unwanted := range []string{"next_version", "error_category", "diff_update_failed"} {
		if strings.Contains(s, unwanted) {
			t.Errorf("zero field %s serialized: %s", unwanted, s)
		}
	}
}

func TestUpdateSetResponseJSON(t *testing.T) {
	r := UpdateSetResponse{Results: map[string]string{
		"good": "",
		"bad":  "component unknown",
	}}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out UpdateSetResponse
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Results["bad"] != "component unknown" || out.Results["good"] != "" {
		t.Fatalf("unexpected round trip: %+v", out)
	}
}
