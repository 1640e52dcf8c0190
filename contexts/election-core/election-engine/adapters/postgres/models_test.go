package postgresadapter

import "testing"

func TestModelsCoverEveryOwnedTable(t *testing.T) {
	want := map[string]bool{
		"elections":             false,
		"parties":               false,
		"voter_records":         false,
		"election_admins":       false,
		"winner_entries":        false,
		"election_audit_outbox": false,
	}

	for _, model := range Models() {
		named, ok := model.(interface{ TableName() string })
		if !ok {
			t.Fatalf("model %T has no explicit table name", model)
		}
		name := named.TableName()
		if _, known := want[name]; !known {
			t.Fatalf("unexpected table %q in migration list", name)
		}
		if want[name] {
			t.Fatalf("table %q listed twice", name)
		}
		want[name] = true
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("table %q missing from migration list", name)
		}
	}
}
