package postgresadapter

import "testing"

func TestModelsCoverOwnedTable(t *testing.T) {
	models := Models()
	if len(models) != 1 {
		t.Fatalf("expected one model, got %d", len(models))
	}
	named, ok := models[0].(interface{ TableName() string })
	if !ok {
		t.Fatalf("model %T has no explicit table name", models[0])
	}
	if name := named.TableName(); name != "stewardship" {
		t.Fatalf("unexpected table %q in migration list", name)
	}
}
