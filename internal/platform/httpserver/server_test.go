package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	electionengine "electorate/contexts/election-core/election-engine"
	stewardship "electorate/contexts/identity-access/stewardship-service"
	stewardshipmemory "electorate/contexts/identity-access/stewardship-service/adapters/memory"
)

func newTestServer() *Server {
	stewardshipModule := stewardship.NewInMemoryModule("owner-1", stewardshipmemory.NewAuditLog(), nil)
	electionModule := electionengine.NewInMemoryModule(stewardshipModule.Queries, nil)
	return New(electionModule, stewardshipModule, nil, ":0")
}

func doJSON(t *testing.T, server *Server, method string, path string, userID string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func createElectionBody() string {
	start := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
	stop := time.Now().UTC().Add(25 * time.Hour).Format(time.RFC3339)
	return fmt.Sprintf(`{"name":"city council","description":"a ballot about the council","start_time":%q,"stop_time":%q,"vote_fee":0}`, start, stop)
}

func TestCreateElectionEndpoint(t *testing.T) {
	server := newTestServer()

	if rec := doJSON(t, server, http.MethodPost, "/api/elections/v1/elections", "", createElectionBody()); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing identity header must be 401, got %d", rec.Code)
	}
	if rec := doJSON(t, server, http.MethodPost, "/api/elections/v1/elections", "stranger-1", createElectionBody()); rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner create must be 403, got %d", rec.Code)
	}
	if rec := doJSON(t, server, http.MethodPost, "/api/elections/v1/elections", "owner-1", "{not json"); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body must be 400, got %d", rec.Code)
	}

	rec := doJSON(t, server, http.MethodPost, "/api/elections/v1/elections", "owner-1", createElectionBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ElectionKey string `json:"election_key"`
		Status      string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if created.ElectionKey == "" {
		t.Fatalf("response must carry the generated election key")
	}
	if created.Status != "not_started" {
		t.Fatalf("expected not_started, got %s", created.Status)
	}

	// Name reservation surfaces as a conflict.
	if rec := doJSON(t, server, http.MethodPost, "/api/elections/v1/elections", "owner-1", createElectionBody()); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate name must be 409, got %d", rec.Code)
	}

	if rec := doJSON(t, server, http.MethodGet, "/api/elections/v1/elections/"+created.ElectionKey, "", ""); rec.Code != http.StatusOK {
		t.Fatalf("get election failed with %d", rec.Code)
	}
	if rec := doJSON(t, server, http.MethodGet, "/api/elections/v1/elections/missing-key", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown election must be 404, got %d", rec.Code)
	}
	if rec := doJSON(t, server, http.MethodGet, "/api/elections/v1/elections/"+created.ElectionKey+"/winners", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unresolved winner set must be 404, got %d", rec.Code)
	}
}

func TestStewardshipEndpoints(t *testing.T) {
	server := newTestServer()

	rec := doJSON(t, server, http.MethodGet, "/api/stewardship/v1/owner", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("owner read failed with %d", rec.Code)
	}
	var owner struct {
		Owner        string `json:"owner"`
		PendingOwner string `json:"pending_owner"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &owner); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if owner.Owner != "owner-1" {
		t.Fatalf("expected seeded owner, got %s", owner.Owner)
	}

	if rec := doJSON(t, server, http.MethodPost, "/api/stewardship/v1/transfer", "stranger-1", `{"new_owner":"owner-2"}`); rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner transfer must be 403, got %d", rec.Code)
	}
	if rec := doJSON(t, server, http.MethodPost, "/api/stewardship/v1/transfer", "owner-1", `{"new_owner":"owner-2"}`); rec.Code != http.StatusOK {
		t.Fatalf("transfer failed with %d: %s", rec.Code, rec.Body.String())
	}
	if rec := doJSON(t, server, http.MethodPost, "/api/stewardship/v1/accept", "stranger-1", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("non-nominee accept must be 403, got %d", rec.Code)
	}

	rec = doJSON(t, server, http.MethodPost, "/api/stewardship/v1/accept", "owner-2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("accept failed with %d: %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &owner); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if owner.Owner != "owner-2" || owner.PendingOwner != "" {
		t.Fatalf("unexpected owner record after accept: %+v", owner)
	}
}
