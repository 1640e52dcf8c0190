package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	electionengine "electorate/contexts/election-core/election-engine"
	electionerrors "electorate/contexts/election-core/election-engine/domain/errors"
	electionhttp "electorate/contexts/election-core/election-engine/transport/http"
	stewardship "electorate/contexts/identity-access/stewardship-service"
	stewardshiperrors "electorate/contexts/identity-access/stewardship-service/domain/errors"
	stewardshiphttp "electorate/contexts/identity-access/stewardship-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "electorate/internal/platform/httpserver/docs"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	addr        string
	elections   electionengine.Module
	stewardship stewardship.Module
}

func New(
	elections electionengine.Module,
	stewardshipModule stewardship.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		addr:        addr,
		elections:   elections,
		stewardship: stewardshipModule,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/elections/v1/elections", s.handleCreateElection)
	s.mux.HandleFunc("GET /api/elections/v1/elections", s.handleListElections)
	s.mux.HandleFunc("GET /api/elections/v1/elections/{election_key}", s.handleGetElection)
	s.mux.HandleFunc("PUT /api/elections/v1/elections/{election_key}", s.handleUpdateElection)
	s.mux.HandleFunc("DELETE /api/elections/v1/elections/{election_key}", s.handleDeleteElection)
	s.mux.HandleFunc("POST /api/elections/v1/elections/{election_key}/cancel", s.handleCancelElection)
	s.mux.HandleFunc("POST /api/elections/v1/elections/{election_key}/pause", s.handlePauseElection)
	s.mux.HandleFunc("POST /api/elections/v1/elections/{election_key}/resume", s.handleResumeElection)
	s.mux.HandleFunc("POST /api/elections/v1/elections/{election_key}/admins", s.handleAddAdmin)
	s.mux.HandleFunc("POST /api/elections/v1/elections/{election_key}/admins/remove", s.handleRemoveAdmin)
	s.mux.HandleFunc("POST /api/elections/v1/elections/{election_key}/parties", s.handleAddParty)
	s.mux.HandleFunc("POST /api/elections/v1/elections/{election_key}/parties/remove", s.handleRemoveParty)
	s.mux.HandleFunc("GET /api/elections/v1/elections/{election_key}/parties", s.handleListParties)
	s.mux.HandleFunc("POST /api/elections/v1/elections/{election_key}/votes", s.handleCastVote)
	s.mux.HandleFunc("POST /api/elections/v1/elections/{election_key}/winners", s.handleResolveWinner)
	s.mux.HandleFunc("GET /api/elections/v1/elections/{election_key}/winners", s.handleWinnerSet)
	s.mux.HandleFunc("GET /api/elections/v1/elections/{election_key}/results", s.handleResults)

	s.mux.HandleFunc("POST /api/stewardship/v1/transfer", s.handleTransferOwnership)
	s.mux.HandleFunc("POST /api/stewardship/v1/accept", s.handleAcceptOwnership)
	s.mux.HandleFunc("GET /api/stewardship/v1/owner", s.handleCurrentOwner)
}

func (s *Server) handleCreateElection(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req electionhttp.CreateElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.CreateElectionHandler(r.Context(), actorID, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListElections(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.ListElectionsHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetElection(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.GetElectionHandler(r.Context(), r.PathValue("election_key"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateElection(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req electionhttp.UpdateElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.UpdateElectionHandler(r.Context(), actorID, r.PathValue("election_key"), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteElection(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := s.elections.Handler.DeleteElectionHandler(r.Context(), actorID, r.PathValue("election_key")); err != nil {
		writeElectionDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCancelElection(w http.ResponseWriter, r *http.Request) {
	s.handleElectionAction(w, r, s.elections.Handler.CancelElectionHandler)
}

func (s *Server) handlePauseElection(w http.ResponseWriter, r *http.Request) {
	s.handleElectionAction(w, r, s.elections.Handler.PauseElectionHandler)
}

func (s *Server) handleResumeElection(w http.ResponseWriter, r *http.Request) {
	s.handleElectionAction(w, r, s.elections.Handler.ResumeElectionHandler)
}

func (s *Server) handleElectionAction(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, actorID string, electionKey string) error,
) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := action(r.Context(), actorID, r.PathValue("election_key")); err != nil {
		writeElectionDomainError(w, err)
		return
	}
	resp, err := s.elections.Handler.GetElectionHandler(r.Context(), r.PathValue("election_key"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddAdmin(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req electionhttp.AdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.elections.Handler.AddAdminHandler(r.Context(), actorID, r.PathValue("election_key"), req); err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Server) handleRemoveAdmin(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req electionhttp.AdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.elections.Handler.RemoveAdminHandler(r.Context(), actorID, r.PathValue("election_key"), req); err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Server) handleAddParty(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req electionhttp.AddPartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.AddPartyHandler(r.Context(), actorID, r.PathValue("election_key"), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRemoveParty(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req electionhttp.RemovePartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.elections.Handler.RemovePartyHandler(r.Context(), actorID, r.PathValue("election_key"), req); err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Server) handleListParties(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.ListPartiesHandler(r.Context(), r.PathValue("election_key"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	voterID, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req electionhttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.CastVoteHandler(r.Context(), voterID, r.PathValue("election_key"), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleResolveWinner(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	resp, err := s.elections.Handler.ResolveWinnerHandler(r.Context(), actorID, r.PathValue("election_key"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWinnerSet(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.WinnerSetHandler(r.Context(), r.PathValue("election_key"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.ResultsHandler(r.Context(), r.PathValue("election_key"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransferOwnership(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req stewardshiphttp.TransferOwnershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeStewardshipError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.stewardship.Handler.TransferOwnershipHandler(r.Context(), actorID, req); err != nil {
		writeStewardshipDomainError(w, err)
		return
	}
	resp, err := s.stewardship.Handler.CurrentOwnerHandler(r.Context())
	if err != nil {
		writeStewardshipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAcceptOwnership(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	resp, err := s.stewardship.Handler.AcceptOwnershipHandler(r.Context(), actorID)
	if err != nil {
		writeStewardshipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCurrentOwner(w http.ResponseWriter, r *http.Request) {
	resp, err := s.stewardship.Handler.CurrentOwnerHandler(r.Context())
	if err != nil {
		writeStewardshipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeElectionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, electionerrors.ErrInvalidName),
		errors.Is(err, electionerrors.ErrInvalidDescription),
		errors.Is(err, electionerrors.ErrInvalidTimeWindow),
		errors.Is(err, electionerrors.ErrInvalidIdentity),
		errors.Is(err, electionerrors.ErrInvalidPartyName):
		writeElectionError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, electionerrors.ErrUnauthorized):
		writeElectionError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, electionerrors.ErrElectionNotFound),
		errors.Is(err, electionerrors.ErrPartyNotFound),
		errors.Is(err, electionerrors.ErrAdminNotFound),
		errors.Is(err, electionerrors.ErrWinnerNotResolved):
		writeElectionError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, electionerrors.ErrNameTaken),
		errors.Is(err, electionerrors.ErrAlreadyVoted),
		errors.Is(err, electionerrors.ErrWinnerResolved),
		errors.Is(err, electionerrors.ErrAdminExists),
		errors.Is(err, electionerrors.ErrElectionBusy),
		errors.Is(err, electionerrors.ErrConflict):
		writeElectionError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, electionerrors.ErrElectionNotOpen),
		errors.Is(err, electionerrors.ErrElectionNotActive),
		errors.Is(err, electionerrors.ErrElectionNotClosed),
		errors.Is(err, electionerrors.ErrAlreadyPaused),
		errors.Is(err, electionerrors.ErrNotPaused),
		errors.Is(err, electionerrors.ErrNoParties):
		writeElectionError(w, http.StatusUnprocessableEntity, "invalid_state", err.Error())
	case errors.Is(err, electionerrors.ErrInsufficientPayment):
		writeElectionError(w, http.StatusPaymentRequired, "insufficient_payment", err.Error())
	default:
		writeElectionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeStewardshipDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, stewardshiperrors.ErrInvalidOwner),
		errors.Is(err, stewardshiperrors.ErrSameOwner):
		writeStewardshipError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, stewardshiperrors.ErrUnauthorized),
		errors.Is(err, stewardshiperrors.ErrNotPendingOwner):
		writeStewardshipError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, stewardshiperrors.ErrStewardshipBusy):
		writeStewardshipError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, stewardshiperrors.ErrNotInitialized):
		writeStewardshipError(w, http.StatusNotFound, "not_initialized", err.Error())
	default:
		writeStewardshipError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeElectionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, electionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeStewardshipError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, stewardshiphttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func requireActor(w http.ResponseWriter, r *http.Request) (string, bool) {
	actorID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if actorID == "" {
		writeElectionError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return actorID, true
}
