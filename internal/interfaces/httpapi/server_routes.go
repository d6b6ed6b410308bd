package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedLeagueRoutes(mux, handler, verifier)
	registerAuthorizedEpisodeRoutes(mux, handler, verifier)
	registerAuthorizedRosterRoutes(mux, handler, verifier)
	registerAuthorizedTradeRoutes(mux, handler, verifier)
	registerAuthorizedPredictionRoutes(mux, handler, verifier)
	registerAuthorizedScoringRoutes(mux, handler, verifier)
	registerAuthorizedExportRoutes(mux, handler, verifier)
}

func registerAuthorizedLeagueRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/leagues", RequireAuth(verifier, http.HandlerFunc(handler.ListLeagues)))
	mux.Handle("POST /v1/leagues", RequireAuth(verifier, http.HandlerFunc(handler.CreateLeague)))
	mux.Handle("GET /v1/leagues/{leagueID}", RequireAuth(verifier, http.HandlerFunc(handler.GetLeague)))
	mux.Handle("PATCH /v1/leagues/{leagueID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateLeague)))
	mux.Handle("POST /v1/leagues/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinLeague)))
	mux.Handle("GET /v1/leagues/{leagueID}/members", RequireAuth(verifier, http.HandlerFunc(handler.ListLeagueMembers)))
	mux.Handle("POST /v1/leagues/{leagueID}/members", RequireAuth(verifier, http.HandlerFunc(handler.AddLeagueMember)))
	mux.Handle("GET /v1/users", RequireAuth(verifier, http.HandlerFunc(handler.ListUsers)))
	mux.Handle("GET /v1/leagues/{leagueID}/contestants", RequireAuth(verifier, http.HandlerFunc(handler.ListContestants)))
	mux.Handle("POST /v1/leagues/{leagueID}/contestants", RequireAuth(verifier, http.HandlerFunc(handler.CreateContestant)))
	mux.Handle("PATCH /v1/contestants/{contestantID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateContestant)))
}

func registerAuthorizedEpisodeRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/leagues/{leagueID}/episodes", RequireAuth(verifier, http.HandlerFunc(handler.ListEpisodes)))
	mux.Handle("POST /v1/leagues/{leagueID}/episodes", RequireAuth(verifier, http.HandlerFunc(handler.CreateEpisode)))
	mux.Handle("GET /v1/leagues/{leagueID}/lock-status", RequireAuth(verifier, http.HandlerFunc(handler.GetLockStatus)))
}

func registerAuthorizedRosterRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/leagues/{leagueID}/rosters", RequireAuth(verifier, http.HandlerFunc(handler.ListLeagueRosters)))
	mux.Handle("GET /v1/leagues/{leagueID}/rosters/{userID}", RequireAuth(verifier, http.HandlerFunc(handler.GetRoster)))
	mux.Handle("POST /v1/leagues/{leagueID}/rosters/{userID}/contestants", RequireAuth(verifier, http.HandlerFunc(handler.AddRosterContestant)))
	mux.Handle("DELETE /v1/leagues/{leagueID}/rosters/{userID}/contestants/{contestantID}", RequireAuth(verifier, http.HandlerFunc(handler.RemoveRosterContestant)))
}

func registerAuthorizedTradeRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/trades", RequireAuth(verifier, http.HandlerFunc(handler.ProposeTrade)))
	mux.Handle("GET /v1/trades", RequireAuth(verifier, http.HandlerFunc(handler.ListTrades)))
	mux.Handle("GET /v1/trades/{tradeID}", RequireAuth(verifier, http.HandlerFunc(handler.GetTrade)))
	mux.Handle("POST /v1/trades/{tradeID}/accept", RequireAuth(verifier, http.HandlerFunc(handler.AcceptTrade)))
	mux.Handle("POST /v1/trades/{tradeID}/reject", RequireAuth(verifier, http.HandlerFunc(handler.RejectTrade)))
	mux.Handle("POST /v1/trades/{tradeID}/cancel", RequireAuth(verifier, http.HandlerFunc(handler.CancelTrade)))
}

func registerAuthorizedPredictionRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/leagues/{leagueID}/winner-pick", RequireAuth(verifier, http.HandlerFunc(handler.GetWinnerPick)))
	mux.Handle("PUT /v1/leagues/{leagueID}/winner-pick", RequireAuth(verifier, http.HandlerFunc(handler.SetWinnerPick)))
	mux.Handle("GET /v1/leagues/{leagueID}/episodes/{episodeID}/votes", RequireAuth(verifier, http.HandlerFunc(handler.GetVotes)))
	mux.Handle("PUT /v1/leagues/{leagueID}/episodes/{episodeID}/votes", RequireAuth(verifier, http.HandlerFunc(handler.PutVotes)))
}

func registerAuthorizedScoringRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/leagues/{leagueID}/scoring-rules", RequireAuth(verifier, http.HandlerFunc(handler.ListScoringRules)))
	mux.Handle("PUT /v1/leagues/{leagueID}/scoring-rules/{actionType}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateScoringRule)))
	mux.Handle("GET /v1/leagues/{leagueID}/episodes/{episodeID}/events", RequireAuth(verifier, http.HandlerFunc(handler.ListScoringEvents)))
	mux.Handle("POST /v1/leagues/{leagueID}/episodes/{episodeID}/events", RequireAuth(verifier, http.HandlerFunc(handler.CreateScoringEvent)))
	mux.Handle("POST /v1/leagues/{leagueID}/episodes/{episodeID}/vote-points", RequireAuth(verifier, http.HandlerFunc(handler.ApplyVotePoints)))
	mux.Handle("GET /v1/leagues/{leagueID}/leaderboard", RequireAuth(verifier, http.HandlerFunc(handler.GetLeaderboard)))
	mux.Handle("GET /v1/leagues/{leagueID}/ledger/{userID}", RequireAuth(verifier, http.HandlerFunc(handler.GetLedgerHistory)))
}

func registerAuthorizedExportRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/exports/leagues/{leagueID}/ledger", RequireAuth(verifier, http.HandlerFunc(handler.ExportLedger)))
	mux.Handle("GET /v1/exports/audit", RequireAuth(verifier, http.HandlerFunc(handler.ExportAudit)))
}
