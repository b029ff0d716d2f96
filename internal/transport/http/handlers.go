package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"gridmark/internal/domain"
	"gridmark/internal/dto"
	"gridmark/internal/netutil"
	"gridmark/internal/service"
)

type Handlers struct {
	Auth   service.AuthService
	Marks  service.MarkService
	Rename service.RenameService
	Boards service.LeaderboardService
	World  service.WorldService
}

func clientIP(r *http.Request) string {
	// If you put the service behind a proxy later, these will matter.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// XFF can be a list: client, proxy1, proxy2...
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if normalized, ok := netutil.NormalizeIP(ip); ok {
			return normalized
		}
	}
	if xr := r.Header.Get("X-Real-IP"); xr != "" {
		if normalized, ok := netutil.NormalizeIP(xr); ok {
			return normalized
		}
	}
	// Fallback: split host:port
	if normalized, ok := netutil.NormalizeIP(r.RemoteAddr); ok {
		return normalized
	}
	// Last resort: give back whatever we have (may be empty)
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Success and failure bodies share one top-level shape: success plus the
// payload under its own key.

type entriesBody struct {
	Success bool            `json:"success"`
	Entries []dto.EntryView `json:"entries"`
}

type leaderboardBody struct {
	Success     bool                   `json:"success"`
	Leaderboard []dto.LeaderboardEntry `json:"leaderboard"`
}

type areaBoardBody struct {
	Success     bool            `json:"success"`
	Leaderboard []dto.AreaEntry `json:"leaderboard"`
}

func writeEntries(w http.ResponseWriter, views []dto.EntryView) {
	if views == nil {
		views = []dto.EntryView{}
	}
	writeJSON(w, http.StatusOK, entriesBody{Success: true, Entries: views})
}

func writeBoard(w http.ResponseWriter, rows []dto.LeaderboardEntry) {
	if rows == nil {
		rows = []dto.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, leaderboardBody{Success: true, Leaderboard: rows})
}

func writeError(w http.ResponseWriter, err error) {
	status, message := statusFor(err)
	writeJSON(w, status, errorBody{Success: false, Message: message})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Success: false, Message: "Invalid request body."})
		return false
	}
	return true
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.Auth.Register(r.Context(), req, clientIP(r), netutil.TruncateUserAgent(r.UserAgent()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.Auth.Login(r.Context(), req, clientIP(r), netutil.TruncateUserAgent(r.UserAgent()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) logEntry(w http.ResponseWriter, r *http.Request) {
	var req dto.EntryRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.Marks.Log(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) entries(w http.ResponseWriter, r *http.Request) {
	views, err := h.Marks.Snapshot(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeEntries(w, views)
}

func (h *Handlers) entryHistory(w http.ResponseWriter, r *http.Request) {
	views, err := h.Marks.History(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeEntries(w, views)
}

func (h *Handlers) squares(w http.ResponseWriter, r *http.Request) {
	squares, err := h.World.Squares(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if squares == nil {
		squares = []domain.OwnedSquare{}
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool                 `json:"success"`
		Squares []domain.OwnedSquare `json:"squares"`
	}{Success: true, Squares: squares})
}

func (h *Handlers) users(w http.ResponseWriter, r *http.Request) {
	users, err := h.World.Users(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if users == nil {
		users = []dto.UserView{}
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool           `json:"success"`
		Users   []dto.UserView `json:"users"`
	}{Success: true, Users: users})
}

func (h *Handlers) changeUsername(w http.ResponseWriter, r *http.Request) {
	var req dto.RenameRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.Rename.Change(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success  bool   `json:"success"`
		Username string `json:"username"`
	}{Success: true, Username: req.NewUsername})
}

func (h *Handlers) usernameChangeInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.Rename.Info(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *Handlers) leaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Boards.Entries(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeBoard(w, rows)
}

func (h *Handlers) squareLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Boards.TerritoryFromEntries(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeBoard(w, rows)
}

func (h *Handlers) extendedSquareLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Boards.TerritoryFromOwnership(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeBoard(w, rows)
}

func (h *Handlers) inviteLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Boards.Invites(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeBoard(w, rows)
}

func (h *Handlers) voronoiLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Boards.Voronoi(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if rows == nil {
		rows = []dto.AreaEntry{}
	}
	writeJSON(w, http.StatusOK, areaBoardBody{Success: true, Leaderboard: rows})
}
