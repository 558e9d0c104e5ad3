package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wsv-pion/clubsite/middleware"
	"github.com/wsv-pion/clubsite/models"
	"github.com/wsv-pion/clubsite/services"
)

const maxLogoSize = 5 << 20 // 5MB

type MegaschaakHandler struct {
	service services.MegaschaakService
}

func NewMegaschaakHandler(service services.MegaschaakService) *MegaschaakHandler {
	return &MegaschaakHandler{service: service}
}

func leagueParam(r *http.Request) string {
	return chi.URLParam(r, "league")
}

func teamIDParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "teamID"))
	if err != nil || id <= 0 {
		return 0, errors.New("invalid team ID")
	}
	return id, nil
}

func (h *MegaschaakHandler) ListAvailablePlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.service.AvailablePlayers(r.Context(), leagueParam(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MegaschaakHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	standings, err := h.service.Standings(r.Context(), leagueParam(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MegaschaakHandler) GetCrossTable(w http.ResponseWriter, r *http.Request) {
	table, err := h.service.CrossTable(r.Context(), leagueParam(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"crosstable": table}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MegaschaakHandler) GetPopularPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.service.PopularPlayers(r.Context(), leagueParam(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MegaschaakHandler) GetValuePlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.service.ValuePlayers(r.Context(), leagueParam(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MegaschaakHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	className := r.URL.Query().Get("class")
	cfg, err := h.service.Config(r.Context(), leagueParam(r), className)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"config": cfg}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MegaschaakHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := teamIDParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	team, err := h.service.GetTeam(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MegaschaakHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.service.ListTeams(r.Context(), leagueParam(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MegaschaakHandler) GetOwnTeam(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	team, err := h.service.GetOwnTeam(r.Context(), userID, leagueParam(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MegaschaakHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input services.TeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.LeagueName = leagueParam(r)

	team, err := h.service.CreateTeam(r.Context(), userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateTeamForUser lets an admin register a team for another member after
// the deadline. Players are still priced with the current configuration.
func (h *MegaschaakHandler) CreateTeamForUser(w http.ResponseWriter, r *http.Request) {
	var input struct {
		UserID int `json:"user_id"`
		services.TeamInput
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.UserID <= 0 {
		badRequestResponse(w, r, errors.New("user_id is required"))
		return
	}
	input.LeagueName = leagueParam(r)

	team, err := h.service.CreateTeamForUser(r.Context(), input.UserID, input.TeamInput)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MegaschaakHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	teamID, err := teamIDParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.TeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.service.UpdateTeam(r.Context(), userID, teamID, input, h.isAdmin(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MegaschaakHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	teamID, err := teamIDParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.service.DeleteTeam(r.Context(), userID, teamID, h.isAdmin(r)); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MegaschaakHandler) UploadTeamLogo(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	teamID, err := teamIDParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxLogoSize); err != nil {
		badRequestResponse(w, r, errors.New("invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, r, errors.New("logo file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	switch contentType {
	case "image/png", "image/jpeg", "image/webp":
	default:
		badRequestResponse(w, r, errors.New("logo must be a PNG, JPEG, or WebP image"))
		return
	}

	team, err := h.service.SetTeamLogo(r.Context(), userID, teamID, contentType, file, h.isAdmin(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MegaschaakHandler) isAdmin(r *http.Request) bool {
	role, err := middleware.GetUserRoleFromContext(r.Context())
	return err == nil && role == models.RoleAdmin
}
