package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/beatreach/beatreach/internal/store"
	"github.com/beatreach/beatreach/internal/types"
	"github.com/beatreach/beatreach/internal/validation"
)

// Turner executes one conversation-controller turn.
type Turner interface {
	Turn(ctx context.Context, req types.TurnRequest) (*types.TurnResponse, error)
}

// SongSearcher searches the external song catalog.
type SongSearcher interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]types.SongResult, error)
}

// Registrar registers accounts against the external user service.
type Registrar interface {
	Register(ctx context.Context, req types.RegisterRequest) (*types.ExternalAccount, error)
}

// Handler implements the API handlers
type Handler struct {
	store       store.Store
	turner      Turner
	songs       SongSearcher
	registrar   Registrar
	apiKey      string
	version     string
	oracleModel string
}

// NewHandler creates a new Handler.
func NewHandler(s store.Store, turner Turner, songs SongSearcher, registrar Registrar, apiKey, version, oracleModel string) *Handler {
	return &Handler{
		store:       s,
		turner:      turner,
		songs:       songs,
		registrar:   registrar,
		apiKey:      apiKey,
		version:     version,
		oracleModel: oracleModel,
	}
}

// Health returns the health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.CountInfluencers(r.Context())
	if err != nil {
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, types.HealthResponse{
		Status:       "healthy",
		Version:      h.version,
		OracleModel:  h.oracleModel,
		CatalogCount: count,
	})
}

// CampaignTurn handles POST /api/v1/campaign/agent: one controller turn.
// When the turn completes, the bundle is persisted so the campaign pages
// have a data source; a save failure is logged but does not fail the turn.
func (h *Handler) CampaignTurn(w http.ResponseWriter, r *http.Request) {
	var req types.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateRequired("message", req.Message))
	for i, msg := range req.MessageHistory {
		c.Add(validation.ValidateEnum(fmt.Sprintf("messageHistory[%d].role", i),
			string(msg.Role), []string{string(types.RoleUser), string(types.RoleAssistant)}))
	}
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, http.StatusUnprocessableEntity,
			"Request contains invalid fields", c.Errors())
		return
	}

	resp, err := h.turner.Turn(r.Context(), req)
	if err != nil {
		slog.Error("campaign turn failed", "error", err)
		MapTurnError(w, r, err)
		return
	}

	if resp.Complete && resp.Response != nil {
		saved, err := h.store.SaveCampaign(r.Context(), types.NewCampaign{
			Preferences: resp.UpdatedPreferences,
			Bundle:      *resp.Response,
			Degraded:    resp.Degraded,
		})
		if err != nil {
			slog.Warn("failed to persist completed campaign", "error", err)
		} else {
			slog.Info("campaign saved", "id", saved.ID, "degraded", saved.Degraded)
		}
	}

	writeJSON(w, resp)
}

// SearchSongs handles POST /api/v1/songs/search
func (h *Handler) SearchSongs(w http.ResponseWriter, r *http.Request) {
	var req types.SongSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	if err := validation.ValidateRequired("query", req.Query); err != nil {
		WriteProblemWithErrors(w, r, http.StatusUnprocessableEntity,
			"Request contains invalid fields", []validation.ValidationError{*err})
		return
	}

	results, err := h.songs.SearchTracks(r.Context(), req.Query, req.Limit)
	if err != nil {
		slog.Error("song search failed", "error", err, "query", req.Query)
		MapUpstreamError(w, r, err)
		return
	}

	writeJSON(w, results)
}

// RegisterUser handles POST /api/v1/users: registration is proxied to the
// external account service and the created account is mirrored locally.
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateRequired("email", req.Email))
	c.Add(validation.ValidateRequired("password", req.Password))
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, http.StatusUnprocessableEntity,
			"Request contains invalid fields", c.Errors())
		return
	}

	account, err := h.registrar.Register(r.Context(), req)
	if err != nil {
		slog.Error("registration failed", "error", err, "email", req.Email)
		MapUpstreamError(w, r, err)
		return
	}

	user, err := h.store.CreateUser(r.Context(), types.NewUser{
		ExternalID: account.ID,
		Email:      account.Email,
		Name:       account.Name,
	})
	if err != nil {
		slog.Error("failed to mirror registered account", "error", err)
		MapStoreError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(user); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// ListInfluencers handles GET /api/v1/influencers
func (h *Handler) ListInfluencers(w http.ResponseWriter, r *http.Request) {
	influencers, err := h.store.ListInfluencers(r.Context())
	if err != nil {
		slog.Error("list influencers failed", "error", err)
		MapStoreError(w, r, err)
		return
	}
	if influencers == nil {
		influencers = []types.Influencer{}
	}
	writeJSON(w, influencers)
}

// ListCampaigns handles GET /api/v1/campaigns
func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.store.ListCampaigns(r.Context())
	if err != nil {
		slog.Error("list campaigns failed", "error", err)
		MapStoreError(w, r, err)
		return
	}
	if campaigns == nil {
		campaigns = []types.CampaignSummary{}
	}
	writeJSON(w, campaigns)
}

// GetCampaign handles GET /api/v1/campaigns/{id}
func (h *Handler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	campaign, err := h.store.GetCampaign(r.Context(), id)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, campaign)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
