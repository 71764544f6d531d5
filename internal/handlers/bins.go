package handlers

import (
	"encoding/json"
	"net/http"

	"wasteflow-backend/internal/apperr"
	"wasteflow-backend/internal/models"
	"wasteflow-backend/internal/store"
	"wasteflow-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

func CreateBin(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateBinRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Category == "" || req.Size == "" || req.Price <= 0 {
			utils.Error(w, http.StatusBadRequest, "Provide all required fields")
			return
		}
		if !models.ValidBinCategory(req.Category) || !models.ValidBinSize(req.Size) {
			utils.Error(w, http.StatusBadRequest, "Invalid bin category or size")
			return
		}

		bins, err := s.CreateBins(r.Context(), req.Category, req.Size, req.Price, 1)
		if err != nil {
			utils.Fail(w, err)
			return
		}

		utils.JSON(w, http.StatusCreated, bins[0])
	}
}

func CreateBins(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateBinsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Category == "" || req.Size == "" || req.Price <= 0 || req.Count <= 0 {
			utils.Error(w, http.StatusBadRequest, "Provide all required fields")
			return
		}
		if !models.ValidBinCategory(req.Category) || !models.ValidBinSize(req.Size) {
			utils.Error(w, http.StatusBadRequest, "Invalid bin category or size")
			return
		}

		bins, err := s.CreateBins(r.Context(), req.Category, req.Size, req.Price, req.Count)
		if err != nil {
			utils.Fail(w, err)
			return
		}

		utils.JSON(w, http.StatusCreated, bins)
	}
}

func DeleteBin(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			utils.Error(w, http.StatusBadRequest, "Provide the bin id")
			return
		}

		if err := s.DeleteBin(r.Context(), id); err != nil {
			utils.Fail(w, err)
			return
		}

		utils.JSON(w, http.StatusOK, map[string]string{"id": id})
	}
}

func GetBins(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bins, err := s.ListBins(r.Context())
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, bins)
	}
}

func GetAssignedBins(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bins, err := s.ListAssignedBins(r.Context())
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, bins)
	}
}

func GetUnassignedBins(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bins, err := s.ListUnassignedBins(r.Context())
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, bins)
	}
}

func GetBinsByHomeowner(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		homeownerID := chi.URLParam(r, "homeowner")
		if homeownerID == "" {
			utils.Error(w, http.StatusBadRequest, "Provide the homeowner id")
			return
		}

		if _, err := s.GetUser(r.Context(), homeownerID); err != nil {
			utils.Fail(w, err)
			return
		}

		bins, err := s.ListBinsByHomeowner(r.Context(), homeownerID)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, bins)
	}
}

func GetMyBins(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := principal(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		bins, err := s.ListBinsByHomeowner(r.Context(), actor.ID)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, bins)
	}
}

func GetBin(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			utils.Error(w, http.StatusBadRequest, "Provide the bin id")
			return
		}

		bin, err := s.GetBin(r.Context(), id)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, bin)
	}
}

// setBinStatus backs both the fill and empty endpoints. Bin status is frozen
// while the homeowner has an active pickup so the pickup's snapshot stays
// truthful.
func setBinStatus(s *store.Store, status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := principal(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if actor.IsSuspended {
			utils.Fail(w, apperr.Forbidden("Account has been suspended"))
			return
		}

		var req models.BinStatusRequest
		if r.Body != nil {
			// An empty or absent body means all of the caller's bins.
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		active, err := s.ActivePickupExists(r.Context(), actor.ID)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		if active {
			utils.Fail(w, apperr.Conflict("You cannot change bin status while a pickup is in progress"))
			return
		}

		bins, err := s.SetBinsStatus(r.Context(), actor.ID, req.BinIDs, status)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, bins)
	}
}

func FillBins(s *store.Store) http.HandlerFunc {
	return setBinStatus(s, models.BinStatusFull)
}

func EmptyBins(s *store.Store) http.HandlerFunc {
	return setBinStatus(s, models.BinStatusEmpty)
}
