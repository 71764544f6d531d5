package handlers

import (
	"encoding/json"
	"net/http"

	"wasteflow-backend/internal/models"
	"wasteflow-backend/internal/store"
	"wasteflow-backend/pkg/utils"
)

func decodeSettings(w http.ResponseWriter, r *http.Request) (models.PickupSettingsRequest, bool) {
	var req models.PickupSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return req, false
	}
	if req.DailyPickupLimitPerDriver <= 0 || req.PickupPrice <= 0 {
		utils.Error(w, http.StatusBadRequest, "Provide all required fields")
		return req, false
	}
	return req, true
}

func CreatePickupSettings(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeSettings(w, r)
		if !ok {
			return
		}

		settings, err := s.CreateSettings(r.Context(), req)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, settings)
	}
}

func GetPickupSettings(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := s.GetSettings(r.Context())
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, settings)
	}
}

func UpdatePickupSettings(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeSettings(w, r)
		if !ok {
			return
		}

		settings, err := s.UpdateSettings(r.Context(), req)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, settings)
	}
}
