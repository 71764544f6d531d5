package handlers

import (
	"encoding/json"
	"net/http"

	"wasteflow-backend/internal/models"
	"wasteflow-backend/internal/services"
	"wasteflow-backend/internal/store"
	"wasteflow-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

func createPackage(s *store.Store, isCustom bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreatePackageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Name == "" || req.Price <= 0 || req.BinNum <= 0 || req.Size == "" {
			utils.Error(w, http.StatusBadRequest, "Provide all required fields")
			return
		}
		if !models.ValidBinSize(req.Size) {
			utils.Error(w, http.StatusBadRequest, "Invalid package size")
			return
		}

		pkg, err := s.CreatePackage(r.Context(), req, isCustom)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, pkg)
	}
}

func CreatePackage(s *store.Store) http.HandlerFunc {
	return createPackage(s, false)
}

func CreateCustomPackage(s *store.Store) http.HandlerFunc {
	return createPackage(s, true)
}

func GetPackages(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		packages, err := s.ListPackages(r.Context())
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, packages)
	}
}

func GetPackage(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			utils.Error(w, http.StatusBadRequest, "Provide the package id")
			return
		}

		pkg, err := s.GetPackage(r.Context(), id)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, pkg)
	}
}

func UpdatePackage(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			utils.Error(w, http.StatusBadRequest, "Provide the package id")
			return
		}

		var req models.UpdatePackageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Size != nil && !models.ValidBinSize(*req.Size) {
			utils.Error(w, http.StatusBadRequest, "Invalid package size")
			return
		}
		if req.BinNum != nil && *req.BinNum <= 0 {
			utils.Error(w, http.StatusBadRequest, "Bin count must be positive")
			return
		}

		pkg, err := s.UpdatePackage(r.Context(), id, req)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, pkg)
	}
}

func DeletePackage(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			utils.Error(w, http.StatusBadRequest, "Provide the package id")
			return
		}

		if err := s.DeletePackage(r.Context(), id); err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"id": id})
	}
}

// ChoosePackage is the explicit (non-payment) package choice: the allocator
// claims the bins immediately.
func ChoosePackage(s *store.Store, allocator *services.Allocator, notifier *services.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := principal(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		packageID := chi.URLParam(r, "id")
		if packageID == "" {
			utils.Error(w, http.StatusBadRequest, "Provide the package id")
			return
		}

		user, err := s.GetUser(r.Context(), actor.ID)
		if err != nil {
			utils.Fail(w, err)
			return
		}

		pkg, err := s.GetPackage(r.Context(), packageID)
		if err != nil {
			utils.Fail(w, err)
			return
		}

		bins, err := allocator.Allocate(r.Context(), user, pkg, nil)
		if err != nil {
			utils.Fail(w, err)
			return
		}

		notifier.PackageChosen(user, pkg)
		utils.JSON(w, http.StatusOK, bins)
	}
}
