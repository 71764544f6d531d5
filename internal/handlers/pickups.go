package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"wasteflow-backend/internal/models"
	"wasteflow-backend/internal/services"
	"wasteflow-backend/internal/store"
	"wasteflow-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

func CreatePickup(s *store.Store, pickups *services.PickupService, notifier *services.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := principal(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req models.CreatePickupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Date == "" {
			utils.Error(w, http.StatusBadRequest, "Provide all required fields")
			return
		}

		pickup, err := pickups.Create(r.Context(), actor, req.Date)
		if err != nil {
			utils.Fail(w, err)
			return
		}

		if user, err := s.GetUser(r.Context(), actor.ID); err == nil {
			notifier.PickupScheduled(user, &pickup.Pickup)
		}
		utils.JSON(w, http.StatusCreated, pickup)
	}
}

func ReschedulePickup(pickups *services.PickupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := principal(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		id := chi.URLParam(r, "id")
		var req models.ReschedulePickupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if id == "" || req.Date == "" {
			utils.Error(w, http.StatusBadRequest, "Provide all required fields")
			return
		}

		pickup, err := pickups.Reschedule(r.Context(), actor, id, req.Date)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, pickup)
	}
}

func CancelPickup(s *store.Store, pickups *services.PickupService, notifier *services.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := principal(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			utils.Error(w, http.StatusBadRequest, "Provide the pickup id")
			return
		}

		pickup, err := pickups.Cancel(r.Context(), actor, id)
		if err != nil {
			utils.Fail(w, err)
			return
		}

		if user, err := s.GetUser(r.Context(), actor.ID); err == nil {
			notifier.PickupCancelled(user, pickup)
		}
		utils.JSON(w, http.StatusOK, pickup)
	}
}

func advancePickup(pickups *services.PickupService, to string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := principal(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			utils.Error(w, http.StatusBadRequest, "Provide the pickup id")
			return
		}

		pickup, err := pickups.Advance(r.Context(), actor, id, to)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, pickup)
	}
}

// StartPickup moves an assigned pickup to ongoing.
func StartPickup(pickups *services.PickupService) http.HandlerFunc {
	return advancePickup(pickups, models.PickupStatusOngoing)
}

// CompletePickup moves an ongoing pickup to completed.
func CompletePickup(pickups *services.PickupService) http.HandlerFunc {
	return advancePickup(pickups, models.PickupStatusCompleted)
}

// AssignPickupsAuto runs the batch scheduler over all pending pickups.
func AssignPickupsAuto(scheduler *services.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := scheduler.Run(r.Context())
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, result)
	}
}

func GetPickups(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pickups, err := s.ListPickups(r.Context())
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, pickups)
	}
}

func GetPickupsByDate(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := chi.URLParam(r, "date")
		if _, err := time.Parse(models.PickupDateLayout, date); err != nil {
			utils.Error(w, http.StatusBadRequest, "Enter a valid date (YYYY-MM-DD)")
			return
		}

		pickups, err := s.ListPickupsByDate(r.Context(), date)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, pickups)
	}
}

func GetOverduePickups(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		today := time.Now().Format(models.PickupDateLayout)
		pickups, err := s.ListOverduePickups(r.Context(), today)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, pickups)
	}
}

func GetMyPickups(s *store.Store, pickups *services.PickupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := principal(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		list, err := s.ListPickupsByHomeowner(r.Context(), actor.ID)
		if err != nil {
			utils.Fail(w, err)
			return
		}

		responses := make([]models.PickupResponse, 0, len(list))
		for i := range list {
			resp, err := pickups.WithBins(r.Context(), &list[i])
			if err != nil {
				utils.Fail(w, err)
				return
			}
			responses = append(responses, *resp)
		}
		utils.JSON(w, http.StatusOK, responses)
	}
}
