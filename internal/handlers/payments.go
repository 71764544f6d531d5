package handlers

import (
	"encoding/json"
	"net/http"

	"wasteflow-backend/internal/models"
	"wasteflow-backend/internal/services"
	"wasteflow-backend/internal/store"
	"wasteflow-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func decodePayment(w http.ResponseWriter, r *http.Request) (models.CreatePaymentRequest, bool) {
	var req models.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return req, false
	}
	if req.PaymentMethod == "" || req.Response == "" || req.RefNumber == "" || req.TotalAmount <= 0 {
		utils.Error(w, http.StatusBadRequest, "Provide all required fields")
		return req, false
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		utils.Error(w, http.StatusBadRequest, "Invalid payment method")
		return req, false
	}
	if req.Response != models.PaymentResponseSuccess && req.Response != models.PaymentResponseFailure {
		utils.Error(w, http.StatusBadRequest, "Invalid payment response")
		return req, false
	}
	return req, true
}

// PayForPackage records a package payment outcome. A success claims the
// package's bins and records the payment in one atomic store operation;
// anything else records the payment and nothing more.
func PayForPackage(s *store.Store, allocator *services.Allocator, notifier *services.Notifier) http.HandlerFunc {
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
		req, ok := decodePayment(w, r)
		if !ok {
			return
		}

		pkg, err := s.GetPackage(r.Context(), packageID)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		user, err := s.GetUser(r.Context(), actor.ID)
		if err != nil {
			utils.Fail(w, err)
			return
		}

		payment := &models.Payment{
			ID:            uuid.NewString(),
			HomeownerID:   user.ID,
			PaymentType:   models.PaymentTypeBin,
			PaymentMethod: req.PaymentMethod,
			Response:      req.Response,
			TotalAmount:   req.TotalAmount,
			RefNumber:     req.RefNumber,
			PackageID:     &pkg.ID,
		}

		if req.Response == models.PaymentResponseSuccess {
			if _, err := allocator.Allocate(r.Context(), user, pkg, payment); err != nil {
				utils.Fail(w, err)
				return
			}
			notifier.PackageChosen(user, pkg)
			notifier.PaymentReceipt(user, payment)
		} else if err := s.CreatePayment(r.Context(), payment); err != nil {
			utils.Fail(w, err)
			return
		}

		utils.JSON(w, http.StatusCreated, payment)
	}
}

func GetMyPayments(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := principal(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		payments, err := s.ListPaymentsByHomeowner(r.Context(), actor.ID)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, payments)
	}
}

// PayForPickup records a pickup payment outcome. A success is the only way a
// completed pickup reaches its terminal paid state; the payment row and the
// transition commit together.
func PayForPickup(s *store.Store, pickups *services.PickupService, notifier *services.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := principal(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		pickupID := chi.URLParam(r, "id")
		if pickupID == "" {
			utils.Error(w, http.StatusBadRequest, "Provide the pickup id")
			return
		}
		req, ok := decodePayment(w, r)
		if !ok {
			return
		}

		pickup, err := s.GetPickup(r.Context(), pickupID)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		if pickup.HomeownerID != actor.ID {
			utils.Error(w, http.StatusForbidden, "You can only pay for your own pickups")
			return
		}
		user, err := s.GetUser(r.Context(), actor.ID)
		if err != nil {
			utils.Fail(w, err)
			return
		}

		payment := &models.Payment{
			ID:            uuid.NewString(),
			HomeownerID:   user.ID,
			PaymentType:   models.PaymentTypePickup,
			PaymentMethod: req.PaymentMethod,
			Response:      req.Response,
			TotalAmount:   req.TotalAmount,
			RefNumber:     req.RefNumber,
			PickupID:      &pickup.ID,
		}

		if req.Response == models.PaymentResponseSuccess {
			if _, err := pickups.MarkPaid(r.Context(), pickup.ID, payment); err != nil {
				utils.Fail(w, err)
				return
			}
			notifier.PaymentReceipt(user, payment)
		} else if err := s.CreatePayment(r.Context(), payment); err != nil {
			utils.Fail(w, err)
			return
		}

		utils.JSON(w, http.StatusCreated, payment)
	}
}
