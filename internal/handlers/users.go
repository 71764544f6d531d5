package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"wasteflow-backend/internal/apperr"
	"wasteflow-backend/internal/helpers"
	"wasteflow-backend/internal/models"
	"wasteflow-backend/internal/services"
	"wasteflow-backend/internal/store"
	"wasteflow-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterHomeowner is the public self-registration endpoint. New accounts
// wait for manager approval before they can choose a package.
func RegisterHomeowner(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterHomeownerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Email == "" || req.Surname == "" || req.Othernames == "" || req.Phone == "" || req.Password == "" {
			utils.Error(w, http.StatusBadRequest, "Provide all required fields")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.Fail(w, err)
			return
		}

		user := &models.User{
			ID:         uuid.NewString(),
			Email:      strings.TrimSpace(strings.ToLower(req.Email)),
			Password:   string(hash),
			Surname:    req.Surname,
			Othernames: req.Othernames,
			Phone:      req.Phone,
			Role:       models.RoleHomeowner,
		}
		if err := s.CreateUser(r.Context(), user); err != nil {
			utils.Fail(w, err)
			return
		}

		utils.JSON(w, http.StatusCreated, user.ToUserResponse())
	}
}

// CreateDriver is manager-only; the driver's temporary password is mailed,
// never returned.
func CreateDriver(s *store.Store, notifier *services.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateDriverRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Email == "" || req.Surname == "" || req.Othernames == "" || req.Phone == "" {
			utils.Error(w, http.StatusBadRequest, "Provide all required fields")
			return
		}

		password := helpers.GenPassword(12)
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			utils.Fail(w, err)
			return
		}

		user := &models.User{
			ID:         uuid.NewString(),
			Email:      strings.TrimSpace(strings.ToLower(req.Email)),
			Password:   string(hash),
			Surname:    req.Surname,
			Othernames: req.Othernames,
			Phone:      req.Phone,
			Role:       models.RoleDriver,
			IsApproved: true,
		}
		if err := s.CreateUser(r.Context(), user); err != nil {
			utils.Fail(w, err)
			return
		}

		notifier.DriverWelcome(user, password)
		utils.JSON(w, http.StatusCreated, user.ToUserResponse())
	}
}

func listUsers(s *store.Store, role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := s.ListUsersByRole(r.Context(), role)
		if err != nil {
			utils.Fail(w, err)
			return
		}

		responses := make([]models.UserResponse, len(users))
		for i := range users {
			responses[i] = users[i].ToUserResponse()
		}
		utils.JSON(w, http.StatusOK, responses)
	}
}

func GetHomeowners(s *store.Store) http.HandlerFunc {
	return listUsers(s, models.RoleHomeowner)
}

func GetDrivers(s *store.Store) http.HandlerFunc {
	return listUsers(s, models.RoleDriver)
}

func getUserByRole(s *store.Store, role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			utils.Error(w, http.StatusBadRequest, "Provide user id")
			return
		}

		user, err := s.GetUser(r.Context(), id)
		if err != nil {
			utils.Fail(w, err)
			return
		}
		if user.Role != role {
			utils.Fail(w, apperr.NotFound("Account not found"))
			return
		}
		utils.JSON(w, http.StatusOK, user.ToUserResponse())
	}
}

func GetHomeowner(s *store.Store) http.HandlerFunc {
	return getUserByRole(s, models.RoleHomeowner)
}

func GetDriver(s *store.Store) http.HandlerFunc {
	return getUserByRole(s, models.RoleDriver)
}

func DeleteUser(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			utils.Error(w, http.StatusBadRequest, "Provide user id")
			return
		}

		if err := s.DeleteUser(r.Context(), id); err != nil {
			utils.Fail(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"id": id})
	}
}

func setSuspended(s *store.Store, notifier *services.Notifier, suspended bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := principal(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			utils.Error(w, http.StatusBadRequest, "Provide user id")
			return
		}
		if actor.ID == id {
			utils.Fail(w, apperr.Forbidden("You can not suspend yourself"))
			return
		}

		if _, err := s.GetUser(r.Context(), id); err != nil {
			utils.Fail(w, err)
			return
		}

		user, err := s.SetUserSuspended(r.Context(), id, suspended)
		if err != nil {
			utils.Fail(w, err)
			return
		}

		if suspended {
			notifier.AccountSuspended(user)
		} else {
			notifier.AccountUnsuspended(user)
		}
		utils.JSON(w, http.StatusOK, user.ToUserResponse())
	}
}

func SuspendUser(s *store.Store, notifier *services.Notifier) http.HandlerFunc {
	return setSuspended(s, notifier, true)
}

func UnsuspendUser(s *store.Store, notifier *services.Notifier) http.HandlerFunc {
	return setSuspended(s, notifier, false)
}

func setApproved(s *store.Store, notifier *services.Notifier, approved bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			utils.Error(w, http.StatusBadRequest, "Provide user id")
			return
		}

		if _, err := s.GetUser(r.Context(), id); err != nil {
			utils.Fail(w, err)
			return
		}

		user, err := s.SetUserApproved(r.Context(), id, approved)
		if err != nil {
			utils.Fail(w, err)
			return
		}

		if approved {
			notifier.AccountApproved(user)
		}
		utils.JSON(w, http.StatusOK, user.ToUserResponse())
	}
}

func ApproveHomeowner(s *store.Store, notifier *services.Notifier) http.HandlerFunc {
	return setApproved(s, notifier, true)
}

func RejectHomeowner(s *store.Store, notifier *services.Notifier) http.HandlerFunc {
	return setApproved(s, notifier, false)
}
