package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"wasteflow-backend/internal/middleware"
	"wasteflow-backend/internal/models"
	"wasteflow-backend/internal/services"
	"wasteflow-backend/internal/store"
	"wasteflow-backend/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string              `json:"token"`
	User  models.UserResponse `json:"user"`
}

func Login(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Email == "" || req.Password == "" {
			utils.Error(w, http.StatusBadRequest, "Provide all required fields")
			return
		}

		jwtSecret := os.Getenv("APP_JWT_SECRET")
		if jwtSecret == "" {
			log.Println("❌ JWT secret not configured")
			utils.Error(w, http.StatusInternalServerError, "Something went wrong")
			return
		}

		user, err := s.GetUserByEmail(r.Context(), req.Email)
		if err != nil {
			utils.Error(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			utils.Error(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id":      user.ID,
			"email":        user.Email,
			"role":         user.Role,
			"is_suspended": user.IsSuspended,
			"iat":          time.Now().Unix(),
			"exp":          time.Now().Add(7 * 24 * time.Hour).Unix(),
		})

		tokenString, err := token.SignedString([]byte(jwtSecret))
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to create token")
			return
		}

		log.Printf("✅ Login successful: %s (%s)", user.Email, user.Role)
		utils.JSON(w, http.StatusOK, LoginResponse{Token: tokenString, User: user.ToUserResponse()})
	}
}

// GetAuthStatus returns the account behind the presented token.
func GetAuthStatus(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user, err := s.GetUser(r.Context(), claims.UserID)
		if err != nil {
			utils.Fail(w, err)
			return
		}

		utils.JSON(w, http.StatusOK, user.ToUserResponse())
	}
}

// principal converts request claims into the actor the services consume.
func principal(r *http.Request) (services.Principal, bool) {
	claims, ok := middleware.GetUserFromContext(r)
	if !ok {
		return services.Principal{}, false
	}
	return services.Principal{
		ID:          claims.UserID,
		Role:        claims.Role,
		IsSuspended: claims.IsSuspended,
	}, true
}
