package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"payouts/models"

	"github.com/go-chi/chi/v5"
)

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type logInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type logInResponse struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

type submitUpdateRequest struct {
	NewBalance string `json:"newBalance"`
}

type userPayload struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
}

type mePayload struct {
	userPayload
	Email       string `json:"email"`
	IsModerator bool   `json:"isModerator"`
}

type pendingUpdatePayload struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Name        string    `json:"name"`
	NewBalance  string    `json:"newBalance"`
	RequestedAt time.Time `json:"requestedAt"`
}

func toUserPayload(user *models.User) userPayload {
	return userPayload{
		ID:        user.ID,
		Name:      user.Name,
		Balance:   user.Balance.Format(),
		CreatedAt: user.CreatedAt,
	}
}

func toPendingUpdatePayload(update *models.PendingUpdate) pendingUpdatePayload {
	return pendingUpdatePayload{
		ID:          update.ID,
		UserID:      update.UserID,
		Name:        update.Name,
		NewBalance:  update.NewBalance.Format(),
		RequestedAt: update.CreatedAt,
	}
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	users := s.board.Leaderboard(r.Context())

	payload := make([]userPayload, 0, len(users))
	for _, user := range users {
		payload = append(payload, toUserPayload(user))
	}

	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.auth.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserPayload(user))
}

func (s *Server) handleLogIn(w http.ResponseWriter, r *http.Request) {
	var req logInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := s.auth.LogIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, logInResponse{
		Token: token,
		User:  toUserPayload(user),
	})
}

func (s *Server) handleLogOut(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	s.auth.LogOut(r.Context(), identity.UserID, identity.Email)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := s.auth.GetUser(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, mePayload{
		userPayload: toUserPayload(user),
		Email:       user.Email,
		IsModerator: s.board.IsModerator(user.Email),
	})
}

func (s *Server) handleSubmitUpdate(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req submitUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	newBalance, err := models.ParseCents(req.NewBalance)
	if err != nil {
		writeError(w, http.StatusBadRequest, "newBalance must be a non-negative number")
		return
	}

	update, err := s.board.SubmitUpdate(r.Context(), identity.UserID, newBalance)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPendingUpdatePayload(update))
}

func (s *Server) handlePendingUpdates(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	updates, err := s.board.PendingUpdates(r.Context(), identity.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	payload := make([]pendingUpdatePayload, 0, len(updates))
	for _, update := range updates {
		payload = append(payload, toPendingUpdatePayload(update))
	}

	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	updateID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid update id")
		return
	}

	user, err := s.board.ApproveUpdate(r.Context(), updateID, identity.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserPayload(user))
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	updateID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid update id")
		return
	}

	if err := s.board.DismissUpdate(r.Context(), updateID, identity.Email); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
