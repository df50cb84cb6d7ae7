package main

import (
	"encoding/json"
	"errors"
	"net/http"
)

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

func (a *api) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if json.NewDecoder(r.Body).Decode(&req) != nil {
		respondError(w, http.StatusBadRequest, "bad request")
		return
	}
	if req.Email == "" || req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email, username and password are required")
		return
	}
	user, err := a.users.create(r.Context(), req.Email, req.Username, req.Password)
	if errors.Is(err, errEmailTaken) {
		respondError(w, http.StatusBadRequest, "email already exists")
		return
	}
	if err != nil {
		a.log.Errorf("register: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	token, err := a.tokens.issue(user.ID.Hex(), user.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	respondJSON(w, http.StatusCreated, authResponse{
		Token:    token,
		UserID:   user.ID.Hex(),
		Username: user.Username,
	})
}

func (a *api) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if json.NewDecoder(r.Body).Decode(&req) != nil {
		respondError(w, http.StatusBadRequest, "bad request")
		return
	}
	user, err := a.users.byEmail(r.Context(), req.Email)
	if err != nil || verifyPassword(user, req.Password) != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := a.tokens.issue(user.ID.Hex(), user.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	respondJSON(w, http.StatusOK, authResponse{
		Token:    token,
		UserID:   user.ID.Hex(),
		Username: user.Username,
	})
}

func (a *api) meHandler(w http.ResponseWriter, r *http.Request) {
	user, err := a.users.byID(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, user)
}
