package handlers

import (
	"net/http"

	"social-server/middleware"
	"social-server/models"
	"social-server/services"

	"github.com/gorilla/mux"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input models.CreateUserInput
	if !decodeAndValidate(w, r, &input) {
		return
	}
	user, err := h.userService.CreateUser(r.Context(), input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var input models.UpdateUserInput
	if !decodeAndValidate(w, r, &input) {
		return
	}
	user, err := h.userService.UpdateUser(r.Context(), mux.Vars(r)["id"], input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.DeleteUser(r.Context(), mux.Vars(r)["id"]); err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "User and associated thoughts have been deleted."})
}

func (h *UserHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	user, err := h.userService.AddFriend(r.Context(), vars["userId"], vars["friendId"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) DeleteFriend(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	user, err := h.userService.RemoveFriend(r.Context(), vars["userId"], vars["friendId"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
