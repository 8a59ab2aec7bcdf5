package handlers

import (
	"net/http"

	"social-server/middleware"
	"social-server/models"
	"social-server/services"

	"github.com/gorilla/mux"
)

type ThoughtHandler struct {
	thoughtService *services.ThoughtService
}

func NewThoughtHandler(thoughtService *services.ThoughtService) *ThoughtHandler {
	return &ThoughtHandler{thoughtService: thoughtService}
}

func (h *ThoughtHandler) GetAllThoughts(w http.ResponseWriter, r *http.Request) {
	thoughts, err := h.thoughtService.ListThoughts(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, thoughts)
}

func (h *ThoughtHandler) GetThoughtByID(w http.ResponseWriter, r *http.Request) {
	thought, err := h.thoughtService.GetThought(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, thought)
}

func (h *ThoughtHandler) CreateThought(w http.ResponseWriter, r *http.Request) {
	var input models.CreateThoughtInput
	if !decodeAndValidate(w, r, &input) {
		return
	}
	thought, err := h.thoughtService.CreateThought(r.Context(), input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, thought)
}

func (h *ThoughtHandler) UpdateThought(w http.ResponseWriter, r *http.Request) {
	var input models.UpdateThoughtInput
	if !decodeAndValidate(w, r, &input) {
		return
	}
	thought, err := h.thoughtService.UpdateThought(r.Context(), mux.Vars(r)["id"], input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, thought)
}

func (h *ThoughtHandler) DeleteThought(w http.ResponseWriter, r *http.Request) {
	if err := h.thoughtService.DeleteThought(r.Context(), mux.Vars(r)["id"]); err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Thought has been deleted."})
}

func (h *ThoughtHandler) AddReaction(w http.ResponseWriter, r *http.Request) {
	var input models.ReactionInput
	if !decodeAndValidate(w, r, &input) {
		return
	}
	thought, err := h.thoughtService.AddReaction(r.Context(), mux.Vars(r)["thoughtId"], input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, thought)
}

func (h *ThoughtHandler) DeleteReaction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	thought, err := h.thoughtService.RemoveReaction(r.Context(), vars["thoughtId"], vars["reactionId"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, thought)
}
