package handlers

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes wires the thought and user resources onto r. OPTIONS is accepted
// on every route so the CORS middleware can answer preflights.
func RegisterRoutes(r *mux.Router, thoughtHandler *ThoughtHandler, userHandler *UserHandler) {
	thoughtRouter := r.PathPrefix("/thoughts").Subrouter()
	thoughtRouter.HandleFunc("", thoughtHandler.GetAllThoughts).Methods("GET", "OPTIONS")
	thoughtRouter.HandleFunc("", thoughtHandler.CreateThought).Methods("POST", "OPTIONS")
	thoughtRouter.HandleFunc("/{id}", thoughtHandler.GetThoughtByID).Methods("GET", "OPTIONS")
	thoughtRouter.HandleFunc("/{id}", thoughtHandler.UpdateThought).Methods("PUT", "OPTIONS")
	thoughtRouter.HandleFunc("/{id}", thoughtHandler.DeleteThought).Methods("DELETE", "OPTIONS")
	thoughtRouter.HandleFunc("/{thoughtId}/reactions", thoughtHandler.AddReaction).Methods("POST", "OPTIONS")
	thoughtRouter.HandleFunc("/{thoughtId}/reactions/{reactionId}", thoughtHandler.DeleteReaction).Methods("DELETE", "OPTIONS")

	userRouter := r.PathPrefix("/users").Subrouter()
	userRouter.HandleFunc("", userHandler.GetAllUsers).Methods("GET", "OPTIONS")
	userRouter.HandleFunc("", userHandler.CreateUser).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/{id}", userHandler.GetUserByID).Methods("GET", "OPTIONS")
	userRouter.HandleFunc("/{id}", userHandler.UpdateUser).Methods("PUT", "OPTIONS")
	userRouter.HandleFunc("/{id}", userHandler.DeleteUser).Methods("DELETE", "OPTIONS")
	userRouter.HandleFunc("/{userId}/friends/{friendId}", userHandler.AddFriend).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/{userId}/friends/{friendId}", userHandler.DeleteFriend).Methods("DELETE", "OPTIONS")
}
