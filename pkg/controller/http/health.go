package http

import (
	"net/http"

	"github.com/m-mizutani/doclingo/pkg/domain/model"
)

type rootResponse struct {
	Message string `json:"message"`
}

// handleRoot answers the liveness probe on /
func handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, rootResponse{Message: "Docling API is running"})
}

// healthHandler reports the device detected at startup. It never fails.
func healthHandler(device model.DeviceInfo) http.HandlerFunc {
	status := model.NewHealthStatus(device)
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, status)
	}
}
