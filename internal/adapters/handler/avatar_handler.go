package handler

import (
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/hostel-management/hostel-service/internal/core/ports"
	"github.com/hostel-management/hostel-service/internal/core/services"
	"github.com/hostel-management/hostel-service/internal/logger"
)

type AvatarHandler struct {
	avatars ports.AvatarService
}

func NewAvatarHandler(avatars ports.AvatarService) *AvatarHandler {
	return &AvatarHandler{avatars: avatars}
}

// Upload takes the raw image as the request body.
func (h *AvatarHandler) Upload(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id := r.PathValue("id")
	if err := services.CanManageUser(p, id); err != nil {
		writeError(w, r, err)
		return
	}
	body := http.MaxBytesReader(w, r.Body, services.MaxAvatarBytes+1)
	user, err := h.avatars.Upload(r.Context(), id, r.Header.Get("Content-Type"), body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AvatarHandler) Serve(w http.ResponseWriter, r *http.Request) {
	info, rc, err := h.avatars.Open(r.Context(), r.PathValue("key"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer rc.Close()

	if info.ContentType != "" {
		w.Header().Set("Content-Type", info.ContentType)
	}
	if info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		logger.FromContext(r.Context(), zap.L()).Warn("avatar stream interrupted", zap.Error(err))
	}
}
