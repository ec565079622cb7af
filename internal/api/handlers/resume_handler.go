package handlers

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/voxhire/voxhire/internal/services"
	"github.com/voxhire/voxhire/internal/utils"
)

type ResumeHandler struct {
	svc services.ResumeService
}

func NewResumeHandler(svc services.ResumeService) *ResumeHandler {
	return &ResumeHandler{svc: svc}
}

func (h *ResumeHandler) Upload(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("resume")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.Upload", "missing multipart field 'resume'", err))
		return
	}

	// basic validation
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".pdf" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.Upload", "only .pdf is allowed", nil))
		return
	}
	if fh.Size <= 0 || fh.Size > 10<<20 {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.Upload", "file must be between 1 byte and 10MB", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "ResumeHandler.Upload", "failed to open upload", err))
		return
	}
	defer file.Close()

	// sniff content type (read 512 bytes)
	head := make([]byte, 512)
	n, _ := file.Read(head)
	head = head[:n]
	if http.DetectContentType(head) != "application/pdf" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.Upload", "invalid content type (must be pdf)", nil))
		return
	}

	// re-compose stream: sniffed head + remaining file
	r := io.MultiReader(bytes.NewReader(head), file)

	objectName := "resumes/" + userID + "/" + uuid.NewString() + ".pdf"

	row, err := h.svc.Upload(c.Request.Context(), userID, fh.Filename, int(fh.Size), "application/pdf", objectName, r)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, row)
}
