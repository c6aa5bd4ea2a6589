package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/solvemarket/marketplace-api/internal/constants"
	"github.com/solvemarket/marketplace-api/internal/dto"
	apierrors "github.com/solvemarket/marketplace-api/internal/errors"
	"github.com/solvemarket/marketplace-api/internal/middleware"
	"github.com/solvemarket/marketplace-api/internal/models"
	"github.com/solvemarket/marketplace-api/internal/services"
	"github.com/solvemarket/marketplace-api/internal/storage"
)

type SubmissionHandler struct {
	submissionService *services.SubmissionService
}

func NewSubmissionHandler(submissionService *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// Submit uploads a deliverable for a task. Only archive files up to 50 MiB
// are accepted; validation happens here, before any record or blob is
// written. A second upload replaces the first.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	// Cap the whole multipart body; a too-large upload fails the form parse.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, constants.MaxSubmissionSize+1024)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "A deliverable file is required")
		return
	}

	if fileHeader.Size > constants.MaxSubmissionSize {
		apierrors.BadRequest(c, fmt.Sprintf("File exceeds the maximum size of %d MiB", constants.MaxSubmissionSize>>20))
		return
	}

	name := storage.SanitizeName(fileHeader.Filename)
	if !storage.IsArchiveName(name) {
		apierrors.BadRequest(c, "Only archive files (zip, tar, gz, tgz, rar, 7z) are accepted")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apierrors.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	submission, err := h.submissionService.Submit(actor, services.SubmitInput{
		TaskID:   taskID,
		FileName: name,
		Note:     c.PostForm("note"),
		File:     file,
	})
	if err != nil {
		apierrors.RespondWorkflow(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSubmissionDTO(*submission))
}

// Download streams the deliverable of a task.
func (h *SubmissionHandler) Download(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	submission, reader, err := h.submissionService.Download(actor, taskID)
	if err != nil {
		apierrors.RespondWorkflow(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", submission.FileName))
	c.Header("Content-Length", strconv.FormatInt(submission.FileSize, 10))
	c.DataFromReader(http.StatusOK, submission.FileSize, "application/octet-stream", reader, nil)
}

// Review applies the buyer's verdict on a task's submission.
func (h *SubmissionHandler) Review(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	type ReviewRequest struct {
		Verdict string `json:"verdict" binding:"required"`
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	task, err := h.submissionService.Review(actor, taskID, models.SubmissionStatus(req.Verdict))
	if err != nil {
		apierrors.RespondWorkflow(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}
