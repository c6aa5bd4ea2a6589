package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/solvemarket/marketplace-api/internal/dto"
	apierrors "github.com/solvemarket/marketplace-api/internal/errors"
	"github.com/solvemarket/marketplace-api/internal/middleware"
	"github.com/solvemarket/marketplace-api/internal/services"
)

type RequestHandler struct {
	requestService *services.RequestService
}

func NewRequestHandler(requestService *services.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// CreateRequest places a solver's bid on an open project.
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	type CreateRequestRequest struct {
		Message string `json:"message"`
	}

	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	request, err := h.requestService.CreateRequest(actor, projectID, req.Message)
	if err != nil {
		apierrors.RespondWorkflow(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRequestDTO(*request))
}

// ListProjectRequests returns all requests on an owned project.
func (h *RequestHandler) ListProjectRequests(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	requests, err := h.requestService.ListForProject(actor, projectID)
	if err != nil {
		apierrors.RespondWorkflow(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": dto.ToRequestDTOs(requests)})
}

// ListMyRequests returns the actor's own bids.
func (h *RequestHandler) ListMyRequests(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	requests, err := h.requestService.ListMine(actor)
	if err != nil {
		apierrors.RespondWorkflow(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": dto.ToRequestDTOs(requests)})
}
