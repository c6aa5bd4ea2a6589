package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/solvemarket/marketplace-api/internal/dto"
	apierrors "github.com/solvemarket/marketplace-api/internal/errors"
	"github.com/solvemarket/marketplace-api/internal/middleware"
	"github.com/solvemarket/marketplace-api/internal/services"
	"github.com/solvemarket/marketplace-api/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers returns all users. Admin only.
func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	users, total, err := h.userService.ListUsers(actor, params.Page, params.Limit)
	if err != nil {
		apierrors.RespondWorkflow(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": dto.ToUserDTOs(users),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// PromoteUser promotes a problem solver to buyer. Admin only.
func (h *UserHandler) PromoteUser(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.PromoteToBuyer(actor, targetID)
	if err != nil {
		apierrors.RespondWorkflow(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateProfile updates the authenticated user's own profile fields.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateProfileRequest struct {
		Bio          *string `json:"bio"`
		Skills       *string `json:"skills"`
		Experience   *string `json:"experience"`
		PortfolioURL *string `json:"portfolio_url"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	user, err := h.userService.UpdateProfile(actor, services.UpdateProfileInput{
		Bio:          req.Bio,
		Skills:       req.Skills,
		Experience:   req.Experience,
		PortfolioURL: req.PortfolioURL,
	})
	if err != nil {
		apierrors.RespondWorkflow(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
