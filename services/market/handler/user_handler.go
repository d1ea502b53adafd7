package handler

import (
	"fmt"
	"net/http"

	model "smart-deals/internal/models"
	"smart-deals/services/market/helpers"
	"smart-deals/utils"

	"github.com/gin-gonic/gin"
)

// RegisterUserHandler handles POST /users. Registration is idempotent per
// email: an existing record is acknowledged without a second insert.
func (h *MarketHandler) RegisterUserHandler(c *gin.Context) {
	var req helpers.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RegisterUserHandler", err)
		return
	}

	user, created, err := h.service.RegisterUser(c.Request.Context(), model.User{
		Email:    req.Email,
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("RegisterUserHandler: failed to register user", map[string]any{
			"email": req.Email,
			"error": err.Error(),
		})
		return
	}

	resp := helpers.RegisterUserResponse{
		Inserted: created,
		ID:       user.ID.Hex(),
		Email:    user.Email,
	}

	if !created {
		utils.JSONResponse(c, http.StatusOK, resp, "user already exists, no insert performed")
		helpers.LogSuccess("RegisterUserHandler", "user already exists", map[string]any{"email": user.Email})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, resp, "user registered successfully")
	helpers.LogSuccess("RegisterUserHandler", "user registered successfully", map[string]any{
		"user_id": user.ID.Hex(),
		"email":   user.Email,
	})
}
