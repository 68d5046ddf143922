package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/user-sync-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/user-sync-service/internal/app"
)

// UserHandler handles the /user endpoints.
type UserHandler struct {
	service *app.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(service *app.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes registers the user routes on rg. Static segments such as
// /all and /deleteall take priority over the :id wildcard.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	user := rg.Group("/user")

	user.GET("/all", h.ListUsers)
	user.GET("/:id", h.GetUser)
	user.DELETE("/deleteall", h.DeleteAllUsers)
	user.DELETE("/:id", h.DeleteUser)
	user.POST("/upload/:id", h.ImportUser)
	user.POST("/uploadall", h.ImportAllUsers)
	user.POST("/", h.CreateUser)
	user.PUT("/", h.UpdateUser)
}

// GetUser handles GET /user/:id
//
// @Summary Get a stored user
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /user/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// DeleteUser handles DELETE /user/:id and returns the removed user.
//
// @Summary Delete a stored user
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /user/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.service.DeleteUser(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// DeleteAllUsers handles DELETE /user/deleteall
//
// @Summary Delete every stored user
// @Produce plain
// @Success 200 {string} string "Users Deleted:n"
// @Failure 500 {object} dto.ErrorResponse
// @Router /user/deleteall [delete]
func (h *UserHandler) DeleteAllUsers(c *gin.Context) {
	n, err := h.service.DeleteAllUsers(c.Request.Context())
	if err != nil {
		dto.RespondUnexpected(c, err)
		return
	}

	c.String(http.StatusOK, "Users Deleted:%d", n)
}

// ImportUser handles POST /user/upload/:id
//
// @Summary Fetch one user from GoREST and store it
// @Produce json
// @Param id path int true "GoREST user ID"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /user/upload/{id} [post]
func (h *UserHandler) ImportUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.service.ImportUser(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// ImportAllUsers handles POST /user/uploadall
//
// @Summary Fetch every GoREST user and store them
// @Produce plain
// @Success 200 {string} string "Users Created:n"
// @Failure 500 {object} dto.ErrorResponse
// @Router /user/uploadall [post]
func (h *UserHandler) ImportAllUsers(c *gin.Context) {
	n, err := h.service.ImportAllUsers(c.Request.Context())
	if err != nil {
		dto.RespondUnexpected(c, err)
		return
	}

	c.String(http.StatusOK, "Users Created:%d", n)
}

// CreateUser handles POST /user/
//
// @Summary Create a user
// @Accept json
// @Produce json
// @Param user body dto.UserRequest true "User"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /user/ [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	req, ok := bindUser(c)
	if !ok {
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req.ToInput())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// UpdateUser handles PUT /user/
//
// @Summary Replace a stored user
// @Accept json
// @Produce json
// @Param user body dto.UserRequest true "User with id"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /user/ [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	req, ok := bindUser(c)
	if !ok {
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), req.ToInput())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// ListUsers handles GET /user/all
//
// @Summary List stored users ordered by id
// @Produce json
// @Success 200 {array} dto.UserResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /user/all [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		dto.RespondUnexpected(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserListResponse(users))
}

// parseID reads the :id path parameter, writing a 400 when it is not an integer.
func parseID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		dto.RespondClientFault(c, http.StatusBadRequest, raw+" is not a valid ID")
		return 0, false
	}

	return id, true
}

func bindUser(c *gin.Context) (*dto.UserRequest, bool) {
	var req dto.UserRequest

	err := dto.Bind(c, &req)
	switch {
	case err == nil:
		return &req, true
	case errors.Is(err, dto.ErrBinding):
		dto.RespondClientFault(c, http.StatusBadRequest, "malformed user JSON: "+err.Error())
	default:
		dto.HandleError(c, err)
	}

	return nil, false
}
