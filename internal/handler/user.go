package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"parceldesk/api/internal/csvcodec"
	"parceldesk/api/internal/model"
	"parceldesk/api/internal/service"
)

var userExportHeaders = []string{"id", "name", "email", "role", "branch", "status"}

// UserHandler handles console user account requests.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes registers user routes.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("", h.List)
		users.POST("", h.Create)
		users.GET("/export", h.Export)
		users.GET("/:id", h.Get)
		users.PUT("/:id", h.Update)
		users.DELETE("/:id", h.Delete)
	}
}

// List returns all users
// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	users := h.userService.List(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"data":  users,
		"total": len(users),
	})
}

// Get returns a single user
// @Summary Get user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 404 {object} map[string]string
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	user, ok := h.userService.Get(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// Create creates a new user
// @Summary Create user
// @Tags Users
// @Accept json
// @Produce json
// @Param user body model.User true "User data"
// @Success 201 {object} model.User
// @Failure 400 {object} map[string]string
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var user model.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.userService.Create(c.Request.Context(), &user)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update applies a partial update to a user
// @Summary Update user
// @Description Fields absent from the body keep their current values
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body model.User true "User data"
// @Success 200 {object} model.User
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	existing, ok := h.userService.Get(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	user := *existing
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user.ID = id
	if err := h.userService.Update(c.Request.Context(), &user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete deletes a user
// @Summary Delete user
// @Tags Users
// @Param id path int true "User ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	h.userService.Delete(c.Request.Context(), id)
	c.JSON(http.StatusNoContent, nil)
}

// Export downloads the collection as CSV (default) or XLSX.
func (h *UserHandler) Export(c *gin.Context) {
	users := h.userService.List(c.Request.Context())

	rows := make([]csvcodec.Row, 0, len(users))
	for _, user := range users {
		rows = append(rows, csvcodec.Row{
			"id":     strconv.FormatInt(user.ID, 10),
			"name":   user.Name,
			"email":  user.Email,
			"role":   user.Role,
			"branch": user.Branch,
			"status": user.Status,
		})
	}

	if c.DefaultQuery("format", "csv") == "xlsx" {
		writeXLSXExport(c, "users.xlsx", "Users", rows, userExportHeaders)
		return
	}
	writeCSVExport(c, "users.csv", rows, userExportHeaders)
}
