package handlers

import (
	"net/http"

	"carrental/internal/domain"
	"carrental/internal/http/middleware"
	"carrental/internal/services"

	"github.com/gin-gonic/gin"
)

func userService(c *gin.Context) services.UserService {
	return services.UserService{RequestID: middleware.GetRequestID(c)}
}

// GET /api/users?q&role
func GetUsers(c *gin.Context) {
	list, err := userService(c).List(c.Request.Context(), c.Query("q"), c.Query("role"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func GetUserByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	u, err := userService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func CreateUser(c *gin.Context) {
	var in services.UserInput
	if !BindJSONOrError(c, &in) {
		return
	}
	u, err := userService(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func UpdateUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in services.UserInput
	if !BindJSONOrError(c, &in) {
		return
	}
	u, err := userService(c).Update(c.Request.Context(), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func DeleteUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := userService(c).Delete(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user dihapus"})
}

// GET /api/roles
func GetRoles(c *gin.Context) {
	roles := domain.Roles()
	out := make([]gin.H, 0, len(roles))
	for _, r := range roles {
		out = append(out, gin.H{"id": r, "name": roleLabel(r)})
	}
	c.JSON(http.StatusOK, out)
}

func roleLabel(r domain.Role) string {
	switch r {
	case domain.RoleAdmin:
		return "Administrator"
	case domain.RoleStaff:
		return "Staff"
	case domain.RoleViewer:
		return "Viewer"
	}
	return string(r)
}
