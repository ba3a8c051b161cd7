package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophid/internal/api"
	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/server/auth"
	"github.com/dmitrijs2005/gophid/internal/server/models"
	"github.com/dmitrijs2005/gophid/internal/server/services"
)

func (s *HTTPServer) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *HTTPServer) register(c *gin.Context) {
	var req api.RegisterRequest
	if !s.bind(c, &req) {
		return
	}

	result, err := s.users.Register(c.Request.Context(), req.Email, req.Password, models.Profile{Name: req.Name})
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toAuthResponse(result))
}

func (s *HTTPServer) login(c *gin.Context) {
	var req api.LoginRequest
	if !s.bind(c, &req) {
		return
	}

	result, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, toAuthResponse(result))
}

func (s *HTTPServer) createUser(c *gin.Context) {
	var req api.CreateUserRequest
	if !s.bind(c, &req) {
		return
	}

	user, err := s.users.Create(c.Request.Context(), req.Email, req.Password, models.Profile{Name: req.Name})
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusCreated, api.UserResponse{User: toAPIUser(user)})
}

func (s *HTTPServer) checkToken(c *gin.Context) {
	ctx := c.Request.Context()
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		respondError(c, s.logger, common.ErrUnauthenticated)
		return
	}

	result, err := s.users.RenewToken(ctx, user)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, toAuthResponse(result))
}

func (s *HTTPServer) listUsers(c *gin.Context) {
	list, err := s.users.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, s.logger, err)
		return
	}

	resp := api.ListUsersResponse{Users: make([]api.User, 0, len(list))}
	for i := range list {
		resp.Users = append(resp.Users, toAPIUser(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *HTTPServer) getUser(c *gin.Context) {
	user, err := s.users.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, api.UserResponse{User: toAPIUser(user)})
}

// bind decodes and validates the JSON body, responding 400 on failure.
func (s *HTTPServer) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, s.logger, fmt.Errorf("%w: %w", common.ErrInvalidArgument, err))
		return false
	}
	return true
}

func toAPIUser(u *models.PublicUser) api.User {
	return api.User{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

func toAuthResponse(r *services.AuthResult) api.AuthResponse {
	return api.AuthResponse{User: toAPIUser(r.User), Token: r.Token}
}
