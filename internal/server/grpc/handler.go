package grpc

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/gophid/internal/api"
	"github.com/dmitrijs2005/gophid/internal/server/auth"
	"github.com/dmitrijs2005/gophid/internal/server/models"
	"github.com/dmitrijs2005/gophid/internal/server/services"
)

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.AuthResponse, error) {
	if err := api.Validate(req); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	result, err := s.users.Register(ctx, req.Email, req.Password, models.Profile{Name: req.Name})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toAuthResponse(result), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.AuthResponse, error) {
	if err := api.Validate(req); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	result, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toAuthResponse(result), nil
}

func (s *GRPCServer) CreateUser(ctx context.Context, req *api.CreateUserRequest) (*api.UserResponse, error) {
	if err := api.Validate(req); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	user, err := s.users.Create(ctx, req.Email, req.Password, models.Profile{Name: req.Name})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.UserResponse{User: toAPIUser(user)}, nil
}

func (s *GRPCServer) WhoAmI(ctx context.Context, _ *api.WhoAmIRequest) (*api.UserResponse, error) {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "not authenticated")
	}
	return &api.UserResponse{User: toAPIUser(user)}, nil
}

func (s *GRPCServer) CheckToken(ctx context.Context, _ *api.CheckTokenRequest) (*api.AuthResponse, error) {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "not authenticated")
	}

	result, err := s.users.RenewToken(ctx, user)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toAuthResponse(result), nil
}

func (s *GRPCServer) ListUsers(ctx context.Context, _ *api.ListUsersRequest) (*api.ListUsersResponse, error) {
	list, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp := &api.ListUsersResponse{Users: make([]api.User, 0, len(list))}
	for i := range list {
		resp.Users = append(resp.Users, toAPIUser(&list[i]))
	}
	return resp, nil
}

func toAPIUser(u *models.PublicUser) api.User {
	return api.User{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

func toAuthResponse(r *services.AuthResult) *api.AuthResponse {
	return &api.AuthResponse{User: toAPIUser(r.User), Token: r.Token}
}
