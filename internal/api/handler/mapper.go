package handler

import (
	"github.com/usermgmt/user-service/internal/core/domain"
	"github.com/usermgmt/user-service/internal/core/ports"
)

func toRoleResponse(r *domain.Role) *roleResponse {
	if r == nil {
		return nil
	}
	return &roleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsDeleted:   r.IsDeleted,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toRoleResponses(roles []*domain.Role) []*roleResponse {
	out := make([]*roleResponse, len(roles))
	for i, r := range roles {
		out[i] = toRoleResponse(r)
	}
	return out
}

func toUserResponse(u *domain.User, role *domain.Role) *userResponse {
	return &userResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		AvatarURL:  u.AvatarURL,
		Status:     u.Status,
		Role:       toRoleResponse(role),
		RoleID:     u.RoleID,
		LoginCount: u.LoginCount,
		IsDeleted:  u.IsDeleted,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func toPopulatedUserResponse(p *domain.PopulatedUser) *userResponse {
	return toUserResponse(p.User, p.Role)
}

func toUserResponses(users []*domain.PopulatedUser) []*userResponse {
	out := make([]*userResponse, len(users))
	for i, u := range users {
		out[i] = toPopulatedUserResponse(u)
	}
	return out
}

func toUserUpdate(req updateUserRequest) ports.UserUpdate {
	return ports.UserUpdate{
		Username:   req.Username,
		Password:   req.Password,
		Email:      req.Email,
		FullName:   req.FullName,
		AvatarURL:  req.AvatarURL,
		Status:     req.Status,
		RoleID:     req.Role,
		LoginCount: req.LoginCount,
	}
}

func pagination(page, pages int, total int64) *Pagination {
	return &Pagination{Current: page, Pages: pages, Total: total}
}
