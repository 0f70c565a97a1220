package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/usermgmt/user-service/internal/core/domain"
	"github.com/usermgmt/user-service/internal/core/ports"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Create handles POST /api/users.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string             false  "Replays the first user created with this key"
// @Param        body             body      createUserRequest  true   "User"
// @Success      201              {object}  Envelope{data=userResponse}
// @Success      200              {object}  Envelope{data=userResponse}  "Idempotent replay"
// @Failure      400              {object}  Envelope
// @Failure      500              {object}  Envelope
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.service.CreateUser(c.Request().Context(), ports.CreateUserInput{
		Username:       req.Username,
		Password:       req.Password,
		Email:          req.Email,
		FullName:       req.FullName,
		AvatarURL:      req.AvatarURL,
		Status:         req.Status,
		RoleID:         req.Role,
		LoginCount:     req.LoginCount,
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if res.AlreadyExisted {
		status = http.StatusOK
	}
	return c.JSON(status, Envelope{Message: "user created successfully", Data: toPopulatedUserResponse(res.User)})
}

// List handles GET /api/users.
//
// @Summary      Search users, newest first
// @Tags         users
// @Produce      json
// @Param        username  query     string  false  "Case-insensitive username substring"
// @Param        fullName  query     string  false  "Case-insensitive full name substring"
// @Param        page      query     int     false  "Page number"  default(1)
// @Param        limit     query     int     false  "Page size"    default(10)
// @Success      200       {object}  Envelope{data=[]userResponse}
// @Failure      500       {object}  Envelope
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	res, err := h.service.ListUsers(c.Request().Context(), ports.ListUsersInput{
		Username: c.QueryParam("username"),
		FullName: c.QueryParam("fullName"),
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, Envelope{
		Message:    "users retrieved successfully",
		Data:       toUserResponses(res.Items),
		Pagination: pagination(res.Page, res.TotalPages, res.Total),
	})
}

// Get handles GET /api/users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  Envelope{data=userResponse}
// @Failure      404  {object}  Envelope
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Envelope{Message: "user retrieved successfully", Data: toPopulatedUserResponse(user)})
}

// GetByUsername handles GET /api/users/username/:username.
//
// @Summary      Get a user by exact username
// @Tags         users
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  Envelope{data=userResponse}
// @Failure      404       {object}  Envelope
// @Router       /api/users/username/{username} [get]
func (h *UserHandler) GetByUsername(c echo.Context) error {
	user, err := h.service.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Envelope{Message: "user retrieved successfully", Data: toPopulatedUserResponse(user)})
}

// Update handles PUT /api/users/:id. Absent fields are left untouched.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=userResponse}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.UpdateUser(c.Request().Context(), c.Param("id"), toUserUpdate(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Envelope{Message: "user updated successfully", Data: toPopulatedUserResponse(user)})
}

// Delete handles DELETE /api/users/:id.
//
// @Summary      Soft-delete a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  Envelope{data=userResponse}
// @Failure      404  {object}  Envelope
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	user, err := h.service.DeleteUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Envelope{Message: "user deleted successfully", Data: toUserResponse(user, nil)})
}

// Activate handles POST /api/users/activate.
//
// @Summary      Activate a user by email and username
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      activateUserRequest  true  "Email and username"
// @Success      200   {object}  Envelope{data=userResponse}
// @Failure      400   {object}  Envelope  "Missing fields, or already activated (data carries the user)"
// @Failure      404   {object}  Envelope
// @Router       /api/users/activate [post]
func (h *UserHandler) Activate(c echo.Context) error {
	var req activateUserRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	user, err := h.service.ActivateUser(c.Request().Context(), ports.ActivateUserInput{
		Email:    req.Email,
		Username: req.Username,
	})
	if err != nil {
		var already *domain.AlreadyActivatedError
		if errors.As(err, &already) {
			return c.JSON(http.StatusBadRequest, Envelope{
				Message: already.Error(),
				Data:    toPopulatedUserResponse(already.User),
			})
		}
		return err
	}
	return c.JSON(http.StatusOK, Envelope{Message: "user activated successfully", Data: toPopulatedUserResponse(user)})
}
