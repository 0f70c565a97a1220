package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/usermgmt/user-service/internal/core/ports"
)

// RoleHandler handles HTTP requests for role operations.
type RoleHandler struct {
	service ports.RoleService
}

func NewRoleHandler(service ports.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// Create handles POST /api/roles.
//
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string             false  "Replays the first role created with this key"
// @Param        body             body      createRoleRequest  true   "Role"
// @Success      201              {object}  Envelope{data=roleResponse}
// @Success      200              {object}  Envelope{data=roleResponse}  "Idempotent replay"
// @Failure      400              {object}  Envelope
// @Failure      500              {object}  Envelope
// @Router       /api/roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req createRoleRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.service.CreateRole(c.Request().Context(), ports.CreateRoleInput{
		Name:           req.Name,
		Description:    req.Description,
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if res.AlreadyExisted {
		status = http.StatusOK
	}
	return c.JSON(status, Envelope{Message: "role created successfully", Data: toRoleResponse(res.Role)})
}

// List handles GET /api/roles.
//
// @Summary      List roles, newest first
// @Tags         roles
// @Produce      json
// @Param        page   query     int  false  "Page number"  default(1)
// @Param        limit  query     int  false  "Page size"    default(10)
// @Success      200    {object}  Envelope{data=[]roleResponse}
// @Failure      500    {object}  Envelope
// @Router       /api/roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	res, err := h.service.ListRoles(c.Request().Context(), ports.ListRolesInput{
		Page:  queryInt(c, "page"),
		Limit: queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, Envelope{
		Message:    "roles retrieved successfully",
		Data:       toRoleResponses(res.Items),
		Pagination: pagination(res.Page, res.TotalPages, res.Total),
	})
}

// Get handles GET /api/roles/:id.
//
// @Summary      Get a role
// @Tags         roles
// @Produce      json
// @Param        id   path      string  true  "Role id"
// @Success      200  {object}  Envelope{data=roleResponse}
// @Failure      404  {object}  Envelope
// @Router       /api/roles/{id} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	role, err := h.service.GetRole(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Envelope{Message: "role retrieved successfully", Data: toRoleResponse(role)})
}

// Update handles PUT /api/roles/:id. Absent fields are left untouched.
//
// @Summary      Update a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Role id"
// @Param        body  body      updateRoleRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=roleResponse}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /api/roles/{id} [put]
func (h *RoleHandler) Update(c echo.Context) error {
	var req updateRoleRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	role, err := h.service.UpdateRole(c.Request().Context(), c.Param("id"), ports.RoleUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Envelope{Message: "role updated successfully", Data: toRoleResponse(role)})
}

// Delete handles DELETE /api/roles/:id.
//
// @Summary      Soft-delete a role
// @Tags         roles
// @Produce      json
// @Param        id   path      string  true  "Role id"
// @Success      200  {object}  Envelope{data=roleResponse}
// @Failure      404  {object}  Envelope
// @Router       /api/roles/{id} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	role, err := h.service.DeleteRole(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Envelope{Message: "role deleted successfully", Data: toRoleResponse(role)})
}
