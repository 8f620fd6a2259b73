package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/solx/solx-api/internal/api/metrics"
	"github.com/solx/solx-api/internal/core/ports"
)

// ProjectHandler handles HTTP requests for project operations.
type ProjectHandler struct {
	service ports.ProjectService
}

func NewProjectHandler(service ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// List handles GET /api/projects.
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 10, max 100)"
// @Param        status  query     string  false  "Filter by status"
// @Param        type    query     string  false  "Filter by type"
// @Success      200     {object}  APIResponse{data=listProjectsResponse}
// @Failure      401     {object}  APIResponse
// @Router       /api/projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	// Unparseable paging values fall back to the defaults.
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.ListProjects(c.Request().Context(), ports.ListProjectsFilter{
		Status: c.QueryParam("status"),
		Type:   c.QueryParam("type"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toListResponse(result))
}

// Get handles GET /api/projects/:id.
//
// @Summary      Get a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  APIResponse{data=projectResponse}
// @Failure      401  {object}  APIResponse
// @Failure      404  {object}  APIResponse
// @Router       /api/projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	p, err := h.service.GetProject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toProjectResponse(p))
}

// Create handles POST /api/projects.
//
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProjectRequest  true  "Project details"
// @Success      201   {object}  APIResponse{data=projectResponse}
// @Failure      400   {object}  APIResponse
// @Failure      401   {object}  APIResponse
// @Failure      403   {object}  APIResponse
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req createProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.CreateProject(c.Request().Context(), toCreateInput(req, identity.UserID))
	if err != nil {
		return err
	}

	metrics.ProjectMutationsTotal.WithLabelValues("create").Inc()
	return respond(c, http.StatusCreated, toProjectResponse(p))
}

// Update handles PUT /api/projects/:id.
//
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Project ID"
// @Param        body  body      updateProjectRequest  true  "Fields to change"
// @Success      200   {object}  APIResponse{data=projectResponse}
// @Failure      400   {object}  APIResponse
// @Failure      403   {object}  APIResponse
// @Failure      404   {object}  APIResponse
// @Router       /api/projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	var req updateProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.UpdateProject(c.Request().Context(), c.Param("id"), toPatch(req))
	if err != nil {
		return err
	}

	metrics.ProjectMutationsTotal.WithLabelValues("update").Inc()
	return respond(c, http.StatusOK, toProjectResponse(p))
}

// Delete handles DELETE /api/projects/:id.
//
// @Summary      Delete a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  APIResponse{data=messageResponse}
// @Failure      403  {object}  APIResponse
// @Failure      404  {object}  APIResponse
// @Router       /api/projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteProject(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	metrics.ProjectMutationsTotal.WithLabelValues("delete").Inc()
	return respond(c, http.StatusOK, messageResponse{Message: "Project deleted successfully"})
}
