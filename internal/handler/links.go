package handler

import (
	"errors"
	"net/http"
	"strconv"

	"applink/internal/model"
	"applink/internal/platform"
	"applink/internal/service"

	"github.com/gin-gonic/gin"
)

// LinksHandler handles smart link management
type LinksHandler struct {
	service service.LinkServiceInterface
}

// NewLinksHandler creates a new LinksHandler
func NewLinksHandler(service service.LinkServiceInterface) *LinksHandler {
	return &LinksHandler{service: service}
}

// Create handles POST /api/v1/links
// @Summary Create a smart link
// @Description Creates a smart link; deep-link fields left empty are synthesized from the web fallback
// @Tags links
// @Accept json
// @Produce json
// @Param request body model.CreateLinkRequest true "Create request"
// @Success 201 {object} Response{data=model.Link}
// @Router /api/v1/links [post]
func (h *LinksHandler) Create(c *gin.Context) {
	var req model.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request: " + err.Error(),
		})
		return
	}

	link, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrSlugTaken):
			status = http.StatusConflict
		case errors.Is(err, service.ErrInvalidSlug):
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{Code: status, Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    link,
	})
}

// List handles GET /api/v1/links
// @Summary List smart links
// @Tags links
// @Produce json
// @Success 200 {object} Response{data=[]model.LinkResponse}
// @Router /api/v1/links [get]
func (h *LinksHandler) List(c *gin.Context) {
	links, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to list links",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    links,
	})
}

// Get handles GET /api/v1/links/:slug
// @Summary Get a smart link by slug
// @Tags links
// @Produce json
// @Param slug path string true "Slug"
// @Success 200 {object} Response{data=model.Link}
// @Router /api/v1/links/{slug} [get]
func (h *LinksHandler) Get(c *gin.Context) {
	link, err := h.service.Resolve(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: "Link not found",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    link,
	})
}

// Update handles PUT /api/v1/links/:id
// @Summary Update a smart link
// @Tags links
// @Accept json
// @Produce json
// @Param id path int true "Link ID"
// @Param request body model.UpdateLinkRequest true "Update request"
// @Success 200 {object} Response{data=model.Link}
// @Router /api/v1/links/{id} [put]
func (h *LinksHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid link id",
		})
		return
	}

	var req model.UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request: " + err.Error(),
		})
		return
	}

	link, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrLinkNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrSlugTaken):
			status = http.StatusConflict
		case errors.Is(err, service.ErrInvalidSlug):
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{Code: status, Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    link,
	})
}

// Delete handles DELETE /api/v1/links/:id
// @Summary Delete a smart link
// @Description Deletes a link; historical clicks are retained
// @Tags links
// @Param id path int true "Link ID"
// @Success 200 {object} Response
// @Router /api/v1/links/{id} [delete]
func (h *LinksHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid link id",
		})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrLinkNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, ErrorResponse{Code: status, Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, Response{Code: 0, Message: "success"})
}

// Parse handles POST /api/v1/links/parse
// @Summary Preview deep-link synthesis for a URL
// @Tags links
// @Accept json
// @Produce json
// @Param request body model.ParseRequest true "Parse request"
// @Success 200 {object} Response{data=platform.ParsedLink}
// @Router /api/v1/links/parse [post]
func (h *LinksHandler) Parse(c *gin.Context) {
	var req model.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request: " + err.Error(),
		})
		return
	}

	parsed, err := platform.Synthesize(req.URL)
	if err != nil {
		// A recognized platform without an extractable identifier is not a
		// client error; report the web-only shape the record would get.
		if errors.Is(err, platform.ErrNoIdentifier) {
			tag, _ := platform.Detect(req.URL)
			c.JSON(http.StatusOK, Response{
				Code:    0,
				Message: "no deep link available",
				Data: platform.ParsedLink{
					Platform:     tag,
					PlatformName: platform.Name(tag),
					WebFallback:  req.URL,
				},
			})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Unparseable URL",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    parsed,
	})
}

// Response is the standard API response
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the error API response
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
