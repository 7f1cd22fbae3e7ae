package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/yomu-app/yomu_backend/internal/core/ports/services"
	"github.com/yomu-app/yomu_backend/internal/dto"
	"github.com/yomu-app/yomu_backend/internal/middleware"
)

// academicHandler handles HTTP requests for majors and classes.
type academicHandler struct {
	majorService portssvc.MajorSvcFacade
	classService portssvc.ClassSvcFacade
}

func newAcademicHandler(ms portssvc.MajorSvcFacade, cs portssvc.ClassSvcFacade) *academicHandler {
	return &academicHandler{majorService: ms, classService: cs}
}

// registerAcademicRoutes registers major and class routes.
func registerAcademicRoutes(rg *gin.RouterGroup, majorService portssvc.MajorSvcFacade, classService portssvc.ClassSvcFacade) {
	h := newAcademicHandler(majorService, classService)

	majors := rg.Group("/majors")
	{
		majors.GET("", h.listMajors)
		majors.GET("/:id", h.getMajor)

		admin := majors.Group("", middleware.RequireAdmin())
		{
			admin.POST("", h.createMajor)
			admin.PUT("/:id", h.updateMajor)
			admin.DELETE("/:id", h.deleteMajor)
		}
	}

	classes := rg.Group("/classes")
	{
		classes.GET("", h.listClasses)
		classes.GET("/:id", h.getClass)

		admin := classes.Group("", middleware.RequireAdmin())
		{
			admin.POST("", h.createClass)
			admin.PUT("/:id", h.updateClass)
			admin.DELETE("/:id", h.deleteClass)
		}
	}
}

// listMajors godoc
// @Summary List majors
// @Tags academic
// @Produce json
// @Success 200 {array} dto.MajorResponse
// @Security BearerAuth
// @Router /majors [get]
func (h *academicHandler) listMajors(c *gin.Context) {
	majors, err := h.majorService.ListMajors(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	responses := make([]dto.MajorResponse, len(majors))
	for i := range majors {
		responses[i] = dto.ToMajorResponse(&majors[i])
	}
	c.JSON(http.StatusOK, responses)
}

// getMajor godoc
// @Summary Get a major by ID
// @Tags academic
// @Produce json
// @Param id path string true "Major ID"
// @Success 200 {object} dto.MajorResponse
// @Failure 404 {object} map[string]string "Major not found"
// @Security BearerAuth
// @Router /majors/{id} [get]
func (h *academicHandler) getMajor(c *gin.Context) {
	major, err := h.majorService.GetMajorByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMajorResponse(major))
}

// createMajor godoc
// @Summary Create a major
// @Tags academic
// @Accept json
// @Produce json
// @Param major body dto.CreateMajorRequest true "Major details"
// @Success 201 {object} dto.MajorResponse
// @Security BearerAuth
// @Router /majors [post]
func (h *academicHandler) createMajor(c *gin.Context) {
	var req dto.CreateMajorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	major, err := h.majorService.CreateMajor(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToMajorResponse(major))
}

// updateMajor godoc
// @Summary Update a major
// @Tags academic
// @Accept json
// @Produce json
// @Param id path string true "Major ID"
// @Param major body dto.UpdateMajorRequest true "Fields to update"
// @Success 200 {object} dto.MajorResponse
// @Failure 404 {object} map[string]string "Major not found"
// @Security BearerAuth
// @Router /majors/{id} [put]
func (h *academicHandler) updateMajor(c *gin.Context) {
	var req dto.UpdateMajorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	major, err := h.majorService.UpdateMajor(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMajorResponse(major))
}

// deleteMajor godoc
// @Summary Delete a major
// @Description Removes a major; assigned students or classes block the delete
// @Tags academic
// @Produce json
// @Param id path string true "Major ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Major still in use"
// @Security BearerAuth
// @Router /majors/{id} [delete]
func (h *academicHandler) deleteMajor(c *gin.Context) {
	if err := h.majorService.DeleteMajor(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Major deleted"})
}

// listClasses godoc
// @Summary List classes
// @Tags academic
// @Produce json
// @Success 200 {array} dto.ClassResponse
// @Security BearerAuth
// @Router /classes [get]
func (h *academicHandler) listClasses(c *gin.Context) {
	classes, err := h.classService.ListClasses(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	responses := make([]dto.ClassResponse, len(classes))
	for i := range classes {
		responses[i] = dto.ToClassResponse(&classes[i])
	}
	c.JSON(http.StatusOK, responses)
}

// getClass godoc
// @Summary Get a class by ID
// @Tags academic
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} dto.ClassResponse
// @Failure 404 {object} map[string]string "Class not found"
// @Security BearerAuth
// @Router /classes/{id} [get]
func (h *academicHandler) getClass(c *gin.Context) {
	class, err := h.classService.GetClassByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToClassResponse(class))
}

// createClass godoc
// @Summary Create a class
// @Tags academic
// @Accept json
// @Produce json
// @Param class body dto.CreateClassRequest true "Class details"
// @Success 201 {object} dto.ClassResponse
// @Security BearerAuth
// @Router /classes [post]
func (h *academicHandler) createClass(c *gin.Context) {
	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	class, err := h.classService.CreateClass(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToClassResponse(class))
}

// updateClass godoc
// @Summary Update a class
// @Tags academic
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param class body dto.UpdateClassRequest true "Fields to update"
// @Success 200 {object} dto.ClassResponse
// @Failure 404 {object} map[string]string "Class not found"
// @Security BearerAuth
// @Router /classes/{id} [put]
func (h *academicHandler) updateClass(c *gin.Context) {
	var req dto.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	class, err := h.classService.UpdateClass(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToClassResponse(class))
}

// deleteClass godoc
// @Summary Delete a class
// @Description Removes a class; assigned students block the delete
// @Tags academic
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Class still in use"
// @Security BearerAuth
// @Router /classes/{id} [delete]
func (h *academicHandler) deleteClass(c *gin.Context) {
	if err := h.classService.DeleteClass(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Class deleted"})
}
