package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/services"
)

// CategoryHandler handles category-related requests. Mutations echo the full
// category collection.
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryRequest represents the request payload for creating or renaming
// a category.
type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

func (h *CategoryHandler) echoCategories(c *gin.Context, statusCode int, extra gin.H) {
	categories, err := h.categoryService.ListCategories()
	if err != nil {
		respondWithError(c, err)
		return
	}
	body := gin.H{"categories": categories}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(statusCode, body)
}

// CreateCategory handles the creation of a new category
// @Summary     Create a category
// @Description Create a new category with a normalized unique name. Returns the full category collection.
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       request body CategoryRequest true "Category name"
// @Success     201 {object} map[string]interface{} "Created category and full collection"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Anti-forgery token mismatch"
// @Failure     409 {object} ErrorResponse "Category already exists"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.echoCategories(c, http.StatusCreated, gin.H{"category": category})
}

// GetCategories handles the retrieval of all categories
// @Summary     List categories
// @Description List all categories ordered by name
// @Tags        categories
// @Accept      json
// @Produce     json
// @Success     200 {object} map[string]interface{} "Categories"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// UpdateCategory handles renaming a category
// @Summary     Rename category
// @Description Rename a category. Existing transactions and plans keep the old name. Returns the full category collection.
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id      path int             true "Category ID"
// @Param       request body CategoryRequest true "New name"
// @Success     200 {object} map[string]interface{} "Updated category and full collection"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Anti-forgery token mismatch"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Name already taken"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.UpdateCategory(categoryID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.echoCategories(c, http.StatusOK, gin.H{"category": category})
}

// DeleteCategory handles the deletion of a category
// @Summary     Delete category
// @Description Delete a category. Transactions and plans recorded under its name are untouched. Returns the full category collection.
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id path int true "Category ID"
// @Success     200 {object} map[string]interface{} "Deletion message and full collection"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     403 {object} ErrorResponse "Anti-forgery token mismatch"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCategory(categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.echoCategories(c, http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
