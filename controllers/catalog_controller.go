package controllers

import (
	"net/http"
	"strconv"

	"github.com/Ryan-gomezzz/Hush-gentle/services"
	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	catalog services.CatalogService
}

func NewCatalogController(catalog services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

func (cc *CatalogController) Categories(c *gin.Context) {
	categories, err := cc.catalog.Categories(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Products supports ?category=<slug>&featured=true&limit=n.
func (cc *CatalogController) Products(c *gin.Context) {
	q := services.ProductQuery{
		CategorySlug: c.Query("category"),
		FeaturedOnly: c.Query("featured") == "true",
	}
	if l, err := strconv.Atoi(c.Query("limit")); err == nil {
		q.Limit = l
	}

	products, err := cc.catalog.Products(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (cc *CatalogController) Product(c *gin.Context) {
	product, err := cc.catalog.Product(c.Request.Context(), c.Param("slug"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (cc *CatalogController) Testimonials(c *gin.Context) {
	testimonials, err := cc.catalog.Testimonials(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"testimonials": testimonials})
}
