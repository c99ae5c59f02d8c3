package public

import (
	handlershared "github.com/ecofinds/internal/http/handlers/shared"
	"github.com/ecofinds/internal/http/response"
	"github.com/ecofinds/internal/models"
	"github.com/ecofinds/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductListQuery 商品列表查询参数
type ProductListQuery struct {
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
	Category   uint   `form:"category"`
	CategoryID uint   `form:"category_id"`
	Seller     uint   `form:"seller"`
	Search     string `form:"search"`
	Condition  string `form:"condition" binding:"omitempty,oneof=new like-new good fair poor"`
	Sort       string `form:"sort"`
	Order      string `form:"order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// CreateProductRequest 发布商品请求
type CreateProductRequest struct {
	Title       string        `json:"title" binding:"required,max=100"`
	Description string        `json:"description" binding:"required,max=1000"`
	Price       *models.Money `json:"price" binding:"required"`
	CategoryID  uint          `json:"category_id" binding:"required"`
	Condition   string        `json:"condition" binding:"omitempty,oneof=new like-new good fair poor"`
	Images      []string      `json:"images" binding:"omitempty,max=10"`
	Tags        []string      `json:"tags" binding:"omitempty,max=20"`
}

// UpdateProductRequest 修改商品请求，未传字段不修改
type UpdateProductRequest struct {
	Title       *string       `json:"title" binding:"omitempty,min=1,max=100"`
	Description *string       `json:"description" binding:"omitempty,min=1,max=1000"`
	Price       *models.Money `json:"price"`
	CategoryID  *uint         `json:"category_id" binding:"omitempty,min=1"`
	Condition   *string       `json:"condition" binding:"omitempty,oneof=new like-new good fair poor"`
	Images      []string      `json:"images" binding:"omitempty,max=10"`
	Tags        []string      `json:"tags" binding:"omitempty,max=20"`
	Status      *string       `json:"status" binding:"omitempty,oneof=available withdrawn sold"`
}

// ListProducts 浏览在售商品
func (h *Handler) ListProducts(c *gin.Context) {
	var q ProductListQuery
	if !handlershared.BindQuery(c, &q) {
		return
	}
	categoryID := q.Category
	if categoryID == 0 {
		categoryID = q.CategoryID
	}

	page, err := h.ProductService.ListProducts(service.ProductQuery{
		Page:       q.Page,
		Limit:      q.Limit,
		CategoryID: categoryID,
		SellerID:   q.Seller,
		Search:     q.Search,
		Condition:  q.Condition,
		Sort:       q.Sort,
		Order:      q.Order,
	})
	if err != nil {
		respondMapped(c, err)
		return
	}
	response.Success(c, gin.H{
		"count":    page.Count,
		"total":    page.Total,
		"page":     page.Page,
		"pages":    page.Pages,
		"products": page.Products,
	})
}

// ListCategories 获取启用的分类
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.CategoryService.ListActive(c.Request.Context())
	if err != nil {
		respondMapped(c, err)
		return
	}
	response.Success(c, gin.H{"categories": categories})
}

// ListMyProducts 获取我发布的商品
func (h *Handler) ListMyProducts(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	products, err := h.ProductService.ListMyProducts(userID)
	if err != nil {
		respondMapped(c, err)
		return
	}
	response.Success(c, gin.H{
		"count":    len(products),
		"products": products,
	})
}

// GetProduct 获取商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	product, err := h.ProductService.GetProduct(id)
	if err != nil {
		respondMapped(c, err, productReadErrorRules)
		return
	}
	response.Success(c, gin.H{"product": product})
}

// CreateProduct 发布商品
func (h *Handler) CreateProduct(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateProductRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}

	product, err := h.ProductService.CreateProduct(userID, service.CreateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       *req.Price,
		CategoryID:  req.CategoryID,
		Condition:   req.Condition,
		Images:      req.Images,
		Tags:        req.Tags,
	})
	if err != nil {
		respondMapped(c, err, productReadErrorRules)
		return
	}
	handlershared.RequestLog(c).Infow("product_created", "product_id", product.ID, "seller_id", userID)
	response.Created(c, gin.H{"product": product})
}

// UpdateProduct 修改商品，仅卖家本人
func (h *Handler) UpdateProduct(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	var req UpdateProductRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}

	product, err := h.ProductService.UpdateProduct(userID, id, service.UpdateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Condition:   req.Condition,
		Images:      req.Images,
		Tags:        req.Tags,
		Status:      req.Status,
	})
	if err != nil {
		respondMapped(c, err, productUpdateErrorRules, productReadErrorRules)
		return
	}
	response.Success(c, gin.H{"product": product})
}

// DeleteProduct 删除商品，仅卖家本人
func (h *Handler) DeleteProduct(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	if err := h.ProductService.DeleteProduct(userID, id); err != nil {
		respondMapped(c, err, productDeleteErrorRules, productReadErrorRules)
		return
	}
	response.Message(c, tr(c, "message.product_deleted"))
}
