package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookcatalog/pkg/response"
)

// RegisterRoutes 注册业务路由
// 同一组接口同时挂在根路径(兼容旧客户端)和/api/v1下
func RegisterRoutes(r *gin.Engine, bookHandler *BookHandler) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	registerBookRoutes(r.Group(""), bookHandler)
	registerBookRoutes(r.Group("/api/v1"), bookHandler)
}

func registerBookRoutes(g *gin.RouterGroup, h *BookHandler) {
	g.POST("/store_openlib_books", h.StoreOpenLibBooks)

	books := g.Group("/books")
	{
		books.GET("", h.ListBooks)
		books.GET("/search", h.SearchBooks)
		books.POST("", h.CreateBook)
		books.DELETE("/:id", h.DeleteBook)
	}
}
