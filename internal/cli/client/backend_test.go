package client

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

const validToken = "good-token"

// fakeBackend is a minimal storefront API served by gin
type fakeBackend struct {
	mu       sync.Mutex
	requests []recordedRequest
	server   *httptest.Server
}

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fb := &fakeBackend{}
	engine := gin.New()
	engine.Use(fb.record)

	api := engine.Group("/api/v1")
	api.POST("/auth/login", func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "malformed body"})
			return
		}
		if req.Password != "secret123" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"token": validToken,
			"user": gin.H{
				"id":        "1",
				"firstName": "Ada",
				"lastName":  "Lovelace",
				"email":     req.Email,
				"role":      "ADMIN",
			},
		})
	})
	api.POST("/auth/register", func(c *gin.Context) {
		// Broken backend: no token in the response
		c.JSON(http.StatusCreated, gin.H{"user": gin.H{"id": "2"}})
	})

	authed := api.Group("", func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer "+validToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token expired"})
			return
		}
		c.Next()
	})
	authed.GET("/products", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"data": []gin.H{{"id": "p1", "name": "Whey", "price": 29.9, "quantity": 4, "reference": "WH-1", "slug": "whey"}},
			"meta": gin.H{"total": 1, "page": 1, "limit": 10, "totalPages": 1},
		})
	})
	authed.GET("/products/slug/:slug", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": "p1", "slug": c.Param("slug")})
	})
	authed.PUT("/products/:id", func(c *gin.Context) {
		var patch map[string]any
		_ = c.ShouldBindJSON(&patch)
		patch["id"] = c.Param("id")
		c.JSON(http.StatusOK, patch)
	})
	authed.DELETE("/products/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	authed.GET("/orders", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []gin.H{{"id": "all"}}, "meta": gin.H{"totalPages": 3, "currentPage": 1}})
	})
	authed.GET("/orders/my-orders", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []gin.H{{"id": "mine"}}, "meta": gin.H{"totalPages": 1, "currentPage": 1}})
	})
	authed.POST("/orders", func(c *gin.Context) {
		var req struct {
			Products []OrderLine `json:"products"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || len(req.Products) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "products required"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": "o1", "quantity_products": len(req.Products), "total": 59.8})
	})

	// /api/v1/echo/:status answers with the given status and raw body
	api.Any("/echo/:status", func(c *gin.Context) {
		status, _ := strconv.Atoi(c.Param("status"))
		c.Data(status, c.Query("type"), []byte(c.Query("body")))
	})

	fb.server = httptest.NewServer(engine)
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBackend) URL() string {
	return fb.server.URL + "/api/v1"
}

func (fb *fakeBackend) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	fb.mu.Lock()
	fb.requests = append(fb.requests, recordedRequest{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.RawQuery,
		Header: c.Request.Header.Clone(),
		Body:   body,
	})
	fb.mu.Unlock()

	c.Next()
}

func (fb *fakeBackend) last() recordedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.requests[len(fb.requests)-1]
}
