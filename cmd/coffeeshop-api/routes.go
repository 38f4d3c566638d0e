package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coffeeshop/authgate"
	authgin "github.com/coffeeshop/authgate/framework/gin"
)

// Permissions required by the drink routes.
const (
	PermissionGetDrinksDetail = "get:drinks-detail"
	PermissionPostDrinks      = "post:drinks"
	PermissionPatchDrinks     = "patch:drinks"
	PermissionDeleteDrinks    = "delete:drinks"
)

func newRouter(gate *authgate.AuthGate, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	r.GET("/drinks", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	r.GET("/drinks-detail", authgin.Guard(gate, PermissionGetDrinksDetail), authorized)
	r.POST("/drinks", authgin.Guard(gate, PermissionPostDrinks), authorized)
	r.PATCH("/drinks/:id", authgin.Guard(gate, PermissionPatchDrinks), authorized)
	r.DELETE("/drinks/:id", authgin.Guard(gate, PermissionDeleteDrinks), authorized)
	r.GET("/me", authgin.Guard(gate, ""), authorized)

	return r
}

// authorized echoes who was let through. Drink storage is not part of
// this service.
func authorized(c *gin.Context) {
	claims, err := authgin.GetClaims(c, "")
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	body := gin.H{
		"success":     true,
		"subject":     claims.RegisteredClaims.Subject,
		"permissions": claims.Permissions,
	}
	if id := c.Param("id"); id != "" {
		body["id"] = id
	}
	c.JSON(http.StatusOK, body)
}
