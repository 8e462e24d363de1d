package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/noah-isme/user-admin-console/internal/handler"
)

// RouteConfig bundles dependencies for route registration. Nil handlers leave their routes out.
type RouteConfig struct {
	UsersList     *handler.UsersListHandler
	CreateUser    *handler.CreateUserHandler
	Export        *handler.ExportHandler
	Notifications *handler.NotificationHandler
	Ops           *handler.MetricsHandler
	EnableMetrics bool
	EnableDocs    bool
}

// RegisterRoutes wires the console views and the ops endpoints.
func RegisterRoutes(r *gin.Engine, cfg RouteConfig) {
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, handler.ViewUsersList)
	})

	if cfg.UsersList != nil {
		list := r.Group(handler.ViewUsersList)
		list.GET("", cfg.UsersList.List)
		list.PUT("/:id", cfg.UsersList.Update)
		list.DELETE("/:id", cfg.UsersList.Delete)
		if cfg.Export != nil {
			list.GET("/export", cfg.Export.Users)
		}
	}

	if cfg.CreateUser != nil {
		create := r.Group(handler.ViewCreateUser)
		create.GET("", cfg.CreateUser.Blank)
		create.POST("", cfg.CreateUser.Create)
		create.POST("/validate", cfg.CreateUser.Validate)
	}

	if cfg.Notifications != nil {
		r.GET("/notification", cfg.Notifications.Current)
		r.POST("/notification/:id/acknowledge", cfg.Notifications.Acknowledge)
	}

	if cfg.Ops != nil {
		r.GET("/health", cfg.Ops.Health)
		r.GET("/ready", cfg.Ops.Ready)
		if cfg.EnableMetrics {
			r.GET("/metrics", cfg.Ops.Prometheus)
		}
	}

	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
