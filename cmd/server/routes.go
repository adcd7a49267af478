package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tanmayjain06/videotube/internal/db"
	"github.com/tanmayjain06/videotube/internal/http/api"
	v1 "github.com/tanmayjain06/videotube/internal/http/api/v1/endpoints"
	"github.com/tanmayjain06/videotube/internal/storage"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, env Environment, store db.Store, storageSystem storage.Storage) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
			"If-None-Match",
		},
		ExposeHeaders: []string{
			"Content-Length",
			"ETag",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/v1",
		Auth:   false,
	},
		v1.AuthPublicModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/v1",
		Auth:      true,
		SecretKey: env.SecretKey,
		Store:     store,
	},
		v1.VideoModule(store, storageSystem),
		v1.PlaylistModule(store),
		v1.AuthSessionModule(env.SecretKey, store),
	)

	// Static content
	if !env.UseSpaces {
		r.Static("/uploads", "./uploads")
	}
}
