package main

import (
	"github.com/gin-gonic/gin"

	"github.com/harx/gig-wizard-api/internal/handler"
	"github.com/harx/gig-wizard-api/internal/middleware"
)

type routeHandlers struct {
	catalog    *handler.CatalogHandler
	gig        *handler.GigHandler
	schedule   *handler.ScheduleHandler
	skill      *handler.SkillHandler
	suggestion *handler.SuggestionHandler
	asset      *handler.AssetHandler
	brief      *handler.BriefHandler
	metrics    *handler.MetricsHandler
	// uploadLimit caps multipart bodies; multipart overhead gets an extra megabyte.
	uploadLimit int64
}

func registerRoutes(api *gin.RouterGroup, h routeHandlers) {
	catalog := api.Group("/catalog")
	catalog.GET("/skills", h.catalog.Skills)
	catalog.POST("/skills", h.catalog.CreateSkill)
	catalog.GET("/languages", h.catalog.Languages)
	catalog.GET("/timezones", h.catalog.Timezones)
	catalog.GET("/currencies", h.catalog.Currencies)
	catalog.GET("/companies", h.catalog.Companies)
	catalog.GET("/options", h.catalog.Options)

	schedules := api.Group("/schedules")
	schedules.POST("/group", h.schedule.Group)
	schedules.POST("/flatten", h.schedule.Flatten)

	api.POST("/suggestions", h.suggestion.Suggest)

	gigs := api.Group("/gigs")
	gigs.POST("", h.gig.Create)
	gigs.GET("", h.gig.List)
	gigs.POST("/normalize", h.gig.NormalizeDrafts)
	gigs.POST("/from-suggestion", h.suggestion.CreateDraft)
	gigs.GET("/:id", h.gig.Get)
	gigs.DELETE("/:id", h.gig.Delete)
	gigs.PUT("/:id/sections/:section", h.gig.UpdateSection)
	gigs.POST("/:id/publish", h.gig.Publish)

	gigs.GET("/:id/schedule", h.schedule.View)
	gigs.POST("/:id/schedule/edit", h.schedule.Edit)
	gigs.PUT("/:id/schedule/minimum-hours", h.schedule.SetMinimumHours)
	gigs.GET("/:id/schedule/export", h.schedule.ExportCSV)

	gigs.GET("/:id/skills", h.skill.View)
	gigs.POST("/:id/skills/normalize", h.skill.Normalize)
	gigs.POST("/:id/skills/:category", h.skill.Add)
	gigs.PUT("/:id/skills/:category/:skillId", h.skill.Update)
	gigs.DELETE("/:id/skills/:category/:skillId", h.skill.Remove)
	gigs.POST("/:id/languages", h.skill.AddLanguage)
	gigs.DELETE("/:id/languages/:language", h.skill.RemoveLanguage)

	gigs.GET("/:id/documents", h.asset.List)
	gigs.POST("/:id/documents/:kind", middleware.MaxBodySize(h.uploadLimit+1<<20), h.asset.Upload)

	gigs.GET("/:id/brief", h.brief.Status)
	gigs.POST("/:id/brief", h.brief.Regenerate)

	api.GET("/assets/:id", h.asset.Link)
	api.GET("/assets/:id/download", h.asset.Download)
	api.GET("/briefs/:id/download", h.brief.Download)

	api.GET("/system/metrics", h.metrics.Snapshot)
}
