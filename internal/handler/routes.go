package handler

import "github.com/gin-gonic/gin"

// Routes groups the API handlers mounted under the API prefix.
type Routes struct {
	Views      *ViewHandler
	Exports    *ExportHandler
	Timetables *TimetableHandler
}

// Register mounts the routes on group. Nil handlers are skipped.
func (r Routes) Register(group *gin.RouterGroup) {
	if r.Views != nil {
		group.POST("/views", r.Views.Open)
		group.GET("/views/:id", r.Views.Get)
		group.PUT("/views/:id/view-type", r.Views.SwitchView)
		group.PUT("/views/:id/selection", r.Views.Select)
		group.DELETE("/views/:id", r.Views.Close)
	}
	if r.Exports != nil {
		group.GET("/views/:id/print", r.Exports.Print)
		group.POST("/views/:id/exports", r.Exports.Export)
		group.GET("/exports/:token", r.Exports.Download)
	}
	if r.Timetables != nil {
		group.GET("/timetables", r.Timetables.List)
	}
}
