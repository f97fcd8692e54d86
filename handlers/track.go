// handlers/track_routes.go
package handlers

import (
	"github.com/GiorgyArmani/mintw4ve-sub000/middleware"
	"github.com/GiorgyArmani/mintw4ve-sub000/services"
	"github.com/gofiber/fiber/v2"
)

func SetupTrackRoutes(app *fiber.App, trackService *services.TrackService, streamService *services.StreamService) {
	// 🔓 Public routes — *no wallet context*, but **still require Gateway auth**
	app.Get("/tracks", trackService.GetAllTracks)
	app.Get("/tracks/minimal", trackService.GetMinimalTracks)
	app.Get("/tracks/:id", trackService.GetTrackByID)
	app.Get("/tracks/:id/comments", trackService.GetCommentsByTrack)

	// 🔐 Secured routes — require wallet context, enforced via middleware
	secured := app.Group("/", middleware.WalletContextMiddleware())

	secured.Post("/tracks", trackService.UploadTrack)
	secured.Put("/tracks/:id", trackService.UpdateTrack)
	secured.Patch("/tracks/:id", trackService.UpdateTrack)
	secured.Delete("/tracks/:id", trackService.DeleteTrack)
	secured.Post("/tracks/:id/restore", trackService.RestoreTrack)
	secured.Post("/tracks/:id/like", trackService.ToggleLike)

	// 🎧 Listen sessions — open a play, then report progress against it
	secured.Post("/tracks/:id/play", streamService.RecordPlay)
	secured.Post("/sessions/:session_id/progress", streamService.ReportProgress)

	// ✅ Comment routes — wallet required
	secured.Post("/tracks/:id/comments", trackService.CreateComment)
	secured.Delete("/comments/:comment_id", trackService.DeleteComment)

	// Direct-to-R2 uploads
	secured.Post("/uploads/presign", trackService.PresignUpload)
}
