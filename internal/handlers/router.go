package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/devtrail/bootcamp-service/internal/models"
	"github.com/devtrail/bootcamp-service/internal/repositories"
	"github.com/devtrail/bootcamp-service/internal/services"
	"github.com/devtrail/bootcamp-service/internal/utils"
)

type HandlerManager struct {
	authHandler     *AuthHandler
	bootcampHandler *BootcampHandler
	courseHandler   *CourseHandler
	reviewHandler   *ReviewHandler
	userHandler     *UserHandler
	authMiddleware  *AuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	authConfig AuthConfig,
	logger utils.Logger,
	userRepo repositories.UserRepository,
) *HandlerManager {
	return &HandlerManager{
		authHandler:     NewAuthHandler(serviceManager.Auth(), authConfig, logger),
		bootcampHandler: NewBootcampHandler(serviceManager.Bootcamp(), logger),
		courseHandler:   NewCourseHandler(serviceManager.Course(), logger),
		reviewHandler:   NewReviewHandler(serviceManager.Review(), logger),
		userHandler:     NewUserHandler(serviceManager.User(), logger),
		authMiddleware:  NewAuthMiddleware(authConfig.JWTSecret, userRepo),
	}
}

// SetupRoutes registers every API route.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	auth := hm.authMiddleware.RequireAuth()
	publisherOrAdmin := hm.authMiddleware.RequireRoles(models.RolePublisher, models.RoleAdmin)
	userOrAdmin := hm.authMiddleware.RequireRoles(models.RoleUser, models.RoleAdmin)
	adminOnly := hm.authMiddleware.RequireRoles(models.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", hm.authHandler.Register)
			authRoutes.POST("/login", hm.authHandler.Login)
			authRoutes.GET("/logout", hm.authHandler.Logout)
			authRoutes.POST("/forgotpassword", hm.authHandler.ForgotPassword)
			authRoutes.PUT("/resetpassword/:resettoken", hm.authHandler.ResetPassword)

			authRoutes.GET("/me", auth, hm.authHandler.GetMe)
			authRoutes.PUT("/updatedetails", auth, hm.authHandler.UpdateDetails)
			authRoutes.PUT("/updatepassword", auth, hm.authHandler.UpdatePassword)
		}

		bootcamps := v1.Group("/bootcamps")
		{
			bootcamps.GET("", hm.bootcampHandler.ListBootcamps)
			bootcamps.GET("/:id", hm.bootcampHandler.GetBootcamp)
			bootcamps.GET("/radius/:zipcode/:distance", hm.bootcampHandler.GetBootcampsInRadius)

			bootcamps.POST("", auth, publisherOrAdmin, hm.bootcampHandler.CreateBootcamp)
			bootcamps.PUT("/:id", auth, publisherOrAdmin, hm.bootcampHandler.UpdateBootcamp)
			bootcamps.DELETE("/:id", auth, publisherOrAdmin, hm.bootcampHandler.DeleteBootcamp)
			bootcamps.PUT("/:id/photo", auth, publisherOrAdmin, hm.bootcampHandler.UploadBootcampPhoto)

			// Nested course and review routes.
			bootcamps.GET("/:id/courses", hm.courseHandler.ListBootcampCourses)
			bootcamps.POST("/:id/courses", auth, publisherOrAdmin, hm.courseHandler.CreateCourse)
			bootcamps.GET("/:id/reviews", hm.reviewHandler.ListBootcampReviews)
			bootcamps.POST("/:id/reviews", auth, userOrAdmin, hm.reviewHandler.CreateReview)
		}

		courses := v1.Group("/courses")
		{
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/:id", hm.courseHandler.GetCourse)
			courses.PUT("/:id", auth, publisherOrAdmin, hm.courseHandler.UpdateCourse)
			courses.DELETE("/:id", auth, publisherOrAdmin, hm.courseHandler.DeleteCourse)
		}

		reviews := v1.Group("/reviews")
		{
			reviews.GET("", hm.reviewHandler.ListReviews)
			reviews.GET("/:id", hm.reviewHandler.GetReview)
			reviews.PUT("/:id", auth, userOrAdmin, hm.reviewHandler.UpdateReview)
			reviews.DELETE("/:id", auth, userOrAdmin, hm.reviewHandler.DeleteReview)
		}

		users := v1.Group("/users", auth, adminOnly)
		{
			users.GET("", hm.userHandler.ListUsers)
			users.POST("", hm.userHandler.CreateUser)
			users.GET("/:id", hm.userHandler.GetUser)
			users.PUT("/:id", hm.userHandler.UpdateUser)
			users.DELETE("/:id", hm.userHandler.DeleteUser)
		}
	}
}
