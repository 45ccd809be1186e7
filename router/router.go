package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-app/controllers"
	"github.com/yeremiapane/cafe-app/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	dishCtrl := controllers.NewDishController(db)
	orderCtrl := controllers.NewOrderController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Menu is readable without login
	r.GET("/dishes", dishCtrl.GetAllDishes)
	r.GET("/dishes/:dish_id", dishCtrl.GetDishByID)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())

	api.GET("/profile", userCtrl.GetProfile)
	api.GET("/users", userCtrl.GetAllUsers)

	// DISHES (staff/admin)
	api.GET("/dishes", dishCtrl.GetAllDishes)
	api.POST("/dishes", dishCtrl.CreateDish)
	api.GET("/dishes/:dish_id", dishCtrl.GetDishByID)
	api.PATCH("/dishes/:dish_id", dishCtrl.UpdateDish)
	api.DELETE("/dishes/:dish_id", dishCtrl.DeleteDish)

	// ORDERS (staff/admin)
	api.GET("/orders", orderCtrl.GetAllOrders)
	api.POST("/orders", orderCtrl.CreateOrder)
	api.GET("/orders/revenue", orderCtrl.GetRevenue)
	api.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	api.PATCH("/orders/:order_id", orderCtrl.UpdateOrder)
	api.PATCH("/orders/:order_id/status", orderCtrl.ChangeStatus)
	api.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)

	// Order event stream for staff screens
	ws := r.Group("/ws")
	ws.Use(middlewares.AuthMiddleware())
	{
		ws.GET("", controllers.EventsHandler)
	}

	return r
}
