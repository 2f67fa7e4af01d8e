package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/XdebronneX/backend-TeamPOOR/controllers"
	"github.com/XdebronneX/backend-TeamPOOR/middleware"
	"github.com/XdebronneX/backend-TeamPOOR/models"
)

// Controllers bundles every handler group the router mounts.
type Controllers struct {
	Users    *controllers.UserController
	Products *controllers.ProductController
	Services *controllers.ServiceController
	Orders   *controllers.OrderController
	Bookings *controllers.BookingController
	Reports  *controllers.ReportController
	Garage   *controllers.GarageController
}

// Register mounts the full API under /api/v1. Collection paths are
// plural and single-resource paths singular so static segments never
// share a router node with :id parameters.
func Register(router *gin.Engine, auth *middleware.Authenticator, c Controllers) {
	v1 := router.Group("/api/v1")

	staff := []models.Role{models.RoleAdmin, models.RoleSecretary}

	// Identity & session.
	v1.POST("/register", c.Users.Register)
	v1.POST("/login", c.Users.Login)
	v1.GET("/logout", c.Users.Logout)
	v1.GET("/verify/account/:id/:token", c.Users.VerifyEmail)
	v1.POST("/password/forgot", c.Users.ForgotPassword)
	v1.PUT("/password/reset/:token", c.Users.ResetPassword)

	me := v1.Group("/me", auth.RequireAuth())
	{
		me.GET("", c.Users.Profile)
		me.PUT("/update", c.Users.UpdateProfile)
		me.GET("/orders", c.Orders.MyOrders)
		me.GET("/appointments", c.Bookings.MyBookings)
		me.GET("/notifications/unread", c.Users.UnreadNotifications)
		me.PUT("/notifications/:id/read", c.Users.ReadNotification)
		me.GET("/addresses", c.Garage.MyAddresses)
		me.GET("/motorcycles", c.Garage.MyMotorcycles)
		me.GET("/fuels", c.Garage.MyFuelLogs)
	}
	v1.PUT("/password/update", auth.RequireAuth(), c.Users.UpdatePassword)

	// Public catalog.
	v1.GET("/products", c.Products.ListProducts)
	v1.GET("/product/:id", c.Products.GetProduct)
	v1.GET("/brands", c.Products.ListBrands)
	v1.GET("/brand/:id", c.Products.GetBrand)
	v1.GET("/categories", c.Products.ListCategories)
	v1.GET("/category/:id", c.Products.GetCategory)
	v1.GET("/services", c.Services.ListServices)
	v1.GET("/service/:id", c.Services.GetService)

	// Authenticated customer actions.
	customer := v1.Group("", auth.RequireAuth())
	{
		customer.PUT("/product/:id/review", c.Products.SubmitReview)
		customer.POST("/orders", c.Orders.CreateOrder)
		customer.GET("/order/:id", c.Orders.GetOrder)
		customer.POST("/order/:id/payment", c.Orders.PaymentOrder)
		customer.POST("/appointments", c.Bookings.CreateBooking)
		customer.GET("/appointment/:id", c.Bookings.GetBooking)
		customer.PUT("/appointment/:id/backjob", c.Bookings.RequestBackJob)
		customer.PUT("/appointment/:id/proof", c.Bookings.UploadCustomerProof)
		customer.PUT("/appointment/:id/feedback", c.Bookings.SubmitFeedback)

		// Address book, motorcycle registry, and fuel logs.
		customer.POST("/addresses", c.Garage.AddAddress)
		customer.GET("/address/:id", c.Garage.GetAddress)
		customer.PUT("/address/:id", c.Garage.UpdateAddress)
		customer.PUT("/address/:id/default", c.Garage.SetDefaultAddress)
		customer.DELETE("/address/:id", c.Garage.DeleteAddress)
		customer.POST("/motorcycles", c.Garage.RegisterMotorcycle)
		customer.GET("/motorcycle/:id", c.Garage.GetMotorcycle)
		customer.PUT("/motorcycle/:id", c.Garage.UpdateMotorcycle)
		customer.DELETE("/motorcycle/:id", c.Garage.DeleteMotorcycle)
		customer.GET("/motorcycle/:id/fuels", c.Garage.MotorcycleFuelLogs)
		customer.POST("/fuels", c.Garage.LogFuel)
		customer.DELETE("/fuel/:id", c.Garage.DeleteFuelLog)
	}

	// Public payment success callback (link carries the one-time token).
	v1.GET("/payment/success/:id/:token", c.Orders.ConfirmPayment)

	// Admin.
	admin := v1.Group("/admin", auth.RequireAuth(), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/users", c.Users.ListUsers)
		admin.GET("/suppliers", c.Users.ListSuppliers)
		admin.GET("/user/:id", c.Users.GetUser)
		admin.PUT("/user/:id", c.Users.UpdateUser)
		admin.DELETE("/user/:id", c.Users.DeleteUser)

		admin.POST("/products", c.Products.CreateProduct)
		admin.GET("/products", c.Products.AdminListProducts)
		admin.PUT("/product/:id", c.Products.UpdateProduct)
		admin.DELETE("/product/:id", c.Products.DeleteProduct)
		admin.PUT("/product/:id/stock", c.Products.UpdateStock)
		admin.DELETE("/product/:id/review/:reviewId", c.Products.DeleteReview)
		admin.GET("/stock/history", c.Products.StockHistory)
		admin.GET("/price/history", c.Products.PriceHistory)

		admin.POST("/brands", c.Products.CreateBrand)
		admin.PUT("/brand/:id", c.Products.UpdateBrand)
		admin.DELETE("/brand/:id", c.Products.DeleteBrand)
		admin.POST("/categories", c.Products.CreateCategory)
		admin.PUT("/category/:id", c.Products.UpdateCategory)
		admin.DELETE("/category/:id", c.Products.DeleteCategory)

		admin.POST("/services", c.Services.CreateService)
		admin.GET("/services", c.Services.AdminListServices)
		admin.PUT("/service/:id", c.Services.UpdateService)
		admin.DELETE("/service/:id", c.Services.DeleteService)

		admin.DELETE("/order/:id", c.Orders.DeleteOrder)
		admin.DELETE("/appointment/:id", c.Bookings.DeleteBooking)
		admin.GET("/feedbacks", c.Bookings.ListFeedback)
		admin.GET("/motorcycles", c.Garage.AdminListMotorcycles)
		admin.GET("/motorcycle/:id", c.Garage.AdminGetMotorcycle)

		reports := admin.Group("/reports")
		{
			reports.GET("/monthly-sales", c.Reports.MonthlySales)
			reports.GET("/product-sales", c.Reports.MostPurchasedProducts)
			reports.GET("/loyal-customers", c.Reports.MostLoyalCustomers)
			reports.GET("/brand-sales", c.Reports.MostPurchasedBrands)
			reports.GET("/mechanic-ratings", c.Reports.TopRatedMechanics)
		}
	}

	// Staff (admin or secretary): fulfilment and workshop operations.
	secretary := v1.Group("/secretary", auth.RequireAuth(), middleware.RequireRoles(staff...))
	{
		secretary.GET("/orders", c.Orders.AllOrders)
		secretary.PUT("/order/:id", c.Orders.UpdateStatus)
		secretary.GET("/appointments", c.Bookings.AllBookings)
		secretary.PUT("/appointment/:id", c.Bookings.UpdateStatus)
		secretary.PUT("/appointment/:id/mechanic", c.Bookings.AssignMechanic)
		secretary.PUT("/appointment/:id/reschedule", c.Bookings.Reschedule)
		secretary.PUT("/appointment/:id/parts", c.Bookings.AddParts)
		secretary.PUT("/appointment/:id/services", c.Bookings.AddServices)
		secretary.DELETE("/appointment/:id/service/:lineId", c.Bookings.RemoveService)
		secretary.GET("/mechanics", c.Users.ListMechanics)
		secretary.POST("/supplier-logs", c.Products.RecordSupplierDelivery)
		secretary.GET("/supplier-logs", c.Products.ListSupplierLogs)
		secretary.GET("/supplier-log/:id", c.Products.GetSupplierLog)
	}

	// Mechanic task board.
	mechanic := v1.Group("/mechanic", auth.RequireAuth(), middleware.RequireRoles(models.RoleMechanic))
	{
		mechanic.GET("/tasks", c.Bookings.MechanicTasks)
		mechanic.PUT("/appointment/:id/proof", c.Bookings.UploadMechanicProof)
	}
}
