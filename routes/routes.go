package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/QuangMinh07/BE-NOM-sub000/controllers"
	"github.com/QuangMinh07/BE-NOM-sub000/entity"
	"github.com/QuangMinh07/BE-NOM-sub000/middlewares"
	"github.com/QuangMinh07/BE-NOM-sub000/repository"
	"github.com/QuangMinh07/BE-NOM-sub000/ws"
)

// Deps is everything the router needs from main.
type Deps struct {
	JWTSecret   string
	CORSOrigins []string
	Users       *repository.UserRepository
	Limiter     *middlewares.IPRateLimiter

	Auth         *controllers.AuthController
	User         *controllers.UserController
	Admin        *controllers.AdminController
	Store        *controllers.StoreController
	Food         *controllers.FoodController
	Cart         *controllers.CartController
	Payment      *controllers.PaymentController
	Checkout     *controllers.CheckoutController
	Order        *controllers.OrderController
	Cancellation *controllers.CancellationController
	Chat         *controllers.ChatController
	Shipper      *controllers.ShipperController
	Upload       *controllers.UploadController

	Hub        *ws.ChatHub
	RoomAccess ws.RoomAccess
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middlewares.CORSMiddleware(d.CORSOrigins))
	if d.Limiter != nil {
		r.Use(d.Limiter.Middleware())
	}
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	auth := func(roles ...string) gin.HandlerFunc { return middlewares.AuthMiddleware(d.JWTSecret, roles...) }
	approved := middlewares.RequireApproved(d.Users)

	// Auth (public)
	a := r.Group("/auth")
	{
		a.POST("/register", d.Auth.Register)
		a.POST("/verify-email", d.Auth.VerifyEmail)
		a.POST("/resend-verification", d.Auth.ResendVerification)
		a.POST("/login", d.Auth.Login)
	}

	u := r.Group("/users", auth())
	{
		u.GET("/me", d.User.Me)
		u.PATCH("/me", d.User.UpdateMe)
		u.PUT("/me/push-token", d.User.SetPushToken)
		u.PUT("/me/online", auth(entity.RoleShipper), approved, d.User.SetOnline)
	}

	adm := r.Group("/admin", auth(entity.RoleAdmin))
	{
		adm.GET("/users", d.Admin.ListUsers)
		adm.PATCH("/users/:id/approve", d.Admin.Approve)
		adm.PATCH("/users/:id/reject", d.Admin.Reject)
		adm.GET("/analytics", d.Admin.Analytics)
		adm.GET("/orders", d.Admin.ListOrders)
		adm.GET("/order-cancellations", d.Admin.ListCancellations)
	}

	// Stores: public reads, seller writes
	st := r.Group("/stores")
	{
		st.GET("", d.Store.List)
		st.GET("/mine", auth(entity.RoleSeller), d.Store.Mine)
		st.GET("/:id", d.Store.Get)
		st.GET("/:id/foods", d.Store.ListFoods)
		st.GET("/:id/food-groups", d.Store.FoodGroups)
	}
	stw := st.Group("", auth(entity.RoleSeller, entity.RoleAdmin), approved)
	{
		stw.POST("", d.Store.Create)
		stw.PATCH("/:id", d.Store.Update)
		stw.PUT("/:id/schedule", d.Store.UpdateSchedule)
		stw.GET("/:id/orders", d.Store.ListOrders)
		stw.GET("/:id/orders/delivered", d.Store.Delivered)
	}

	f := r.Group("/foods")
	{
		f.GET("/:id", d.Food.Get)
	}
	fw := f.Group("", auth(entity.RoleSeller, entity.RoleAdmin), approved)
	{
		fw.POST("", d.Food.Create)
		fw.PATCH("/:id", d.Food.Update)
		fw.PATCH("/:id/availability", d.Food.SetAvailability)
		fw.PUT("/:id/selling-times", d.Food.SetSellingTimes)
		fw.DELETE("/:id", d.Food.Delete)
	}

	fg := r.Group("/food-groups", auth(entity.RoleSeller, entity.RoleAdmin), approved)
	{
		fg.POST("", d.Food.CreateGroup)
		fg.PATCH("/:id", d.Food.RenameGroup)
		fg.DELETE("/:id", d.Food.DeleteGroup)
	}

	ct := r.Group("/carts", auth(entity.RoleCustomer))
	{
		ct.GET("", d.Cart.List)
		ct.POST("/items", d.Cart.Add)
		ct.GET("/store/:storeId", d.Cart.GetByStore)
		ct.PATCH("/store/:storeId/delivery", d.Cart.UpdateDelivery)
		ct.PUT("/store/:storeId/checkout-info", d.Cart.CheckoutInfo)
		ct.GET("/:id", d.Cart.Get)
		ct.PATCH("/:id/items", d.Cart.UpdateQty)
		ct.DELETE("/:id/items", d.Cart.RemoveItem)
		ct.DELETE("/:id", d.Cart.Delete)
	}

	pt := r.Group("/payment-transactions", auth())
	{
		pt.POST("", auth(entity.RoleCustomer), d.Payment.Create)
		pt.PUT("", auth(entity.RoleCustomer), d.Payment.Update)
		pt.GET("", d.Payment.List)
		pt.GET("/:orderCode", d.Payment.Get)
		pt.DELETE("/:orderCode", d.Payment.Delete)
	}

	o := r.Group("/orders", auth())
	{
		o.POST("", auth(entity.RoleCustomer), d.Order.Create)
		o.GET("", d.Order.ListMine)
		o.GET("/:id", d.Order.Detail)
		o.PATCH("/:id/advance", auth(entity.RoleAdmin, entity.RoleShipper, entity.RoleSeller), approved, d.Order.Advance)
	}

	oc := r.Group("/order-cancellations", auth())
	{
		oc.POST("", d.Cancellation.Cancel)
		oc.GET("", auth(entity.RoleAdmin), d.Cancellation.List)
	}

	ch := r.Group("/chat", auth())
	{
		ch.GET("/rooms", d.Chat.ListRooms)
		ch.GET("/orders/:orderId/room", d.Chat.RoomByOrder)
		ch.GET("/rooms/:roomId/messages", d.Chat.GetMessages)
		ch.POST("/rooms/:roomId/messages", d.Chat.SendMessage)
	}

	sh := r.Group("/shipper", auth(entity.RoleShipper), approved)
	{
		sh.GET("/orders/available", d.Shipper.Available)
		sh.GET("/orders", d.Shipper.Mine)
	}

	r.POST("/upload/:folder", auth(), d.Upload.Upload)

	// Gateway callbacks
	r.POST("/webhook/payos", d.Payment.Webhook)
	r.GET("/payment-success", d.Checkout.Success)
	r.GET("/payment-cancel", d.Checkout.Cancel)

	r.GET("/ws/chat/:roomId", middlewares.WSAuthMiddleware(d.JWTSecret), d.Hub.Handler(d.RoomAccess))
}
