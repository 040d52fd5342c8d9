package routes

import (
	"ihub-asset-api-server/config"
	"ihub-asset-api-server/internal/api/handlers"
	"ihub-asset-api-server/internal/api/middleware"
	"ihub-asset-api-server/internal/counter"
	"ihub-asset-api-server/internal/s3"
	"ihub-asset-api-server/internal/socket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SetupRouter wires handlers, middleware and route groups.
func SetupRouter(
	cfg config.Config,
	db *mongo.Database,
	s3Uploader *s3.Uploader,
	wsHub *socket.Hub,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	jwtSecret := []byte(cfg.JWT.Secret)
	serial := &counter.Serial{DB: db}

	inventoryHandler := &handlers.InventoryHandler{DB: db, Serial: serial, Uploader: s3Uploader, Cfg: cfg, Log: log.Named("handler.inventory")}
	requestHandler := &handlers.RequestHandler{DB: db, Hub: wsHub, Log: log.Named("handler.request")}
	returnHandler := &handlers.ReturnHandler{DB: db, Hub: wsHub, Log: log.Named("handler.return")}
	userHandler := &handlers.UserHandler{DB: db, Cfg: cfg, Log: log.Named("handler.user")}
	reportHandler := &handlers.ReportHandler{DB: db}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub, JWTSecret: jwtSecret, Log: log.Named("handler.ws")}

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", userHandler.Login)
		}

		// Admin-only management
		admin := apiV1.Group("/admin")
		admin.Use(middleware.Authenticate(jwtSecret))
		admin.Use(middleware.Authorize("admin"))
		{
			admin.POST("/users", userHandler.CreateUser)
			admin.GET("/users", userHandler.GetAllUsers)
		}

		// Authenticated business routes
		business := apiV1.Group("/")
		business.Use(middleware.Authenticate(jwtSecret))
		{
			// Inventory: reads for everyone signed in, writes for stock staff
			inventory := business.Group("/inventory")
			{
				inventory.GET("/", inventoryHandler.GetAllItems)
				inventory.GET("/next-serial-preview", inventoryHandler.GetNextSerialPreview)
				inventory.GET("/my-issued", inventoryHandler.GetMyIssuedItems)
				inventory.GET("/:id", inventoryHandler.GetItemByID)
				inventory.GET("/:id/valuation", inventoryHandler.GetItemValuation)

				stockWrites := inventory.Group("/")
				stockWrites.Use(middleware.Authorize("stockmanager", "admin"))
				{
					stockWrites.POST("/", inventoryHandler.CreateItem)
					stockWrites.POST("/bulk", inventoryHandler.BulkCreateItems)
					stockWrites.PUT("/:id", inventoryHandler.UpdateItem)
					stockWrites.PUT("/:id/status", inventoryHandler.UpdateItemStatus)
					stockWrites.DELETE("/:id", inventoryHandler.DeleteItem)
					stockWrites.POST("/:id/attachments", inventoryHandler.UploadAttachment)
				}
			}

			// Asset requests
			requests := business.Group("/requests")
			{
				requests.POST("/", requestHandler.CreateRequest)
				requests.GET("/my", requestHandler.GetMyRequests)
				requests.GET("/:id", requestHandler.GetRequestByID)

				reviewerRoutes := requests.Group("/")
				reviewerRoutes.Use(middleware.Authorize("stockmanager", "admin"))
				{
					reviewerRoutes.GET("/", requestHandler.GetAllRequests)
					reviewerRoutes.PUT("/:id/approve", requestHandler.ApproveRequest)
					reviewerRoutes.PUT("/:id/reject", requestHandler.RejectRequest)
				}
			}

			// Return requests
			returns := business.Group("/return-requests")
			{
				returns.POST("/", returnHandler.CreateReturnRequest)
				returns.GET("/my", returnHandler.GetMyReturnRequests)
				returns.GET("/:id", returnHandler.GetReturnRequestByID)

				reviewerRoutes := returns.Group("/")
				reviewerRoutes.Use(middleware.Authorize("stockmanager", "admin"))
				{
					reviewerRoutes.GET("/", returnHandler.GetAllReturnRequests)
					reviewerRoutes.PUT("/:id/approve", returnHandler.ApproveReturn)
					reviewerRoutes.PUT("/:id/reject", returnHandler.RejectReturn)
				}
			}

			// Reporting
			reports := business.Group("/")
			reports.Use(middleware.Authorize("stockmanager", "admin"))
			{
				reports.GET("/transactions", reportHandler.GetTransactions)
				reports.GET("/reports/stock-summary", reportHandler.GetStockSummary)
			}
		}
	}

	return router
}
