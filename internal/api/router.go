package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	authHandler *AuthHandler,
	importHandler *ImportHandler,
	transactionHandler *TransactionHandler,
	subscriptionHandler *SubscriptionHandler,
	jwtSecret string,
) *Router {
	r := gin.Default()

	// Public
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret))
	{
		auth.POST("/imports/eml", importHandler.ImportEML)
		auth.POST("/imports/raw", importHandler.ImportRaw)
		auth.POST("/imports/preview", importHandler.Preview)
		auth.GET("/transactions", transactionHandler.GetTransactions)
		auth.GET("/subscriptions", subscriptionHandler.GetSubscriptions)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
