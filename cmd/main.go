package main

import (
	"shopapi/config"
	"shopapi/database"
	"shopapi/routes"

	"github.com/gin-gonic/gin"
)

func main() {

	config.LoadEnv()
	config.MustHaveEnv("JWT_SECRET", "PAYSTACK_SECRET_KEY", "MONGO_URI", "DB_NAME")

	database.ConnectMongo()
	database.InitCollections()
	database.EnsureIndexes()

	r := gin.Default()
	r.SetTrustedProxies(nil)
	routes.RegisterRoutes(r)

	port := config.GetEnv("PORT", "8080")
	r.Run(":" + port)
}
