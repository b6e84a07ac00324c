package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	"campuschat/internal/blob"
	"campuschat/internal/database"
	"campuschat/internal/handlers"
	"campuschat/internal/presence"
	"campuschat/internal/services"
	ws "campuschat/internal/websocket"
)

type Server struct {
	Router *gin.Engine
	DB     *database.Database
	Redis  *redis.Client
	Mongo  *mongo.Client
	Hub    *ws.Hub
}

func NewServer() *Server {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	dbConn := &database.Database{}
	if err := dbConn.Connect(); err != nil {
		log.Fatalf("Postgres connect failed: %v", err)
	}

	redisOpts, err := redis.ParseURL(os.Getenv("REDIS_URL"))
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis connect failed: %v", err)
	}

	mongoClient, err := mongo.Connect(context.Background(), mongoopts.Client().ApplyURI(os.Getenv("MONGO_URL")))
	if err != nil {
		log.Fatalf("Mongo connect failed: %v", err)
	}
	if err := mongoClient.Ping(context.Background(), nil); err != nil {
		log.Fatalf("Mongo ping failed: %v", err)
	}

	mongoDB := os.Getenv("MONGO_DB")
	if mongoDB == "" {
		mongoDB = "campuschat"
	}
	media, err := blob.NewMediaStorage(mongoClient.Database(mongoDB))
	if err != nil {
		log.Fatalf("Blob store init failed: %v", err)
	}

	hub := ws.NewHub()
	presenceStore := presence.NewStore(rdb)

	roomService := services.NewRoomService(dbConn)
	chatService := services.NewChatService(dbConn, hub)

	roomH := handlers.NewRoomHandler(roomService, chatService, presenceStore)
	messageH := handlers.NewMessageHandler(chatService)
	wsH := handlers.NewWebSocketHandler(hub, roomService, presenceStore)
	uploadH := handlers.NewUploadHandler(media)

	router := gin.Default()
	APIEndpoints(router, roomH, messageH, wsH, uploadH)

	return &Server{
		Router: router,
		DB:     dbConn,
		Redis:  rdb,
		Mongo:  mongoClient,
		Hub:    hub,
	}
}

func (s *Server) Run() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on port %s", port)
	if err := s.Router.Run(":" + port); err != nil {
		log.Fatalf("Server run error: %v", err)
	}
}
