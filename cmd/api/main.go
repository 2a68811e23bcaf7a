package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"lokapasar/internal/adapter/api"
	"lokapasar/internal/adapter/api/handler"
	apimiddleware "lokapasar/internal/adapter/api/middleware"
	"lokapasar/internal/adapter/api/router"
	"lokapasar/internal/adapter/repository"
	"lokapasar/internal/domain/service"
	"lokapasar/internal/infrastructure/cache"
	"lokapasar/internal/infrastructure/firebase"
	"lokapasar/internal/infrastructure/realtime"
	"lokapasar/internal/infrastructure/storage"
	"lokapasar/internal/infrastructure/websocket"
	"lokapasar/internal/usecase"
	"lokapasar/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption
	credentialsPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, credentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	productRepo := repository.NewFirestoreProductRepository(firestoreClient)
	threadRepo := repository.NewFirestoreThreadRepository(firestoreClient)
	messageRepo := repository.NewFirestoreMessageRepository(firestoreClient)
	readStateRepo := repository.NewFirestoreReadStateRepository(firestoreClient)
	orderRepo := repository.NewFirestoreOrderRepository(firestoreClient)
	reviewRepo := repository.NewFirestoreReviewRepository(firestoreClient)
	payoutRepo := repository.NewFirestorePayoutRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	feed := realtime.NewFirestoreFeed(firestoreClient)
	cartCache := cache.NewRedisCartCache(redisClient)

	isProduction := cfg.PaymentEnvironment == "production"
	var paymentService service.PaymentGatewayService
	if cfg.PaymentServerKey != "" {
		paymentService = service.NewGatewayPaymentService(cfg.PaymentServerKey, cfg.PaymentClientKey, isProduction)
	} else {
		paymentService = service.NewSimplifiedPaymentService("")
	}

	var shippingService service.ShippingService
	if cfg.ShippingApiKey != "" {
		shippingService = service.NewCarrierShippingService(cfg.ShippingApiKey, cfg.ShippingBaseURL)
	} else {
		shippingService = service.NewSimplifiedShippingService()
	}

	userUseCase := usecase.NewUserUseCase(userRepo, firebaseAuthClient)
	productUseCase := usecase.NewProductUseCase(productRepo, userRepo)
	cartUseCase := usecase.NewCartUseCase(productRepo, cartCache)
	deliveryUseCase := usecase.NewDeliveryUseCase(userRepo, orderRepo)
	payoutUseCase := usecase.NewPayoutUseCase(payoutRepo, userRepo, paymentService)
	orderUseCase := usecase.NewOrderUseCase(
		orderRepo,
		productRepo,
		userRepo,
		cartUseCase,
		deliveryUseCase,
		payoutUseCase,
		paymentService,
		shippingService,
		wsManager,
	)
	chatUseCase := usecase.NewChatUseCase(
		threadRepo,
		messageRepo,
		readStateRepo,
		userRepo,
		feed,
		wsManager,
		cfg.RequestTimeout,
	)
	reviewUseCase := usecase.NewReviewUseCase(reviewRepo, orderRepo, userRepo)

	wsManager.HandleInbound = chatUseCase.HandleInbound
	wsManager.OnDisconnect = chatUseCase.StopTracking

	handler.Setup(
		userUseCase,
		productUseCase,
		cartUseCase,
		orderUseCase,
		chatUseCase,
		reviewUseCase,
		payoutUseCase,
		deliveryUseCase,
	)
	handler.SetupFileHandler(storageClient)
	handler.SetupHealthHandler(firestoreClient, redisClient)

	e := echo.New()

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	roleMiddleware := apimiddleware.NewRoleMiddleware(userRepo)

	wsHandler := handler.NewWebSocketHandler(wsManager, authClient)

	router.Setup(e, authMiddleware, roleMiddleware)
	router.SetupWebSocketRouter(e, wsHandler)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
