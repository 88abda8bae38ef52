package main

import (
	"time"

	"app/internal/cache"
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/fulfillment"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// 注文番号の採番（unique制約があるので毎回必ず新しい値）
type uuidOrderNumberGenerator struct{}

func (g *uuidOrderNumberGenerator) Next() string {
	return "ORD-" + uuid.NewString()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	//.envは無くてもいい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.UserProfile{},
		&model.Category{},
		&model.SubCategory{},
		&model.Product{},
		&model.ProductImage{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.FulfillmentLog{},
	); err != nil {
		panic(err)
	}

	//トークンキャッシュ用Redis
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	tokenCache := cache.NewRedisTokenCache(redisClient)

	//配送業者APIクライアント
	fulfillmentClient := fulfillment.NewHTTPClient(
		cfg.FulfillmentBaseURL,
		cfg.FulfillmentClientID,
		cfg.FulfillmentClientSecret,
		tokenCache,
	)

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	flogRepo := infraRepo.NewFulfillmentLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//JWT issuer
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 24 * time.Hour,
	}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, validator.NewAuthValidator(), issuer)
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartRepo, productRepo)
	orderUC := usecase.NewOrderUsecase(
		txManager,
		cartRepo,
		cartRepo,
		productRepo,
		flogRepo,
		fulfillmentClient,
		&uuidOrderNumberGenerator{},
	)

	//Handler生成
	h := server.Handlers{
		Auth:    handler.NewAuthHandler(authUC),
		Product: handler.NewProductHandler(productUC),
		Cart:    handler.NewCartHandler(cartUC),
		Order:   handler.NewOrderHandler(orderUC),
	}

	//Server起動
	e := server.New(cfg, h)
	if err := server.Start(e, ":"+cfg.Port); err != nil {
		panic(err)
	}
}
