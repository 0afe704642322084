package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/go-playground/validator/v10"
	"github.com/mintbay/goapi/base/ctx"
	"github.com/mintbay/goapi/base/database/mongoclient"
	"github.com/mintbay/goapi/base/database/redisclient"
	"github.com/mintbay/goapi/base/log"
	"github.com/mintbay/goapi/base/metrics"
	bValidator "github.com/mintbay/goapi/base/validator"
	mmiddleware "github.com/mintbay/goapi/middleware"
	"github.com/mintbay/goapi/service/query"
	"github.com/mintbay/goapi/service/redis"
	account_delivery "github.com/mintbay/goapi/stores/account/delivery/http"
	account_repository "github.com/mintbay/goapi/stores/account/repository"
	account_usecase "github.com/mintbay/goapi/stores/account/usecase"
	auction_delivery "github.com/mintbay/goapi/stores/auction/delivery/http"
	auction_repository "github.com/mintbay/goapi/stores/auction/repository"
	auction_usecase "github.com/mintbay/goapi/stores/auction/usecase"
	auth_delivery "github.com/mintbay/goapi/stores/auth/delivery/http"
	auth_middleware "github.com/mintbay/goapi/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/mintbay/goapi/stores/auth/usecase"
	hc_delivery "github.com/mintbay/goapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/mintbay/goapi/stores/healthcheck/repository"
	hc_usecase "github.com/mintbay/goapi/stores/healthcheck/usecase"
	marketplace_delivery "github.com/mintbay/goapi/stores/marketplace/delivery/http"
	marketplace_repository "github.com/mintbay/goapi/stores/marketplace/repository"
	marketplace_usecase "github.com/mintbay/goapi/stores/marketplace/usecase"
	proceeds_delivery "github.com/mintbay/goapi/stores/proceeds/delivery/http"
	proceeds_repository "github.com/mintbay/goapi/stores/proceeds/repository"
	proceeds_usecase "github.com/mintbay/goapi/stores/proceeds/usecase"
	token_delivery "github.com/mintbay/goapi/stores/token/delivery/http"
	token_repository "github.com/mintbay/goapi/stores/token/repository"
	token_usecase "github.com/mintbay/goapi/stores/token/usecase"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	// init Redis service
	context.Info("init redis cache")
	redisCacheName := viper.GetString("redis_cache.name")
	redisCacheURI := viper.GetString("redis_cache.uri")
	redisCachePwd := viper.GetString("redis_cache.password")
	redisCachePoolMultiplier := viper.GetFloat64("redis_cache.poolMultiplier")
	redisCachePool := redisclient.MustConnectRedis(redisCacheURI, redisCachePwd, redisclient.RedisParam{
		PoolMultiplier: redisCachePoolMultiplier,
		Retry:          true,
	})
	redisCache := redis.New(redisCacheName, metrics.New(redisCacheName), &redis.Pools{
		Src: redisCachePool,
	})

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient, redisCache)
	itemRepo := token_repository.New(q, redisCache)
	listingRepo := marketplace_repository.New(q)
	auctionRepo := auction_repository.New(q)
	proceedsRepo := proceeds_repository.New(q)
	accountRepo := account_repository.New(q, redisCache)

	hc := hc_usecase.New(hcRepo)
	token := token_usecase.New(itemRepo)
	proceeds := proceeds_usecase.New(proceedsRepo)
	marketplace := marketplace_usecase.New(&marketplace_usecase.MarketplaceUseCaseCfg{
		ListingRepo: listingRepo,
		ItemRepo:    itemRepo,
		ProceedsUC:  proceeds,
		Query:       q,
	})
	auction := auction_usecase.New(&auction_usecase.AuctionUseCaseCfg{
		AuctionRepo: auctionRepo,
		ItemRepo:    itemRepo,
		ProceedsUC:  proceeds,
		Query:       q,
	})
	account := account_usecase.New(&account_usecase.AccountUseCaseCfg{
		Repo:         accountRepo,
		SignatureMsg: viper.GetString("auth.signatureMsg"),
	})
	auth := auth_usecase.New(viper.GetString("auth.jwtSecret"), account)

	authMiddleware := auth_middleware.New(auth)

	hc_delivery.New(e, hc)
	auth_delivery.New(e, auth, account, viper.GetString("auth.signatureMsg"))
	account_delivery.New(e, account, authMiddleware)
	token_delivery.New(e, token, authMiddleware)
	marketplace_delivery.New(e, marketplace, authMiddleware)
	auction_delivery.New(e, auction, authMiddleware)
	proceeds_delivery.New(e, proceeds, authMiddleware)

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
