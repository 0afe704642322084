package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	bCtx "github.com/mintbay/goapi/base/ctx"
	"github.com/mintbay/goapi/base/database/mongoclient"
	"github.com/mintbay/goapi/base/log"
	"github.com/mintbay/goapi/base/metrics"
	"github.com/mintbay/goapi/domain/auction"
	mmiddleware "github.com/mintbay/goapi/middleware"
	"github.com/mintbay/goapi/service/query"
	auction_repository "github.com/mintbay/goapi/stores/auction/repository"
	auction_usecase "github.com/mintbay/goapi/stores/auction/usecase"
	proceeds_repository "github.com/mintbay/goapi/stores/proceeds/repository"
	proceeds_usecase "github.com/mintbay/goapi/stores/proceeds/usecase"
	token_repository "github.com/mintbay/goapi/stores/token/repository"
)

func init() {
	configPath := pflag.String("config", "infra/configs/keeper/config.yaml", "path to config file")
	pflag.Parse()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configPath)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	ctx, cancel := bCtx.WithCancel(bCtx.Background())
	defer cancel()

	// start server to pass cloud run health check
	startEchoServer()

	interval := viper.GetDuration("keeper.interval")
	if interval <= 0 {
		interval = 15 * time.Second
	}

	ctx.WithField("interval", interval).Info("config")

	ctx.Info("init mongo")
	q := initMongo()

	auctionRepo := auction_repository.New(q)
	itemRepo := token_repository.New(q, nil)
	proceedsRepo := proceeds_repository.New(q)

	proceeds := proceeds_usecase.New(proceedsRepo)
	auctionUC := auction_usecase.New(&auction_usecase.AuctionUseCaseCfg{
		AuctionRepo: auctionRepo,
		ItemRepo:    itemRepo,
		ProceedsUC:  proceeds,
		Query:       q,
	})

	met := metrics.New("keeper")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	for {
		select {
		case sig := <-quit:
			ctx.WithField("signal", sig).Info("received signal")
			return
		case <-ticker.C:
			runUpkeep(ctx, auctionUC, met)
		}
	}
}

func runUpkeep(c bCtx.Ctx, auctionUC auction.Usecase, met metrics.Service) {
	ctx := bCtx.WithValue(c, "batchId", uuid.New().String())
	now := time.Now()

	tokenIds, err := auctionUC.CheckUpkeep(ctx, now)
	if err != nil {
		ctx.WithField("err", err).Error("auction.CheckUpkeep failed")
		met.BumpSum("upkeep.check.err", 1)
		return
	}
	if len(tokenIds) == 0 {
		return
	}

	ctx.WithField("count", len(tokenIds)).Info("performing upkeep")
	results, err := auctionUC.PerformUpkeep(ctx, tokenIds, now)
	if err != nil {
		ctx.WithField("err", err).Error("auction.PerformUpkeep failed")
		met.BumpSum("upkeep.perform.err", 1)
		return
	}

	for _, res := range results {
		if res.Err != nil {
			ctx.WithFields(log.Fields{
				"tokenId": res.TokenId,
				"err":     res.Err,
			}).Error("settlement failed")
			met.BumpSum("upkeep.settle.err", 1)
		} else {
			ctx.WithFields(log.Fields{
				"tokenId": res.TokenId,
				"winner":  res.Winner,
			}).Info("settled auction")
			met.BumpSum("upkeep.settle.done", 1)
		}
	}
}

func startEchoServer() {
	context := bCtx.Background()

	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())

	address := viper.GetString("server.address")
	context.WithField("address", address).Info("starting server")
	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			context.Error("shutting down the server")
		}
	}()
}

func initMongo() query.Mongo {
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	return query.New(mongoClient, checkIndex)
}
