package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appreservation "github.com/xiebiao/stockledger/internal/application/reservation"
	"github.com/xiebiao/stockledger/internal/infrastructure/config"
	"github.com/xiebiao/stockledger/internal/interface/consumer"
	"github.com/xiebiao/stockledger/internal/interface/rpc"
	"github.com/xiebiao/stockledger/pkg/mq"
)

// App 组装完成的应用
// 由Wire生成的InitializeApp构造，main负责启动与优雅关闭
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	DB       *gorm.DB
	Engine   *gin.Engine
	GRPC     *rpc.Server
	Sweeper  *appreservation.Sweeper
	Checkout *consumer.CheckoutConsumer
	Commands *mq.Consumer // mq.enabled=false时为nil
}
