//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 与运行时反射注入不同，Wire在编译期生成代码
// 3. 优势：零运行时开销、类型安全、编译期检测循环依赖
//
// Wire工作流程：
// Step 1: 编写wire.go（本文件），定义Providers和Injector
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码
// Step 4: main.go调用wire_gen.go中的InitializeApp()

package main

import (
	"github.com/google/wire"

	appreservation "github.com/xiebiao/stockledger/internal/application/reservation"
	"github.com/xiebiao/stockledger/internal/application/event"
	appstock "github.com/xiebiao/stockledger/internal/application/stock"
	"github.com/xiebiao/stockledger/internal/domain/stock"
	"github.com/xiebiao/stockledger/internal/infrastructure/config"
	"github.com/xiebiao/stockledger/internal/infrastructure/messaging"
	"github.com/xiebiao/stockledger/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/stockledger/internal/infrastructure/warehouse"
	"github.com/xiebiao/stockledger/internal/interface/consumer"
	"github.com/xiebiao/stockledger/internal/interface/http/handler"
	"github.com/xiebiao/stockledger/internal/interface/http/router"
	"github.com/xiebiao/stockledger/internal/interface/rpc"
)

// ========================================
// Wire Provider Sets (依赖分组)
// ========================================

// infrastructureSet 基础设施层依赖
// 包含：配置、日志、数据库、事件发布、仓库目录、分布式锁
var infrastructureSet = wire.NewSet(
	config.Load,
	provideLogger,
	provideDB,
	messaging.NewPublisher,
	warehouse.NewDirectory,
	wire.Bind(new(stock.WarehouseDirectory), new(*warehouse.StaticDirectory)),
	provideSweepLock,
	provideCommandConsumer,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewStockItemRepository,
	mysql.NewMovementRepository,
	mysql.NewReservationRepository,
	mysql.NewTxManager,
	wire.Bind(new(stock.Transactor), new(*mysql.TxManager)),
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	provideLedgerOptions,
	stock.NewLedger,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	event.NewNotifier,
	appstock.NewCreateStockUseCase,
	appstock.NewUpdateStockUseCase,
	appstock.NewAdjustStockUseCase,
	appstock.NewGetStockUseCase,
	appstock.NewListStockUseCase,
	appstock.NewBulkImportUseCase,
	appstock.NewListMovementsUseCase,
	appstock.NewVerifyStockUseCase,
	provideManagerOptions,
	appreservation.NewManager,
	appreservation.NewListReservationsUseCase,
	provideSweeper,
)

// interfaceSet 接口层依赖：HTTP、gRPC、消息消费
var interfaceSet = wire.NewSet(
	handler.NewStockHandler,
	handler.NewMovementHandler,
	handler.NewReservationHandler,
	handler.NewCheckoutHandler,
	wire.Struct(new(router.Handlers), "*"),
	provideGinEngine,
	rpc.NewServer,
	consumer.NewCheckoutConsumer,
)

// ========================================
// Wire Injector (依赖注入器)
// ========================================

// InitializeApp 初始化整个应用
// 返回的cleanup按创建的逆序释放资源（消费者、Redis、MQ连接、数据库、日志）
func InitializeApp() (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
