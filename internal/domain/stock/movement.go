package stock

import "time"

// MovementType 库存流水类型
type MovementType string

const (
	MovementStockIn            MovementType = "STOCK_IN"            // 入库
	MovementStockOut           MovementType = "STOCK_OUT"           // 出库
	MovementReservation        MovementType = "RESERVATION"         // 预占
	MovementReservationConfirm MovementType = "RESERVATION_CONFIRM" // 预占确认(出库)
	MovementReservationRelease MovementType = "RESERVATION_RELEASE" // 预占释放
	MovementAdjustment         MovementType = "ADJUSTMENT"          // 盘点调整
	MovementBulkImport         MovementType = "BULK_IMPORT"         // 批量导入
)

// Dimension 流水影响的数量维度
type Dimension string

const (
	DimensionOnHand   Dimension = "ON_HAND"
	DimensionReserved Dimension = "RESERVED"
)

// Dimension 返回该类型流水的QuantityBefore/After所描述的维度
//
// RESERVATION_CONFIRM同时扣减在库与预占,主维度记为在库,
// 预占数量的前后值由ReservedBefore/ReservedAfter快照保存
func (t MovementType) Dimension() Dimension {
	switch t {
	case MovementReservation, MovementReservationRelease:
		return DimensionReserved
	default:
		return DimensionOnHand
	}
}

// IsValid 校验流水类型
func (t MovementType) IsValid() bool {
	switch t {
	case MovementStockIn, MovementStockOut, MovementReservation, MovementReservationConfirm,
		MovementReservationRelease, MovementAdjustment, MovementBulkImport:
		return true
	default:
		return false
	}
}

// Actor 操作人
type Actor struct {
	Type string // ADMIN / VENDOR / SYSTEM / ORDER_SERVICE
	ID   string
}

// 系统内置操作人
var (
	SystemActor  = Actor{Type: "SYSTEM", ID: "stock-ledger"}
	SweeperActor = Actor{Type: "SYSTEM", ID: "expiry-sweeper"}
)

// Reference 流水关联的业务单据
type Reference struct {
	Type string // ORDER / RESERVATION / IMPORT
	ID   string
}

// Movement 库存流水(只增不改)
// 教学要点:
// 1. 每次账本变更对应且仅对应一条流水,与数量变更在同一事务写入
// 2. QuantityAfter = QuantityBefore + QuantityChange
// 3. 同一库存记录同一维度的流水首尾相接(第N+1条的Before等于第N条的After)
// 4. ProductID/WarehouseID冗余存储,便于按商品、仓库筛选审计记录
type Movement struct {
	ID             uint
	StockItemID    uint
	ProductID      string
	WarehouseID    string
	Type           MovementType
	QuantityChange int // 有符号变化量
	QuantityBefore int
	QuantityAfter  int
	ReservedBefore int // 预占数量快照
	ReservedAfter  int
	ReferenceType  string
	ReferenceID    string
	ActorType      string
	ActorID        string
	Note           string
	CreatedAt      time.Time
}

// newMovement 根据变更前后快照构造流水
// 主维度的前后值由流水类型决定
func newMovement(t MovementType, before, after *StockItem, ref Reference, actor Actor, note string) *Movement {
	m := &Movement{
		StockItemID:    after.ID,
		ProductID:      after.ProductID,
		WarehouseID:    after.WarehouseID,
		Type:           t,
		ReservedBefore: before.QuantityReserved,
		ReservedAfter:  after.QuantityReserved,
		ReferenceType:  ref.Type,
		ReferenceID:    ref.ID,
		ActorType:      actor.Type,
		ActorID:        actor.ID,
		Note:           note,
	}

	if t.Dimension() == DimensionReserved {
		m.QuantityBefore = before.QuantityReserved
		m.QuantityAfter = after.QuantityReserved
	} else {
		m.QuantityBefore = before.QuantityOnHand
		m.QuantityAfter = after.QuantityOnHand
	}
	m.QuantityChange = m.QuantityAfter - m.QuantityBefore

	return m
}
