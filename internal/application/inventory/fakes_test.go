package inventory_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/outlet-ledger/internal/application/inventory"
	"github.com/tu-usuario/outlet-ledger/internal/domain/entity"
	"github.com/tu-usuario/outlet-ledger/internal/domain/repository"
)

// Fakes en memoria para probar los usecases a través de los puertos, sin BD.
// memTxRunner serializa las transacciones con un mutex y restaura el estado
// ante error, emulando el commit/rollback del TxRunner de PostgreSQL.

func stockKey(productID, outletID string) string {
	return productID + "|" + outletID
}

type memState struct {
	mu        sync.Mutex
	stock     map[string]entity.StockRecord
	movements []entity.Movement
	products  map[string]entity.Product
	outlets   map[string]entity.Outlet

	// movementsInTx paralelo a movements: si cada uno se escribió dentro
	// de una transacción o fuera (log posterior al commit).
	movementsInTx []bool

	// movementErr si no es nil, Create de movimientos falla con este error.
	movementErr error
}

func newMemState() *memState {
	return &memState{
		stock:    make(map[string]entity.StockRecord),
		products: make(map[string]entity.Product),
		outlets:  make(map[string]entity.Outlet),
	}
}

func (st *memState) addProduct(id, name string) {
	st.products[id] = entity.Product{ID: id, SKU: "SKU-" + id, Name: name, Price: decimal.NewFromInt(10)}
}

func (st *memState) addOutlet(id, name string) {
	st.outlets[id] = entity.Outlet{ID: id, Name: name}
}

func (st *memState) setStock(productID, outletID string, stock, threshold int64) {
	st.stock[stockKey(productID, outletID)] = entity.StockRecord{
		ProductID: productID,
		OutletID:  outletID,
		Stock:     stock,
		Threshold: threshold,
		UpdatedAt: time.Now(),
	}
}

func (st *memState) stockOf(productID, outletID string) int64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.stock[stockKey(productID, outletID)].Stock
}

func (st *memState) movementCount() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.movements)
}

func (st *memState) movementLoggedInTx(i int) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.movementsInTx[i]
}

// memTxRunner ejecuta el callback bajo el mutex global del estado y hace
// rollback (restaura el snapshot) si el callback devuelve error.
type memTxRunner struct {
	st *memState
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movementRepo repository.MovementRepository,
) error) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	snapshot := make(map[string]entity.StockRecord, len(r.st.stock))
	for k, v := range r.st.stock {
		snapshot[k] = v
	}
	movMark := len(r.st.movements)

	err := fn(&memStockRepo{st: r.st}, &memMovementRepo{st: r.st, inTx: true})
	if err != nil {
		r.st.stock = snapshot
		r.st.movements = r.st.movements[:movMark]
		r.st.movementsInTx = r.st.movementsInTx[:movMark]
		return err
	}
	return nil
}

// memStockRepo opera directo sobre el estado; dentro de Run el mutex ya
// está tomado, y los tests de lectura no corren en paralelo.
type memStockRepo struct {
	st *memState
}

func (r *memStockRepo) Get(_ context.Context, productID, outletID string) (*entity.StockRecord, error) {
	rec, ok := r.st.stock[stockKey(productID, outletID)]
	if !ok {
		return nil, nil
	}
	copy := rec
	return &copy, nil
}

func (r *memStockRepo) GetForUpdate(_ context.Context, productID, outletID string) (*entity.StockRecord, error) {
	rec, ok := r.st.stock[stockKey(productID, outletID)]
	if !ok {
		return &entity.StockRecord{ProductID: productID, OutletID: outletID}, nil
	}
	copy := rec
	return &copy, nil
}

func (r *memStockRepo) Upsert(_ context.Context, record *entity.StockRecord) error {
	r.st.stock[stockKey(record.ProductID, record.OutletID)] = *record
	return nil
}

func (r *memStockRepo) sortedRecords() []entity.StockRecord {
	records := make([]entity.StockRecord, 0, len(r.st.stock))
	for _, rec := range r.st.stock {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.OutletID != b.OutletID {
			return a.OutletID < b.OutletID
		}
		return a.ProductID < b.ProductID
	})
	return records
}

func matchStock(rec entity.StockRecord, f repository.StockFilter) bool {
	if f.ProductID != "" && rec.ProductID != f.ProductID {
		return false
	}
	if f.OutletID != "" && rec.OutletID != f.OutletID {
		return false
	}
	if f.Outlets != nil && !containsStr(f.Outlets, rec.OutletID) {
		return false
	}
	return true
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (r *memStockRepo) List(_ context.Context, f repository.StockFilter, limit, offset int) ([]*entity.StockRecord, error) {
	var out []*entity.StockRecord
	for _, rec := range r.sortedRecords() {
		if matchStock(rec, f) {
			copy := rec
			out = append(out, &copy)
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *memStockRepo) Count(_ context.Context, f repository.StockFilter) (int, error) {
	n := 0
	for _, rec := range r.st.stock {
		if matchStock(rec, f) {
			n++
		}
	}
	return n, nil
}

func (r *memStockRepo) lowStockRows(f repository.LowStockFilter) []*repository.LowStockRow {
	var out []*repository.LowStockRow
	for _, rec := range r.sortedRecords() {
		if f.ProductID != "" && rec.ProductID != f.ProductID {
			continue
		}
		if f.OutletID != "" && rec.OutletID != f.OutletID {
			continue
		}
		if f.Outlets != nil && !containsStr(f.Outlets, rec.OutletID) {
			continue
		}
		if !rec.IsLowStock(f.GlobalDefault) {
			continue
		}
		product := r.st.products[rec.ProductID]
		outlet := r.st.outlets[rec.OutletID]
		out = append(out, &repository.LowStockRow{
			ProductID:   rec.ProductID,
			SKU:         product.SKU,
			ProductName: product.Name,
			Price:       product.Price,
			OutletID:    rec.OutletID,
			OutletName:  outlet.Name,
			Stock:       rec.Stock,
			Threshold:   rec.Threshold,
		})
	}
	return out
}

func (r *memStockRepo) ListLowStock(_ context.Context, f repository.LowStockFilter, limit, offset int) ([]*repository.LowStockRow, error) {
	return paginate(r.lowStockRows(f), limit, offset), nil
}

func (r *memStockRepo) CountLowStock(_ context.Context, f repository.LowStockFilter) (int, error) {
	return len(r.lowStockRows(f)), nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// memMovementRepo con inTx opera bajo el mutex ya tomado por memTxRunner;
// la instancia standalone (log posterior al commit) toma el mutex ella
// misma, porque los ajustes concurrentes la comparten.
type memMovementRepo struct {
	st   *memState
	inTx bool
}

func (r *memMovementRepo) Create(_ context.Context, movement *entity.Movement) error {
	if !r.inTx {
		r.st.mu.Lock()
		defer r.st.mu.Unlock()
	}
	if r.st.movementErr != nil {
		return r.st.movementErr
	}
	r.st.movements = append(r.st.movements, *movement)
	r.st.movementsInTx = append(r.st.movementsInTx, r.inTx)
	return nil
}

func matchMovement(m entity.Movement, f repository.MovementFilter) bool {
	if f.ProductID != "" && m.ProductID != f.ProductID {
		return false
	}
	if f.OutletID != "" && m.OutletID != f.OutletID {
		return false
	}
	if f.Type != "" && m.Type != f.Type {
		return false
	}
	if f.UserID != "" && m.UserID != f.UserID {
		return false
	}
	if f.From != nil && m.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && m.CreatedAt.After(*f.To) {
		return false
	}
	if f.Outlets != nil && !containsStr(f.Outlets, m.OutletID) {
		return false
	}
	return true
}

func (r *memMovementRepo) filtered(f repository.MovementFilter) []*entity.Movement {
	var out []*entity.Movement
	// Recorre del más nuevo al más viejo (append-only ordenado por inserción).
	for i := len(r.st.movements) - 1; i >= 0; i-- {
		m := r.st.movements[i]
		if matchMovement(m, f) {
			copy := m
			out = append(out, &copy)
		}
	}
	return out
}

func (r *memMovementRepo) List(_ context.Context, f repository.MovementFilter, limit, offset int) ([]*entity.Movement, error) {
	return paginate(r.filtered(f), limit, offset), nil
}

func (r *memMovementRepo) Count(_ context.Context, f repository.MovementFilter) (int, error) {
	return len(r.filtered(f)), nil
}

type memProductRepo struct {
	st *memState
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type memOutletRepo struct {
	st *memState
}

func (r *memOutletRepo) GetByID(_ context.Context, id string) (*entity.Outlet, error) {
	o, ok := r.st.outlets[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

// captureAlerter acumula los fallos de escritura del log para verificarlos.
type captureAlerter struct {
	mu       sync.Mutex
	failures []inventory.MovementLogFailure
}

func (a *captureAlerter) MovementLogFailed(_ context.Context, failure inventory.MovementLogFailure) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures = append(a.failures, failure)
}

func (a *captureAlerter) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.failures)
}

// fixture wiring completo de los usecases sobre los fakes.
type fixture struct {
	st       *memState
	alerter  *captureAlerter
	adjust   *inventory.AdjustStockUseCase
	transfer *inventory.TransferStockUseCase
	bulk     *inventory.BulkAdjustUseCase
	lowStock *inventory.LowStockReportUseCase
	history  *inventory.MovementHistoryUseCase
	query    *inventory.StockQueryUseCase
}

const testGlobalDefault = 2

func newFixture() *fixture {
	st := newMemState()
	st.addProduct("p1", "Café molido 500g")
	st.addProduct("p2", "Azúcar 1kg")
	st.addOutlet("out-1", "Sucursal Centro")
	st.addOutlet("out-2", "Sucursal Norte")
	st.addOutlet("out-3", "Sucursal Sur")

	txRunner := &memTxRunner{st: st}
	stockRepo := &memStockRepo{st: st}
	movementRepo := &memMovementRepo{st: st}
	productRepo := &memProductRepo{st: st}
	outletRepo := &memOutletRepo{st: st}
	alerter := &captureAlerter{}

	return &fixture{
		st:       st,
		alerter:  alerter,
		adjust:   inventory.NewAdjustStockUseCase(txRunner, movementRepo, productRepo, outletRepo, alerter),
		transfer: inventory.NewTransferStockUseCase(txRunner, productRepo, outletRepo),
		bulk:     inventory.NewBulkAdjustUseCase(txRunner, movementRepo, productRepo, outletRepo, alerter),
		lowStock: inventory.NewLowStockReportUseCase(stockRepo, testGlobalDefault),
		history:  inventory.NewMovementHistoryUseCase(movementRepo),
		query:    inventory.NewStockQueryUseCase(stockRepo),
	}
}
