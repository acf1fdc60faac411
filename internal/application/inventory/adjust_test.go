package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/outlet-ledger/internal/application/inventory"
	"github.com/tu-usuario/outlet-ledger/internal/domain"
	"github.com/tu-usuario/outlet-ledger/internal/domain/access"
	"github.com/tu-usuario/outlet-ledger/internal/domain/entity"
)

func adminScope() access.Scope {
	return access.Scope{UserID: "user-admin", Role: access.RoleAdmin}
}

func TestAdjust_ValidacionAcumulaTodosLosCampos(t *testing.T) {
	f := newFixture()

	// Todo inválido a la vez: el caller debe ver cada problema en una
	// sola vuelta, no solo el primero.
	badThreshold := int64(-1)
	_, err := f.adjust.Adjust(context.Background(), inventory.AdjustInput{
		Quantity:  0,
		Reason:    "",
		Threshold: &badThreshold,
		Scope:     adminScope(),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "product_id")
	assert.Contains(t, verr.Fields, "outlet_id")
	assert.Contains(t, verr.Fields, "quantity")
	assert.Contains(t, verr.Fields, "reason")
	assert.Contains(t, verr.Fields, "threshold")
	assert.Len(t, verr.Fields, 5)
}

func TestAdjust_CreaRegistroPerezosamente(t *testing.T) {
	f := newFixture()

	res, err := f.adjust.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: "p1", OutletID: "out-1", Quantity: 7, Reason: "reposición",
		Scope: adminScope(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.NewStock)
	assert.Equal(t, int64(7), f.st.stockOf("p1", "out-1"))
	assert.Equal(t, 1, f.st.movementCount())
}

// Escenario: stock 10, ajuste -12 → rechazado con disponible/solicitado y
// el estado queda intacto.
func TestAdjust_StockInsuficienteNoMutaEstado(t *testing.T) {
	f := newFixture()
	f.st.setStock("p1", "out-1", 10, 2)

	_, err := f.adjust.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: "p1", OutletID: "out-1", Quantity: -12, Reason: "venta",
		Scope: adminScope(),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var insErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &insErr))
	assert.Equal(t, int64(10), insErr.Available)
	assert.Equal(t, int64(12), insErr.Requested)

	assert.Equal(t, int64(10), f.st.stockOf("p1", "out-1"), "el stock no debe cambiar")
	assert.Equal(t, 0, f.st.movementCount(), "un rechazo no genera movimiento")
}

func TestAdjust_IdaYVueltaDejaElStockIgual(t *testing.T) {
	f := newFixture()
	f.st.setStock("p1", "out-1", 3, 0)

	ctx := context.Background()
	_, err := f.adjust.Adjust(ctx, inventory.AdjustInput{
		ProductID: "p1", OutletID: "out-1", Quantity: 5, Reason: "entrada",
		Scope: adminScope(),
	})
	require.NoError(t, err)
	_, err = f.adjust.Adjust(ctx, inventory.AdjustInput{
		ProductID: "p1", OutletID: "out-1", Quantity: -5, Reason: "salida",
		Scope: adminScope(),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), f.st.stockOf("p1", "out-1"))
	require.Equal(t, 2, f.st.movementCount(), "exactamente dos movimientos")
	assert.Equal(t, int64(5), f.st.movements[0].Quantity)
	assert.Equal(t, int64(-5), f.st.movements[1].Quantity)
	for _, m := range f.st.movements {
		assert.Equal(t, entity.MovementTypeAdjustment, m.Type)
		assert.Equal(t, "user-admin", m.UserID)
		assert.Nil(t, m.RelatedOutletID)
	}
}

func TestAdjust_ActualizaUmbral(t *testing.T) {
	f := newFixture()
	threshold := int64(4)

	_, err := f.adjust.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: "p1", OutletID: "out-1", Quantity: 10, Reason: "carga inicial",
		Threshold: &threshold, Scope: adminScope(),
	})
	require.NoError(t, err)

	rec := f.st.stock[stockKey("p1", "out-1")]
	assert.Equal(t, int64(4), rec.Threshold)
}

func TestAdjust_ProductoInexistente(t *testing.T) {
	f := newFixture()

	_, err := f.adjust.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: "no-existe", OutletID: "out-1", Quantity: 1, Reason: "x",
		Scope: adminScope(),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjust_PermisosPorRol(t *testing.T) {
	f := newFixture()
	f.st.setStock("p1", "out-1", 10, 0)

	// Cajero: lectura sí, mutación no.
	_, err := f.adjust.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: "p1", OutletID: "out-1", Quantity: 1, Reason: "x",
		Scope: access.Scope{UserID: "u-caja", Role: access.RoleCashier, Outlets: []string{"out-1"}},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Encargado: solo en sus sucursales asignadas.
	_, err = f.adjust.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: "p1", OutletID: "out-1", Quantity: 1, Reason: "x",
		Scope: access.Scope{UserID: "u-enc", Role: access.RoleManager, Outlets: []string{"out-2"}},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	res, err := f.adjust.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: "p1", OutletID: "out-1", Quantity: 1, Reason: "x",
		Scope: access.Scope{UserID: "u-enc", Role: access.RoleManager, Outlets: []string{"out-1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), res.NewStock)
}

// El fallo al escribir el movimiento es secundario: la mutación de stock es
// autoritativa, la operación reporta éxito y el fallo sale tipado por el
// canal de observabilidad.
func TestAdjust_FalloDelLogNoRevierteElStock(t *testing.T) {
	f := newFixture()
	f.st.setStock("p1", "out-1", 5, 0)
	f.st.movementErr = errors.New("movements: tabla no disponible")

	res, err := f.adjust.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: "p1", OutletID: "out-1", Quantity: 3, Reason: "reposición",
		Scope: adminScope(),
	})
	require.NoError(t, err, "el ajuste debe reportar éxito")
	assert.Equal(t, int64(8), res.NewStock)
	assert.Equal(t, int64(8), f.st.stockOf("p1", "out-1"))
	assert.Equal(t, 0, f.st.movementCount())

	require.Equal(t, 1, f.alerter.count(), "el fallo debe salir por el alerter")
	failure := f.alerter.failures[0]
	assert.Equal(t, "p1", failure.Movement.ProductID)
	assert.Equal(t, int64(3), failure.Movement.Quantity)
	assert.ErrorContains(t, failure.Err, "tabla no disponible")
}

// El movimiento del ajuste se escribe después de commitear el stock, nunca
// dentro de la misma transacción: en PostgreSQL un INSERT fallido aborta la
// transacción completa, así que en la misma tx el fallo del log arrastraría
// al stock y la política de "la mutación se mantiene" sería imposible.
func TestAdjust_ElLogSeEscribeTrasElCommitDelStock(t *testing.T) {
	f := newFixture()
	f.st.setStock("p1", "out-1", 5, 0)

	_, err := f.adjust.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: "p1", OutletID: "out-1", Quantity: 2, Reason: "reposición",
		Scope: adminScope(),
	})
	require.NoError(t, err)
	require.Equal(t, 1, f.st.movementCount())
	assert.False(t, f.st.movementLoggedInTx(0),
		"el movimiento del ajuste debe escribirse fuera de la transacción de stock")
}

// N ajustes concurrentes de +1 sobre stock 0 deben terminar exactamente en N:
// la sección leída-modificada-escrita nunca se intercala entre callers.
func TestAdjust_ConcurrenciaSinActualizacionesPerdidas(t *testing.T) {
	f := newFixture()
	const n = 50

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := f.adjust.Adjust(context.Background(), inventory.AdjustInput{
				ProductID: "p1", OutletID: "out-1", Quantity: 1, Reason: "venta",
				Scope: adminScope(),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(n), f.st.stockOf("p1", "out-1"))
	assert.Equal(t, n, f.st.movementCount())
}
