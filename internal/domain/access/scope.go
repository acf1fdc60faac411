// Package access define el AccessScope: el conjunto de sucursales visibles
// y los permisos de escritura del caller actual. Todos los caminos de
// lectura y escritura del motor de inventario lo consultan de forma
// uniforme, en lugar de chequear roles ad hoc por endpoint.
package access

// Roles soportados.
const (
	RoleAdmin   = "admin"   // ve y escribe en todas las sucursales
	RoleManager = "manager" // ve y escribe solo en sus sucursales asignadas
	RoleCashier = "cashier" // solo lectura en sus sucursales asignadas
)

// Scope capacidad del caller actual, derivada de su identidad (rol +
// sucursales asignadas).
type Scope struct {
	UserID  string
	Role    string
	Outlets []string
}

// SeesAll indica si el caller ve todas las sucursales sin restricción.
func (s Scope) SeesAll() bool {
	return s.Role == RoleAdmin
}

// CanWrite indica si el caller puede registrar ajustes y traslados.
// Los cajeros tienen acceso de lectura; la mutación queda reservada a
// admin y encargados de sucursal.
func (s Scope) CanWrite() bool {
	return s.Role == RoleAdmin || s.Role == RoleManager
}

// CanSeeOutlet indica si la sucursal es visible para el caller.
func (s Scope) CanSeeOutlet(outletID string) bool {
	if s.SeesAll() {
		return true
	}
	for _, id := range s.Outlets {
		if id == outletID {
			return true
		}
	}
	return false
}

// FilterOutlets devuelve el subconjunto de candidatos visible para el caller,
// preservando el orden. Con SeesAll devuelve los candidatos tal cual.
func (s Scope) FilterOutlets(candidates []string) []string {
	if s.SeesAll() {
		return candidates
	}
	allowed := make([]string, 0, len(candidates))
	for _, id := range candidates {
		if s.CanSeeOutlet(id) {
			allowed = append(allowed, id)
		}
	}
	return allowed
}

// VisibleOutlets devuelve las sucursales a las que restringir una consulta:
// nil significa "sin restricción" (admin). Para roles acotados devuelve las
// asignadas; un slice vacío significa que el caller no ve ninguna sucursal,
// caso que los usecases distinguen de un resultado vacío (AccessDenied).
func (s Scope) VisibleOutlets() []string {
	if s.SeesAll() {
		return nil
	}
	if s.Outlets == nil {
		return []string{}
	}
	return s.Outlets
}
