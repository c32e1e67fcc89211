package movement

import (
	"sync"

	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/workflow"
)

// Cache caché local de movimientos indexada por id. Es el recurso compartido
// del motor: toda mutación pasa por el reducer apply, de modo que la lógica de
// rollback y merge tiene un único camino de código.
//
// Cada entidad lleva un número de secuencia monótono de petición. Una
// continuación que resuelve cuando su secuencia ya no es la vigente detecta
// que dejó de ser autoritativa y no aplica su efecto (cierra la carrera de
// "el rollback tardío pisa al éxito rápido").
type Cache struct {
	mu    sync.Mutex
	items map[string]*entity.StockMovement
	seq   map[string]uint64
}

// Snapshot estado mínimo a restaurar en un rollback: exactamente los campos
// que toca la mutación optimista.
type Snapshot struct {
	Status          workflow.Status
	Reason          string
	RejectionReason string
	Notes           string
}

// NewCache construye la caché vacía.
func NewCache() *Cache {
	return &Cache{
		items: make(map[string]*entity.StockMovement),
		seq:   make(map[string]uint64),
	}
}

// apply reducer central: único punto que muta una entidad de la caché.
func (c *Cache) apply(id string, mutate func(m *entity.StockMovement)) bool {
	m, ok := c.items[id]
	if !ok {
		return false
	}
	mutate(m)
	return true
}

// Get devuelve una copia del movimiento, o ok=false si no está en caché.
func (c *Cache) Get(id string) (entity.StockMovement, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.items[id]
	if !ok {
		return entity.StockMovement{}, false
	}
	return *m, true
}

// Upsert inserta o reemplaza un movimiento completo (alta o dato canónico).
func (c *Cache) Upsert(m *entity.StockMovement) {
	if m == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *m
	c.items[m.ID] = &cp
}

// Begin abre una petición sobre la entidad: toma snapshot, aplica la mutación
// optimista y devuelve el número de secuencia asignado. ok=false si la entidad
// no está en caché (no se toca nada).
func (c *Cache) Begin(id string, target workflow.Status, reason string) (Snapshot, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.items[id]
	if !ok {
		return Snapshot{}, 0, false
	}
	snap := Snapshot{
		Status:          m.Status,
		Reason:          m.Reason,
		RejectionReason: m.RejectionReason,
		Notes:           m.Notes,
	}
	c.seq[id]++
	token := c.seq[id]

	c.apply(id, func(m *entity.StockMovement) {
		m.Status = target
		if target == workflow.StatusCancelled && reason != "" {
			m.RejectionReason = reason
			m.Notes = reason
		}
	})
	return snap, token, true
}

// Settle cierra una petición. Solo la continuación cuya secuencia sigue siendo
// la vigente aplica su efecto; las obsoletas devuelven false y no tocan nada.
// En éxito mergea la entidad canónica; en fallo restaura el snapshot exacto.
func (c *Cache) Settle(id string, token uint64, canonical *entity.StockMovement, snap Snapshot, success bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.seq[id] != token {
		return false
	}
	if success {
		if canonical != nil {
			cp := *canonical
			c.items[id] = &cp
		}
		return true
	}
	c.apply(id, func(m *entity.StockMovement) {
		m.Status = snap.Status
		m.Reason = snap.Reason
		m.RejectionReason = snap.RejectionReason
		m.Notes = snap.Notes
	})
	return true
}

// ReplaceCompany descarta las entradas de una empresa y las sustituye por la
// lista refetcheada del servidor (resync completo tras confirmar o tras bulk).
func (c *Cache) ReplaceCompany(companyID string, list []*entity.StockMovement) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, m := range c.items {
		if m.CompanyID == companyID {
			delete(c.items, id)
		}
	}
	for _, m := range list {
		cp := *m
		c.items[m.ID] = &cp
	}
}

// Remove elimina una entrada de la caché.
func (c *Cache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	delete(c.seq, id)
}

// ListCompany devuelve copias de los movimientos de una empresa.
func (c *Cache) ListCompany(companyID string) []*entity.StockMovement {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*entity.StockMovement
	for _, m := range c.items {
		if m.CompanyID == companyID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out
}

// Len cantidad de entradas en caché.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
