package diffusion

import (
	"simcore/agent"
	"simcore/logx"
)

// Manager owns every substance's Grid, keyed by substance id (spec.md
// section 3's ResourceManager.diffusion_grids). Registering the same id
// twice is Fatal: substance ids are assigned once, at model setup, and
// never reused.
type Manager struct {
	grids map[uint64]*Grid
	order []uint64 // registration order, for deterministic Step/iteration
}

// NewManager returns an empty substance registry.
func NewManager() *Manager {
	return &Manager{grids: make(map[uint64]*Grid)}
}

// Register adds a new substance grid under id. Fatal on a duplicate id.
func (m *Manager) Register(g *Grid) {
	if _, exists := m.grids[g.ID]; exists {
		logx.Fatal("diffusion", "substance id %d (%s) already registered", g.ID, g.Name)
	}
	m.grids[g.ID] = g
	m.order = append(m.order, g.ID)
}

// Get returns the grid for id, or nil if unregistered.
func (m *Manager) Get(id uint64) *Grid {
	return m.grids[id]
}

// Len returns the number of registered substances.
func (m *Manager) Len() int { return len(m.grids) }

// UpdateAll resizes every grid to the current spatial bounds, in
// registration order.
func (m *Manager) UpdateAll(minB, maxB agent.Vec3) {
	for _, id := range m.order {
		g := m.grids[id]
		if err := g.Update(minB, maxB); err != nil {
			logx.LogicError("diffusion", "substance %d (%s): %v", id, g.Name, err)
		}
	}
}

// Step advances every registered grid by one timestep, in registration
// order (spec.md section 4.4, diffusion operation).
func (m *Manager) Step() {
	for _, id := range m.order {
		m.grids[id].Step()
	}
}

// ForEach visits every grid in registration order.
func (m *Manager) ForEach(fn func(*Grid)) {
	for _, id := range m.order {
		fn(m.grids[id])
	}
}
