package ops

import "simcore/logx"

// Registry holds the scheduled row-wise and column-wise operations in
// registration order (spec.md section 5: "row-wise operations are
// applied in registration order"). Registration failures (unknown
// name on Unschedule, duplicate name on Register) are warnings, not
// fatal errors (spec.md section 4.4, section 7).
type Registry struct {
	rows    []RowWise
	columns []ColumnWise
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterRow appends a row-wise operation. Registering a duplicate
// name is a logic error: logged, the call is a no-op.
func (r *Registry) RegisterRow(op RowWise) {
	if r.findRow(op.Name()) != -1 {
		logx.LogicError("ops", "row operation %q already registered", op.Name())
		return
	}
	r.rows = append(r.rows, op)
}

// RegisterColumn appends a column-wise operation, same duplicate policy
// as RegisterRow.
func (r *Registry) RegisterColumn(op ColumnWise) {
	if r.findColumn(op.Name()) != -1 {
		logx.LogicError("ops", "column operation %q already registered", op.Name())
		return
	}
	r.columns = append(r.columns, op)
}

func (r *Registry) findRow(name string) int {
	for i, op := range r.rows {
		if op.Name() == name {
			return i
		}
	}
	return -1
}

func (r *Registry) findColumn(name string) int {
	for i, op := range r.columns {
		if op.Name() == name {
			return i
		}
	}
	return -1
}

// Unschedule removes the named operation from whichever list holds it.
// Protected operations ("first op", "behaviors", "discretization",
// "last op") reject the request with a warning (spec.md section 4.4).
func (r *Registry) Unschedule(name string) {
	if i := r.findRow(name); i != -1 {
		if r.rows[i].Protected() {
			logx.Warning("ops", "refusing to unschedule protected operation %q", name)
			return
		}
		r.rows = append(r.rows[:i], r.rows[i+1:]...)
		return
	}
	if i := r.findColumn(name); i != -1 {
		if r.columns[i].Protected() {
			logx.Warning("ops", "refusing to unschedule protected operation %q", name)
			return
		}
		r.columns = append(r.columns[:i], r.columns[i+1:]...)
		return
	}
	logx.Warning("ops", "unknown operation %q", name)
}

// Rows returns the scheduled row-wise operations in registration order.
func (r *Registry) Rows() []RowWise { return r.rows }

// Columns returns the scheduled column-wise operations in registration order.
func (r *Registry) Columns() []ColumnWise { return r.columns }
