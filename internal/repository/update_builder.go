package repository

import "strings"

// updateBuilder collects "column = ?" assignments for partial updates.
type updateBuilder struct {
	sets []string
	args []any
}

func (b *updateBuilder) set(column string, value any) {
	b.sets = append(b.sets, column+" = ?")
	b.args = append(b.args, value)
}

// build returns "UPDATE table SET ... WHERE id = ?" and its arguments.
func (b *updateBuilder) build(table string, id uint64) (string, []any) {
	q := "UPDATE " + table + " SET " + strings.Join(b.sets, ", ") + " WHERE id = ?"
	return q, append(append([]any{}, b.args...), id)
}
