package stocksync

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunLimited ejecuta las tareas con a lo sumo `limit` en vuelo simultáneo.
// Las tareas se admiten en su orden original a medida que se liberan cupos, y
// el resultado de cada una queda en su índice original sin importar el orden de
// término. El fallo de una tarea es parte de su valor devuelto: nunca cancela a
// sus hermanas ni escapa del pool como error.
func RunLimited[T any](ctx context.Context, tasks []func(context.Context) T, limit int) []T {
	if limit <= 0 {
		limit = 1
	}
	results := make([]T, len(tasks))

	g := new(errgroup.Group)
	g.SetLimit(limit)
	for i, task := range tasks {
		g.Go(func() error {
			results[i] = task(ctx)
			return nil
		})
	}
	_ = g.Wait() // las tareas no devuelven error; Wait solo sincroniza

	return results
}
