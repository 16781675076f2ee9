package stocksync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Stocksync-api/internal/domain"
	"github.com/jhoicas/Stocksync-api/internal/domain/entity"
	"github.com/jhoicas/Stocksync-api/internal/domain/snapshot"
	"github.com/jhoicas/Stocksync-api/pkg/logger"
)

// Valores por defecto de la corrida masiva.
const (
	DefaultBatchSize   = 50
	DefaultConcurrency = 5
	DefaultBatchDelay  = time.Second
)

// Config parámetros de la sincronización masiva.
type Config struct {
	BatchSize   int           // artículos por página
	Concurrency int           // operaciones en vuelo por lote
	BatchDelay  time.Duration // pausa entre lotes (cortesía hacia la API, no viene de ningún header)
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.BatchDelay < 0 {
		c.BatchDelay = DefaultBatchDelay
	}
	return c
}

// Orchestrator dirige la sincronización masiva: recorre el catálogo por páginas,
// reconstruye el snapshot de cada artículo con paralelismo acotado y registra el
// avance en el Tracker compartido que consulta la superficie de estado.
type Orchestrator struct {
	gw      PlatformGateway
	tracker *Tracker
	log     *logger.Logger
	cfg     Config
	sleep   func(time.Duration) // inyectable en tests
}

// NewOrchestrator construye el orquestador.
func NewOrchestrator(gw PlatformGateway, tracker *Tracker, log *logger.Logger, cfg Config) *Orchestrator {
	return &Orchestrator{
		gw:      gw,
		tracker: tracker,
		log:     log,
		cfg:     cfg.withDefaults(),
		sleep:   time.Sleep,
	}
}

// StartFullSync arranca una corrida completa en segundo plano y devuelve su
// run_id. Si ya hay una corrida en curso devuelve domain.ErrSyncRunning sin
// mutar ningún estado.
func (o *Orchestrator) StartFullSync() (string, error) {
	runID := uuid.NewString()
	if !o.tracker.TryStart(runID) {
		return "", domain.ErrSyncRunning
	}
	go o.run(runID)
	return runID, nil
}

// Status devuelve el estado actual de la corrida (con resumen de una sola lectura).
func (o *Orchestrator) Status() Progress {
	return o.tracker.Status()
}

// run ejecuta la corrida completa. Vive en su propia goroutine: sobrevive a la
// petición HTTP que la inició, no es cancelable y termina solo por agotar las
// páginas o por un fallo fatal de lote. Un reinicio del proceso pierde todo el
// avance; la corrida es idempotente y se puede relanzar desde cero.
func (o *Orchestrator) run(runID string) {
	ctx := context.Background()
	log := o.log.With().Str("run_id", runID).Logger()

	batchCount := 0
	success := true
	message := ""

	defer func() {
		if r := recover(); r != nil {
			o.tracker.RecordRunError(RunError{Kind: ErrorKindBatch, Message: fmt.Sprintf("pánico en la corrida: %v", r)})
			success = false
			message = "sincronización abortada por un error interno"
			log.Error().Interface("panic", r).Msg("pánico durante la sincronización masiva")
		}
		o.tracker.Finish(success, batchCount, message)
		log.Info().Bool("success", success).Int("batches", batchCount).Msg("sincronización masiva finalizada")
	}()

	log.Info().Int("batch_size", o.cfg.BatchSize).Int("concurrency", o.cfg.Concurrency).Msg("sincronización masiva iniciada")

	// Estimación de total: mejor esfuerzo, un fallo no aborta la corrida
	// (total=0 se muestra como indeterminado).
	if total, err := o.gw.EstimateTotalItemCount(ctx); err != nil {
		log.Warn().Err(err).Msg("no se pudo estimar el total de artículos")
	} else {
		o.tracker.SetTotal(total)
	}

	pag := NewPaginator(func(ctx context.Context, cursor string) (ItemPage, error) {
		return o.gw.ListItemsPage(ctx, cursor, o.cfg.BatchSize)
	})

	for {
		items, ok, err := pag.Next(ctx)
		if err != nil {
			// Fallo de lote: se registra y se abandona el resto de las páginas.
			o.tracker.RecordRunError(RunError{Kind: ErrorKindBatch, Message: err.Error()})
			success = false
			message = "fallo al obtener una página del catálogo: " + err.Error()
			log.Error().Err(err).Int("batch", batchCount+1).Msg("fallo de lote, corrida abortada")
			return
		}
		if !ok {
			break
		}
		batchCount++

		tasks := make([]func(context.Context) *RunError, 0, len(items))
		for _, it := range items {
			if it.TrackingUnitID == "" {
				continue // la variante no rastrea inventario, no hay snapshot que mantener
			}
			tasks = append(tasks, func(ctx context.Context) (res *RunError) {
				defer func() {
					if r := recover(); r != nil {
						res = &RunError{Kind: ErrorKindAPI, ItemID: it.ID, Message: fmt.Sprintf("pánico procesando el artículo: %v", r)}
					}
				}()
				return o.syncItem(ctx, it)
			})
		}

		outcomes := RunLimited(ctx, tasks, o.cfg.Concurrency)
		var errs []RunError
		for _, e := range outcomes {
			if e != nil {
				errs = append(errs, *e)
			}
		}
		o.tracker.RecordBatch(len(outcomes), errs)
		log.Info().Int("batch", batchCount).Int("items", len(outcomes)).Int("failed", len(errs)).Msg("lote procesado")

		if pag.HasMore() {
			o.sleep(o.cfg.BatchDelay)
		}
	}
}

// syncItem reconstruye y escribe el snapshot de un artículo. Nunca deja escapar
// un error: el resultado es nil (éxito) o un RunError tipado api/user.
func (o *Orchestrator) syncItem(ctx context.Context, item entity.CatalogItem) *RunError {
	levels, err := o.gw.GetLocationLevels(ctx, item.TrackingUnitID)
	if err != nil {
		return &RunError{Kind: ErrorKindAPI, ItemID: item.ID, Message: err.Error()}
	}

	value, err := snapshot.Encode(snapshotFromLevels(levels, time.Now()))
	if err != nil {
		return &RunError{Kind: ErrorKindAPI, ItemID: item.ID, Message: err.Error()}
	}

	if err := o.gw.WriteSnapshotField(ctx, item.ID, value); err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			return &RunError{Kind: ErrorKindUser, ItemID: item.ID, Message: vErr.Error(), Fields: vErr.FieldNames()}
		}
		return &RunError{Kind: ErrorKindAPI, ItemID: item.ID, Message: err.Error()}
	}
	return nil
}

// snapshotFromLevels mapea los niveles reportados por la plataforma a un
// snapshot: id numérico extraído de la referencia opaca, cantidad ausente = 0,
// marca de tiempo = ahora.
func snapshotFromLevels(levels []LocationLevel, now time.Time) entity.StockSnapshot {
	locs := make([]entity.StockLocation, 0, len(levels))
	for _, lvl := range levels {
		var available int64
		if lvl.Available != nil {
			available = *lvl.Available
		}
		locs = append(locs, entity.StockLocation{
			LocationID: LocationIDFromRef(lvl.LocationRef),
			Name:       lvl.LocationName,
			Available:  available,
			UpdatedAt:  now,
		})
	}
	return entity.StockSnapshot{Locations: locs}
}
