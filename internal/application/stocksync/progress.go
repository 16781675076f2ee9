package stocksync

import (
	"fmt"
	"sync"
	"time"
)

// ErrorKind clasifica los fallos acumulados durante una corrida.
type ErrorKind string

const (
	// ErrorKindAPI fallo de transporte o consulta sobre un artículo puntual.
	ErrorKindAPI ErrorKind = "apiError"
	// ErrorKindUser rechazo de validación al escribir el metafield.
	ErrorKindUser ErrorKind = "userError"
	// ErrorKindBatch fallo no atribuible a un artículo; aborta las páginas restantes.
	ErrorKindBatch ErrorKind = "batchError"
)

// RunError un fallo registrado durante la corrida, etiquetado por tipo.
type RunError struct {
	Kind    ErrorKind `json:"kind"`
	ItemID  string    `json:"item_id,omitempty"`
	Message string    `json:"message"`
	Fields  []string  `json:"fields,omitempty"`
}

// Summary resumen final de una corrida. Se expone exactamente una vez a la
// consulta de estado; lecturas posteriores devuelven el estado asentado sin él,
// para que un llamador no contabilice dos veces el resultado final.
type Summary struct {
	Success    bool   `json:"success"`
	Processed  int    `json:"processed_count"`
	Total      int    `json:"total_count"`
	BatchCount int    `json:"batch_count"`
	Message    string `json:"message"`
}

// Progress es una foto puntual del estado de la corrida, apta para serializar
// hacia la superficie de consulta.
type Progress struct {
	RunID        string
	Processed    int
	Total        int
	CurrentBatch int
	Running      bool
	StartedAt    time.Time
	CompletedAt  time.Time // zero mientras la corrida no termina
	Errors       []RunError
	Summary      *Summary // solo presente en la primera lectura tras completar
}

// Tracker es el estado de progreso compartido del proceso: lo escribe la corrida
// en segundo plano y lo lee la consulta de estado. Una sola instancia viva por
// proceso; se reinicia al comenzar cada corrida y se congela al terminar.
type Tracker struct {
	mu           sync.Mutex
	runID        string
	processed    int
	total        int
	currentBatch int
	running      bool
	startedAt    time.Time
	completedAt  time.Time
	errors       []RunError
	summary      *Summary
	summaryRead  bool
}

// NewTracker construye un tracker en estado Idle.
func NewTracker() *Tracker {
	return &Tracker{}
}

// TryStart intenta iniciar una corrida: si ya hay una en curso devuelve false
// sin mutar nada; si no, reinicia todo el estado bajo el mismo lock (el chequeo
// y la marca son atómicos, no hay ventana entre leer y fijar la bandera).
func (t *Tracker) TryStart(runID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return false
	}
	t.runID = runID
	t.processed = 0
	t.total = 0
	t.currentBatch = 0
	t.errors = nil
	t.startedAt = time.Now()
	t.completedAt = time.Time{}
	t.summary = nil
	t.summaryRead = false
	t.running = true
	return true
}

// Running indica si hay una corrida en curso.
func (t *Tracker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// SetTotal fija la estimación de total de artículos (0 = desconocido/indeterminado).
func (t *Tracker) SetTotal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n > 0 {
		t.total = n
	}
}

// RecordBatch registra el resultado de un lote: processed tareas admitidas
// (éxito o fallo por igual), los fallos por artículo, y avanza el lote actual.
func (t *Tracker) RecordBatch(processed int, errs []RunError) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.processed += processed
	t.errors = append(t.errors, errs...)
	t.currentBatch++
}

// RecordRunError registra un fallo de corrida (típicamente batchError) sin
// avanzar el lote actual.
func (t *Tracker) RecordRunError(err RunError) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errors = append(t.errors, err)
}

// Finish congela la corrida: running pasa a false, completedAt se fija una única
// vez y se construye el resumen de una sola lectura. message vacío genera el
// mensaje por defecto de éxito.
func (t *Tracker) Finish(success bool, batchCount int, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.running = false
	t.completedAt = time.Now()
	if message == "" {
		message = fmt.Sprintf("sincronización completa: %d artículos en %d lotes", t.processed, batchCount)
	}
	t.summary = &Summary{
		Success:    success,
		Processed:  t.processed,
		Total:      t.total,
		BatchCount: batchCount,
		Message:    message,
	}
	t.summaryRead = false
}

// Status devuelve una foto del estado. El resumen final se incluye solo en la
// primera lectura posterior al cierre de la corrida (Completed no-leído →
// Completed leído); después se devuelve el estado asentado sin resumen.
func (t *Tracker) Status() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := Progress{
		RunID:        t.runID,
		Processed:    t.processed,
		Total:        t.total,
		CurrentBatch: t.currentBatch,
		Running:      t.running,
		StartedAt:    t.startedAt,
		CompletedAt:  t.completedAt,
		Errors:       append([]RunError(nil), t.errors...),
	}
	if !t.running && t.summary != nil && !t.summaryRead {
		s := *t.summary
		p.Summary = &s
		t.summaryRead = true
	}
	return p
}
