package stocksync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_TryStart_RechazaCorridaEnCurso(t *testing.T) {
	tr := NewTracker()

	require.True(t, tr.TryStart("run-1"), "el primer inicio debe aceptarse")
	assert.False(t, tr.TryStart("run-2"), "un segundo inicio con corrida en curso debe rechazarse")

	// El rechazo no muta nada: la corrida vigente sigue siendo run-1
	st := tr.Status()
	assert.Equal(t, "run-1", st.RunID)
	assert.True(t, st.Running)
	assert.Equal(t, 0, st.Processed)
}

func TestTracker_TryStart_ReiniciaElEstadoDeLaCorridaAnterior(t *testing.T) {
	tr := NewTracker()
	require.True(t, tr.TryStart("run-1"))
	tr.SetTotal(10)
	tr.RecordBatch(10, []RunError{{Kind: ErrorKindAPI, ItemID: "x", Message: "fallo"}})
	tr.Finish(true, 1, "")

	require.True(t, tr.TryStart("run-2"), "tras terminar debe poder iniciarse otra corrida")

	st := tr.Status()
	assert.Equal(t, "run-2", st.RunID)
	assert.Equal(t, 0, st.Processed, "processedCount debe reiniciarse en cero")
	assert.Equal(t, 0, st.Total)
	assert.Empty(t, st.Errors, "los errores de la corrida anterior deben descartarse")
	assert.True(t, st.CompletedAt.IsZero())
	assert.Nil(t, st.Summary)
}

func TestTracker_RecordBatch_AcumulaYAvanzaElLote(t *testing.T) {
	tr := NewTracker()
	require.True(t, tr.TryStart("run-1"))
	tr.SetTotal(120)

	tr.RecordBatch(50, nil)
	tr.RecordBatch(50, []RunError{{Kind: ErrorKindUser, ItemID: "it-77", Message: "rechazado"}})
	tr.RecordBatch(20, nil)

	st := tr.Status()
	assert.Equal(t, 120, st.Processed, "processedCount es monótono y suma cada tarea admitida")
	assert.Equal(t, 3, st.CurrentBatch)
	assert.LessOrEqual(t, st.Processed, st.Total, "processedCount no debe superar totalCount conocido")
	require.Len(t, st.Errors, 1)
	assert.Equal(t, ErrorKindUser, st.Errors[0].Kind)
}

func TestTracker_Finish_CongelaYGeneraMensajePorDefecto(t *testing.T) {
	tr := NewTracker()
	require.True(t, tr.TryStart("run-1"))
	tr.RecordBatch(7, nil)

	tr.Finish(true, 1, "")

	st := tr.Status()
	assert.False(t, st.Running)
	assert.False(t, st.CompletedAt.IsZero(), "completedAt se fija al terminar")
	require.NotNil(t, st.Summary)
	assert.True(t, st.Summary.Success)
	assert.Equal(t, 7, st.Summary.Processed)
	assert.Equal(t, 1, st.Summary.BatchCount)
	assert.Contains(t, st.Summary.Message, "sincronización completa")

	// Finish repetido no debe refijar completedAt ni regenerar el resumen
	first := st.CompletedAt
	tr.Finish(false, 9, "otro")
	again := tr.Status()
	assert.Equal(t, first, again.CompletedAt, "completedAt se fija exactamente una vez por corrida")
}

func TestTracker_ResumenDeUnaSolaLectura(t *testing.T) {
	tr := NewTracker()
	require.True(t, tr.TryStart("run-1"))

	// Mientras corre, nunca hay resumen
	assert.Nil(t, tr.Status().Summary)

	tr.Finish(false, 2, "fallo de lote")

	primera := tr.Status()
	require.NotNil(t, primera.Summary, "la primera lectura tras completar incluye el resumen")
	assert.False(t, primera.Summary.Success)
	assert.Equal(t, "fallo de lote", primera.Summary.Message)

	segunda := tr.Status()
	assert.Nil(t, segunda.Summary, "lecturas posteriores devuelven el estado asentado sin resumen")
	assert.False(t, segunda.Running)
	assert.Equal(t, "run-1", segunda.RunID)

	tercera := tr.Status()
	assert.Nil(t, tercera.Summary)
}
