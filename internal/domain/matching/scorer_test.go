package matching_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinukasrimal/agency-sync-api/internal/domain/matching"
)

// ──────────────────────────────────────────────────────────────────────────────
// NameCategoryScorer: la heurística de contención de substrings.
// ──────────────────────────────────────────────────────────────────────────────

func TestScore_NombreYCategoria(t *testing.T) {
	scorer := matching.NameCategoryScorer{}
	q := matching.Query{Name: "Blue Banner", Category: "Signage"}

	tests := []struct {
		name     string
		cand     matching.Candidate
		expected int
	}{
		{
			name:     "nombre y categoría contienen el query",
			cand:     matching.Candidate{ID: "P2", Name: "Blue Banner Large", Category: "Signage"},
			expected: 80,
		},
		{
			name:     "solo el nombre contiene el query",
			cand:     matching.Candidate{ID: "P1", Name: "Blue Banner Small", Category: "Textiles"},
			expected: 50,
		},
		{
			name:     "solo la categoría contiene el query",
			cand:     matching.Candidate{ID: "P3", Name: "Red Flag", Category: "Outdoor Signage"},
			expected: 30,
		},
		{
			name:     "ningún match",
			cand:     matching.Candidate{ID: "P4", Name: "Red Flag", Category: "Textiles"},
			expected: 0,
		},
		{
			name:     "match insensible a mayúsculas",
			cand:     matching.Candidate{ID: "P5", Name: "BLUE BANNER XL", Category: "signage"},
			expected: 80,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, scorer.Score(tc.cand, q))
		})
	}
}

func TestScore_QueryVacioNoSuma(t *testing.T) {
	scorer := matching.NameCategoryScorer{}
	cand := matching.Candidate{ID: "P1", Name: "Blue Banner", Category: "Signage"}

	// Un término vacío jamás cuenta como "contenido en todo".
	assert.Equal(t, 50, scorer.Score(cand, matching.Query{Name: "Blue", Category: ""}))
	assert.Equal(t, 30, scorer.Score(cand, matching.Query{Name: "", Category: "Sign"}))
	assert.Equal(t, 0, scorer.Score(cand, matching.Query{}))
}

// ──────────────────────────────────────────────────────────────────────────────
// SelectBest: selección determinista con umbral.
// ──────────────────────────────────────────────────────────────────────────────

// El candidato con nombre+categoría (80) siempre gana al de solo nombre (50).
func TestSelectBest_DeterminismoDePuntaje(t *testing.T) {
	q := matching.Query{Name: "Blue Banner", Category: "Signage"}
	p1 := matching.Candidate{ID: "P1", Name: "Blue Banner Small", Category: "Textiles"} // 50
	p2 := matching.Candidate{ID: "P2", Name: "Blue Banner Large", Category: "Signage"}  // 80

	// El orden de entrada no debe importar.
	for _, cands := range [][]matching.Candidate{{p1, p2}, {p2, p1}} {
		best, score, ok := matching.SelectBest(cands, q, matching.NameCategoryScorer{})
		require.True(t, ok)
		assert.Equal(t, "P2", best.ID)
		assert.Equal(t, 80, score)
	}
}

// Un candidato por debajo del umbral (ej. 20) nunca se selecciona.
func TestSelectBest_UmbralMinimo(t *testing.T) {
	q := matching.Query{Name: "Blue Banner", Category: "Signage"}
	cands := []matching.Candidate{{ID: "P1", Name: "Red Flag", Category: "Textiles"}}

	_, _, ok := matching.SelectBest(cands, q, fixedScorer{score: 20})
	assert.False(t, ok, "un puntaje de 20 está bajo el umbral de 30 y debe descartarse")

	_, _, ok = matching.SelectBest(cands, q, matching.NameCategoryScorer{})
	assert.False(t, ok, "sin contención alguna no hay match")
}

// Empates en puntaje se resuelven por el menor ID interno, sin importar el
// orden en que el store devolvió los candidatos.
func TestSelectBest_EmpateResueltoPorID(t *testing.T) {
	q := matching.Query{Name: "Banner", Category: ""}
	a := matching.Candidate{ID: "A", Name: "Banner Uno", Category: "X"}
	b := matching.Candidate{ID: "B", Name: "Banner Dos", Category: "Y"}

	for _, cands := range [][]matching.Candidate{{a, b}, {b, a}} {
		best, score, ok := matching.SelectBest(cands, q, matching.NameCategoryScorer{})
		require.True(t, ok)
		assert.Equal(t, "A", best.ID)
		assert.Equal(t, 50, score)
	}
}

func TestSelectBest_SinCandidatos(t *testing.T) {
	_, _, ok := matching.SelectBest(nil, matching.Query{Name: "x"}, matching.NameCategoryScorer{})
	assert.False(t, ok)
}

// fixedScorer devuelve siempre el mismo puntaje (para probar el umbral).
type fixedScorer struct{ score int }

func (s fixedScorer) Score(matching.Candidate, matching.Query) int { return s.score }
