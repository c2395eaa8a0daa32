package matching

import (
	"strings"

	"golang.org/x/text/cases"
)

// Puntuación del matcher de productos.
const (
	ScoreNameContains     = 50 // el nombre del candidato contiene el nombre externo
	ScoreCategoryContains = 30 // la categoría del candidato contiene la categoría externa
	MinScore              = 30 // por debajo de esto el candidato se descarta
)

// Query es el par nombre/categoría que llega del ERP externo.
type Query struct {
	Name     string
	Category string
}

// Candidate es un candidato del catálogo interno a evaluar.
type Candidate struct {
	ID       string
	Name     string
	Category string
}

// Scorer es la estrategia de puntuación de candidatos. Se inyecta en el
// resolver de productos para poder probar y reemplazar la heurística sin
// tocar el orquestador.
type Scorer interface {
	Score(c Candidate, q Query) int
}

// NameCategoryScorer es la heurística por contención de substrings:
// +50 si el nombre contiene el nombre externo, +30 si la categoría contiene
// la categoría externa. Ambas comparaciones con case folding Unicode.
type NameCategoryScorer struct{}

var _ Scorer = NameCategoryScorer{}

// Score puntúa un candidato frente al query externo.
func (NameCategoryScorer) Score(c Candidate, q Query) int {
	score := 0
	if name := Normalize(q.Name); name != "" && strings.Contains(Normalize(c.Name), name) {
		score += ScoreNameContains
	}
	if cat := Normalize(q.Category); cat != "" && strings.Contains(Normalize(c.Category), cat) {
		score += ScoreCategoryContains
	}
	return score
}

// SelectBest aplica el scorer a todos los candidatos y devuelve el de puntaje
// estrictamente mayor que alcance MinScore. Los empates se resuelven por el
// menor ID interno: el orden del backing store no es estable, así que la
// clave secundaria determinista evita que dos runs elijan productos distintos.
func SelectBest(cands []Candidate, q Query, s Scorer) (Candidate, int, bool) {
	var best Candidate
	bestScore := 0
	found := false
	for _, c := range cands {
		score := s.Score(c, q)
		if score < MinScore {
			continue
		}
		switch {
		case !found, score > bestScore, score == bestScore && c.ID < best.ID:
			best, bestScore, found = c, score, true
		}
	}
	return best, bestScore, found
}

var foldCaser = cases.Fold()

// Normalize aplica case folding Unicode y recorta espacios, para que el match
// sea estable frente a mayúsculas/minúsculas y acentos de ancho distinto.
func Normalize(s string) string {
	return strings.TrimSpace(foldCaser.String(s))
}
