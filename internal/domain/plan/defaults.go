package plan

// defaultWeeks holds the stock 4-week program, one text per day. Each text
// becomes a single-item day on plan creation.
var defaultWeeks = []struct {
	title string
	days  [DaysPerWeek]string
}{
	{
		title: "Semana 01 - Base y técnica",
		days: [DaysPerWeek]string{
			"Dead hang 4x20s + retracción escapular 3x10",
			"Remo invertido 4x8 + hollow hold 3x20s",
			"Asistidas con banda 5x5 + negativas 3x3 (5s)",
			"Movilidad de hombro y core 15 min",
			"Isométricos arriba 4x10s + asistidas 4x6",
			"Remo anillas 4x8 + curl bíceps 3x12",
			"Descanso activo, caminar 20-30 min",
		},
	},
	{
		title: "Semana 02 - Fuerza inicial",
		days: [DaysPerWeek]string{
			"Dead hang 4x30s + retracción escapular 4x10",
			"Remo invertido 4x10 + plancha hollow 3x25s",
			"Asistidas banda ligera 5x4 + negativas 4x3",
			"Movilidad y activación de escápulas 15 min",
			"Isométricos mitad recorrido 4x8s + asistidas 4x5",
			"Remo supino 4x8 + curl bíceps 3x10",
			"Descanso activo",
		},
	},
	{
		title: "Semana 03 - Control y potencia",
		days: [DaysPerWeek]string{
			"Asistidas 6x3 + negativas 4x3 (6s)",
			"Remo pesado 4x6 + hollow rocks 3x15",
			"Isométricos arriba 5x8s + clusters 1-1-1",
			"Movilidad y compensación de hombro",
			"Asistidas mínima ayuda 5x3 + negativas 3x2",
			"Remo anillas 4x6 + face pulls 3x12",
			"Descanso",
		},
	},
	{
		title: "Semana 04 - Primer intento",
		days: [DaysPerWeek]string{
			"Test dominada + singles limpios 5x1",
			"Remo moderado 3x8 + core 3x20s",
			"Singles con pausa arriba 4x1 + negativas 2x2",
			"Movilidad y respiración",
			"Intentos controlados + series técnicas",
			"Trabajo ligero y estiramientos",
			"Descanso total",
		},
	},
}

// DefaultPlanTitle is the title assigned to freshly created plans.
const DefaultPlanTitle = "Plan 4 semanas - primera dominada"

// DefaultPlan returns a fresh copy of the stock 4-week program assigned to
// new students. Callers may mutate the result freely.
func DefaultPlan() Plan {
	p := Plan{Title: DefaultPlanTitle}
	for _, src := range defaultWeeks {
		w := Week{Title: src.title}
		for _, text := range src.days {
			w.Days = append(w.Days, Day{Items: []Item{{Exercise: text}}})
		}
		p.Weeks = append(p.Weeks, w)
	}
	return p
}
