package templating

import "github.com/academicpa/skyflow-backoffice/internal/models"

// TaskSpec describes one templated task before materialization.
type TaskSpec struct {
	Title         string
	Description   string
	Priority      models.TaskPriority
	DaysFromStart int
}

// Fixed follow-up templates per plan tier. Order matters: tasks are created
// in template order and due dates are planStartDate + DaysFromStart.
var tierTemplates = map[string][]TaskSpec{
	"Básico": {
		{Title: "Llamada de bienvenida", Description: "Presentar el plan y confirmar datos de contacto", Priority: models.PriorityHigh, DaysFromStart: 1},
		{Title: "Enviar material de introducción", Description: "Guía de inicio y credenciales de acceso", Priority: models.PriorityMedium, DaysFromStart: 5},
		{Title: "Primera sesión de seguimiento", Priority: models.PriorityHigh, DaysFromStart: 9},
		{Title: "Revisión de avances", Priority: models.PriorityMedium, DaysFromStart: 14},
		{Title: "Encuesta de satisfacción inicial", Priority: models.PriorityLow, DaysFromStart: 21},
		{Title: "Cierre del primer mes", Description: "Resumen de resultados y próximos pasos", Priority: models.PriorityHigh, DaysFromStart: 30},
	},
	"Premium": {
		{Title: "Llamada de bienvenida", Description: "Presentar el plan y confirmar datos de contacto", Priority: models.PriorityHigh, DaysFromStart: 1},
		{Title: "Reunión de kickoff", Description: "Definir objetivos y calendario", Priority: models.PriorityHigh, DaysFromStart: 3},
		{Title: "Enviar material de introducción", Priority: models.PriorityMedium, DaysFromStart: 6},
		{Title: "Configuración de herramientas", Priority: models.PriorityMedium, DaysFromStart: 9},
		{Title: "Primera sesión de seguimiento", Priority: models.PriorityHigh, DaysFromStart: 13},
		{Title: "Revisión de avances", Priority: models.PriorityMedium, DaysFromStart: 17},
		{Title: "Sesión de optimización", Priority: models.PriorityMedium, DaysFromStart: 21},
		{Title: "Encuesta de satisfacción inicial", Priority: models.PriorityLow, DaysFromStart: 25},
		{Title: "Cierre del primer mes", Description: "Resumen de resultados y próximos pasos", Priority: models.PriorityHigh, DaysFromStart: 30},
	},
	"VIP": {
		{Title: "Llamada de bienvenida", Description: "Presentar el plan y confirmar datos de contacto", Priority: models.PriorityHigh, DaysFromStart: 1},
		{Title: "Asignar gestor dedicado", Priority: models.PriorityHigh, DaysFromStart: 2},
		{Title: "Reunión de kickoff", Description: "Definir objetivos y calendario", Priority: models.PriorityHigh, DaysFromStart: 4},
		{Title: "Enviar material de introducción", Priority: models.PriorityMedium, DaysFromStart: 6},
		{Title: "Configuración de herramientas", Priority: models.PriorityMedium, DaysFromStart: 9},
		{Title: "Sesión de estrategia personalizada", Priority: models.PriorityHigh, DaysFromStart: 12},
		{Title: "Primera sesión de seguimiento", Priority: models.PriorityHigh, DaysFromStart: 15},
		{Title: "Informe quincenal", Priority: models.PriorityMedium, DaysFromStart: 18},
		{Title: "Revisión de avances", Priority: models.PriorityMedium, DaysFromStart: 21},
		{Title: "Sesión de optimización", Priority: models.PriorityMedium, DaysFromStart: 24},
		{Title: "Encuesta de satisfacción inicial", Priority: models.PriorityLow, DaysFromStart: 27},
		{Title: "Cierre del primer mes", Description: "Resumen de resultados y próximos pasos", Priority: models.PriorityHigh, DaysFromStart: 30},
	},
}

// TemplateFor returns the ordered template for a plan tier name.
func TemplateFor(tier string) ([]TaskSpec, bool) {
	specs, ok := tierTemplates[tier]
	return specs, ok
}

// KnownTier reports whether a plan name has a follow-up template.
func KnownTier(tier string) bool {
	_, ok := tierTemplates[tier]
	return ok
}

// Tiers lists the known tier names (unordered).
func Tiers() []string {
	names := make([]string, 0, len(tierTemplates))
	for name := range tierTemplates {
		names = append(names, name)
	}
	return names
}
