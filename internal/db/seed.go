package db

import (
	"fmt"

	"github.com/academicpa/skyflow-backoffice/internal/models"
	"gorm.io/gorm"
)

// seed inserts the baseline roles and the three-tier plan catalog. Idempotent:
// lookups are by unique name, re-running changes nothing.
func seed(db *gorm.DB) {
	for _, r := range []models.Role{
		{Name: "admin", Description: "Gestión completa del panel"},
		{Name: "client", Description: "Acceso de consulta"},
	} {
		role := r
		if err := db.Where(models.Role{Name: role.Name}).FirstOrCreate(&role).Error; err != nil {
			fmt.Println("[DB] seed role:", err)
		}
	}
	for _, p := range []models.Plan{
		{Name: "Básico", Description: "Seguimiento mensual esencial", Price: 150},
		{Name: "Premium", Description: "Seguimiento quincenal con kickoff", Price: 350},
		{Name: "VIP", Description: "Gestor dedicado y estrategia personalizada", Price: 700},
	} {
		plan := p
		if err := db.Where(models.Plan{Name: plan.Name}).FirstOrCreate(&plan).Error; err != nil {
			fmt.Println("[DB] seed plan:", err)
		}
	}
}
