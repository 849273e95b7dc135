// Package policy wires the gate to the two-role model of the back office:
// admin users manage everything, client users read. Role checks sit at the
// handler boundary; the lifecycle manager stays role-agnostic.
package policy

import (
	"context"

	"github.com/academicpa/skyflow-backoffice/internal/gate"
	"github.com/academicpa/skyflow-backoffice/internal/models"
	"gorm.io/gorm"
)

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// RoleResolver looks up a user's role name, memoizing nothing: the back
// office runs at a scale where a per-request lookup is fine.
type RoleResolver struct {
	DB *gorm.DB
}

func NewRoleResolver(db *gorm.DB) *RoleResolver { return &RoleResolver{DB: db} }

func (r *RoleResolver) RoleOf(ctx context.Context, userID uint) string {
	var user models.User
	if err := r.DB.WithContext(ctx).Preload("Role").First(&user, "id = ?", userID).Error; err != nil {
		return ""
	}
	return user.Role.Name
}

func (r *RoleResolver) IsAdmin(ctx context.Context, userID uint) bool {
	return r.RoleOf(ctx, userID) == RoleAdmin
}

// AdminWritePolicy allows reads for any authenticated user and restricts
// writes (create/update/delete/transition) to admins.
type AdminWritePolicy struct {
	isAdmin func(ctx context.Context, userID uint) bool
}

func NewAdminWritePolicy(isAdmin func(ctx context.Context, userID uint) bool) *AdminWritePolicy {
	return &AdminWritePolicy{isAdmin: isAdmin}
}

func (p *AdminWritePolicy) Can(ctx context.Context, userID uint, action gate.Action, _ any) bool {
	switch action {
	case gate.ActionView, gate.ActionList:
		return true
	}
	return p.isAdmin(ctx, userID)
}

// NewGate builds the application gate with policies for every managed
// resource type.
func NewGate(db *gorm.DB) *gate.Gate[uint] {
	resolver := NewRoleResolver(db)
	writePolicy := NewAdminWritePolicy(resolver.IsAdmin)
	g := gate.NewGate[uint]()
	for _, resource := range []string{"client", "project", "task", "plan"} {
		g.Register(resource, writePolicy)
	}
	// Notifications are personal: any authenticated user manages their own.
	g.Register("notification", gate.PolicyFunc[uint](func(context.Context, uint, gate.Action, any) bool {
		return true
	}))
	return g
}
