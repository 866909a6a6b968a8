package utils

import (
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

const (
	ObjectCustomer    = "customer"
	ObjectStaff       = "staff"
	ObjectService     = "service"
	ObjectProduct     = "product"
	ObjectAppointment = "appointment"
	ObjectBilling     = "billing"
	ObjectReport      = "report"
	ObjectDashboard   = "dashboard"
	ObjectCarousel    = "carousel"
	ObjectReminder    = "reminder"
	ObjectUser        = "user"

	ActionRead  = "read"
	ActionWrite = "write"
)

// NewEnforcer builds the role policy set. Superadmins may do anything;
// admins run the salon but can only read user accounts.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	policies := [][]string{{"superadmin", "*", "*"}}
	for _, obj := range []string{
		ObjectCustomer, ObjectStaff, ObjectService, ObjectProduct, ObjectAppointment,
		ObjectBilling, ObjectReport, ObjectDashboard, ObjectCarousel, ObjectReminder,
	} {
		policies = append(policies, []string{"admin", obj, "*"})
	}
	policies = append(policies, []string{"admin", ObjectUser, ActionRead})

	if _, err := e.AddPolicies(policies); err != nil {
		return nil, err
	}
	return e, nil
}

// Authorize checks the caller's role against obj. GET and HEAD are reads,
// everything else is a write.
func Authorize(e *casbin.Enforcer, obj string) gin.HandlerFunc {
	return func(c *gin.Context) {
		act := ActionWrite
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			act = ActionRead
		}

		role := c.GetString(ContextRole)
		ok, err := e.Enforce(role, obj, act)
		if err != nil {
			zap.L().Error("authorization check failed", zap.Error(err))
			RespondWithError(c, http.StatusInternalServerError, "Authorization check failed")
			return
		}
		if !ok {
			RespondWithError(c, http.StatusForbidden, "Insufficient permissions")
			return
		}
		c.Next()
	}
}
