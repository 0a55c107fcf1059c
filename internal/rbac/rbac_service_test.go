package rbac

import (
	"testing"

	"ecovale-hr/internal/domain"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	userRoles []UserRoleRow
	rolePerms []RolePermissionRow
}

func (m *mockRepo) GetUserRoles() ([]UserRoleRow, error) {
	return m.userRoles, nil
}

func (m *mockRepo) GetRolePermissions() ([]RolePermissionRow, error) {
	return m.rolePerms, nil
}

func (m *mockRepo) ListRoles() ([]RoleRow, error)                            { return nil, nil }
func (m *mockRepo) GetRoleByID(id string) (*RoleRow, error)                  { return nil, nil }
func (m *mockRepo) GetRoleByName(name string) (*RoleRow, error)              { return nil, nil }
func (m *mockRepo) CreateRole(role *RoleRow) error                           { return nil }
func (m *mockRepo) UpdateRole(role *RoleRow) error                           { return nil }
func (m *mockRepo) DeleteRole(id string) error                               { return nil }
func (m *mockRepo) ListPermissions() ([]PermissionRow, error)                { return nil, nil }
func (m *mockRepo) GetPermissionsByRoleID(roleID string) ([]PermissionRow, error) {
	return nil, nil
}
func (m *mockRepo) UpdateRolePermissions(roleID string, permIDs []string) error { return nil }

func newTestEnforcer(t *testing.T) *casbin.Enforcer {
	modelText := `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

	m, err := model.NewModelFromString(modelText)
	require.NoError(t, err)

	e, err := casbin.NewEnforcer(m)
	require.NoError(t, err)

	return e
}

func TestRBACService_Enforce(t *testing.T) {
	repo := &mockRepo{
		userRoles: []UserRoleRow{
			{UserID: "user-1", RoleID: "role-hr"},
		},
		rolePerms: []RolePermissionRow{
			{RoleID: "role-hr", Resource: "payrun", Action: "generate"},
			{RoleID: "role-hr", Resource: "employee", Action: "read"},
		},
	}
	service := NewService(repo, newTestEnforcer(t))

	allowed, err := service.Enforce(domain.EnforceRequest{
		UserID:   "user-1",
		Resource: "payrun",
		Action:   "generate",
	})
	assert.NoError(t, err)
	assert.True(t, allowed)

	denied, err := service.Enforce(domain.EnforceRequest{
		UserID:   "user-1",
		Resource: "payrun",
		Action:   "delete",
	})
	assert.NoError(t, err)
	assert.False(t, denied)

	stranger, err := service.Enforce(domain.EnforceRequest{
		UserID:   "user-2",
		Resource: "employee",
		Action:   "read",
	})
	assert.NoError(t, err)
	assert.False(t, stranger)
}

func TestRBACService_EnforcePicksUpPolicyChanges(t *testing.T) {
	repo := &mockRepo{
		userRoles: []UserRoleRow{
			{UserID: "user-1", RoleID: "role-staff"},
		},
	}
	service := NewService(repo, newTestEnforcer(t))

	allowed, err := service.Enforce(domain.EnforceRequest{
		UserID:   "user-1",
		Resource: "leave",
		Action:   "create",
	})
	require.NoError(t, err)
	assert.False(t, allowed)

	// Grant the permission between checks; no restart needed.
	repo.rolePerms = []RolePermissionRow{
		{RoleID: "role-staff", Resource: "leave", Action: "create"},
	}

	allowed, err = service.Enforce(domain.EnforceRequest{
		UserID:   "user-1",
		Resource: "leave",
		Action:   "create",
	})
	require.NoError(t, err)
	assert.True(t, allowed)
}
