package middleware

import "context"

// Role variants supplied by the identity collaborator. The core never
// branches on these beyond ownership checks; they exist only at this
// boundary.
const (
	RoleFarmer   = "FARMER"
	RoleCustomer = "CUSTOMER"
	RoleAgent    = "AGENT"
	RoleAdmin    = "ADMIN"
)

type contextKey string

const (
	userIDKey   contextKey = "user_id"
	userNameKey contextKey = "user_name"
	userRoleKey contextKey = "role"
)

func WithIdentity(ctx context.Context, userID, name, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, userNameKey, name)
	return context.WithValue(ctx, userRoleKey, role)
}

func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func UserNameFrom(ctx context.Context) string {
	name, _ := ctx.Value(userNameKey).(string)
	return name
}

func RoleFrom(ctx context.Context) string {
	role, _ := ctx.Value(userRoleKey).(string)
	return role
}
