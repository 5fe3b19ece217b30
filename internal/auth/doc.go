// Package auth implements authentication and authorization for the API.
//
// # Components
//
//   - password.go: bcrypt hashing and fail-closed verification
//   - tokens.go: signed bearer tokens carrying identity and role claims
//   - service.go: registration, login and user provisioning
//   - middleware.go: bearer-token extraction for protected routes
//   - policy.go: the role/operation/ownership rule table
//   - handlers.go: /auth/login and /auth/register endpoints
//
// Token verification is stateless: claims are reconstructed from the
// signed token on every request and the user record is not re-fetched.
// A user deactivated or deleted after issuance therefore keeps a
// working token until it expires.
package auth
