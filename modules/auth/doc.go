// Package auth implements account management: local email/password
// credentials, federated login through Auth0, server-side sessions, profile
// access and the single-use password reset flow.
//
// Services are small and composable: PasswordService for local credentials,
// OAuthService with a ProviderAdapter for federated identity, ResetService
// for the reset token lifecycle. Handler binds them all to HTTP routes and
// owns the response shapes; services never touch the ResponseWriter.
package auth
