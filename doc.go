// Package accounts provides the authentication and authorization core for a
// multi-tenant backend: bcrypt credential hashing, stateless HS256 bearer
// tokens, principal resolution, and composable access guards, plus the Bun
// repositories and HTTP controllers for the user and item resources built on
// top of that core.
//
// Authentication flow:
//   - Login verifies a submitted secret against the stored hash and mints a
//     self-contained token carrying the principal id and an absolute expiry.
//     Unknown identifiers and wrong passwords produce the same outcome so
//     callers cannot enumerate accounts.
//   - ResolvePrincipal turns a bearer token back into a live principal:
//     signature and expiry checks, subject parsing, then a storage lookup.
//     Every failure in that chain surfaces as unauthenticated at the boundary.
//
// Authorization:
//   - Guards are pure predicates over an already resolved principal.
//     RequireAdmin and RequireSelfOrAdmin cover the two-tier role model;
//     Authorize chains them and short-circuits on the first rejection.
//
// Tokens are stateless, so any process holding the signing key can verify a
// token minted elsewhere. There is no revocation list and no refresh flow;
// expiry is the only lifecycle event.
package accounts
