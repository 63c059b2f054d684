// Package sessionguard is the client-side session authority for the
// e-learning storefront: it decides, for every navigation and every outgoing
// API call, whether the current actor is who they claim to be and whether
// their role permits the requested capability.
//
// The package owns the single mutable session record ([Store]), reconciles it
// against the durable snapshot before every read ([Reconciler]), and turns
// required-role sets into access decisions ([Evaluator]). Outbound API calls
// are gated by [Gate], an [net/http.RoundTripper] that attaches the bearer
// token and collapses the session when the backend answers 401.
//
// # Architecture boundaries
//
// sessionguard is the public surface. It exposes [Authority], [Builder],
// [Config], and value types (Session, Decision, MetricsSnapshot). The durable
// snapshot codec and key-value store live in snapshot/; structural token
// checks live in token/. No component outside [Store] writes session fields,
// and no component outside [Reconciler] may declare a session invalid due to
// cross-store disagreement.
//
// # What this package must NOT do
//
//   - Verify token signatures. The client never holds the signing key; the
//     backend's 401 channel is the enforcement backstop.
//   - Merge conflicting session state. Divergence between the in-memory
//     record and the durable snapshot always fails closed to an empty
//     session, never to either side's role.
//   - Default a missing role. An absent role is RoleNone and never satisfies
//     a role requirement.
package sessionguard
