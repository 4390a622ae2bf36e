/*
Package session implements the authentication session lifecycle.

The Manager is the single source of truth for the process-wide session: it is
the only component permitted to mutate the token, the stored credentials, and
the API client's Authorization header, and it keeps the three in lockstep.

# Lifecycle

A Manager starts in the hydrating phase. Hydrate restores credentials from
the store; afterwards the session cycles between authenticated and
unauthenticated through Login, Register, Logout and the invalidation cascade
(a 401 on an authenticated request).

# Error discipline

Operations never propagate backend or storage errors to callers. Every
operation returns a domain.Result; transport failures surface a generic
connectivity message and never clear the session, while credential
rejections clear it.
*/
package session
