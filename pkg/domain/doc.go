/*
Package domain contains the core domain models for the tripkit client.

It defines the entities exchanged with the tours backend (User, Tour, Booking)
and the session primitives the rest of the SDK is built on (Credentials,
SessionState, operation Results). This package is kept pure and free of
external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - User: The authenticated profile record returned by the backend.
  - Credentials: The token + user pair held by the session and the store.
  - SessionState: The lifecycle phase of the authentication session.
  - Result: The success/failure value every session operation returns.
*/
package domain
