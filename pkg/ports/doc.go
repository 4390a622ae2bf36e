/*
Package ports defines the driven ports (interfaces) for the tripkit client.

These interfaces decouple the session core from external implementations,
allowing the same session manager to persist credentials to the local
filesystem, to Redis, or to memory in tests.

# Key Interfaces

  - CredentialStore: Responsible for persisting the session token and user record.
*/
package ports
