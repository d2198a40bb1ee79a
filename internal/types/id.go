// README: Shared scalar types used across modules.
package types

// ID is an opaque identifier (session, interaction, user).
type ID string
