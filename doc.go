// Package authcore implements email/password authentication with signed
// expiring bearer tokens and server-side revocation.
//
// The engine is assembled through a builder:
//
//	engine, err := authcore.New().
//		WithConfig(cfg).
//		WithDirectory(directory).
//		Build()
//
// Every operation returns a uniform [Result] instead of bubbling raw
// collaborator errors: failures are classified by [Kind], logged with
// context server-side, and collapsed into a message safe to show callers.
// Authentication failures are deliberately indistinguishable between
// unknown-email and wrong-password, and recovery requests never reveal
// whether an email is registered.
//
// Storage and delivery are pluggable: the [UserDirectory] and
// [NotificationSender] interfaces have in-memory, Postgres, SMTP, and
// log-only implementations in the subpackages, and token revocation runs on
// either an in-process sharded map or Redis.
package authcore
