// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides user keys, roles and the route permission matrix.

# User Keys

User keys use HMAC-SHA256 over the user ID:

	key := auth.GenerateUserKey(userID, salt)
	err := auth.ValidateUserKey(userID, key, salt)

The key is URL-safe base64 without padding. It is deterministic, so it is
never stored; rotating USER_KEY_SALT revokes every key at once. Clients send
it as X-User-Key next to X-User-ID.

# Roles

	role       read  write  comment  admin
	viewer     x
	member     x     x
	executive  x     x      x
	admin      x     x      x        x

Row ownership (author or admin) is checked with CanModify.

# Request IDs

NewRequestID returns a UUID used to correlate request log lines.
*/
package auth
