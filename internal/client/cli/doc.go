// Package cli provides the interactive SafeShare command-line client.
//
// It wires configuration, the local credential store, the backend API client,
// and an interactive REPL. Typical flow: log in (completing the MFA challenge
// when the account requires one), then upload, list, download, share, and
// delete encrypted files.
//
// Key features:
//   - Login with TOTP-based MFA, Register, Logout
//   - Upload / Download with client-side encryption
//   - Share management, including the admin share overview
//   - Admin user management (users / set-role)
//   - A built-in authenticator (setup-mfa / disable-mfa / totp)
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
