// Package git provides the Git operations needed to cut a release for
// the quickgo-release CLI.
//
// All Git operations are performed via os/exec calls to the git binary,
// rather than using a Git library like go-git. This approach:
//   - Avoids CGO dependencies (libgit2)
//   - Uses the exact same Git behavior the user sees in their terminal,
//     including credential helpers and hooks on push
//
// Process execution sits behind the Runner interface so the Client can be
// driven by a fake in tests. The Client turns each release step (stage,
// commit, tag, push) into exactly one git invocation.
package git
