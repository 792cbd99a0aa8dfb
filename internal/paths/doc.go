// Package paths provides cross-platform path resolution for snapdir.
//
// The package wraps github.com/adrg/xdg for XDG Base Directory compliance.
// On Linux and macOS, paths follow XDG conventions (~/.config,
// ~/.local/state).
//
//	paths.ConfigDir()      // ~/.config/snapdir/
//	paths.DefaultLogFile() // ~/.local/state/snapdir/snapdir.log
//
// Configured source and location paths may start with ~, which
// [ExpandHome] resolves against the user's home directory.
package paths
