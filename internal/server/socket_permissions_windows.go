//go:build windows

package server

// setSocketPermissions is a no-op on Windows; named pipe access is
// governed by the pipe security descriptor instead.
func setSocketPermissions(path string) {
}
