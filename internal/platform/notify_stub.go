//go:build !linux && !darwin && !windows

package platform

// Notify does nothing where no notification service is wired.
func Notify(string, string, Options) error { return nil }
