// Package platform wraps the host's desktop notification service.
package platform

import "time"

// DefaultExpire is how long a notification stays up when Options.Expire is zero.
const DefaultExpire = 5 * time.Second

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName identifies the sender where the platform shows it.
	AppName string
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Category is a freedesktop category hint such as "transfer.complete".
	// Platforms without categories ignore it.
	Category string
	// Expire bounds how long the notification is shown.
	Expire time.Duration
}

func (o Options) appName() string {
	if o.AppName == "" {
		return "QuarkEdit"
	}
	return o.AppName
}

func (o Options) expire() time.Duration {
	if o.Expire <= 0 {
		return DefaultExpire
	}
	return o.Expire
}
