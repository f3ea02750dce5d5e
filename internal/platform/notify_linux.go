//go:build linux

package platform

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notifyDest = "org.freedesktop.Notifications"
	notifyPath = "/org/freedesktop/Notifications"
)

// hints builds the a{sv} hint map for the Notify call.
func (o Options) hints() map[string]dbus.Variant {
	h := map[string]dbus.Variant{}
	if o.Category != "" {
		h["category"] = dbus.MakeVariant(o.Category)
	}
	if o.IconPath != "" {
		h["image-path"] = dbus.MakeVariant(o.IconPath)
	}
	return h
}

// Notify sends a desktop notification over the session bus.
func Notify(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("session bus: %w", err)
	}
	defer conn.Close()

	obj := conn.Object(notifyDest, notifyPath)
	call := obj.Call(notifyDest+".Notify", 0,
		opts.appName(), uint32(0), opts.IconPath, title, body, []string{}, opts.hints(), int32(opts.expire().Milliseconds()))
	if call.Err != nil {
		return fmt.Errorf("notify: %w", call.Err)
	}
	return nil
}
