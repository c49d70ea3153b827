package notifier

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsDest   = "org.freedesktop.Notifications"
	notificationsPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	notificationsMethod = "org.freedesktop.Notifications.Notify"

	appName            = "LittleBrother"
	expireTimeoutMilli = int32(10000)
)

// busCaller is the part of dbus.BusObject used to send notifications.
type busCaller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// DBusNotifier shows notifications on the desktop session bus of the
// process owner.
type DBusNotifier struct {
	conn *dbus.Conn
	obj  busCaller
}

func NewDBusNotifier() (*DBusNotifier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to session bus: %w", err)
	}

	return &DBusNotifier{
		conn: conn,
		obj:  conn.Object(notificationsDest, notificationsPath),
	}, nil
}

func (d *DBusNotifier) Notify(ctx context.Context, n Notification) error {
	icon, urgency := "dialog-information", byte(1)
	if n.Urgent {
		icon, urgency = "dialog-warning", byte(2)
	}

	call := d.obj.CallWithContext(ctx, notificationsMethod, 0,
		appName,
		uint32(0),
		icon,
		n.Title,
		n.Text,
		[]string{},
		map[string]dbus.Variant{"urgency": dbus.MakeVariant(urgency)},
		expireTimeoutMilli,
	)
	if call.Err != nil {
		return fmt.Errorf("send desktop notification: %w", call.Err)
	}
	return nil
}

func (d *DBusNotifier) Close() error {
	if d.conn == nil {
		return nil
	}
	return d.conn.Close()
}
