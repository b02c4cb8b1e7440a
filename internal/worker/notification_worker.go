package worker

// NotificationRegistrar is satisfied by services that subscribe to the event
// dispatcher on startup.
type NotificationRegistrar interface {
	RegisterHandlers()
}

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(registrar NotificationRegistrar) {
	if registrar == nil {
		return
	}
	registrar.RegisterHandlers()
}
